package theme

import "os"

// Nerd Font icons
const (
	nerdIconSuccess    = "󰄬" // md-check (U+F012C)
	nerdIconError      = "\uea87" // cod-error (U+EA87)
	nerdIconWarning    = "\uf071" // fa-warning (U+F071)
	nerdIconInfo       = "󰋼" // md-information (U+F02FC)
	nerdIconSelect     = "󰁔" // md-arrow_right (U+F0054)
	nerdIconPinned     = "󰐃" // md-pin (U+F0403)
	nerdIconHeadphones = "󰋋" // md-headphones (U+F02CB)
	nerdIconOn         = "󰄲" // md-checkbox_marked (U+F0132)
	nerdIconOff        = "󰄱" // md-checkbox_blank_outline (U+F0131)
)

// ASCII fallback icons
const (
	asciiIconSuccess    = "✓"
	asciiIconError      = "✗"
	asciiIconWarning    = "⚠"
	asciiIconInfo       = "ℹ"
	asciiIconSelect     = ">"
	asciiIconPinned     = "*"
	asciiIconHeadphones = "~"
	asciiIconOn         = "[x]"
	asciiIconOff        = "[ ]"
)

// Active icon set.
var (
	IconSuccess    string
	IconError      string
	IconWarning    string
	IconInfo       string
	IconSelect     string
	IconPinned     string
	IconHeadphones string
	IconOn         string
	IconOff        string
)

func init() {
	useASCII := os.Getenv("SURROUND_ICONS") == "ascii"
	if !useASCII && os.Getenv("SURROUND_ICONS") == "" {
		useASCII = loadTUISettings().Icons == "ascii"
	}
	UseASCIIIcons(useASCII)
}

// UseASCIIIcons switches between the Nerd Font and the plain icon sets.
func UseASCIIIcons(ascii bool) {
	if ascii {
		IconSuccess = asciiIconSuccess
		IconError = asciiIconError
		IconWarning = asciiIconWarning
		IconInfo = asciiIconInfo
		IconSelect = asciiIconSelect
		IconPinned = asciiIconPinned
		IconHeadphones = asciiIconHeadphones
		IconOn = asciiIconOn
		IconOff = asciiIconOff
		return
	}
	IconSuccess = nerdIconSuccess
	IconError = nerdIconError
	IconWarning = nerdIconWarning
	IconInfo = nerdIconInfo
	IconSelect = nerdIconSelect
	IconPinned = nerdIconPinned
	IconHeadphones = nerdIconHeadphones
	IconOn = nerdIconOn
	IconOff = nerdIconOff
}
