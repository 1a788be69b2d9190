package mixer

// Slider bounds for channel volumes, in percent.
const (
	MinVolume  = 0
	MaxVolume  = 150
	VolumeStep = 5
)

// Channel is one mixer channel as shown to the user.
type Channel struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

var allChannels = []Channel{
	{Code: "FL", Label: "Front Left"},
	{Code: "FR", Label: "Front Right"},
	{Code: "FC", Label: "Front Center"},
	{Code: "LFE", Label: "Low Frequency"},
	{Code: "RL", Label: "Rear Left"},
	{Code: "RR", Label: "Rear Right"},
	{Code: "SL", Label: "Side Left"},
	{Code: "SR", Label: "Side Right"},
}

// Channels returns the mixer channels for a filter channel count. Stereo and
// 5.1 layouts are prefixes of the 7.1 layout; any other count yields 7.1.
func Channels(channelCount int) []Channel {
	n := len(allChannels)
	switch channelCount {
	case 2:
		n = 2
	case 6:
		n = 6
	}
	out := make([]Channel, n)
	copy(out, allChannels[:n])
	return out
}

// Codes returns the channel codes for a channel count.
func Codes(channelCount int) []string {
	channels := Channels(channelCount)
	codes := make([]string, len(channels))
	for i, c := range channels {
		codes[i] = c.Code
	}
	return codes
}

// KnownChannel reports whether code is a channel of the 7.1 layout.
func KnownChannel(code string) bool {
	for _, c := range allChannels {
		if c.Code == code {
			return true
		}
	}
	return false
}

// ClampVolume limits v to the slider range.
func ClampVolume(v int) int {
	if v < MinVolume {
		return MinVolume
	}
	if v > MaxVolume {
		return MaxVolume
	}
	return v
}

// DefaultVolumes returns every 7.1 channel at 100%.
func DefaultVolumes() map[string]int {
	volumes := make(map[string]int, len(allChannels))
	for _, c := range allChannels {
		volumes[c.Code] = 100
	}
	return volumes
}
