package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/grovetools/surround/cli"
	"github.com/grovetools/surround/errors"
	"github.com/grovetools/surround/internal/controls"
	"github.com/grovetools/surround/logging"
	"github.com/grovetools/surround/pkg/mixer"
	"github.com/grovetools/surround/tui/theme"
	"github.com/spf13/cobra"
)

// NewMixerCmd creates the `mixer` command group.
func NewMixerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mixer",
		Short: "Show and edit the per-channel volumes of the virtual sink",
		Long: `The mixer holds one volume per surround channel, between 0 and 150 percent.

Volumes are stored in the "default" profile unless per-app profiles are
turned on for the foreground application (named with --app).

Examples:
  surroundctl mixer show
  surroundctl mixer set FL=110 FR=110
  surroundctl mixer per-app on --app "Game A"`,
	}
	cmd.AddCommand(newMixerShowCmd(), newMixerSetCmd(), newMixerPerAppCmd())
	return cmd
}

func newMixerShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the active mixer profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd, runtimeOptions{offline: true})
			if err != nil {
				return err
			}
			defer rt.Close()

			view := rt.session.Snapshot()
			if cli.GetOptions(cmd).JSONOutput {
				return writeJSON(cmd.OutOrStdout(), mixerOutput(view))
			}
			printMixer(cmd.OutOrStdout(), view)
			return nil
		},
	}
}

func newMixerSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set CHANNEL=VOLUME...",
		Short: "Set channel volumes in the active profile",
		Long: `Sets one or more channel volumes. Values outside 0..150 are clamped.

Examples:
  surroundctl mixer set LFE=130
  surroundctl mixer set SL=90 SR=90 --app "Game A"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			edits, err := parseVolumeArgs(args)
			if err != nil {
				return err
			}

			rt, err := openRuntime(cmd, runtimeOptions{})
			if err != nil {
				return err
			}
			defer rt.Close()

			for _, e := range edits {
				if err := rt.session.SetVolume(e.channel, e.value); err != nil {
					return err
				}
			}
			rt.session.FlushVolumes()

			view := rt.session.Snapshot()
			if cli.GetOptions(cmd).JSONOutput {
				return writeJSON(cmd.OutOrStdout(), mixerOutput(view))
			}
			logging.NewPrettyLogger().WithWriter(cmd.OutOrStdout()).
				Success(fmt.Sprintf("Updated mixer profile '%s'", view.Profile.Name))
			printMixer(cmd.OutOrStdout(), view)
			return nil
		},
	}
}

func newMixerPerAppCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "per-app on|off",
		Short:     "Turn the per-app profile on or off for the foreground application",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled, err := parseOnOff(args[0])
			if err != nil {
				return err
			}

			rt, err := openRuntime(cmd, runtimeOptions{})
			if err != nil {
				return err
			}
			defer rt.Close()

			value, err := rt.session.SetPerAppProfile(enabled)
			if err != nil {
				return err
			}
			view := rt.session.Snapshot()
			if cli.GetOptions(cmd).JSONOutput {
				return writeJSON(cmd.OutOrStdout(), mixerOutput(view))
			}
			state := "off"
			if value {
				state = "on"
			}
			out := mixerOutput(view)
			logging.NewPrettyLogger().WithWriter(cmd.OutOrStdout()).
				Success(fmt.Sprintf("Per-app profile %s for %s", state, out.Foreground))
			printMixer(cmd.OutOrStdout(), view)
			return nil
		},
	}
}

type volumeEdit struct {
	channel string
	value   int
}

// parseVolumeArgs parses CHANNEL=VOLUME pairs. Channel codes are case-insensitive.
func parseVolumeArgs(args []string) ([]volumeEdit, error) {
	edits := make([]volumeEdit, 0, len(args))
	for _, arg := range args {
		code, raw, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, errors.InvalidInput(fmt.Sprintf("expected CHANNEL=VOLUME, got %q", arg))
		}
		value, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
		if err != nil {
			return nil, errors.InvalidInput(fmt.Sprintf("volume for %s is not a number: %q", code, raw))
		}
		edits = append(edits, volumeEdit{channel: strings.ToUpper(strings.TrimSpace(code)), value: value})
	}
	return edits, nil
}

func parseOnOff(arg string) (bool, error) {
	switch strings.ToLower(arg) {
	case "on", "true", "1":
		return true, nil
	case "off", "false", "0":
		return false, nil
	}
	return false, errors.InvalidInput(fmt.Sprintf("expected on or off, got %q", arg))
}

// MixerOutput is the JSON form of the mixer.
type MixerOutput struct {
	Profile          string          `json:"profile"`
	UsePerAppProfile bool            `json:"usePerAppProfile"`
	Foreground       string          `json:"foreground,omitempty"`
	Channels         []ChannelOutput `json:"channels"`
}

// ChannelOutput is one slider.
type ChannelOutput struct {
	mixer.Channel
	Volume int `json:"volume"`
}

func mixerOutput(view controls.View) MixerOutput {
	out := MixerOutput{
		Profile:          view.Profile.Name,
		UsePerAppProfile: view.Profile.UsePerAppProfile,
		Channels:         []ChannelOutput{},
	}
	if view.Foreground != nil {
		out.Foreground = view.Foreground.DisplayName
	}
	for _, ch := range view.Channels {
		out.Channels = append(out.Channels, ChannelOutput{Channel: ch, Volume: channelVolume(view, ch.Code)})
	}
	return out
}

func channelVolume(view controls.View, code string) int {
	if v, ok := view.Volumes[code]; ok {
		return v
	}
	return view.Profile.Volume(code)
}

func printMixer(w io.Writer, view controls.View) {
	t := theme.DefaultTheme
	profile := view.Profile.Name
	if view.Profile.UsePerAppProfile {
		profile += " " + t.Muted.Render("(per-app)")
	}
	fmt.Fprintf(w, "%s %s\n", t.Muted.Render("Profile:"), t.Bold.Render(profile))

	bar := progress.New(progress.WithWidth(30), progress.WithoutPercentage(), progress.WithDefaultGradient())
	for _, ch := range view.Channels {
		v := channelVolume(view, ch.Code)
		fmt.Fprintf(w, "  %-4s %-14s %s %3d%%\n", ch.Code, ch.Label, bar.ViewAs(float64(v)/float64(mixer.MaxVolume)), v)
	}
}
