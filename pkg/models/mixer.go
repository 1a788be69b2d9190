package models

// DefaultProfileName is the global baseline mixer profile.
const DefaultProfileName = "default"

// DefaultVolume is reported for any channel a profile does not mention.
const DefaultVolume = 100

// MixerProfile is a named set of per-channel volume percentages.
type MixerProfile struct {
	Name             string         `json:"name" yaml:"name"`
	UsePerAppProfile *bool          `json:"usePerAppProfile,omitempty" yaml:"usePerAppProfile,omitempty"`
	Volumes          map[string]int `json:"volumes,omitempty" yaml:"volumes,omitempty"`
}

// Clone returns a deep copy of p.
func (p MixerProfile) Clone() MixerProfile {
	out := MixerProfile{Name: p.Name}
	if p.UsePerAppProfile != nil {
		out.UsePerAppProfile = BoolPtr(*p.UsePerAppProfile)
	}
	if p.Volumes != nil {
		out.Volumes = make(map[string]int, len(p.Volumes))
		for k, v := range p.Volumes {
			out.Volumes[k] = v
		}
	}
	return out
}

// PluginConfig is the persisted client configuration.
type PluginConfig struct {
	InstallationID      string                  `json:"installationId,omitempty" yaml:"installationId,omitempty"`
	NotesAcknowledgedV2 bool                    `json:"notesAcknowledgedV2" yaml:"notesAcknowledgedV2"`
	HrirName            string                  `json:"hrirName" yaml:"hrirName"`
	ChannelCount        int                     `json:"channelCount" yaml:"channelCount"`
	UsePerAppProfiles   *bool                   `json:"usePerAppProfiles,omitempty" yaml:"usePerAppProfiles,omitempty"`
	PerAppProfiles      map[string]MixerProfile `json:"perAppProfiles,omitempty" yaml:"perAppProfiles,omitempty"`
}

// Clone returns a deep copy of c.
func (c PluginConfig) Clone() PluginConfig {
	out := c
	if c.UsePerAppProfiles != nil {
		out.UsePerAppProfiles = BoolPtr(*c.UsePerAppProfiles)
	}
	if c.PerAppProfiles != nil {
		out.PerAppProfiles = make(map[string]MixerProfile, len(c.PerAppProfiles))
		for k, p := range c.PerAppProfiles {
			out.PerAppProfiles[k] = p.Clone()
		}
	}
	return out
}
