// Package mixer resolves which named volume profile is active and exposes its
// per-channel volumes.
package mixer

import (
	"github.com/grovetools/surround/pkg/models"
)

// Resolved is the active mixer profile after applying the selection rules.
type Resolved struct {
	Name             string         `json:"name"`
	UsePerAppProfile bool           `json:"usePerAppProfile"`
	Volumes          map[string]int `json:"volumes"`
}

// Volume returns the volume for a channel code, or 100 when the profile does
// not set it.
func (r Resolved) Volume(code string) int {
	if v, ok := r.Volumes[code]; ok {
		return v
	}
	return models.DefaultVolume
}

// VolumesFor returns a full volume map for the given channel codes.
func (r Resolved) VolumesFor(codes []string) map[string]int {
	out := make(map[string]int, len(codes))
	for _, code := range codes {
		out[code] = r.Volume(code)
	}
	return out
}

// Profile returns the resolved profile in its persisted form.
func (r Resolved) Profile() models.MixerProfile {
	p := models.MixerProfile{Name: r.Name, Volumes: make(map[string]int, len(r.Volumes))}
	for k, v := range r.Volumes {
		p.Volumes[k] = v
	}
	return p
}

// Resolve picks the active profile.
//
// With no foreground application the toggle is off and "default" is active.
// With the toggle on and a stored profile for the foreground application's
// name, that profile is active. Otherwise "default" is active. "default" never
// reports UsePerAppProfile, whatever is stored under that key.
func Resolve(foreground *models.RunningApp, profiles map[string]models.MixerProfile, usePerApp bool) Resolved {
	name := models.DefaultProfileName
	if foreground == nil || foreground.DisplayName == "" {
		usePerApp = false
	} else if usePerApp {
		if _, ok := profiles[foreground.DisplayName]; ok {
			name = foreground.DisplayName
		}
	}

	res := Resolved{Name: name, Volumes: map[string]int{}}
	if stored, ok := profiles[name]; ok {
		for k, v := range stored.Volumes {
			res.Volumes[k] = v
		}
	}
	if name != models.DefaultProfileName {
		res.UsePerAppProfile = usePerApp
	}
	return res
}

// StoredToggle returns the persisted per-app toggle for the foreground app.
// It is false when there is no foreground app or no stored flag.
func StoredToggle(foreground *models.RunningApp, profiles map[string]models.MixerProfile) bool {
	if foreground == nil || foreground.DisplayName == "" {
		return false
	}
	if foreground.DisplayName == models.DefaultProfileName {
		return false
	}
	p, ok := profiles[foreground.DisplayName]
	if !ok || p.UsePerAppProfile == nil {
		return false
	}
	return *p.UsePerAppProfile
}

// ResolveForConfig resolves the active profile from a persisted configuration.
func ResolveForConfig(foreground *models.RunningApp, cfg models.PluginConfig) Resolved {
	return Resolve(foreground, cfg.PerAppProfiles, StoredToggle(foreground, cfg.PerAppProfiles))
}

// Toggle applies a user request to turn per-app profiles on or off. It returns
// the clamped toggle value and the profile entry to persist for the foreground
// app; with no foreground app the request is a no-op and the entry is nil.
func Toggle(foreground *models.RunningApp, enabled bool) (bool, *models.MixerProfile) {
	if foreground == nil || foreground.DisplayName == "" {
		return false, nil
	}
	return enabled, &models.MixerProfile{
		Name:             foreground.DisplayName,
		UsePerAppProfile: models.BoolPtr(enabled),
	}
}

// WithVolume returns the profile that results from setting one channel of the
// currently displayed volumes.
func WithVolume(name string, displayed map[string]int, channel string, value int) models.MixerProfile {
	volumes := make(map[string]int, len(displayed)+1)
	for k, v := range displayed {
		volumes[k] = v
	}
	volumes[channel] = ClampVolume(value)
	return models.MixerProfile{Name: name, Volumes: volumes}
}
