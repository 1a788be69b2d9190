package mixer

import (
	"testing"

	"github.com/grovetools/surround/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func profiles() map[string]models.MixerProfile {
	return map[string]models.MixerProfile{
		"default": {
			Name:             "default",
			UsePerAppProfile: models.BoolPtr(true),
			Volumes:          map[string]int{"FL": 90, "FR": 90},
		},
		"Game A": {
			Name:             "Game A",
			UsePerAppProfile: models.BoolPtr(true),
			Volumes:          map[string]int{"FL": 120, "LFE": 150},
		},
	}
}

func TestResolve(t *testing.T) {
	gameA := &models.RunningApp{DisplayName: "Game A"}
	gameB := &models.RunningApp{DisplayName: "Game B"}

	tests := []struct {
		name       string
		foreground *models.RunningApp
		usePerApp  bool
		wantName   string
		wantToggle bool
		wantFL     int
	}{
		{"no foreground forces default", nil, true, "default", false, 90},
		{"empty display name is no foreground", &models.RunningApp{}, true, "default", false, 90},
		{"toggle off uses default", gameA, false, "default", false, 90},
		{"toggle on with stored profile", gameA, true, "Game A", true, 120},
		{"toggle on without stored profile", gameB, true, "default", false, 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(tt.foreground, profiles(), tt.usePerApp)
			assert.Equal(t, tt.wantName, res.Name)
			assert.Equal(t, tt.wantToggle, res.UsePerAppProfile)
			assert.Equal(t, tt.wantFL, res.Volume("FL"))
		})
	}
}

func TestResolveDefaultNeverReportsPerApp(t *testing.T) {
	// A foreground app literally named "default" still resolves to the baseline.
	res := Resolve(&models.RunningApp{DisplayName: "default"}, profiles(), true)
	assert.Equal(t, "default", res.Name)
	assert.False(t, res.UsePerAppProfile)

	res = Resolve(nil, profiles(), true)
	assert.False(t, res.UsePerAppProfile)
}

func TestResolvedVolumeDefaults(t *testing.T) {
	res := Resolve(nil, nil, false)
	assert.Equal(t, "default", res.Name)
	for _, code := range Codes(8) {
		assert.Equal(t, 100, res.Volume(code), code)
	}

	res = Resolve(&models.RunningApp{DisplayName: "Game A"}, profiles(), true)
	got := res.VolumesFor(Codes(8))
	assert.Equal(t, 120, got["FL"])
	assert.Equal(t, 100, got["FR"])
	assert.Equal(t, 150, got["LFE"])
	assert.Len(t, got, 8)
}

func TestResolveDoesNotAliasStoredVolumes(t *testing.T) {
	stored := profiles()
	res := Resolve(nil, stored, false)
	res.Volumes["FL"] = 1
	assert.Equal(t, 90, stored["default"].Volumes["FL"])
}

func TestStoredToggle(t *testing.T) {
	p := profiles()
	assert.True(t, StoredToggle(&models.RunningApp{DisplayName: "Game A"}, p))
	assert.False(t, StoredToggle(&models.RunningApp{DisplayName: "default"}, p))
	assert.False(t, StoredToggle(&models.RunningApp{DisplayName: "Other"}, p))
	assert.False(t, StoredToggle(nil, p))

	cfg := models.PluginConfig{PerAppProfiles: p}
	res := ResolveForConfig(&models.RunningApp{DisplayName: "Game A"}, cfg)
	assert.Equal(t, "Game A", res.Name)
	assert.True(t, res.UsePerAppProfile)
}

func TestToggle(t *testing.T) {
	on, entry := Toggle(nil, true)
	assert.False(t, on)
	assert.Nil(t, entry)

	on, entry = Toggle(&models.RunningApp{DisplayName: "Game A"}, true)
	assert.True(t, on)
	require.NotNil(t, entry)
	assert.Equal(t, "Game A", entry.Name)
	require.NotNil(t, entry.UsePerAppProfile)
	assert.True(t, *entry.UsePerAppProfile)
	assert.Nil(t, entry.Volumes)
}

func TestWithVolume(t *testing.T) {
	displayed := map[string]int{"FL": 100, "FR": 80}
	p := WithVolume("Game A", displayed, "FL", 200)

	assert.Equal(t, "Game A", p.Name)
	assert.Equal(t, 150, p.Volumes["FL"])
	assert.Equal(t, 80, p.Volumes["FR"])
	assert.Equal(t, 100, displayed["FL"])
}

func TestChannels(t *testing.T) {
	assert.Equal(t, []string{"FL", "FR"}, Codes(2))
	assert.Equal(t, []string{"FL", "FR", "FC", "LFE", "RL", "RR"}, Codes(6))
	assert.Equal(t, []string{"FL", "FR", "FC", "LFE", "RL", "RR", "SL", "SR"}, Codes(8))
	assert.Len(t, Channels(0), 8)
	assert.True(t, KnownChannel("LFE"))
	assert.False(t, KnownChannel("XX"))
	assert.Equal(t, 0, ClampVolume(-5))
	assert.Equal(t, 150, ClampVolume(151))
}
