package controls

import (
	"context"
	"testing"
	"time"

	"github.com/grovetools/surround/errors"
	"github.com/grovetools/surround/pkg/debounce"
	"github.com/grovetools/surround/pkg/models"
	"github.com/grovetools/surround/pkg/pluginconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialProfileIsNotPushed(t *testing.T) {
	h := newHarness(t, nil)

	view := h.session.Snapshot()
	assert.Equal(t, models.DefaultProfileName, view.Profile.Name)
	assert.Len(t, view.Channels, 8)
	assert.Len(t, view.Volumes, 8)
	assert.Equal(t, 100, view.Volumes["LFE"])
	assert.Empty(t, h.fake.Profiles())
}

func TestSetVolumeDebounces(t *testing.T) {
	h := newHarness(t, nil)

	require.NoError(t, h.session.SetVolume("FL", 110))
	require.NoError(t, h.session.SetVolume("FL", 120))
	assert.Equal(t, 120, h.session.Snapshot().Volumes["FL"])
	assert.Empty(t, h.fake.Profiles())

	h.clock.Advance(debounce.DefaultQuietPeriod)

	profiles := h.waitProfiles(t, 1)
	require.Len(t, profiles, 1)
	assert.Equal(t, models.DefaultProfileName, profiles[0].Name)
	assert.Equal(t, 120, profiles[0].Volumes["FL"])
	assert.Equal(t, 100, profiles[0].Volumes["FR"])

	stored := h.cfg.Get().PerAppProfiles[models.DefaultProfileName]
	assert.Equal(t, 120, stored.Volumes["FL"])
	assert.Equal(t, 120, h.session.Snapshot().Profile.Volumes["FL"])
}

func TestEditOnAnotherChannelCommitsPending(t *testing.T) {
	h := newHarness(t, nil)

	require.NoError(t, h.session.SetVolume("FL", 90))
	require.NoError(t, h.session.SetVolume("FR", 80))

	profiles := h.waitProfiles(t, 1)
	assert.Equal(t, 90, profiles[0].Volumes["FL"])

	h.clock.Advance(debounce.DefaultQuietPeriod)
	profiles = h.waitProfiles(t, 2)
	assert.Equal(t, 80, profiles[1].Volumes["FR"])
	assert.Equal(t, 90, profiles[1].Volumes["FL"])
}

func TestSetVolumeValidates(t *testing.T) {
	h := newHarness(t, func(cfg *pluginconfig.Store) {
		cfg.Update(pluginconfig.Patch{ChannelCount: models.IntPtr(2)})
	})

	err := h.session.SetVolume("XX", 50)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
	err = h.session.SetVolume("SL", 50)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	require.NoError(t, h.session.SetVolume("FR", 200))
	assert.Equal(t, 150, h.session.Snapshot().Volumes["FR"])
	require.NoError(t, h.session.SetVolume("FR", -3))
	assert.Equal(t, 0, h.session.Snapshot().Volumes["FR"])
}

func TestWritesFollowCommitOrder(t *testing.T) {
	h := newHarness(t, nil)

	for i, ch := range []string{"FL", "FR", "FL", "FR"} {
		require.NoError(t, h.session.SetVolume(ch, i+1))
	}
	require.NoError(t, h.session.Close())

	profiles := h.fake.Profiles()
	require.Len(t, profiles, 4)
	assert.Equal(t, 1, profiles[0].Volumes["FL"])
	assert.Equal(t, 2, profiles[1].Volumes["FR"])
	assert.Equal(t, 3, profiles[2].Volumes["FL"])
	assert.Equal(t, 4, profiles[3].Volumes["FR"])
}

func TestCloseFlushesPendingVolume(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.session.SetVolume("FC", 60))

	require.NoError(t, h.session.Close())

	profiles := h.fake.Profiles()
	require.Len(t, profiles, 1)
	assert.Equal(t, 60, profiles[0].Volumes["FC"])
	assert.Equal(t, 60, h.cfg.Get().PerAppProfiles[models.DefaultProfileName].Volumes["FC"])

	assert.Error(t, h.session.SetVolume("FC", 70))
	assert.Len(t, h.fake.Profiles(), 1)
}

func TestPerAppProfileWithoutForeground(t *testing.T) {
	h := newHarness(t, nil)

	value, err := h.session.SetPerAppProfile(true)
	assert.False(t, value)
	assert.True(t, errors.Is(err, errors.ErrCodeNoForegroundApp))
	assert.Empty(t, h.cfg.Get().PerAppProfiles)
	assert.Equal(t, models.DefaultProfileName, h.session.Snapshot().Profile.Name)
}

func TestPerAppProfileToggle(t *testing.T) {
	h := newHarness(t, nil)
	h.fg.Set("Game A")
	require.NoError(t, h.session.Refresh(context.Background()))

	value, err := h.session.SetPerAppProfile(true)
	require.NoError(t, err)
	assert.True(t, value)

	view := h.session.Snapshot()
	assert.Equal(t, "Game A", view.Profile.Name)
	assert.True(t, view.Profile.UsePerAppProfile)
	stored := h.cfg.Get().PerAppProfiles["Game A"]
	require.NotNil(t, stored.UsePerAppProfile)
	assert.True(t, *stored.UsePerAppProfile)
	profiles := h.waitProfiles(t, 1)
	assert.Equal(t, "Game A", profiles[0].Name)

	require.NoError(t, h.session.SetVolume("FL", 70))
	h.clock.Advance(debounce.DefaultQuietPeriod)
	profiles = h.waitProfiles(t, 2)
	assert.Equal(t, "Game A", profiles[1].Name)
	stored = h.cfg.Get().PerAppProfiles["Game A"]
	assert.Equal(t, 70, stored.Volumes["FL"])
	require.NotNil(t, stored.UsePerAppProfile)
	assert.True(t, *stored.UsePerAppProfile)

	value, err = h.session.SetPerAppProfile(false)
	require.NoError(t, err)
	assert.False(t, value)
	view = h.session.Snapshot()
	assert.Equal(t, models.DefaultProfileName, view.Profile.Name)
	assert.False(t, view.Profile.UsePerAppProfile)
	profiles = h.waitProfiles(t, 3)
	assert.Equal(t, models.DefaultProfileName, profiles[2].Name)
}

func TestForegroundChangeSwitchesProfile(t *testing.T) {
	h := newHarness(t, func(cfg *pluginconfig.Store) {
		cfg.Update(pluginconfig.Patch{PerAppProfiles: map[string]models.MixerProfile{
			"Game A": {Name: "Game A", UsePerAppProfile: models.BoolPtr(true), Volumes: map[string]int{"FL": 80}},
		}})
	})
	require.NoError(t, h.session.Refresh(context.Background()))
	require.Equal(t, models.DefaultProfileName, h.session.Snapshot().Profile.Name)

	require.NoError(t, h.session.SetVolume("FL", 50))
	h.fg.Set("Game A")
	require.NoError(t, h.session.Refresh(context.Background()))

	view := h.session.Snapshot()
	assert.Equal(t, "Game A", view.Profile.Name)
	assert.Equal(t, 80, view.Volumes["FL"])
	require.NotNil(t, view.Foreground)
	assert.Equal(t, "Game A", view.Foreground.DisplayName)

	profiles := h.waitProfiles(t, 2)
	assert.Equal(t, models.DefaultProfileName, profiles[0].Name)
	assert.Equal(t, 50, profiles[0].Volumes["FL"])
	assert.Equal(t, "Game A", profiles[1].Name)
	assert.Equal(t, 80, profiles[1].Volumes["FL"])
	assert.Equal(t, 50, h.cfg.Get().PerAppProfiles[models.DefaultProfileName].Volumes["FL"])
}

func TestWatchConfigReloadsSettings(t *testing.T) {
	h := newHarness(t, nil, func(o *Options) {
		o.WatchConfig = true
		o.RefreshInterval = time.Hour
	})
	require.NoError(t, h.session.Start(context.Background()))
	// Give the watcher time to register before the file changes.
	time.Sleep(100 * time.Millisecond)

	other, err := pluginconfig.Open(h.cfg.Path())
	require.NoError(t, err)
	require.NoError(t, <-other.Update(pluginconfig.Patch{ChannelCount: models.IntPtr(6)}))
	require.NoError(t, other.Close())

	require.Eventually(t, func() bool {
		return len(h.session.Snapshot().Channels) == 6
	}, 3*time.Second, 20*time.Millisecond)
	assert.Len(t, h.session.Snapshot().Volumes, 6)
}
