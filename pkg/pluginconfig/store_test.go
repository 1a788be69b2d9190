package pluginconfig

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/grovetools/surround/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func openStore(t *testing.T) (*Store, string) {
	t.Helper()
	t.Setenv("SURROUND_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "plugin.yml")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func readBack(t *testing.T, path string) models.PluginConfig {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var cfg models.PluginConfig
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	return cfg
}

func TestOpenInitializesFile(t *testing.T) {
	s, path := openStore(t)

	cfg := s.Get()
	_, err := uuid.Parse(cfg.InstallationID)
	require.NoError(t, err)
	assert.Equal(t, DefaultChannelCount, cfg.ChannelCount)
	assert.False(t, cfg.NotesAcknowledgedV2)

	onDisk := readBack(t, path)
	assert.Equal(t, cfg.InstallationID, onDisk.InstallationID)
}

func TestOpenKeepsExistingValues(t *testing.T) {
	t.Setenv("SURROUND_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "plugin.yml")
	require.NoError(t, os.WriteFile(path, []byte(`installationId: fixed-id
notesAcknowledgedV2: true
hrirName: Atmos
channelCount: 6
perAppProfiles:
  Game A:
    name: wrong
    usePerAppProfile: true
    volumes: {FL: 80}
`), 0644))

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	cfg := s.Get()
	assert.Equal(t, "fixed-id", cfg.InstallationID)
	assert.True(t, cfg.NotesAcknowledgedV2)
	assert.Equal(t, "Atmos", cfg.HrirName)
	assert.Equal(t, 6, cfg.ChannelCount)
	assert.Equal(t, "Game A", cfg.PerAppProfiles["Game A"].Name, "key and name agree")
}

func TestOpenRejectsGarbage(t *testing.T) {
	t.Setenv("SURROUND_HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "plugin.yml")
	require.NoError(t, os.WriteFile(path, []byte("perAppProfiles: [1, 2"), 0644))

	_, err := Open(path)
	assert.Error(t, err)
}

func TestGetReturnsCopy(t *testing.T) {
	s, _ := openStore(t)
	require.NoError(t, <-s.Update(Patch{PerAppProfiles: map[string]models.MixerProfile{
		"default": {Name: "default", Volumes: map[string]int{"FL": 90}},
	}}))

	cfg := s.Get()
	cfg.PerAppProfiles["default"].Volumes["FL"] = 1
	assert.Equal(t, 90, s.Get().PerAppProfiles["default"].Volumes["FL"])
}

func TestUpdateMergesProfilesByKey(t *testing.T) {
	s, path := openStore(t)

	require.NoError(t, <-s.Update(Patch{PerAppProfiles: map[string]models.MixerProfile{
		"Game A": {Name: "Game A", Volumes: map[string]int{"FL": 70, "FR": 75}},
	}}))
	// The per-app toggle writes only the flag; stored volumes survive.
	require.NoError(t, <-s.Update(Patch{PerAppProfiles: map[string]models.MixerProfile{
		"Game A": {Name: "Game A", UsePerAppProfile: models.BoolPtr(true)},
		"Music":  {Name: "ignored", UsePerAppProfile: models.BoolPtr(false)},
	}}))

	cfg := readBack(t, path)
	game := cfg.PerAppProfiles["Game A"]
	require.NotNil(t, game.UsePerAppProfile)
	assert.True(t, *game.UsePerAppProfile)
	assert.Equal(t, map[string]int{"FL": 70, "FR": 75}, game.Volumes)
	assert.Equal(t, "Music", cfg.PerAppProfiles["Music"].Name)
}

func TestUpdateScalars(t *testing.T) {
	s, _ := openStore(t)
	hrir := "Steam"
	require.NoError(t, <-s.Update(Patch{NotesAcknowledgedV2: models.BoolPtr(true), HrirName: &hrir}))

	cfg := s.Get()
	assert.True(t, cfg.NotesAcknowledgedV2)
	assert.Equal(t, "Steam", cfg.HrirName)
	assert.Equal(t, DefaultChannelCount, cfg.ChannelCount)
}

func TestUpdatesLandInSubmissionOrder(t *testing.T) {
	s, path := openStore(t)

	var results []<-chan error
	for v := 0; v <= 100; v += 10 {
		results = append(results, s.Update(Patch{PerAppProfiles: map[string]models.MixerProfile{
			"default": {Name: "default", Volumes: map[string]int{"FL": v}},
		}}))
	}
	for _, r := range results {
		require.NoError(t, <-r)
	}
	require.NoError(t, s.Flush())
	assert.Equal(t, 100, readBack(t, path).PerAppProfiles["default"].Volumes["FL"])
}

func TestConcurrentUpdates(t *testing.T) {
	s, path := openStore(t)

	var wg sync.WaitGroup
	channels := []string{"FL", "FR", "FC", "LFE", "RL", "RR", "SL", "SR"}
	for i, ch := range channels {
		wg.Add(1)
		go func(ch string, v int) {
			defer wg.Done()
			<-s.Update(Patch{PerAppProfiles: map[string]models.MixerProfile{
				ch: {Volumes: map[string]int{ch: v}},
			}})
		}(ch, i)
	}
	wg.Wait()
	require.NoError(t, s.Flush())
	assert.Len(t, readBack(t, path).PerAppProfiles, len(channels))
}

func TestUpdateAfterClose(t *testing.T) {
	s, _ := openStore(t)
	require.NoError(t, s.Close())
	assert.Error(t, <-s.Update(Patch{NotesAcknowledgedV2: models.BoolPtr(true)}))
	assert.NoError(t, s.Close())
}

func TestMergeDoesNotAlias(t *testing.T) {
	base := models.PluginConfig{PerAppProfiles: map[string]models.MixerProfile{
		"default": {Name: "default", Volumes: map[string]int{"FL": 10}},
	}}
	patch := Patch{PerAppProfiles: map[string]models.MixerProfile{
		"default": {Volumes: map[string]int{"FL": 20}},
	}}

	out := Merge(base, patch)
	patch.PerAppProfiles["default"].Volumes["FL"] = 99

	assert.Equal(t, 10, base.PerAppProfiles["default"].Volumes["FL"])
	assert.Equal(t, 20, out.PerAppProfiles["default"].Volumes["FL"])
}

func TestReload(t *testing.T) {
	s, path := openStore(t)
	cfg := s.Get()

	changed, err := s.Reload()
	require.NoError(t, err)
	assert.False(t, changed)

	cfg.HrirName = "External"
	data, err := yaml.Marshal(cfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	changed, err = s.Reload()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "External", s.Get().HrirName)
}

func TestWatchReloadsExternalEdits(t *testing.T) {
	s, path := openStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloads := make(chan models.PluginConfig, 4)
	watchDone := make(chan error, 1)
	go func() {
		watchDone <- s.Watch(ctx, 20*time.Millisecond, func(cfg models.PluginConfig) { reloads <- cfg })
	}()
	// Give the watcher time to register before editing.
	time.Sleep(100 * time.Millisecond)

	cfg := s.Get()
	cfg.NotesAcknowledgedV2 = true
	data, err := yaml.Marshal(cfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	select {
	case got := <-reloads:
		assert.True(t, got.NotesAcknowledgedV2)
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not reload")
	}

	cancel()
	assert.NoError(t, <-watchDone)
}
