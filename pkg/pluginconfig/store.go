// Package pluginconfig persists the user's surround preferences: the notes
// acknowledgement, the selected HRIR, the channel layout and the mixer
// profiles.
package pluginconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/grovetools/surround/errors"
	"github.com/grovetools/surround/logging"
	"github.com/grovetools/surround/pkg/models"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefaultChannelCount is the 7.1 layout.
const DefaultChannelCount = 8

// Patch is a partial update. Nil fields are left untouched. Profiles merge by
// key: an entry's non-nil UsePerAppProfile and Volumes replace the stored
// ones, nil fields keep them.
type Patch struct {
	NotesAcknowledgedV2 *bool
	HrirName            *string
	ChannelCount        *int
	UsePerAppProfiles   *bool
	PerAppProfiles      map[string]models.MixerProfile
}

// Store holds the configuration in memory and writes it back to a YAML file
// from a single background writer.
type Store struct {
	path   string
	logger *logrus.Entry

	mu      sync.RWMutex
	cfg     models.PluginConfig
	queued  []chan error
	pending int
	lastErr error
	settled *sync.Cond
	closed  bool

	wake chan struct{}
	done chan struct{}
}

// Open loads the configuration at path, creating it when missing. A fresh
// configuration gets an installation id and the default channel count.
func Open(path string) (*Store, error) {
	cfg, err := readConfig(path)
	if err != nil {
		return nil, err
	}

	normalized := normalize(cfg)
	s := &Store{
		path:   path,
		logger: logging.NewLogger("pluginconfig"),
		cfg:    normalized,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	s.settled = sync.NewCond(&s.mu)

	if normalized.InstallationID != cfg.InstallationID || normalized.ChannelCount != cfg.ChannelCount {
		if err := writeConfig(path, normalized); err != nil {
			return nil, err
		}
		s.logger.WithField("path", path).Info("Initialized plugin config")
	}

	go s.writer()
	return s, nil
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Get returns a copy of the current configuration.
func (s *Store) Get() models.PluginConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Clone()
}

// Update merges p into the configuration and schedules a write. The change is
// visible to Get immediately; the returned channel receives the outcome of the
// file write and is then closed. Writes land in submission order.
func (s *Store) Update(p Patch) <-chan error {
	result := make(chan error, 1)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		result <- errors.New(errors.ErrCodeInternal, "plugin config store is closed")
		close(result)
		return result
	}
	s.cfg = Merge(s.cfg, p)
	s.queued = append(s.queued, result)
	s.pending++
	select {
	case s.wake <- struct{}{}:
	default:
	}
	s.mu.Unlock()
	return result
}

// Merge applies p to cfg and returns the result. cfg is not modified.
func Merge(cfg models.PluginConfig, p Patch) models.PluginConfig {
	out := cfg.Clone()
	if p.NotesAcknowledgedV2 != nil {
		out.NotesAcknowledgedV2 = *p.NotesAcknowledgedV2
	}
	if p.HrirName != nil {
		out.HrirName = *p.HrirName
	}
	if p.ChannelCount != nil {
		out.ChannelCount = *p.ChannelCount
	}
	if p.UsePerAppProfiles != nil {
		out.UsePerAppProfiles = models.BoolPtr(*p.UsePerAppProfiles)
	}
	if len(p.PerAppProfiles) > 0 && out.PerAppProfiles == nil {
		out.PerAppProfiles = make(map[string]models.MixerProfile, len(p.PerAppProfiles))
	}
	for key, incoming := range p.PerAppProfiles {
		incoming = incoming.Clone()
		stored, ok := out.PerAppProfiles[key]
		if !ok {
			incoming.Name = key
			out.PerAppProfiles[key] = incoming
			continue
		}
		stored.Name = key
		if incoming.UsePerAppProfile != nil {
			stored.UsePerAppProfile = incoming.UsePerAppProfile
		}
		if incoming.Volumes != nil {
			stored.Volumes = incoming.Volumes
		}
		out.PerAppProfiles[key] = stored
	}
	return out
}

// Reload replaces the in-memory configuration with the file contents. It
// reports whether anything changed.
func (s *Store) Reload() (bool, error) {
	cfg, err := readConfig(s.path)
	if err != nil {
		return false, err
	}
	cfg = normalize(cfg)

	s.mu.Lock()
	defer s.mu.Unlock()
	if equal(s.cfg, cfg) {
		return false, nil
	}
	s.cfg = cfg
	return true, nil
}

// Flush blocks until every queued write has been attempted and returns the
// outcome of the most recent one.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.pending > 0 {
		s.settled.Wait()
	}
	return s.lastErr
}

// Close waits for pending writes and stops the writer.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.wake)
	s.mu.Unlock()

	<-s.done
	return nil
}

func (s *Store) writer() {
	defer close(s.done)
	for range s.wake {
		s.writePending()
	}
	s.writePending()
}

// writePending writes the latest state once for every request queued so far.
// The latest state contains every queued change, so order is preserved.
func (s *Store) writePending() {
	s.mu.Lock()
	waiters := s.queued
	s.queued = nil
	snapshot := s.cfg.Clone()
	s.mu.Unlock()

	if len(waiters) == 0 {
		return
	}

	err := writeConfig(s.path, snapshot)
	if err != nil {
		s.logger.WithError(err).WithField("path", s.path).Error("Failed to write plugin config")
	}
	for _, w := range waiters {
		w <- err
		close(w)
	}

	s.mu.Lock()
	s.pending -= len(waiters)
	s.lastErr = err
	s.settled.Broadcast()
	s.mu.Unlock()
}

// normalize fills the generated and defaulted fields and restores the
// key == name invariant of stored profiles.
func normalize(cfg models.PluginConfig) models.PluginConfig {
	out := cfg.Clone()
	if out.InstallationID == "" {
		out.InstallationID = uuid.NewString()
	}
	if out.ChannelCount == 0 {
		out.ChannelCount = DefaultChannelCount
	}
	for key, p := range out.PerAppProfiles {
		if p.Name != key {
			p.Name = key
			out.PerAppProfiles[key] = p
		}
	}
	return out
}

func readConfig(path string) (models.PluginConfig, error) {
	var cfg models.PluginConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read plugin config").
			WithDetail("path", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse plugin config").
			WithDetail("path", path)
	}
	return cfg, nil
}

// writeConfig replaces the file atomically.
func writeConfig(path string, cfg models.PluginConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create plugin config directory").
			WithDetail("path", path)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to marshal plugin config")
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to write plugin config").
			WithDetail("path", path)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to write plugin config").
			WithDetail("path", path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to write plugin config").
			WithDetail("path", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, errors.ErrCodeInternal, fmt.Sprintf("failed to replace %s", filepath.Base(path))).
			WithDetail("path", path)
	}
	return nil
}
