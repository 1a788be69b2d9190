package controls

import (
	"fmt"

	"github.com/grovetools/surround/errors"
	"github.com/grovetools/surround/pkg/mixer"
	"github.com/grovetools/surround/pkg/models"
	"github.com/grovetools/surround/pkg/pluginconfig"
)

// resolveProfile recomputes the active profile from the stored config and the
// last polled foreground application. When the active profile changes after
// the first resolution, pending edits are committed to the old profile and the
// new one is sent to the backend.
func (s *Session) resolveProfile() {
	s.resolveMu.Lock()
	defer s.resolveMu.Unlock()

	cfg := s.cfg.Get()
	res := mixer.ResolveForConfig(s.currentForeground(), cfg)
	codes := mixer.Codes(cfg.ChannelCount)

	s.mu.Lock()
	switching := s.resolved && res.Name != s.profile.Name
	s.mu.Unlock()
	if switching {
		s.debouncer.Flush()
	}

	s.mu.Lock()
	push := s.resolved && res.Name != s.profile.Name
	s.resolved = true
	s.profile = res
	s.displayed = res.VolumesFor(codes)
	displayed := copyVolumes(s.displayed)
	if push {
		s.enqueueLocked(models.MixerProfile{Name: res.Name, Volumes: copyVolumes(displayed)})
	}
	s.mu.Unlock()

	if push {
		s.logger.WithField("profile", res.Name).Info("Switched mixer profile")
	}
	fg := s.currentForeground()
	s.store.Apply(UpdateMixer, func(v *View) {
		v.Foreground = fg
		v.Profile = res
		v.Channels = mixer.Channels(cfg.ChannelCount)
		v.Volumes = displayed
	})
}

// SetPerAppProfile turns the per-app profile on or off for the foreground
// application and re-resolves the active profile. It returns the toggle value
// now in effect.
func (s *Session) SetPerAppProfile(enabled bool) (bool, error) {
	if s.isClosed() {
		return false, errClosed()
	}
	value, entry := mixer.Toggle(s.currentForeground(), enabled)
	if entry == nil {
		s.resolveProfile()
		return false, errors.NoForegroundApp()
	}

	s.persist("per-app profile", pluginconfig.Patch{
		PerAppProfiles: map[string]models.MixerProfile{entry.Name: *entry},
	})
	s.logger.WithField("app", entry.Name).WithField("enabled", value).Info("Per-app profile toggled")
	s.resolveProfile()
	return value, nil
}

// SetVolume records a slider edit. The displayed value changes at once;
// the backend write follows once the channel has been quiet for the quiet
// period, or sooner if another channel is edited.
func (s *Session) SetVolume(channel string, value int) error {
	if s.isClosed() {
		return errClosed()
	}
	if !s.inLayout(channel) {
		return errors.InvalidInput(fmt.Sprintf("unknown mixer channel %q", channel)).
			WithDetail("channel", channel)
	}
	s.debouncer.Edit(channel, mixer.ClampVolume(value))
	return nil
}

// FlushVolumes commits every pending volume edit now.
func (s *Session) FlushVolumes() {
	s.debouncer.Flush()
}

func (s *Session) inLayout(channel string) bool {
	if !mixer.KnownChannel(channel) {
		return false
	}
	for _, code := range mixer.Codes(s.cfg.Get().ChannelCount) {
		if code == channel {
			return true
		}
	}
	return false
}

func (s *Session) displayVolume(channel string, value int) {
	s.mu.Lock()
	s.displayed[channel] = value
	displayed := copyVolumes(s.displayed)
	s.mu.Unlock()

	s.store.Apply(UpdateVolumes, func(v *View) { v.Volumes = displayed })
}

// commitVolume runs once per debounced edit: it persists the profile built
// from the displayed volumes and queues the backend write.
func (s *Session) commitVolume(channel string, value int) {
	s.mu.Lock()
	profile := mixer.WithVolume(s.profile.Name, s.displayed, channel, value)
	s.profile.Volumes = copyVolumes(profile.Volumes)
	resolved := s.profile
	resolved.Volumes = copyVolumes(profile.Volumes)
	s.enqueueLocked(profile.Clone())
	s.mu.Unlock()

	s.logger.WithField("channel", channel).WithField("volume", value).WithField("profile", profile.Name).Debug("Committing volume")
	s.persist("mixer volume", pluginconfig.Patch{
		PerAppProfiles: map[string]models.MixerProfile{profile.Name: profile},
	})
	s.store.Apply(UpdateMixer, func(v *View) { v.Profile = resolved })
}

// enqueueLocked must be called with mu held.
func (s *Session) enqueueLocked(p models.MixerProfile) {
	if s.stopping {
		s.logger.WithField("profile", p.Name).Warn("Dropping mixer write after close")
		return
	}
	s.writes = append(s.writes, p)
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// writer sends queued profiles to the backend one at a time, in queue order.
func (s *Session) writer() {
	defer close(s.writerDone)
	for range s.wake {
		s.drainWrites()
	}
	s.drainWrites()
}

func (s *Session) drainWrites() {
	for {
		s.mu.Lock()
		if len(s.writes) == 0 {
			s.mu.Unlock()
			return
		}
		p := s.writes[0]
		s.writes = s.writes[1:]
		s.mu.Unlock()

		ctx, cancel := s.callCtx(s.ctx)
		ok, err := s.gw.SetMixerProfile(ctx, p)
		cancel()
		log := s.logger.WithField("profile", p.Name)
		switch {
		case err != nil:
			log.WithError(err).Warn("Failed to send mixer profile")
		case !ok:
			log.Warn("Backend did not apply mixer profile")
		}
	}
}

// persist writes a partial config update in the background and logs a
// failed write.
func (s *Session) persist(what string, p pluginconfig.Patch) {
	result := s.cfg.Update(p)
	go func() {
		if err := <-result; err != nil {
			s.logger.WithError(err).WithField("setting", what).Warn("Failed to save plugin config")
		}
	}()
}

func errClosed() error {
	return errors.New(errors.ErrCodeInternal, "controls session is closed")
}
