package controls

import (
	"context"
	"strings"

	"github.com/grovetools/surround/errors"
	"github.com/grovetools/surround/pkg/gateway"
	"github.com/grovetools/surround/pkg/models"
	"github.com/grovetools/surround/pkg/pluginconfig"
)

// SetAppEnabled turns the surround filter on or off for an application and
// refreshes the sources table. The usage notes must have been acknowledged,
// and applications that pin their own output target are refused.
func (s *Session) SetAppEnabled(ctx context.Context, name string, enabled bool) error {
	if s.isClosed() {
		return errClosed()
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.InvalidInput("application name is empty")
	}
	if !s.cfg.Get().NotesAcknowledgedV2 {
		return errors.NotesNotAcknowledged()
	}
	if app, ok := s.store.Get().App(name); ok && app.Pinned() {
		return errors.AppPinned(app.Name, strings.TrimSpace(app.TargetObject))
	}

	method := gateway.MethodDisableForApp
	call := s.gw.DisableForApp
	if enabled {
		method = gateway.MethodEnableForApp
		call = s.gw.EnableForApp
	}

	callCtx, cancel := s.callCtx(ctx)
	ok, err := call(callCtx, name)
	cancel()
	log := s.logger.WithField("app", name).WithField("method", method)
	if err != nil {
		log.WithError(err).Error("Failed to change filter state")
		return err
	}
	if !ok {
		log.Warn("Backend reported no change")
	} else {
		log.WithField("enabled", enabled).Info("Filter state changed")
	}

	if err := s.Refresh(ctx); err != nil {
		log.WithError(err).Warn("Refresh after filter change failed")
	}
	return nil
}

// SetSurroundSinkDefault makes the virtual sink the system default output, or
// stops doing so, then re-reads the flag from the backend. It returns the flag
// as the backend reports it.
func (s *Session) SetSurroundSinkDefault(ctx context.Context, enabled bool) (bool, error) {
	if s.isClosed() {
		return false, errClosed()
	}
	if !s.cfg.Get().NotesAcknowledgedV2 {
		return false, errors.NotesNotAcknowledged()
	}

	call := s.gw.DisableSurroundSinkDefault
	if enabled {
		call = s.gw.EnableSurroundSinkDefault
	}
	callCtx, cancel := s.callCtx(ctx)
	_, err := call(callCtx)
	cancel()
	if err != nil {
		return s.store.Get().SinkDefault, err
	}
	return s.ReadSinkDefault(ctx)
}

// ReadSinkDefault fetches the default-sink flag. On failure the previously
// displayed flag is returned with the error.
func (s *Session) ReadSinkDefault(ctx context.Context) (bool, error) {
	callCtx, cancel := s.callCtx(ctx)
	defer cancel()
	flag, err := s.gw.GetSurroundSinkDefault(callCtx)
	if err != nil {
		return s.store.Get().SinkDefault, err
	}
	s.store.Apply(UpdateSources, func(v *View) { v.SinkDefault = flag })
	return flag, nil
}

// HrirFiles lists the HRIR files the backend can install.
func (s *Session) HrirFiles(ctx context.Context) ([]models.HrirFile, error) {
	callCtx, cancel := s.callCtx(ctx)
	defer cancel()
	return s.gw.GetHrirFiles(callCtx)
}

// SelectHrir installs the HRIR file with the given label. The selection is
// remembered only when the backend confirms the install.
func (s *Session) SelectHrir(ctx context.Context, label string) error {
	if s.isClosed() {
		return errClosed()
	}
	files, err := s.HrirFiles(ctx)
	if err != nil {
		return err
	}

	var selected *models.HrirFile
	for i := range files {
		if files[i].Label == label {
			selected = &files[i]
			break
		}
	}
	if selected == nil {
		return errors.HrirNotFound(label)
	}

	callCtx, cancel := s.callCtx(ctx)
	ok, err := s.gw.SetHrirFile(callCtx, selected.Path)
	cancel()
	if err != nil {
		return err
	}
	if !ok {
		return errors.Rejected(gateway.MethodSetHrirFile, "file was not installed").WithDetail("path", selected.Path)
	}

	if err := <-s.cfg.Update(pluginconfig.Patch{HrirName: models.StringPtr(label)}); err != nil {
		return err
	}
	s.logger.WithField("hrir", label).WithField("path", selected.Path).Info("HRIR installed")
	s.applySettings(s.cfg.Get())
	return nil
}

// SoundTestSinks returns the sinks a sound test can target.
func (s *Session) SoundTestSinks(ctx context.Context) ([]models.Sink, error) {
	callCtx, cancel := s.callCtx(ctx)
	defer cancel()
	sinks, err := s.gw.ListSinks(callCtx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Sink, 0, len(sinks))
	for _, sink := range sinks {
		if sink.Name != "" {
			out = append(out, sink)
		}
	}
	return out, nil
}

// RunSoundTest plays the backend's speaker test through a sink.
func (s *Session) RunSoundTest(ctx context.Context, sink string) error {
	sink = strings.TrimSpace(sink)
	if sink == "" {
		return errors.InvalidInput("sink name is empty")
	}
	callCtx, cancel := s.callCtx(ctx)
	defer cancel()
	return s.gw.RunSoundTest(callCtx, sink)
}

// AcknowledgeNotes records that the user has read the usage notes.
func (s *Session) AcknowledgeNotes() error {
	if err := <-s.cfg.Update(pluginconfig.Patch{NotesAcknowledgedV2: models.BoolPtr(true)}); err != nil {
		return err
	}
	s.applySettings(s.cfg.Get())
	return nil
}
