// Package controls drives the audio controls: it refreshes the sources table,
// keeps the active mixer profile in sync with the foreground application and
// forwards user edits to the backend.
package controls

import (
	"context"
	"sync"
	"time"

	"github.com/grovetools/surround/errors"
	"github.com/grovetools/surround/internal/refresh"
	"github.com/grovetools/surround/logging"
	"github.com/grovetools/surround/pkg/consolidate"
	"github.com/grovetools/surround/pkg/debounce"
	"github.com/grovetools/surround/pkg/gateway"
	"github.com/grovetools/surround/pkg/host"
	"github.com/grovetools/surround/pkg/models"
	"github.com/grovetools/surround/pkg/mixer"
	"github.com/grovetools/surround/pkg/pluginconfig"
	"github.com/grovetools/surround/pkg/route"
	"github.com/sirupsen/logrus"
)

// Options configures a Session. Gateway and Config are required.
type Options struct {
	Gateway    gateway.Gateway
	Config     *pluginconfig.Store
	Foreground host.Foreground
	Filter     *consolidate.Filter

	RefreshInterval time.Duration
	QuietPeriod     time.Duration
	CallTimeout     time.Duration

	// WatchConfig reloads the plugin config when it is edited on disk.
	WatchConfig bool

	Clock debounce.Clock
}

// Session is one running instance of the audio controls.
type Session struct {
	gw          gateway.Gateway
	cfg         *pluginconfig.Store
	fg          host.Foreground
	filter      *consolidate.Filter
	resolver    *route.Resolver
	debouncer   *debounce.Debouncer
	scheduler   *refresh.Scheduler
	store       *Store
	logger      *logrus.Entry
	callTimeout time.Duration
	watchConfig bool

	ctx    context.Context
	cancel context.CancelFunc

	// resolveMu serializes profile resolution.
	resolveMu sync.Mutex

	mu         sync.Mutex
	foreground *models.RunningApp
	profile    mixer.Resolved
	displayed  map[string]int
	resolved   bool
	started    bool
	closed     bool
	stopping   bool
	writes     []models.MixerProfile
	wake       chan struct{}
	writerDone chan struct{}
	watchStop  context.CancelFunc
	watchDone  chan struct{}
}

// New creates a session and resolves the initial mixer profile. Nothing is
// fetched until Start or Refresh is called.
func New(opts Options) (*Session, error) {
	if opts.Gateway == nil {
		return nil, errors.New(errors.ErrCodeInternal, "controls session needs a gateway")
	}
	if opts.Config == nil {
		return nil, errors.New(errors.ErrCodeInternal, "controls session needs a plugin config store")
	}
	fg := opts.Foreground
	if fg == nil {
		fg = host.NewStatic("")
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		gw:          opts.Gateway,
		cfg:         opts.Config,
		fg:          fg,
		filter:      opts.Filter,
		resolver:    route.NewResolver(opts.Gateway),
		store:       NewStore(),
		logger:      logging.NewLogger("controls"),
		callTimeout: opts.CallTimeout,
		watchConfig: opts.WatchConfig,
		ctx:         ctx,
		cancel:      cancel,
		displayed:   map[string]int{},
		wake:        make(chan struct{}, 1),
		writerDone:  make(chan struct{}),
	}

	debounceOpts := []debounce.Option{debounce.WithDisplay(s.displayVolume)}
	if opts.Clock != nil {
		debounceOpts = append(debounceOpts, debounce.WithClock(opts.Clock))
	}
	s.debouncer = debounce.New(opts.QuietPeriod, s.commitVolume, debounceOpts...)
	s.scheduler = refresh.New(opts.RefreshInterval, func(ctx context.Context) {
		if err := s.Refresh(ctx); err != nil {
			s.logger.WithError(err).Warn("Sources refresh failed")
		}
	})

	s.foreground = fg.RunningApp()
	s.applySettings(s.cfg.Get())
	s.resolveProfile()

	go s.writer()
	return s, nil
}

// Store returns the view store, for subscribing to updates.
func (s *Session) Store() *Store {
	return s.store
}

// Snapshot returns the current view.
func (s *Session) Snapshot() View {
	return s.store.Get()
}

// Start begins periodic refreshing, with the first refresh right away.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errors.New(errors.ErrCodeInternal, "controls session is closed")
	}
	if s.started {
		s.mu.Unlock()
		return errors.New(errors.ErrCodeInternal, "controls session already started")
	}
	s.started = true
	if s.watchConfig {
		watchCtx, stop := context.WithCancel(ctx)
		s.watchStop = stop
		s.watchDone = make(chan struct{})
		go s.watch(watchCtx, s.watchDone)
	}
	s.mu.Unlock()

	return s.scheduler.Start(ctx)
}

// Close stops refreshing, commits pending volume edits, waits for the backend
// writes they produce and flushes the plugin config. Results of refreshes
// still in flight are discarded. The gateway and config store stay open.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	watchStop, watchDone := s.watchStop, s.watchDone
	s.mu.Unlock()

	s.scheduler.Stop()
	if watchStop != nil {
		watchStop()
		<-watchDone
	}

	s.debouncer.Close()

	s.mu.Lock()
	s.stopping = true
	close(s.wake)
	s.mu.Unlock()
	<-s.writerDone

	s.cancel()
	return s.cfg.Flush()
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) callCtx(parent context.Context) (context.Context, context.CancelFunc) {
	if s.callTimeout > 0 {
		return context.WithTimeout(parent, s.callTimeout)
	}
	return context.WithCancel(parent)
}

// Refresh runs one sources refresh. The stream list, the sink list and the
// default-sink flag are fetched together; the table is rebuilt only after all
// three settle. A stream list reporting no data clears the table. Any failed
// fetch keeps the previously displayed value: a failed stream list keeps the
// whole table, and a failed enabled list keeps each application's previous
// enabled flag.
//
// The returned error is the stream list failure, for reporting only; the view
// already reflects it through LastError and callers need not act on it.
func (s *Session) Refresh(ctx context.Context) error {
	if s.isClosed() {
		return nil
	}
	s.store.Apply(UpdateSources, func(v *View) { v.Loading = true })

	s.pollForeground()

	var (
		wg          sync.WaitGroup
		records     []models.RawStreamRecord
		sinks       []models.Sink
		sinkDefault bool
		streamErr   error
		sinksErr    error
		defaultErr  error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		callCtx, cancel := s.callCtx(ctx)
		defer cancel()
		records, streamErr = s.gw.ListSinkInputs(callCtx)
	}()
	go func() {
		defer wg.Done()
		callCtx, cancel := s.callCtx(ctx)
		defer cancel()
		sinks, sinksErr = s.gw.ListSinks(callCtx)
	}()
	go func() {
		defer wg.Done()
		callCtx, cancel := s.callCtx(ctx)
		defer cancel()
		sinkDefault, defaultErr = s.gw.GetSurroundSinkDefault(callCtx)
	}()
	wg.Wait()

	var apps []models.ConsolidatedApp
	switch {
	case errors.Is(streamErr, errors.ErrCodeNoData):
		s.logger.Debug("Backend reported no streams")
		streamErr = nil
	case streamErr != nil:
		s.logger.WithError(streamErr).WithField("method", gateway.MethodListSinkInputs).Warn("Keeping previous sources table")
	default:
		enabled, err := s.enabledApps(ctx)
		if err != nil {
			s.logger.WithError(err).WithField("method", gateway.MethodGetEnabledApps).Warn("Keeping previous enabled flags")
			enabled = previouslyEnabled(s.store.Get().Apps)
		}
		apps = consolidate.Consolidate(s.filter.Apply(records), enabled)
		apps = s.resolver.Resolve(ctx, apps)
	}
	if sinksErr != nil {
		s.logger.WithError(sinksErr).WithField("method", gateway.MethodListSinks).Warn("Keeping previous sink list")
	}
	if defaultErr != nil {
		s.logger.WithError(defaultErr).WithField("method", gateway.MethodGetSurroundSinkDefault).Warn("Keeping previous default sink flag")
	}

	if s.isClosed() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		s.store.Apply(UpdateSources, func(v *View) { v.Loading = false })
		return err
	}

	s.store.Apply(UpdateSources, func(v *View) {
		switch {
		case streamErr != nil:
			if v.Apps == nil {
				v.Apps = []models.ConsolidatedApp{}
			}
		case apps == nil:
			v.Apps = []models.ConsolidatedApp{}
		default:
			v.Apps = apps
		}
		if sinksErr == nil {
			v.Sinks = models.NewSinkTable(sinks)
		}
		if defaultErr == nil {
			v.SinkDefault = sinkDefault
		}
		v.Loading = false
		v.Loaded = true
		v.LastError = ""
		if streamErr != nil {
			v.LastError = streamErr.Error()
		}
	})
	return streamErr
}

// previouslyEnabled lists the displayed applications whose filter was on.
func previouslyEnabled(apps []models.ConsolidatedApp) []string {
	var names []string
	for _, app := range apps {
		if app.Enabled {
			names = append(names, app.Name)
		}
	}
	return names
}

func (s *Session) enabledApps(ctx context.Context) ([]string, error) {
	callCtx, cancel := s.callCtx(ctx)
	defer cancel()
	enabled, err := s.gw.GetEnabledApps(callCtx)
	if err != nil {
		return nil, err
	}
	return enabled, nil
}

// pollForeground reads the foreground application and re-resolves the mixer
// profile when it changed.
func (s *Session) pollForeground() {
	current := s.fg.RunningApp()

	s.mu.Lock()
	changed := foregroundName(current) != foregroundName(s.foreground)
	s.foreground = current
	s.mu.Unlock()

	if !changed {
		return
	}
	s.logger.WithField("app", foregroundName(current)).Debug("Foreground application changed")
	s.resolveProfile()
}

func (s *Session) currentForeground() *models.RunningApp {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.foreground == nil {
		return nil
	}
	fg := *s.foreground
	return &fg
}

func (s *Session) watch(ctx context.Context, done chan struct{}) {
	defer close(done)
	err := s.cfg.Watch(ctx, pluginconfig.DefaultWatchDebounce, func(cfg models.PluginConfig) {
		s.logger.WithField("path", s.cfg.Path()).Info("Plugin config changed on disk")
		s.applySettings(cfg)
		s.resolveProfile()
	})
	if err != nil {
		s.logger.WithError(err).Warn("Plugin config watcher stopped")
	}
}

func (s *Session) applySettings(cfg models.PluginConfig) {
	s.store.Apply(UpdateSettings, func(v *View) {
		v.NotesAcknowledged = cfg.NotesAcknowledgedV2
		v.HrirName = cfg.HrirName
		v.Channels = mixer.Channels(cfg.ChannelCount)
	})
}

func foregroundName(app *models.RunningApp) string {
	if app == nil {
		return ""
	}
	return app.DisplayName
}
