package controls

import (
	"sync"

	"github.com/grovetools/surround/pkg/mixer"
	"github.com/grovetools/surround/pkg/models"
)

// View is everything the audio controls display.
type View struct {
	Apps        []models.ConsolidatedApp `json:"apps"`
	Sinks       models.SinkTable         `json:"sinks"`
	SinkDefault bool                     `json:"sinkDefault"`
	Foreground  *models.RunningApp       `json:"foreground,omitempty"`

	Profile  mixer.Resolved  `json:"profile"`
	Channels []mixer.Channel `json:"channels"`
	// Volumes are the displayed slider values, which run ahead of the
	// committed profile while an edit is pending.
	Volumes map[string]int `json:"volumes"`

	NotesAcknowledged bool   `json:"notesAcknowledged"`
	HrirName          string `json:"hrirName"`

	Loading   bool   `json:"loading"`
	Loaded    bool   `json:"loaded"`
	LastError string `json:"lastError,omitempty"`
}

// Clone returns a deep copy of v.
func (v View) Clone() View {
	out := v
	if v.Apps != nil {
		out.Apps = make([]models.ConsolidatedApp, len(v.Apps))
		for i, app := range v.Apps {
			out.Apps[i] = app.Clone()
		}
	}
	if v.Sinks != nil {
		out.Sinks = make(models.SinkTable, len(v.Sinks))
		for k, sink := range v.Sinks {
			out.Sinks[k] = sink
		}
	}
	if v.Foreground != nil {
		fg := *v.Foreground
		out.Foreground = &fg
	}
	out.Profile.Volumes = copyVolumes(v.Profile.Volumes)
	out.Channels = append([]mixer.Channel(nil), v.Channels...)
	out.Volumes = copyVolumes(v.Volumes)
	return out
}

// App returns the displayed entry for an application name.
func (v View) App(name string) (models.ConsolidatedApp, bool) {
	for _, app := range v.Apps {
		if app.Name == name {
			return app, true
		}
	}
	return models.ConsolidatedApp{}, false
}

// UpdateType defines which part of the view changed.
type UpdateType string

const (
	UpdateSources  UpdateType = "sources"
	UpdateMixer    UpdateType = "mixer"
	UpdateVolumes  UpdateType = "volumes"
	UpdateSettings UpdateType = "settings"
)

// Update is broadcast to subscribers after every change.
type Update struct {
	Type UpdateType
	View View
}

// Store holds the current view. Changes are applied as whole-view mutations
// and fanned out to subscribers; the last applied mutation wins.
type Store struct {
	mu          sync.RWMutex
	view        View
	subscribers map[chan Update]struct{}
}

// NewStore creates an empty view store.
func NewStore() *Store {
	return &Store{
		view: View{
			Sinks:   models.SinkTable{},
			Volumes: map[string]int{},
		},
		subscribers: make(map[chan Update]struct{}),
	}
}

// Get returns a copy of the current view.
func (s *Store) Get() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view.Clone()
}

// Apply mutates the view and notifies subscribers.
func (s *Store) Apply(t UpdateType, mutate func(v *View)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mutate(&s.view)
	u := Update{Type: t, View: s.view.Clone()}

	for ch := range s.subscribers {
		select {
		case ch <- u:
		default:
			// A slow subscriber misses this update; the next one carries the full view.
		}
	}
}

// Subscribe creates a new subscription channel for view updates.
func (s *Store) Subscribe() chan Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan Update, 32)
	s.subscribers[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (s *Store) Unsubscribe(ch chan Update) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subscribers[ch]; !ok {
		return
	}
	delete(s.subscribers, ch)
	close(ch)
}

func copyVolumes(in map[string]int) map[string]int {
	if in == nil {
		return nil
	}
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
