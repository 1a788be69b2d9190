// Package route determines, per application, whether its audio reaches the
// virtual surround sink and how that routing is presented.
package route

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/grovetools/surround/logging"
	"github.com/grovetools/surround/pkg/models"
	"github.com/sirupsen/logrus"
)

// Checker answers the per-application routing query.
type Checker interface {
	IsAppConnectedToVirtualSink(ctx context.Context, name string) (bool, error)
}

// Resolver fills ConnectedToVirtualSink for a batch of applications.
type Resolver struct {
	checker Checker
	logger  *logrus.Entry
}

// NewResolver creates a resolver backed by checker.
func NewResolver(checker Checker) *Resolver {
	return &Resolver{
		checker: checker,
		logger:  logging.NewLogger("route"),
	}
}

// Resolve issues one query per application, all at once, and applies the
// results only after every query has settled. A failed query counts as not
// connected. The input slice is not modified.
func (r *Resolver) Resolve(ctx context.Context, apps []models.ConsolidatedApp) []models.ConsolidatedApp {
	connected := make([]bool, len(apps))

	var wg sync.WaitGroup
	for i := range apps {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			ok, err := r.checker.IsAppConnectedToVirtualSink(ctx, name)
			if err != nil {
				r.logger.WithError(err).WithField("app", name).Warn("Route query failed")
				return
			}
			connected[i] = ok
		}(i, apps[i].Name)
	}
	wg.Wait()

	out := make([]models.ConsolidatedApp, len(apps))
	for i, app := range apps {
		app = app.Clone()
		app.ConnectedToVirtualSink = connected[i]
		out[i] = app
	}
	return out
}

// IsDefaultVirtualRoute reports whether the application reaches the virtual
// sink only because that sink is the system default.
func IsDefaultVirtualRoute(app models.ConsolidatedApp, sinkDefault bool) bool {
	return sinkDefault && app.ConnectedToVirtualSink && !app.Pinned()
}

// ToggleState is the presentation of an application's enable switch.
type ToggleState struct {
	Checked     bool   `json:"checked"`
	Disabled    bool   `json:"disabled"`
	Description string `json:"description"`
}

// EnableToggleState derives the enable switch for one application.
func EnableToggleState(app models.ConsolidatedApp, sinkDefault bool) ToggleState {
	defaultRoute := IsDefaultVirtualRoute(app, sinkDefault)
	state := ToggleState{
		Checked:  app.Enabled || app.ConnectedToVirtualSink,
		Disabled: app.Pinned() || defaultRoute,
	}
	switch {
	case app.Pinned():
		state.Description = "This app routes audio to a locked sink; edit the app to change where it sends audio."
	case defaultRoute:
		state.Description = "Virtual Surround Sound is already the default output sink for this app."
	default:
		state.Description = "Enable Virtual Surround Sound filter for this app"
	}
	return state
}

// SinkLabel names a sink for display: its description, else its name, else
// its index. A missing index means the system default output.
func SinkLabel(sinks models.SinkTable, index *int) string {
	if index == nil {
		return "the system default output"
	}
	if sink, ok := sinks[*index]; ok {
		if d := strings.TrimSpace(sink.Description); d != "" {
			return d
		}
		if n := strings.TrimSpace(sink.Name); n != "" {
			return n
		}
	}
	return fmt.Sprintf("Sink #%d", *index)
}

// StatusLabel describes where an application's audio currently goes.
func StatusLabel(app models.ConsolidatedApp, sinkDefault bool, sinks models.SinkTable) string {
	if app.Pinned() {
		return "App explicitly pins its output target; change this within the application."
	}
	suffix := ""
	if IsDefaultVirtualRoute(app, sinkDefault) {
		suffix = " (default output)"
	}
	return fmt.Sprintf("Connected to %s%s", SinkLabel(sinks, app.Sink), suffix)
}
