// Package host describes the shell the controls run inside.
package host

import (
	"strings"
	"sync"

	"github.com/grovetools/surround/pkg/models"
)

// Foreground reports the application currently in the foreground, or nil.
type Foreground interface {
	RunningApp() *models.RunningApp
}

// Static is a Foreground whose answer is set explicitly.
type Static struct {
	mu  sync.RWMutex
	app *models.RunningApp
}

// NewStatic returns a provider reporting name; an empty name means none.
func NewStatic(name string) *Static {
	s := &Static{}
	s.Set(name)
	return s
}

// Set changes the reported application.
func (s *Static) Set(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name = strings.TrimSpace(name); name == "" {
		s.app = nil
		return
	}
	s.app = &models.RunningApp{DisplayName: name}
}

// RunningApp implements Foreground.
func (s *Static) RunningApp() *models.RunningApp {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.app == nil {
		return nil
	}
	app := *s.app
	return &app
}
