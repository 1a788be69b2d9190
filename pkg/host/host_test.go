package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic(t *testing.T) {
	s := NewStatic("  ")
	assert.Nil(t, s.RunningApp())

	s.Set("Game A")
	app := s.RunningApp()
	require.NotNil(t, app)
	assert.Equal(t, "Game A", app.DisplayName)

	app.DisplayName = "mutated"
	assert.Equal(t, "Game A", s.RunningApp().DisplayName)

	s.Set("")
	assert.Nil(t, s.RunningApp())
}
