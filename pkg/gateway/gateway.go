// Package gateway provides the client side of the audio backend's RPC surface.
//
// Every backend operation is a request/response call identified by a method
// name. Client maps those calls onto typed methods and validates the loosely
// typed payloads at the boundary; transports (HTTP over a unix socket, or a
// websocket) only move JSON.
package gateway

import (
	"context"

	"github.com/grovetools/surround/pkg/models"
)

// Method names understood by the backend.
const (
	MethodListSinkInputs             = "list_sink_inputs"
	MethodListSinks                  = "list_sinks"
	MethodGetSurroundSinkDefault     = "get_surround_sink_default"
	MethodEnableSurroundSinkDefault  = "enable_surround_sink_default"
	MethodDisableSurroundSinkDefault = "disable_surround_sink_default"
	MethodGetEnabledApps             = "get_enabled_apps_list"
	MethodIsAppConnected             = "is_app_connected_to_virtual_surround_sink"
	MethodEnableForApp               = "enable_for_app"
	MethodDisableForApp              = "disable_for_app"
	MethodSetMixerProfile            = "set_mixer_profile"
	MethodGetHrirFiles               = "get_hrir_file_list"
	MethodSetHrirFile                = "set_hrir_file"
	MethodRunSoundTest               = "run_sound_test"
)

// Gateway defines the backend operations the control surface consumes.
type Gateway interface {
	// ListSinkInputs returns the raw per-connection stream records. A backend
	// that returns no list at all yields an error with code NO_DATA.
	ListSinkInputs(ctx context.Context) ([]models.RawStreamRecord, error)

	// ListSinks returns sink metadata for labelling.
	ListSinks(ctx context.Context) ([]models.Sink, error)

	// GetSurroundSinkDefault reports whether the virtual sink is the system default.
	GetSurroundSinkDefault(ctx context.Context) (bool, error)

	// GetEnabledApps returns the application names with the filter enabled.
	GetEnabledApps(ctx context.Context) ([]string, error)

	// IsAppConnectedToVirtualSink reports whether any stream of the named
	// application currently feeds the virtual surround sink.
	IsAppConnectedToVirtualSink(ctx context.Context, name string) (bool, error)

	EnableForApp(ctx context.Context, name string) (bool, error)
	DisableForApp(ctx context.Context, name string) (bool, error)

	// SetMixerProfile applies a profile's channel volumes to the virtual sink.
	SetMixerProfile(ctx context.Context, profile models.MixerProfile) (bool, error)

	EnableSurroundSinkDefault(ctx context.Context) (bool, error)
	DisableSurroundSinkDefault(ctx context.Context) (bool, error)

	GetHrirFiles(ctx context.Context) ([]models.HrirFile, error)
	SetHrirFile(ctx context.Context, path string) (bool, error)
	RunSoundTest(ctx context.Context, sink string) error

	// Close releases transport resources.
	Close() error
}

// Caller performs one raw backend call. out, if non-nil, receives the JSON
// result. Implementations are safe for concurrent use.
type Caller interface {
	Call(ctx context.Context, method string, args []interface{}, out interface{}) error
	Close() error
}
