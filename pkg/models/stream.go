// Package models holds the data types shared between the backend gateway, the
// consolidation core and the presentation layers.
package models

import (
	"strings"
)

// StreamFormat describes the sample format of one backend stream.
type StreamFormat struct {
	Format       string   `json:"format" mapstructure:"format"`
	SampleFormat string   `json:"sample_format" mapstructure:"sample_format"`
	Rate         string   `json:"rate" mapstructure:"rate"`
	Channels     string   `json:"channels" mapstructure:"channels"`
	ChannelMap   []string `json:"channel_map" mapstructure:"channel_map"`
}

// UnknownFormat is substituted for records that carry no format descriptor.
func UnknownFormat() StreamFormat {
	return StreamFormat{
		Format:     "Unknown",
		ChannelMap: []string{},
	}
}

// Key returns a comparable form of every field, with the channel map joined by commas.
func (f StreamFormat) Key() string {
	return strings.Join([]string{
		f.Format,
		f.SampleFormat,
		f.Rate,
		f.Channels,
		strings.Join(f.ChannelMap, ","),
	}, "\x00")
}

// Equal reports whether two formats match on every field.
func (f StreamFormat) Equal(other StreamFormat) bool {
	return f.Key() == other.Key()
}

// RawStreamRecord is one backend-reported audio connection ("sink input").
// Records are recreated on every refresh and never mutated.
type RawStreamRecord struct {
	// Index is nil when the backend sent something that is not a number.
	Index        *int          `json:"index"`
	Name         string        `json:"name,omitempty"`
	Sink         *int          `json:"sink,omitempty"`
	TargetObject string        `json:"target_object,omitempty"`
	Volume       string        `json:"volume"`
	Format       *StreamFormat `json:"format,omitempty"`
}

// ConsolidatedApp aggregates every stream reported for one application name.
type ConsolidatedApp struct {
	Name                   string         `json:"name"`
	Index                  int            `json:"index"`
	Formats                []StreamFormat `json:"formats"`
	Volume                 string         `json:"volume"`
	TargetObject           string         `json:"target_object"`
	Sink                   *int           `json:"sink,omitempty"`
	Enabled                bool           `json:"enabled"`
	ConnectedToVirtualSink bool           `json:"connected_to_virtual_surround_sink"`
}

// Pinned reports whether the application chose its own output target.
func (a ConsolidatedApp) Pinned() bool {
	return strings.TrimSpace(a.TargetObject) != ""
}

// Clone returns a copy that shares no slices or pointers with a.
func (a ConsolidatedApp) Clone() ConsolidatedApp {
	out := a
	out.Formats = make([]StreamFormat, len(a.Formats))
	for i, f := range a.Formats {
		f.ChannelMap = append([]string{}, f.ChannelMap...)
		out.Formats[i] = f
	}
	if a.Sink != nil {
		s := *a.Sink
		out.Sink = &s
	}
	return out
}

// RunningApp is the application currently in the foreground of the host shell.
type RunningApp struct {
	DisplayName string `json:"display_name"`
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }

// BoolPtr returns a pointer to v.
func BoolPtr(v bool) *bool { return &v }

// StringPtr returns a pointer to v.
func StringPtr(v string) *string { return &v }
