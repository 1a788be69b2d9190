package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Transport names accepted in settings.
const (
	TransportHTTP      = "http"
	TransportWebSocket = "websocket"
)

// Defaults applied by SetDefaults.
const (
	DefaultTransport         = TransportHTTP
	DefaultURL               = "ws://127.0.0.1:1337/ws"
	DefaultCallTimeout       = "5s"
	DefaultRefreshInterval   = "5s"
	DefaultVolumeQuietPeriod = "250ms"
)

// Settings is the client configuration read from surround.toml or surround.yml.
type Settings struct {
	// Transport selects how the backend is reached.
	Transport string `yaml:"transport,omitempty" toml:"transport,omitempty" json:"transport,omitempty" jsonschema:"enum=http,enum=websocket,description=Backend transport"`

	// SocketPath is the backend's unix socket, used by the http transport.
	SocketPath string `yaml:"socket_path,omitempty" toml:"socket_path,omitempty" json:"socket_path,omitempty" jsonschema:"description=Backend unix socket for the http transport"`

	// URL is the backend's websocket endpoint.
	URL string `yaml:"url,omitempty" toml:"url,omitempty" json:"url,omitempty" jsonschema:"description=Backend websocket endpoint"`

	CallTimeout       string `yaml:"call_timeout,omitempty" toml:"call_timeout,omitempty" json:"call_timeout,omitempty" jsonschema:"description=Per-call timeout (Go duration)"`
	RefreshInterval   string `yaml:"refresh_interval,omitempty" toml:"refresh_interval,omitempty" json:"refresh_interval,omitempty" jsonschema:"description=Period of the sources refresh (Go duration)"`
	VolumeQuietPeriod string `yaml:"volume_quiet_period,omitempty" toml:"volume_quiet_period,omitempty" json:"volume_quiet_period,omitempty" jsonschema:"description=Quiet period before a slider edit is written (Go duration)"`

	// IgnoreApps lists application name patterns hidden from the sources table.
	IgnoreApps []string `yaml:"ignore_apps,omitempty" toml:"ignore_apps,omitempty" json:"ignore_apps,omitempty" jsonschema:"description=Application name patterns to hide"`

	// PluginConfigPath overrides the location of the persisted plugin config.
	PluginConfigPath string `yaml:"plugin_config,omitempty" toml:"plugin_config,omitempty" json:"plugin_config,omitempty" jsonschema:"description=Path of the persisted plugin config"`

	// Extensions captures all other top-level keys, such as the logging section.
	Extensions map[string]interface{} `yaml:",inline" toml:"-" json:"-" jsonschema:"-"`

	// Sources lists the files merged into these settings, lowest precedence first.
	Sources []string `yaml:"-" toml:"-" json:"-" jsonschema:"-"`
}

// knownKeys are the top-level keys decoded into typed fields.
var knownKeys = map[string]bool{
	"transport":           true,
	"socket_path":         true,
	"url":                 true,
	"call_timeout":        true,
	"refresh_interval":    true,
	"volume_quiet_period": true,
	"ignore_apps":         true,
	"plugin_config":       true,
}

// SetDefaults sets default values for unset fields.
func (s *Settings) SetDefaults() {
	if s.Transport == "" {
		s.Transport = DefaultTransport
	}
	if s.URL == "" {
		s.URL = DefaultURL
	}
	if s.CallTimeout == "" {
		s.CallTimeout = DefaultCallTimeout
	}
	if s.RefreshInterval == "" {
		s.RefreshInterval = DefaultRefreshInterval
	}
	if s.VolumeQuietPeriod == "" {
		s.VolumeQuietPeriod = DefaultVolumeQuietPeriod
	}
}

// CallTimeoutDuration returns the parsed call timeout.
func (s *Settings) CallTimeoutDuration() time.Duration {
	return parseOr(s.CallTimeout, DefaultCallTimeout)
}

// RefreshIntervalDuration returns the parsed refresh period.
func (s *Settings) RefreshIntervalDuration() time.Duration {
	return parseOr(s.RefreshInterval, DefaultRefreshInterval)
}

// VolumeQuietPeriodDuration returns the parsed debounce quiet period.
func (s *Settings) VolumeQuietPeriodDuration() time.Duration {
	return parseOr(s.VolumeQuietPeriod, DefaultVolumeQuietPeriod)
}

func parseOr(value, fallback string) time.Duration {
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	d, _ := time.ParseDuration(fallback)
	return d
}

// UnmarshalExtension decodes a top-level section that is not part of the
// typed settings into target, which must be a pointer. A missing section
// leaves target untouched.
//
// Example:
//
//	var logCfg logging.Config
//	err := settings.UnmarshalExtension("logging", &logCfg)
func (s *Settings) UnmarshalExtension(key string, target interface{}) error {
	section, ok := s.Extensions[key]
	if !ok {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  target,
		TagName: "yaml",
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(section); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}
	return nil
}
