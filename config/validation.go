package config

import (
	"fmt"
	"time"

	"github.com/grovetools/surround/errors"
	"github.com/moby/patternmatcher"
)

// Validate checks semantic constraints the schema cannot express.
func (s *Settings) Validate() error {
	switch s.Transport {
	case TransportHTTP, TransportWebSocket:
	default:
		return errors.ConfigInvalid(fmt.Sprintf("unknown transport %q", s.Transport)).
			WithDetail("field", "transport")
	}

	for field, value := range map[string]string{
		"call_timeout":        s.CallTimeout,
		"refresh_interval":    s.RefreshInterval,
		"volume_quiet_period": s.VolumeQuietPeriod,
	} {
		d, err := time.ParseDuration(value)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeConfigInvalid, fmt.Sprintf("invalid duration for %s", field)).
				WithDetail("field", field)
		}
		if d <= 0 {
			return errors.ConfigInvalid(fmt.Sprintf("%s must be positive", field)).
				WithDetail("field", field)
		}
	}

	if len(s.IgnoreApps) > 0 {
		if _, err := patternmatcher.New(s.IgnoreApps); err != nil {
			return errors.Wrap(err, errors.ErrCodeConfigInvalid, "invalid ignore_apps pattern").
				WithDetail("field", "ignore_apps")
		}
	}
	return nil
}
