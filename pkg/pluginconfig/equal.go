package pluginconfig

import (
	"reflect"

	"github.com/grovetools/surround/pkg/models"
)

// equal compares two configurations, treating nil and empty profile maps alike.
func equal(a, b models.PluginConfig) bool {
	if len(a.PerAppProfiles) == 0 && len(b.PerAppProfiles) == 0 {
		a.PerAppProfiles, b.PerAppProfiles = nil, nil
	}
	return reflect.DeepEqual(a, b)
}
