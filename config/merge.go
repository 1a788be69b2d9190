package config

// mergeSettings merges override settings into base. Set scalars replace,
// a non-empty ignore list replaces, and extension sections merge one level deep.
func mergeSettings(base, override *Settings) *Settings {
	result := *base

	if override.Transport != "" {
		result.Transport = override.Transport
	}
	if override.SocketPath != "" {
		result.SocketPath = override.SocketPath
	}
	if override.URL != "" {
		result.URL = override.URL
	}
	if override.CallTimeout != "" {
		result.CallTimeout = override.CallTimeout
	}
	if override.RefreshInterval != "" {
		result.RefreshInterval = override.RefreshInterval
	}
	if override.VolumeQuietPeriod != "" {
		result.VolumeQuietPeriod = override.VolumeQuietPeriod
	}
	if len(override.IgnoreApps) > 0 {
		result.IgnoreApps = append([]string{}, override.IgnoreApps...)
	}
	if override.PluginConfigPath != "" {
		result.PluginConfigPath = override.PluginConfigPath
	}

	if override.Extensions != nil {
		merged := make(map[string]interface{}, len(base.Extensions)+len(override.Extensions))
		for key, value := range base.Extensions {
			merged[key] = value
		}
		for key, value := range override.Extensions {
			if baseMap, ok := merged[key].(map[string]interface{}); ok {
				if overrideMap, ok := value.(map[string]interface{}); ok {
					mergedMap := make(map[string]interface{}, len(baseMap)+len(overrideMap))
					for k, v := range baseMap {
						mergedMap[k] = v
					}
					for k, v := range overrideMap {
						mergedMap[k] = v
					}
					merged[key] = mergedMap
					continue
				}
			}
			merged[key] = value
		}
		result.Extensions = merged
	}

	result.Sources = append(append([]string{}, base.Sources...), override.Sources...)
	return &result
}
