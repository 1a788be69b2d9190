// Package consolidate merges the backend's per-connection stream records into
// one entry per application.
//
// The backend may report one logical application as several simultaneous
// streams (one per object stream); the UI shows a single row for each name.
// Two distinct processes sharing a display name are merged as well.
package consolidate

import (
	"strings"

	"github.com/grovetools/surround/pkg/models"
)

// Consolidate returns one entry per distinct non-blank application name, in
// first-seen order. Records with no numeric index or a blank name are skipped.
// The enabled list is the backend's set of application names with the filter on.
func Consolidate(records []models.RawStreamRecord, enabled []string) []models.ConsolidatedApp {
	enabledSet := make(map[string]struct{}, len(enabled))
	for _, name := range enabled {
		enabledSet[name] = struct{}{}
	}

	order := make([]string, 0, len(records))
	byName := make(map[string]*models.ConsolidatedApp, len(records))

	for _, rec := range records {
		if rec.Index == nil {
			continue
		}
		name := strings.TrimSpace(rec.Name)
		if name == "" {
			continue
		}

		_, isEnabled := enabledSet[name]
		format := models.UnknownFormat()
		if rec.Format != nil {
			format = *rec.Format
			format.ChannelMap = append([]string{}, rec.Format.ChannelMap...)
		}

		existing, ok := byName[name]
		if !ok {
			entry := &models.ConsolidatedApp{
				Name:         name,
				Index:        *rec.Index,
				Formats:      []models.StreamFormat{format},
				Volume:       rec.Volume,
				TargetObject: rec.TargetObject,
				Enabled:      isEnabled,
			}
			if rec.Sink != nil {
				entry.Sink = models.IntPtr(*rec.Sink)
			}
			byName[name] = entry
			order = append(order, name)
			continue
		}

		if !hasFormat(existing.Formats, format) {
			existing.Formats = append(existing.Formats, format)
		}
		if *rec.Index < existing.Index {
			existing.Index = *rec.Index
		}
		if rec.Volume != "" {
			existing.Volume = rec.Volume
		}
		if rec.TargetObject != "" {
			existing.TargetObject = rec.TargetObject
		}
		existing.Enabled = isEnabled
		if rec.Sink != nil {
			existing.Sink = models.IntPtr(*rec.Sink)
		}
	}

	apps := make([]models.ConsolidatedApp, 0, len(order))
	for _, name := range order {
		apps = append(apps, *byName[name])
	}
	return apps
}

func hasFormat(formats []models.StreamFormat, f models.StreamFormat) bool {
	key := f.Key()
	for _, existing := range formats {
		if existing.Key() == key {
			return true
		}
	}
	return false
}
