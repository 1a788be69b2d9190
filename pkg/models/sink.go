package models

// Sink is backend sink metadata, used only for labelling.
type Sink struct {
	Index       *int   `json:"index,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// SinkTable indexes sinks by their backend index.
type SinkTable map[int]Sink

// NewSinkTable builds a table from a sink list. Entries without an index are
// skipped; duplicate indices overwrite earlier ones.
func NewSinkTable(sinks []Sink) SinkTable {
	table := make(SinkTable, len(sinks))
	for _, s := range sinks {
		if s.Index == nil {
			continue
		}
		table[*s.Index] = s
	}
	return table
}

// HrirFile is one selectable HRIR impulse response known to the backend.
type HrirFile struct {
	Label        string `json:"label"`
	Path         string `json:"path"`
	ChannelCount *int   `json:"channel_count,omitempty"`
}
