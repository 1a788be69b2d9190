package consolidate

import (
	"fmt"
	"strings"

	"github.com/grovetools/surround/pkg/models"
	"github.com/moby/patternmatcher"
)

// Filter drops records whose application name matches one of a set of glob
// patterns. A nil *Filter keeps everything.
type Filter struct {
	matcher *patternmatcher.PatternMatcher
}

// NewFilter compiles the ignore patterns. Patterns follow .dockerignore
// syntax, so a leading "!" re-includes a name excluded by an earlier pattern.
// Each pattern is matched against the whole application name.
func NewFilter(patterns []string) (*Filter, error) {
	cleaned := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	if len(cleaned) == 0 {
		return nil, nil
	}
	pm, err := patternmatcher.New(cleaned)
	if err != nil {
		return nil, fmt.Errorf("compile ignore patterns: %w", err)
	}
	return &Filter{matcher: pm}, nil
}

// Ignored reports whether the given application name is filtered out.
func (f *Filter) Ignored(name string) bool {
	if f == nil {
		return false
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	// Names are matched whole, never as paths: "Steam" does not hide
	// "Steam/Overlay", and "*" does not span a "/".
	// MatchesUsingParentResult with parentMatched=false evaluates each
	// pattern against the name itself, without walking parent paths.
	matched, err := f.matcher.MatchesUsingParentResult(name, false)
	if err != nil {
		return false
	}
	return matched
}

// Apply returns the records whose names are not ignored.
func (f *Filter) Apply(records []models.RawStreamRecord) []models.RawStreamRecord {
	if f == nil {
		return records
	}
	kept := make([]models.RawStreamRecord, 0, len(records))
	for _, rec := range records {
		if f.Ignored(rec.Name) {
			continue
		}
		kept = append(kept, rec)
	}
	return kept
}
