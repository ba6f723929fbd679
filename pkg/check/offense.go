package check

import (
	"github.com/liquidlens/liquidlens/pkg/liquid"
)

// Offense is one reported diagnostic. Offenses are immutable values once
// created; the collector owns ordering and deduplication.
type Offense struct {
	// Check is the reporting check's code.
	Check string `json:"check"`
	// Severity is the effective severity (config override applied).
	Severity Severity `json:"severity"`
	// Message is the human-readable description.
	Message string `json:"message"`
	// Path is the normalized theme-relative path of the offending file.
	Path string `json:"path"`
	// Position is the highlighted byte range within the file's text.
	Position liquid.Position `json:"position"`
	// Suggestion optionally proposes replacement text for the range.
	Suggestion string `json:"suggestion,omitempty"`
}

// key identifies an offense for deduplication: two reports identical in
// check, file, position and message collapse into one.
func (o Offense) key() offenseKey {
	return offenseKey{o.Check, o.Path, o.Position.Start, o.Position.End, o.Message}
}

type offenseKey struct {
	check   string
	path    string
	start   int
	end     int
	message string
}
