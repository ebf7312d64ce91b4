package nlp

import "context"

// Label is an entity category produced by the tagger.
type Label string

const (
	LabelGPE      Label = "GPE"
	LabelLocation Label = "LOC"
	LabelFacility Label = "FAC"
	LabelDate     Label = "DATE"
	LabelTime     Label = "TIME"
)

// Span is one tagged entity occurrence.
type Span struct {
	Text  string `json:"text"`
	Label Label  `json:"label"`
}

// Tagger spots entity spans in free text. Implementations must degrade
// gracefully: an unreachable model returns an error, never panics, and
// callers fall back to regex extraction or empty output.
type Tagger interface {
	Tag(ctx context.Context, text string) ([]Span, error)
}

// NoopTagger is the capability-checked fallback selected at startup when no
// NER service is configured. It always returns no spans.
type NoopTagger struct{}

func NewNoopTagger() *NoopTagger {
	return &NoopTagger{}
}

func (NoopTagger) Tag(_ context.Context, _ string) ([]Span, error) {
	return nil, nil
}

// IsPlaceLabel reports whether the span category names a place.
func IsPlaceLabel(l Label) bool {
	return l == LabelGPE || l == LabelLocation || l == LabelFacility
}

// IsTemporalLabel reports whether the span category names a date or time.
func IsTemporalLabel(l Label) bool {
	return l == LabelDate || l == LabelTime
}
