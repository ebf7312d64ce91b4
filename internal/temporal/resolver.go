package temporal

import (
	"context"
	"log/slog"
	"regexp"
	"time"

	"github.com/YAQOOBM6874/Smart-IR-System/internal/nlp"
	dateparser "github.com/markusmobius/go-dateparser"
)

// numericDateRe is the fallback pattern used when no tagger output is
// available. It only spots numeric date-like tokens such as 2024-01-20.
var numericDateRe = regexp.MustCompile(`\b\d{1,4}[-/]\d{1,2}[-/]\d{1,4}\b`)

// Extraction is the result of temporal analysis over one text.
// Expressions keeps every distinct surface form in first-seen order;
// ParsedDates keeps only the expressions the date parser understood.
type Extraction struct {
	Expressions []string
	ParsedDates []time.Time
	MostRecent  *time.Time
}

// Resolver extracts temporal expressions and resolves them to timestamps.
type Resolver struct {
	tagger nlp.Tagger
	now    func() time.Time
}

type ResolverOption func(r *Resolver)

// WithClock overrides the reference time used for relative expressions.
func WithClock(now func() time.Time) ResolverOption {
	return func(r *Resolver) {
		r.now = now
	}
}

func NewResolver(tagger nlp.Tagger, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		tagger: tagger,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Extract finds temporal expressions in text. Tagger failures degrade to the
// numeric regex fallback; parse failures drop silently from ParsedDates but
// keep their surface form in Expressions.
func (r *Resolver) Extract(ctx context.Context, text string) (Extraction, error) {
	if text == "" {
		return Extraction{}, nil
	}

	var expressions []string

	spans, err := r.tagger.Tag(ctx, text)
	if err != nil {
		slog.Warn("entity tagger failed, falling back to numeric date pattern", "error", err)
		spans = nil
	}

	for _, span := range spans {
		if nlp.IsTemporalLabel(span.Label) {
			expressions = append(expressions, span.Text)
		}
	}

	if len(expressions) == 0 {
		expressions = numericDateRe.FindAllString(text, -1)
	}

	expressions = dedupePreservingOrder(expressions)

	var parsed []time.Time
	for _, expr := range expressions {
		if t, ok := Parse(r.now(), expr); ok {
			parsed = append(parsed, t)
		}
	}

	var mostRecent *time.Time
	for i := range parsed {
		if mostRecent == nil || parsed[i].After(*mostRecent) {
			mostRecent = &parsed[i]
		}
	}

	return Extraction{
		Expressions: expressions,
		ParsedDates: parsed,
		MostRecent:  mostRecent,
	}, nil
}

// Parse resolves one natural-language or formatted date expression relative
// to now. Handles absolutes, relatives ("yesterday") and partial dates
// ("March 15").
func Parse(now time.Time, expr string) (time.Time, bool) {
	cfg := &dateparser.Configuration{
		CurrentTime: now,
	}

	dt, err := dateparser.Parse(cfg, expr)
	if err != nil || dt.Time.IsZero() {
		return time.Time{}, false
	}

	return dt.Time, true
}

func dedupePreservingOrder(items []string) []string {
	if len(items) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
