package domain

import (
	"time"

	"github.com/YAQOOBM6874/Smart-IR-System/internal/apperr"
)

const (
	// DefaultSearchSize is the result count when the request omits one.
	DefaultSearchSize = 10

	// DefaultSemanticWeight splits scoring evenly between lexical and
	// vector similarity.
	DefaultSemanticWeight = 0.5

	// DefaultGeoDistance is the radius used when a location filter omits one.
	DefaultGeoDistance = "100km"

	// AutocompleteMinChars is the minimum prefix length before suggestions.
	AutocompleteMinChars = 3
)

// SearchRequest is a hybrid retrieval request. Every field is optional
// except that Size must stay positive once defaulted.
type SearchRequest struct {
	FreeText           string    `json:"query,omitempty"`
	TemporalExpression string    `json:"temporal_expression,omitempty"`
	Georeference       string    `json:"georeference,omitempty"`
	DateFrom           string    `json:"date_from,omitempty"`
	DateTo             string    `json:"date_to,omitempty"`
	Location           *GeoPoint `json:"location,omitempty"`
	Distance           string    `json:"distance,omitempty"`
	Size               int       `json:"size,omitempty"`
	SemanticWeight     *float64  `json:"semantic_weight,omitempty"`
}

// Normalize applies defaults and validates bounds. Zero size defaults,
// negative size is rejected.
func (r *SearchRequest) Normalize() error {
	if r.Size == 0 {
		r.Size = DefaultSearchSize
	}
	if r.Size < 0 {
		return apperr.NewValidation("size must be a positive integer")
	}
	if r.Distance == "" {
		r.Distance = DefaultGeoDistance
	}
	if r.SemanticWeight == nil {
		w := DefaultSemanticWeight
		r.SemanticWeight = &w
	}
	if *r.SemanticWeight < 0 || *r.SemanticWeight > 1 {
		return apperr.NewValidation("semantic_weight must be in [0,1]")
	}
	return nil
}

// Hit is one ranked search result. Score is normalized so the top result of
// a non-empty page is exactly 1.0.
type Hit struct {
	ID         string   `json:"id"`
	Record     Record   `json:"document"`
	Score      float64  `json:"score"`
	DistanceKM *float64 `json:"distance_km,omitempty"`
}

// Suggestion is one autocomplete result.
type Suggestion struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Date    time.Time `json:"date,omitempty"`
	Authors []Author  `json:"authors"`
	Score   float64   `json:"score"`
}

// SafeMaxScore guards score normalization against empty pages and zero
// maxima. Dividing a raw score by the returned value keeps results in [0,1].
func SafeMaxScore(max *float64) (float64, bool) {
	if max == nil || *max <= 0 {
		return 0, false
	}
	return *max, true
}

// NormalizeScore divides raw by max when max is usable, otherwise 0.
func NormalizeScore(raw float64, max *float64) float64 {
	m, ok := SafeMaxScore(max)
	if !ok {
		return 0
	}
	return raw / m
}
