package analytics

import (
	"context"
	"log/slog"
	"time"

	"github.com/YAQOOBM6874/Smart-IR-System/internal/apperr"
)

const (
	defaultTopN = 10
	maxTopN     = 100
)

// validIntervals are the calendar intervals the temporal histogram accepts.
var validIntervals = map[string]struct{}{
	"day":   {},
	"week":  {},
	"month": {},
	"year":  {},
}

type PeriodCount struct {
	Period string `json:"period"`
	Count  int64  `json:"count"`
}

type TermCount struct {
	Term  string `json:"term"`
	Count int64  `json:"count"`
}

// TemporalRequest bounds the histogram to an optional date window. Bounds
// are plain yyyy-MM-dd dates; either side may be empty.
type TemporalRequest struct {
	Interval string
	DateFrom string
	DateTo   string
}

type TemporalDistribution struct {
	Interval string        `json:"interval"`
	Buckets  []PeriodCount `json:"buckets"`
	Total    int64         `json:"total_documents"`
}

type GeoreferenceStats struct {
	TopPlaces    []TermCount `json:"top_places"`
	UniquePlaces int64       `json:"unique_places"`
}

type AuthorStats struct {
	TopAuthors    []TermCount `json:"top_authors"`
	UniqueAuthors int64       `json:"unique_authors"`
}

type Overview struct {
	TotalDocuments   int64      `json:"total_documents"`
	EarliestDate     *time.Time `json:"earliest_date,omitempty"`
	LatestDate       *time.Time `json:"latest_date,omitempty"`
	UniqueAuthors    int64      `json:"unique_authors"`
	UniquePlaces     int64      `json:"unique_places"`
	DocsWithGeopoint int64      `json:"documents_with_geopoint"`
}

// Source is the aggregation backend the service reads from.
type Source interface {
	TemporalDistribution(ctx context.Context, req TemporalRequest) (*TemporalDistribution, error)
	GeoreferenceStats(ctx context.Context, topN int) (*GeoreferenceStats, error)
	AuthorStats(ctx context.Context, topN int) (*AuthorStats, error)
	Overview(ctx context.Context) (*Overview, error)
}

// Service validates analytics requests and delegates to the backend.
type Service struct {
	source Source
}

func NewService(source Source) *Service {
	return &Service{source: source}
}

func (s *Service) TemporalDistribution(ctx context.Context, req TemporalRequest) (*TemporalDistribution, error) {
	if req.Interval == "" {
		req.Interval = "month"
	}
	if _, ok := validIntervals[req.Interval]; !ok {
		return nil, apperr.NewValidation("interval must be one of day, week, month, year")
	}
	for _, bound := range []string{req.DateFrom, req.DateTo} {
		if bound == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", bound); err != nil {
			return nil, apperr.NewValidation("date bounds must be yyyy-MM-dd")
		}
	}

	slog.Debug("computing temporal distribution",
		"interval", req.Interval,
		"date_from", req.DateFrom,
		"date_to", req.DateTo)
	return s.source.TemporalDistribution(ctx, req)
}

func (s *Service) GeoreferenceStats(ctx context.Context, topN int) (*GeoreferenceStats, error) {
	topN, err := clampTopN(topN)
	if err != nil {
		return nil, err
	}
	return s.source.GeoreferenceStats(ctx, topN)
}

func (s *Service) AuthorStats(ctx context.Context, topN int) (*AuthorStats, error) {
	topN, err := clampTopN(topN)
	if err != nil {
		return nil, err
	}
	return s.source.AuthorStats(ctx, topN)
}

func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	return s.source.Overview(ctx)
}

func clampTopN(topN int) (int, error) {
	if topN == 0 {
		return defaultTopN, nil
	}
	if topN < 0 || topN > maxTopN {
		return 0, apperr.NewValidation("top must be between 1 and 100")
	}
	return topN, nil
}
