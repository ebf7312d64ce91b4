package es

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/YAQOOBM6874/Smart-IR-System/internal/apperr"
	"github.com/YAQOOBM6874/Smart-IR-System/internal/domain"
	"github.com/YAQOOBM6874/Smart-IR-System/internal/search"
	"github.com/YAQOOBM6874/Smart-IR-System/internal/storage"
	"github.com/YAQOOBM6874/Smart-IR-System/pkg/utils"
	"github.com/elastic/go-elasticsearch/v8"
	essearch "github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
)

const scoreDecimalPlaces = 4

type Searcher struct {
	client    *elasticsearch.TypedClient
	indexName string
}

func NewSearcher(config ClientConfig) (*Searcher, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	return &Searcher{
		client:    client,
		indexName: config.IndexName,
	}, nil
}

// Search executes a compiled plan and returns hits with scores normalized
// against the page maximum, so the best hit always scores 1.0.
func (r *Searcher) Search(ctx context.Context, q search.CompiledQuery) ([]domain.Hit, error) {
	res, err := r.execute(ctx, q)
	if err != nil {
		return nil, err
	}

	maxScore := (*float64)(res.Hits.MaxScore)
	hasGeoSort := len(q.Sort) > 1

	hits := make([]domain.Hit, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var doc esDocument
		if err := json.Unmarshal(hit.Source_, &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal document: %w", err)
		}

		var raw float64
		if hit.Score_ != nil {
			raw = float64(*hit.Score_)
		}

		mapped := domain.Hit{
			ID:     doc.ID,
			Record: mapToRecord(doc),
			Score:  utils.RoundDecimal(domain.NormalizeScore(raw, maxScore), scoreDecimalPlaces),
		}
		if hasGeoSort {
			mapped.DistanceKM = distanceFromSortValues(hit.Sort)
		}

		hits = append(hits, mapped)
	}

	slog.Info("search executed",
		"total_matches", res.Hits.Total.Value,
		"returned", len(hits),
		"knn", len(q.Knn) > 0,
		"index", r.indexName)

	return hits, nil
}

// Autocomplete executes a compiled suggestion query and shapes the hits as
// lightweight suggestions.
func (r *Searcher) Autocomplete(ctx context.Context, q search.CompiledQuery) ([]domain.Suggestion, error) {
	res, err := r.execute(ctx, q)
	if err != nil {
		return nil, err
	}

	maxScore := (*float64)(res.Hits.MaxScore)

	suggestions := make([]domain.Suggestion, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var doc esDocument
		if err := json.Unmarshal(hit.Source_, &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal document: %w", err)
		}

		var raw float64
		if hit.Score_ != nil {
			raw = float64(*hit.Score_)
		}

		record := mapToRecord(doc)
		suggestions = append(suggestions, domain.Suggestion{
			ID:      doc.ID,
			Title:   doc.Title,
			Date:    doc.Date.Time,
			Authors: record.Authors,
			Score:   utils.RoundDecimal(domain.NormalizeScore(raw, maxScore), scoreDecimalPlaces),
		})
	}

	return suggestions, nil
}

func (r *Searcher) GetByID(ctx context.Context, id string) (*domain.Record, error) {
	res, err := r.client.Get(r.indexName, id).Do(ctx)
	if err != nil {
		return nil, apperr.NewIndexBackend("get", err)
	}
	if !res.Found {
		return nil, apperr.NewNotFound(id)
	}

	var doc esDocument
	if err := json.Unmarshal(res.Source_, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}

	record := mapToRecord(doc)
	return &record, nil
}

func (r *Searcher) Count(ctx context.Context) (int64, error) {
	res, err := r.client.Count().Index(r.indexName).Do(ctx)
	if err != nil {
		return 0, apperr.NewIndexBackend("count", err)
	}
	return res.Count, nil
}

func (r *Searcher) execute(ctx context.Context, q search.CompiledQuery) (*essearch.Response, error) {
	req := r.client.Search().
		Index(r.indexName).
		Query(q.Query).
		Size(q.Size).
		TrackScores(true)

	if len(q.Knn) > 0 {
		req = req.Knn(q.Knn...)
	}

	sorts := make([]types.SortCombinations, 0, len(q.Sort))
	for i := range q.Sort {
		sorts = append(sorts, &q.Sort[i])
	}
	if len(sorts) > 0 {
		req = req.Sort(sorts...)
	}

	res, err := req.Do(ctx)
	if err != nil {
		slog.Error("search failed", "error", err, "index", r.indexName)
		return nil, apperr.NewIndexBackend("search", err)
	}

	return res, nil
}

// distanceFromSortValues reads the geo distance sort key that follows the
// score key. The compiler requests kilometers.
func distanceFromSortValues(values []types.FieldValue) *float64 {
	if len(values) < 2 {
		return nil
	}

	if d, ok := values[1].(float64); ok {
		rounded := utils.RoundDecimal(d, scoreDecimalPlaces)
		return &rounded
	}
	return nil
}

var _ storage.Searcher = (*Searcher)(nil)
