package es

import (
	"context"
	"fmt"
	"time"

	"github.com/YAQOOBM6874/Smart-IR-System/internal/analytics"
	"github.com/YAQOOBM6874/Smart-IR-System/internal/apperr"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/calendarinterval"
)

// Aggregator computes corpus statistics with index-side aggregations, so
// none of the documents ever travel to the application.
type Aggregator struct {
	client    *elasticsearch.TypedClient
	indexName string
}

func NewAggregator(config ClientConfig) (*Aggregator, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	return &Aggregator{
		client:    client,
		indexName: config.IndexName,
	}, nil
}

var calendarIntervals = map[string]calendarinterval.CalendarInterval{
	"day":   calendarinterval.Day,
	"week":  calendarinterval.Week,
	"month": calendarinterval.Month,
	"year":  calendarinterval.Year,
}

var periodFormats = map[string]string{
	"day":   "yyyy-MM-dd",
	"week":  "yyyy-MM-dd",
	"month": "yyyy-MM",
	"year":  "yyyy",
}

func (a *Aggregator) TemporalDistribution(ctx context.Context, req analytics.TemporalRequest) (*analytics.TemporalDistribution, error) {
	ci, ok := calendarIntervals[req.Interval]
	if !ok {
		return nil, apperr.NewValidation("unsupported histogram interval: " + req.Interval)
	}

	format := periodFormats[req.Interval]
	minDocs := 1

	search := a.client.Search().
		Index(a.indexName).
		Size(0).
		TrackTotalHits(true).
		Aggregations(map[string]types.Aggregations{
			"by_period": {
				DateHistogram: &types.DateHistogramAggregation{
					Field:            strPtr("date"),
					CalendarInterval: &ci,
					Format:           &format,
					MinDocCount:      &minDocs,
				},
			},
		})

	if rangeQuery, ok := dateWindow(req.DateFrom, req.DateTo); ok {
		search = search.Query(&rangeQuery)
	}

	res, err := search.Do(ctx)
	if err != nil {
		return nil, apperr.NewIndexBackend("aggregate", err)
	}

	dist := &analytics.TemporalDistribution{
		Interval: req.Interval,
		Total:    res.Hits.Total.Value,
	}

	agg, ok := res.Aggregations["by_period"].(*types.DateHistogramAggregate)
	if !ok {
		return nil, fmt.Errorf("unexpected aggregate shape for by_period")
	}

	buckets, ok := agg.Buckets.([]types.DateHistogramBucket)
	if !ok {
		return nil, fmt.Errorf("unexpected bucket shape for by_period")
	}

	for _, b := range buckets {
		period := ""
		if b.KeyAsString != nil {
			period = *b.KeyAsString
		}
		dist.Buckets = append(dist.Buckets, analytics.PeriodCount{
			Period: period,
			Count:  b.DocCount,
		})
	}

	return dist, nil
}

func (a *Aggregator) GeoreferenceStats(ctx context.Context, topN int) (*analytics.GeoreferenceStats, error) {
	res, err := a.client.Search().
		Index(a.indexName).
		Size(0).
		Aggregations(map[string]types.Aggregations{
			"top_places": {
				Terms: &types.TermsAggregation{
					Field: strPtr("georeferences"),
					Size:  &topN,
				},
			},
			"unique_places": {
				Cardinality: &types.CardinalityAggregation{
					Field: strPtr("georeferences"),
				},
			},
		}).
		Do(ctx)
	if err != nil {
		return nil, apperr.NewIndexBackend("aggregate", err)
	}

	stats := &analytics.GeoreferenceStats{}

	stats.TopPlaces, err = termCounts(res.Aggregations["top_places"])
	if err != nil {
		return nil, err
	}

	if card, ok := res.Aggregations["unique_places"].(*types.CardinalityAggregate); ok {
		stats.UniquePlaces = card.Value
	}

	return stats, nil
}

func (a *Aggregator) AuthorStats(ctx context.Context, topN int) (*analytics.AuthorStats, error) {
	res, err := a.client.Search().
		Index(a.indexName).
		Size(0).
		Aggregations(map[string]types.Aggregations{
			"authors": {
				Nested: &types.NestedAggregation{Path: strPtr("authors")},
				Aggregations: map[string]types.Aggregations{
					"top_authors": {
						Terms: &types.TermsAggregation{
							Field: strPtr("authors.full_name"),
							Size:  &topN,
						},
					},
					"unique_authors": {
						Cardinality: &types.CardinalityAggregation{
							Field: strPtr("authors.full_name"),
						},
					},
				},
			},
		}).
		Do(ctx)
	if err != nil {
		return nil, apperr.NewIndexBackend("aggregate", err)
	}

	nested, ok := res.Aggregations["authors"].(*types.NestedAggregate)
	if !ok {
		return nil, fmt.Errorf("unexpected aggregate shape for authors")
	}

	stats := &analytics.AuthorStats{}

	stats.TopAuthors, err = termCounts(nested.Aggregations["top_authors"])
	if err != nil {
		return nil, err
	}

	if card, ok := nested.Aggregations["unique_authors"].(*types.CardinalityAggregate); ok {
		stats.UniqueAuthors = card.Value
	}

	return stats, nil
}

func (a *Aggregator) Overview(ctx context.Context) (*analytics.Overview, error) {
	res, err := a.client.Search().
		Index(a.indexName).
		Size(0).
		TrackTotalHits(true).
		Aggregations(map[string]types.Aggregations{
			"earliest": {Min: &types.MinAggregation{Field: strPtr("date")}},
			"latest":   {Max: &types.MaxAggregation{Field: strPtr("date")}},
			"authors": {
				Nested: &types.NestedAggregation{Path: strPtr("authors")},
				Aggregations: map[string]types.Aggregations{
					"unique_authors": {
						Cardinality: &types.CardinalityAggregation{
							Field: strPtr("authors.full_name"),
						},
					},
				},
			},
			"unique_places": {
				Cardinality: &types.CardinalityAggregation{
					Field: strPtr("georeferences"),
				},
			},
			"with_geopoint": {
				Filter: &types.Query{
					Exists: &types.ExistsQuery{Field: "geopoint"},
				},
			},
		}).
		Do(ctx)
	if err != nil {
		return nil, apperr.NewIndexBackend("aggregate", err)
	}

	overview := &analytics.Overview{
		TotalDocuments: res.Hits.Total.Value,
	}

	if earliest, ok := res.Aggregations["earliest"].(*types.MinAggregate); ok && earliest.Value != nil {
		t := time.UnixMilli(int64(*earliest.Value)).UTC()
		overview.EarliestDate = &t
	}
	if latest, ok := res.Aggregations["latest"].(*types.MaxAggregate); ok && latest.Value != nil {
		t := time.UnixMilli(int64(*latest.Value)).UTC()
		overview.LatestDate = &t
	}
	if nested, ok := res.Aggregations["authors"].(*types.NestedAggregate); ok {
		if card, ok := nested.Aggregations["unique_authors"].(*types.CardinalityAggregate); ok {
			overview.UniqueAuthors = card.Value
		}
	}
	if card, ok := res.Aggregations["unique_places"].(*types.CardinalityAggregate); ok {
		overview.UniquePlaces = card.Value
	}
	if filtered, ok := res.Aggregations["with_geopoint"].(*types.FilterAggregate); ok {
		overview.DocsWithGeopoint = filtered.DocCount
	}

	return overview, nil
}

func dateWindow(from, to string) (types.Query, bool) {
	if from == "" && to == "" {
		return types.Query{}, false
	}

	rangeQuery := types.DateRangeQuery{}
	if from != "" {
		rangeQuery.Gte = &from
	}
	if to != "" {
		rangeQuery.Lte = &to
	}

	return types.Query{
		Range: map[string]types.RangeQuery{"date": rangeQuery},
	}, true
}

func termCounts(agg types.Aggregate) ([]analytics.TermCount, error) {
	terms, ok := agg.(*types.StringTermsAggregate)
	if !ok {
		return nil, fmt.Errorf("unexpected terms aggregate shape")
	}

	buckets, ok := terms.Buckets.([]types.StringTermsBucket)
	if !ok {
		return nil, fmt.Errorf("unexpected terms bucket shape")
	}

	counts := make([]analytics.TermCount, 0, len(buckets))
	for _, b := range buckets {
		term, _ := b.Key.(string)
		if term == "" {
			term = fmt.Sprint(b.Key)
		}
		counts = append(counts, analytics.TermCount{
			Term:  term,
			Count: b.DocCount,
		})
	}

	return counts, nil
}

var _ analytics.Source = (*Aggregator)(nil)
