package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/YAQOOBM6874/Smart-IR-System/internal/apperr"
	"github.com/YAQOOBM6874/Smart-IR-System/internal/domain"
	"github.com/YAQOOBM6874/Smart-IR-System/internal/temporal"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/distanceunit"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/functionboostmode"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/functionscoremode"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/textquerytype"
)

const (
	// recencyScale is the gauss decay horizon: a year-old document keeps
	// half its recency contribution.
	recencyScale  = "365d"
	recencyDecay  = 0.5
	recencyWeight = 2.0

	knnCandidates        = 100
	knnBoostScale        = 10
	dateFilterFormat     = "2006-01-02T15:04:05"
	autocompleteSize     = 5
	vectorField          = "content_vector"
	geoPointField        = "geopoint"
	georeferencesField   = "georeferences"
	temporalExpressField = "temporal_expressions"
)

// CompiledQuery is a backend-ready retrieval plan: a scored lexical query,
// optional vector clauses, and the sort order. The searcher executes it
// verbatim.
type CompiledQuery struct {
	Query *types.Query
	Knn   []types.KnnSearch
	Sort  []types.SortOptions
	Size  int
}

type queryEncoder interface {
	EncodeText(ctx context.Context, text string) ([]float32, error)
}

// Compiler turns search requests into compiled hybrid queries. The encoder
// is optional; without it compiled queries are purely lexical.
type Compiler struct {
	encoder queryEncoder
	now     func() time.Time
}

type CompilerOption func(c *Compiler)

func WithQueryEncoder(enc queryEncoder) CompilerOption {
	return func(c *Compiler) {
		c.encoder = enc
	}
}

func WithCompilerClock(now func() time.Time) CompilerOption {
	return func(c *Compiler) {
		c.now = now
	}
}

func NewCompiler(opts ...CompilerOption) *Compiler {
	c := &Compiler{
		now: time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Compile builds the full hybrid plan: lexical should clauses weighted by
// 1-semanticWeight, a gauss recency function that always applies, the
// request filters, and a knn clause weighted by semanticWeight whenever
// free text and an encoder are available. Filters constrain the knn side
// too, so vector matches can never escape them.
func (c *Compiler) Compile(ctx context.Context, req domain.SearchRequest) (CompiledQuery, error) {
	if err := req.Normalize(); err != nil {
		return CompiledQuery{}, err
	}

	semanticWeight := *req.SemanticWeight
	filters := c.buildFilters(req)

	boolQuery := &types.BoolQuery{
		Filter: filters,
	}

	freeText := strings.TrimSpace(req.FreeText)
	if freeText != "" {
		boolQuery.Should = c.lexicalClauses(freeText)
		boolQuery.MinimumShouldMatch = "1"
		lexicalBoost := float32(1 - semanticWeight)
		boolQuery.Boost = &lexicalBoost
	} else {
		boolQuery.Must = []types.Query{{MatchAll: &types.MatchAllQuery{}}}
	}

	scoreMode := functionscoremode.Sum
	boostMode := functionboostmode.Sum
	compiled := CompiledQuery{
		Query: &types.Query{
			FunctionScore: &types.FunctionScoreQuery{
				Query:     &types.Query{Bool: boolQuery},
				Functions: []types.FunctionScore{c.recencyFunction()},
				ScoreMode: &scoreMode,
				BoostMode: &boostMode,
			},
		},
		Sort: c.buildSort(req),
		Size: req.Size,
	}

	if freeText != "" && semanticWeight > 0 && c.encoder != nil {
		knn, err := c.knnClause(ctx, freeText, semanticWeight, req.Size, filters)
		if err != nil {
			return CompiledQuery{}, err
		}
		compiled.Knn = []types.KnnSearch{knn}
	}

	slog.Debug("compiled search request",
		"free_text", freeText != "",
		"filters", len(filters),
		"knn", len(compiled.Knn) > 0,
		"semantic_weight", semanticWeight,
		"size", req.Size)

	return compiled, nil
}

func (c *Compiler) lexicalClauses(freeText string) []types.Query {
	bestFields := textquerytype.Bestfields
	phrase := textquerytype.Phrase
	phraseBoost := float32(2)

	fuzzy := &types.MultiMatchQuery{
		Query:     freeText,
		Fields:    []string{"title^10", "content"},
		Type:      &bestFields,
		Fuzziness: "AUTO",
	}

	exactPhrase := &types.MultiMatchQuery{
		Query:  freeText,
		Fields: []string{"title.standard^5", "content"},
		Type:   &phrase,
		Boost:  &phraseBoost,
	}

	return []types.Query{
		{MultiMatch: fuzzy},
		{MultiMatch: exactPhrase},
	}
}

// recencyFunction is the gauss date decay applied to every search: fresh
// documents gain up to recencyWeight extra score, year-old ones half that.
func (c *Compiler) recencyFunction() types.FunctionScore {
	origin := c.now().Format(dateFilterFormat)
	decay := types.Float64(recencyDecay)
	weight := types.Float64(recencyWeight)

	return types.FunctionScore{
		Gauss: types.DateDecayFunction{
			DecayFunctionBaseDateMathDuration: map[string]types.DecayPlacementDateMathDuration{
				"date": {
					Origin: &origin,
					Scale:  recencyScale,
					Decay:  &decay,
				},
			},
		},
		Weight: &weight,
	}
}

func (c *Compiler) buildFilters(req domain.SearchRequest) []types.Query {
	var filters []types.Query

	if expr := strings.TrimSpace(req.TemporalExpression); expr != "" {
		filters = append(filters, c.temporalFilter(expr))
	}

	if ref := strings.TrimSpace(req.Georeference); ref != "" {
		filters = append(filters, types.Query{
			Match: map[string]types.MatchQuery{
				georeferencesField: {Query: ref},
			},
		})
	}

	if req.DateFrom != "" || req.DateTo != "" {
		rangeQuery := types.DateRangeQuery{}
		if req.DateFrom != "" {
			from := req.DateFrom
			rangeQuery.Gte = &from
		}
		if req.DateTo != "" {
			to := req.DateTo
			rangeQuery.Lte = &to
		}
		filters = append(filters, types.Query{
			Range: map[string]types.RangeQuery{"date": rangeQuery},
		})
	}

	if req.Location != nil {
		filters = append(filters, types.Query{
			GeoDistance: &types.GeoDistanceQuery{
				Distance: req.Distance,
				GeoDistanceQuery: map[string]types.GeoLocation{
					geoPointField: types.LatLonGeoLocation{
						Lat: types.Float64(req.Location.Lat),
						Lon: types.Float64(req.Location.Lon),
					},
				},
			},
		})
	}

	return filters
}

// temporalFilter resolves a natural-language expression to a date range.
// Month-year expressions cover the whole month, fully resolved ones a single
// day. An unresolvable expression degrades to lexical matching against the
// indexed expressions and text.
func (c *Compiler) temporalFilter(expr string) types.Query {
	t, ok := temporal.Parse(c.now(), expr)
	if !ok {
		slog.Debug("temporal expression did not resolve to a date, matching lexically", "expression", expr)
		return types.Query{
			MultiMatch: &types.MultiMatchQuery{
				Query:  expr,
				Fields: []string{temporalExpressField, "title", "content"},
			},
		}
	}

	var from, to time.Time
	if temporal.IsMonthYearExpression(expr) {
		from, to = temporal.MonthRange(t)
	} else {
		from, to = temporal.DayRange(t)
	}

	gte := from.Format(dateFilterFormat)
	lte := to.Format(dateFilterFormat)
	return types.Query{
		Range: map[string]types.RangeQuery{
			"date": types.DateRangeQuery{Gte: &gte, Lte: &lte},
		},
	}
}

func (c *Compiler) knnClause(ctx context.Context, freeText string, semanticWeight float64, size int, filters []types.Query) (types.KnnSearch, error) {
	vector, err := c.encoder.EncodeText(ctx, freeText)
	if err != nil {
		return types.KnnSearch{}, fmt.Errorf("encode query text: %w", err)
	}

	k := size
	candidates := knnCandidates
	boost := float32(semanticWeight * knnBoostScale)

	return types.KnnSearch{
		Field:         vectorField,
		QueryVector:   vector,
		K:             &k,
		NumCandidates: &candidates,
		Boost:         &boost,
		Filter:        filters,
	}, nil
}

func (c *Compiler) buildSort(req domain.SearchRequest) []types.SortOptions {
	desc := sortorder.Desc
	sorts := []types.SortOptions{
		{SortOptions: map[string]types.FieldSort{
			"_score": {Order: &desc},
		}},
	}

	if req.Location != nil {
		asc := sortorder.Asc
		km := distanceunit.Kilometers
		sorts = append(sorts, types.SortOptions{
			GeoDistance_: &types.GeoDistanceSort{
				GeoDistanceSort: map[string][]types.GeoLocation{
					geoPointField: {types.LatLonGeoLocation{
						Lat: types.Float64(req.Location.Lat),
						Lon: types.Float64(req.Location.Lon),
					}},
				},
				Order: &asc,
				Unit:  &km,
			},
		})
	}

	return sorts
}

// CompileAutocomplete builds the title suggestion query: fuzzy prefix
// matching against the edge-ngram subfield plus a boosted phrase prefix on
// the full title.
func (c *Compiler) CompileAutocomplete(prefix string, size int) (CompiledQuery, error) {
	prefix = strings.TrimSpace(prefix)
	if len(prefix) < domain.AutocompleteMinChars {
		return CompiledQuery{}, apperr.NewValidation(
			fmt.Sprintf("autocomplete prefix must be at least %d characters", domain.AutocompleteMinChars))
	}
	if size <= 0 {
		size = autocompleteSize
	}

	fuzzyBoost := float32(2)
	prefixBoost := float32(3)

	boolQuery := &types.BoolQuery{
		Should: []types.Query{
			{Match: map[string]types.MatchQuery{
				"title.autocomplete": {
					Query:     prefix,
					Fuzziness: "AUTO",
					Boost:     &fuzzyBoost,
				},
			}},
			{MatchPhrasePrefix: map[string]types.MatchPhrasePrefixQuery{
				"title": {
					Query: prefix,
					Boost: &prefixBoost,
				},
			}},
		},
		MinimumShouldMatch: "1",
	}

	desc := sortorder.Desc
	return CompiledQuery{
		Query: &types.Query{Bool: boolQuery},
		Sort: []types.SortOptions{
			{SortOptions: map[string]types.FieldSort{
				"_score": {Order: &desc},
			}},
		},
		Size: size,
	}, nil
}
