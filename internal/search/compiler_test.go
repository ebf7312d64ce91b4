package search

import (
	"context"
	"testing"
	"time"

	"github.com/YAQOOBM6874/Smart-IR-System/internal/apperr"
	"github.com/YAQOOBM6874/Smart-IR-System/internal/domain"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEncoder struct {
	calls int
}

func (s *stubEncoder) EncodeText(_ context.Context, _ string) ([]float32, error) {
	s.calls++
	return make([]float32, domain.DefaultVectorDims), nil
}

func fixedNow() time.Time {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

func newTestCompiler(enc queryEncoder) *Compiler {
	opts := []CompilerOption{WithCompilerClock(fixedNow)}
	if enc != nil {
		opts = append(opts, WithQueryEncoder(enc))
	}
	return NewCompiler(opts...)
}

func boolQueryOf(t *testing.T, q CompiledQuery) *types.BoolQuery {
	t.Helper()
	require.NotNil(t, q.Query)
	require.NotNil(t, q.Query.FunctionScore)
	require.NotNil(t, q.Query.FunctionScore.Query)
	require.NotNil(t, q.Query.FunctionScore.Query.Bool)
	return q.Query.FunctionScore.Query.Bool
}

func TestCompile_RecencyDecayAlwaysApplies(t *testing.T) {
	c := newTestCompiler(nil)

	q, err := c.Compile(context.Background(), domain.SearchRequest{FreeText: "wheat"})
	require.NoError(t, err)

	fs := q.Query.FunctionScore
	require.Len(t, fs.Functions, 1)
	require.NotNil(t, fs.Functions[0].Gauss)
	require.NotNil(t, fs.Functions[0].Weight)
	assert.Equal(t, types.Float64(2), *fs.Functions[0].Weight)
}

func TestCompile_LexicalClausesAndBoost(t *testing.T) {
	c := newTestCompiler(nil)
	w := 0.3

	q, err := c.Compile(context.Background(), domain.SearchRequest{
		FreeText:       "grain shipments",
		SemanticWeight: &w,
	})
	require.NoError(t, err)

	bq := boolQueryOf(t, q)
	require.Len(t, bq.Should, 2)
	assert.Equal(t, "1", bq.MinimumShouldMatch)
	require.NotNil(t, bq.Boost)
	assert.InDelta(t, 0.7, float64(*bq.Boost), 1e-6)
}

func TestCompile_EmptyTextMatchesAll(t *testing.T) {
	c := newTestCompiler(&stubEncoder{})

	q, err := c.Compile(context.Background(), domain.SearchRequest{})
	require.NoError(t, err)

	bq := boolQueryOf(t, q)
	require.Len(t, bq.Must, 1)
	assert.NotNil(t, bq.Must[0].MatchAll)
	assert.Empty(t, bq.Should)
	assert.Empty(t, q.Knn)
}

func TestCompile_KnnRequiresTextWeightAndEncoder(t *testing.T) {
	t.Run("present with text, weight and encoder", func(t *testing.T) {
		enc := &stubEncoder{}
		c := newTestCompiler(enc)
		w := 0.6

		q, err := c.Compile(context.Background(), domain.SearchRequest{
			FreeText:       "oil prices",
			SemanticWeight: &w,
			Size:           20,
		})
		require.NoError(t, err)

		require.Len(t, q.Knn, 1)
		knn := q.Knn[0]
		assert.Equal(t, "content_vector", knn.Field)
		assert.Len(t, knn.QueryVector, domain.DefaultVectorDims)
		require.NotNil(t, knn.K)
		assert.Equal(t, 20, *knn.K)
		require.NotNil(t, knn.NumCandidates)
		assert.Equal(t, 100, *knn.NumCandidates)
		require.NotNil(t, knn.Boost)
		assert.InDelta(t, 6.0, float64(*knn.Boost), 1e-6)
		assert.Equal(t, 1, enc.calls)
	})

	t.Run("absent with zero weight", func(t *testing.T) {
		enc := &stubEncoder{}
		c := newTestCompiler(enc)
		w := 0.0

		q, err := c.Compile(context.Background(), domain.SearchRequest{
			FreeText:       "oil prices",
			SemanticWeight: &w,
		})
		require.NoError(t, err)
		assert.Empty(t, q.Knn)
		assert.Equal(t, 0, enc.calls)
	})

	t.Run("absent without encoder", func(t *testing.T) {
		c := newTestCompiler(nil)

		q, err := c.Compile(context.Background(), domain.SearchRequest{FreeText: "oil prices"})
		require.NoError(t, err)
		assert.Empty(t, q.Knn)
	})
}

func TestCompile_KnnSharesFilters(t *testing.T) {
	c := newTestCompiler(&stubEncoder{})

	q, err := c.Compile(context.Background(), domain.SearchRequest{
		FreeText:     "acquisitions",
		Georeference: "usa",
	})
	require.NoError(t, err)

	bq := boolQueryOf(t, q)
	require.Len(t, bq.Filter, 1)
	require.Len(t, q.Knn, 1)
	assert.Equal(t, bq.Filter, q.Knn[0].Filter)
}

func TestCompile_MonthYearExpressionCoversFullMonth(t *testing.T) {
	c := newTestCompiler(nil)

	q, err := c.Compile(context.Background(), domain.SearchRequest{
		TemporalExpression: "February 1987",
	})
	require.NoError(t, err)

	bq := boolQueryOf(t, q)
	require.Len(t, bq.Filter, 1)
	require.Contains(t, bq.Filter[0].Range, "date")

	rangeQuery, ok := bq.Filter[0].Range["date"].(types.DateRangeQuery)
	require.True(t, ok)
	require.NotNil(t, rangeQuery.Gte)
	require.NotNil(t, rangeQuery.Lte)
	assert.Equal(t, "1987-02-01T00:00:00", *rangeQuery.Gte)
	assert.Equal(t, "1987-02-28T23:59:59", *rangeQuery.Lte)
}

func TestCompile_FullDateExpressionCoversSingleDay(t *testing.T) {
	c := newTestCompiler(nil)

	q, err := c.Compile(context.Background(), domain.SearchRequest{
		TemporalExpression: "2024-01-20",
	})
	require.NoError(t, err)

	bq := boolQueryOf(t, q)
	rangeQuery, ok := bq.Filter[0].Range["date"].(types.DateRangeQuery)
	require.True(t, ok)
	assert.Equal(t, "2024-01-20T00:00:00", *rangeQuery.Gte)
	assert.Equal(t, "2024-01-20T23:59:59", *rangeQuery.Lte)
}

func TestCompile_UnresolvableExpressionMatchesLexically(t *testing.T) {
	c := newTestCompiler(nil)

	q, err := c.Compile(context.Background(), domain.SearchRequest{
		TemporalExpression: "the olden days",
	})
	require.NoError(t, err)

	bq := boolQueryOf(t, q)
	require.Len(t, bq.Filter, 1)
	require.NotNil(t, bq.Filter[0].MultiMatch)
	assert.Contains(t, bq.Filter[0].MultiMatch.Fields, "temporal_expressions")
}

func TestCompile_GeoFilterAndSort(t *testing.T) {
	c := newTestCompiler(nil)

	q, err := c.Compile(context.Background(), domain.SearchRequest{
		Location: &domain.GeoPoint{Lat: 51.5, Lon: -0.12},
	})
	require.NoError(t, err)

	bq := boolQueryOf(t, q)
	require.Len(t, bq.Filter, 1)
	require.NotNil(t, bq.Filter[0].GeoDistance)
	assert.Equal(t, "100km", bq.Filter[0].GeoDistance.Distance)

	require.Len(t, q.Sort, 2)
	assert.NotNil(t, q.Sort[0].SortOptions["_score"])
	require.NotNil(t, q.Sort[1].GeoDistance_)
}

func TestCompile_NegativeSizeRejected(t *testing.T) {
	c := newTestCompiler(nil)

	_, err := c.Compile(context.Background(), domain.SearchRequest{Size: -1})
	var verr *apperr.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestCompileAutocomplete(t *testing.T) {
	c := newTestCompiler(nil)

	t.Run("short prefix rejected", func(t *testing.T) {
		_, err := c.CompileAutocomplete("ab", 5)
		var verr *apperr.ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("builds fuzzy and phrase prefix clauses", func(t *testing.T) {
		q, err := c.CompileAutocomplete("whea", 0)
		require.NoError(t, err)

		require.NotNil(t, q.Query.Bool)
		require.Len(t, q.Query.Bool.Should, 2)
		assert.Contains(t, q.Query.Bool.Should[0].Match, "title.autocomplete")
		assert.Contains(t, q.Query.Bool.Should[1].MatchPhrasePrefix, "title")
		assert.Equal(t, 5, q.Size)
	})
}
