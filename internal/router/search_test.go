package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/YAQOOBM6874/Smart-IR-System/internal/domain"
	"github.com/YAQOOBM6874/Smart-IR-System/internal/search"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSearcher struct {
	suggestions       []domain.Suggestion
	autocompleteCalls int
}

func (s *stubSearcher) Search(context.Context, search.CompiledQuery) ([]domain.Hit, error) {
	return nil, nil
}

func (s *stubSearcher) Autocomplete(context.Context, search.CompiledQuery) ([]domain.Suggestion, error) {
	s.autocompleteCalls++
	return s.suggestions, nil
}

func (s *stubSearcher) GetByID(context.Context, string) (*domain.Record, error) {
	return nil, nil
}

func (s *stubSearcher) Count(context.Context) (int64, error) {
	return 0, nil
}

func TestAutocompleteHandler_ShortPrefixReturnsEmpty(t *testing.T) {
	e := echo.New()
	searcher := &stubSearcher{}
	NewSearchRouter(e, search.NewCompiler(), searcher).Bind()

	for _, q := range []string{"", "co", "%20%20c%20%20"} {
		req := httptest.NewRequest(http.MethodGet, "/api/autocomplete?q="+q, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp autocompleteResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotNil(t, resp.Suggestions)
		assert.Empty(t, resp.Suggestions)
	}

	assert.Zero(t, searcher.autocompleteCalls)
}

func TestAutocompleteHandler_ValidPrefix(t *testing.T) {
	e := echo.New()
	searcher := &stubSearcher{
		suggestions: []domain.Suggestion{{ID: "doc-1", Title: "COCOA REVIEW"}},
	}
	NewSearchRouter(e, search.NewCompiler(), searcher).Bind()

	req := httptest.NewRequest(http.MethodGet, "/api/autocomplete?q=coc", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, searcher.autocompleteCalls)

	var resp autocompleteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Suggestions, 1)
	assert.Equal(t, "COCOA REVIEW", resp.Suggestions[0].Title)
}
