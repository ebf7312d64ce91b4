package router

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/YAQOOBM6874/Smart-IR-System/internal/domain"
	"github.com/YAQOOBM6874/Smart-IR-System/internal/search"
	"github.com/YAQOOBM6874/Smart-IR-System/internal/storage"
	"github.com/labstack/echo/v4"
)

type SearchRouter struct {
	e        *echo.Echo
	compiler *search.Compiler
	searcher storage.Searcher
}

func NewSearchRouter(e *echo.Echo, compiler *search.Compiler, searcher storage.Searcher) *SearchRouter {
	return &SearchRouter{
		e:        e,
		compiler: compiler,
		searcher: searcher,
	}
}

func (r *SearchRouter) Bind() {
	r.e.POST("/api/search", r.searchHandler)
	r.e.GET("/api/autocomplete", r.autocompleteHandler)
}

type searchResponse struct {
	Results []domain.Hit `json:"results"`
	Count   int          `json:"count"`
}

func (r *SearchRouter) searchHandler(c echo.Context) error {
	var req domain.SearchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid search request body")
	}

	compiled, err := r.compiler.Compile(c.Request().Context(), req)
	if err != nil {
		return err
	}

	hits, err := r.searcher.Search(c.Request().Context(), compiled)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, searchResponse{
		Results: hits,
		Count:   len(hits),
	})
}

type autocompleteResponse struct {
	Suggestions []domain.Suggestion `json:"suggestions"`
}

func (r *SearchRouter) autocompleteHandler(c echo.Context) error {
	prefix := c.QueryParam("q")

	// Prefixes shorter than the edge-ngram minimum cannot match anything.
	if len(strings.TrimSpace(prefix)) < domain.AutocompleteMinChars {
		return c.JSON(http.StatusOK, autocompleteResponse{Suggestions: []domain.Suggestion{}})
	}

	size := 0
	if raw := c.QueryParam("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err == nil {
			size = parsed
		}
	}

	compiled, err := r.compiler.CompileAutocomplete(prefix, size)
	if err != nil {
		return err
	}

	suggestions, err := r.searcher.Autocomplete(c.Request().Context(), compiled)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, autocompleteResponse{Suggestions: suggestions})
}
