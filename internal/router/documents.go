package router

import (
	"net/http"
	"time"

	"github.com/YAQOOBM6874/Smart-IR-System/internal/domain"
	"github.com/YAQOOBM6874/Smart-IR-System/internal/enrich"
	"github.com/YAQOOBM6874/Smart-IR-System/internal/storage"
	"github.com/labstack/echo/v4"
)

type DocumentRouter struct {
	e        *echo.Echo
	pipeline *enrich.Pipeline
	searcher storage.Searcher
}

func NewDocumentRouter(e *echo.Echo, pipeline *enrich.Pipeline, searcher storage.Searcher) *DocumentRouter {
	return &DocumentRouter{
		e:        e,
		pipeline: pipeline,
		searcher: searcher,
	}
}

func (r *DocumentRouter) Bind() {
	r.e.POST("/api/documents", r.indexHandler)
	r.e.POST("/api/documents/bulk", r.bulkHandler)
	r.e.GET("/api/documents/:id", r.getHandler)
	r.e.GET("/api/index/stats", r.statsHandler)
	r.e.POST("/api/index/sample", r.sampleHandler)
}

func (r *DocumentRouter) indexHandler(c echo.Context) error {
	var raw domain.RawDocument
	if err := c.Bind(&raw); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid document body")
	}

	id, err := r.pipeline.IndexOne(c.Request().Context(), raw)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]string{"id": id})
}

func (r *DocumentRouter) bulkHandler(c echo.Context) error {
	var raws []domain.RawDocument
	if err := c.Bind(&raws); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid bulk body")
	}

	stats, err := r.pipeline.IndexBulk(c.Request().Context(), raws)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, stats)
}

func (r *DocumentRouter) getHandler(c echo.Context) error {
	record, err := r.searcher.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, record)
}

func (r *DocumentRouter) statsHandler(c echo.Context) error {
	count, err := r.searcher.Count(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]int64{"document_count": count})
}

// sampleHandler seeds the index with a few documents, handy for trying the
// API against an empty index.
func (r *DocumentRouter) sampleHandler(c echo.Context) error {
	stats, err := r.pipeline.IndexBulk(c.Request().Context(), sampleDocuments())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, stats)
}

func sampleDocuments() []domain.RawDocument {
	date := func(y int, m time.Month, d int) *time.Time {
		t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &t
	}

	return []domain.RawDocument{
		{
			Title:   "Grain shipments from Rotterdam resume",
			Content: "Wheat and corn shipments resumed from Rotterdam on 2024-01-20 after a week of storms across the North Sea.",
			Authors: domain.AuthorsField{{FirstName: "Anna", LastName: "Kovacs"}},
			Date:    date(2024, time.January, 20),
		},
		{
			Title:   "Tokyo exchange extends trading hours",
			Content: "The Tokyo stock exchange said yesterday it will extend trading hours from March 2024, the first change since 1987.",
			Authors: domain.AuthorsField{{FirstName: "Ken", LastName: "Watanabe"}},
		},
		{
			Title:   "Coffee harvest outlook improves in Brazil",
			Content: "Growers around Sao Paulo expect a stronger harvest this season, with exports through the port of Santos up sharply.",
			Metadata: &domain.SourceMetadata{
				SourcePlaces: []string{"brazil"},
				SourceTopics: []string{"coffee"},
			},
		},
	}
}
