package router

import (
	"net/http"
	"strconv"

	"github.com/YAQOOBM6874/Smart-IR-System/internal/analytics"
	"github.com/labstack/echo/v4"
)

type AnalyticsRouter struct {
	e       *echo.Echo
	service *analytics.Service
}

func NewAnalyticsRouter(e *echo.Echo, service *analytics.Service) *AnalyticsRouter {
	return &AnalyticsRouter{
		e:       e,
		service: service,
	}
}

func (r *AnalyticsRouter) Bind() {
	r.e.GET("/api/analytics/overview", r.overviewHandler)
	r.e.GET("/api/analytics/temporal", r.temporalHandler)
	r.e.GET("/api/analytics/georeferences", r.georeferencesHandler)
	r.e.GET("/api/analytics/authors", r.authorsHandler)
}

func (r *AnalyticsRouter) overviewHandler(c echo.Context) error {
	overview, err := r.service.Overview(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, overview)
}

func (r *AnalyticsRouter) temporalHandler(c echo.Context) error {
	dist, err := r.service.TemporalDistribution(c.Request().Context(), analytics.TemporalRequest{
		Interval: c.QueryParam("interval"),
		DateFrom: c.QueryParam("date_from"),
		DateTo:   c.QueryParam("date_to"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dist)
}

func (r *AnalyticsRouter) georeferencesHandler(c echo.Context) error {
	stats, err := r.service.GeoreferenceStats(c.Request().Context(), topParam(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

func (r *AnalyticsRouter) authorsHandler(c echo.Context) error {
	stats, err := r.service.AuthorStats(c.Request().Context(), topParam(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

func topParam(c echo.Context) int {
	raw := c.QueryParam("top")
	if raw == "" {
		return 0
	}
	top, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return top
}
