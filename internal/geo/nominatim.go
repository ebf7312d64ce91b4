package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/YAQOOBM6874/Smart-IR-System/internal/apperr"
	"github.com/YAQOOBM6874/Smart-IR-System/internal/domain"
	"golang.org/x/time/rate"
)

const (
	defaultNominatimURL = "https://nominatim.openstreetmap.org"
	defaultUserAgent    = "smart-ir-system"
	defaultTimeout      = 10 * time.Second

	// Public Nominatim usage policy allows at most one request per second.
	defaultMinInterval = time.Second
)

// NominatimGeocoder resolves place names against a Nominatim instance.
// Calls are rate limited to respect the public service's usage policy.
type NominatimGeocoder struct {
	baseURL   *url.URL
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
}

type NominatimOption func(g *NominatimGeocoder)

func WithHTTPClient(c *http.Client) NominatimOption {
	return func(g *NominatimGeocoder) {
		g.http = c
	}
}

func WithUserAgent(ua string) NominatimOption {
	return func(g *NominatimGeocoder) {
		g.userAgent = ua
	}
}

func WithMinInterval(d time.Duration) NominatimOption {
	return func(g *NominatimGeocoder) {
		g.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

func NewNominatimGeocoder(baseURL string, opts ...NominatimOption) (*NominatimGeocoder, error) {
	if baseURL == "" {
		baseURL = defaultNominatimURL
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid geocoder url %q: %w", baseURL, err)
	}

	g := &NominatimGeocoder{
		baseURL:   u,
		userAgent: defaultUserAgent,
		http:      &http.Client{Timeout: defaultTimeout},
		limiter:   rate.NewLimiter(rate.Every(defaultMinInterval), 1),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (g *NominatimGeocoder) Resolve(ctx context.Context, query string) (Location, bool, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return Location{}, false, apperr.NewGeocoding(query, false, err)
	}

	searchURL := g.baseURL.JoinPath("search")
	q := searchURL.Query()
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("limit", "1")
	searchURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL.String(), nil)
	if err != nil {
		return Location{}, false, apperr.NewGeocoding(query, false, err)
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.http.Do(req)
	if err != nil {
		return Location{}, false, apperr.NewGeocoding(query, isTimeout(err), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Location{}, false, apperr.NewGeocoding(query, false,
			fmt.Errorf("geocoding service returned status %d", resp.StatusCode))
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Location{}, false, apperr.NewGeocoding(query, false, err)
	}

	if len(results) == 0 {
		return Location{}, false, nil
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Location{}, false, apperr.NewGeocoding(query, false, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Location{}, false, apperr.NewGeocoding(query, false, err)
	}

	return Location{
		Name:             query,
		FormattedAddress: results[0].DisplayName,
		Coordinates:      domain.GeoPoint{Lat: lat, Lon: lon},
	}, true, nil
}

func isTimeout(err error) bool {
	var ne interface{ Timeout() bool }
	if errors.As(err, &ne) {
		return ne.Timeout()
	}
	return errors.Is(err, context.DeadlineExceeded)
}
