package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/YAQOOBM6874/Smart-IR-System/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNominatimGeocoder_Resolve(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"51.5074","lon":"-0.1278","display_name":"London, Greater London, England"}]`))
	}))
	defer srv.Close()

	g, err := NewNominatimGeocoder(srv.URL, WithMinInterval(time.Millisecond))
	require.NoError(t, err)

	loc, found, err := g.Resolve(context.Background(), "London")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "London", loc.Name)
	assert.Equal(t, "London, Greater London, England", loc.FormattedAddress)
	assert.InDelta(t, 51.5074, loc.Coordinates.Lat, 0.0001)
	assert.InDelta(t, -0.1278, loc.Coordinates.Lon, 0.0001)
	assert.Equal(t, "London", gotQuery)
}

func TestNominatimGeocoder_EmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	g, err := NewNominatimGeocoder(srv.URL, WithMinInterval(time.Millisecond))
	require.NoError(t, err)

	_, found, err := g.Resolve(context.Background(), "Nowhereville")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestNominatimGeocoder_ServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	g, err := NewNominatimGeocoder(srv.URL, WithMinInterval(time.Millisecond))
	require.NoError(t, err)

	_, _, err = g.Resolve(context.Background(), "London")
	var gerr *apperr.GeocodingError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, "London", gerr.Query)
	assert.False(t, gerr.Timeout)
}

func TestGazetteer_LoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gazetteer.yaml")
	content := `
abbreviations:
  nyc: "New York"
cities:
  reykjavik:
    lat: 64.1466
    lon: -21.9426
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	g := NewGazetteer()
	require.NoError(t, g.LoadOverrides(path))

	assert.Equal(t, "New York", g.Expand("NYC"))

	loc, found := g.FallbackLookup("Reykjavik")
	require.True(t, found)
	assert.InDelta(t, 64.1466, loc.Coordinates.Lat, 0.0001)

	// built-ins survive the merge
	_, found = g.FallbackLookup("Tokyo")
	assert.True(t, found)
}
