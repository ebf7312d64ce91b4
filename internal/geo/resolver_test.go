package geo

import (
	"context"
	"errors"
	"testing"

	"github.com/YAQOOBM6874/Smart-IR-System/internal/domain"
	"github.com/YAQOOBM6874/Smart-IR-System/internal/nlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTagger struct {
	spans []nlp.Span
	err   error
}

func (s *stubTagger) Tag(_ context.Context, _ string) ([]nlp.Span, error) {
	return s.spans, s.err
}

type recordingGeocoder struct {
	responses map[string]Location
	err       error
	calls     []string
}

func (g *recordingGeocoder) Resolve(_ context.Context, query string) (Location, bool, error) {
	g.calls = append(g.calls, query)
	if g.err != nil {
		return Location{}, false, g.err
	}
	loc, ok := g.responses[query]
	return loc, ok, nil
}

func TestExtractPlaces_FiltersAndSorts(t *testing.T) {
	tagger := &stubTagger{spans: []nlp.Span{
		{Text: "UK", Label: nlp.LabelGPE},
		{Text: "Untitled", Label: nlp.LabelGPE},
		{Text: "New York City", Label: nlp.LabelGPE},
		{Text: "UK", Label: nlp.LabelGPE},
		{Text: "yesterday", Label: nlp.LabelDate},
		{Text: "Heathrow Airport", Label: nlp.LabelFacility},
	}}
	r := NewResolver(tagger, &recordingGeocoder{}, nil)

	places, err := r.ExtractPlaces(context.Background(), "some text")
	require.NoError(t, err)

	assert.Equal(t, []string{"Heathrow Airport", "New York City", "UK"}, places)
}

func TestGeocode_CachesSoServiceCalledOnce(t *testing.T) {
	geocoder := &recordingGeocoder{responses: map[string]Location{
		"Paris": {Name: "Paris", Coordinates: domain.GeoPoint{Lat: 48.85, Lon: 2.35}},
	}}
	r := NewResolver(&stubTagger{}, geocoder, nil)

	loc1, found1 := r.Geocode(context.Background(), "Paris", "")
	loc2, found2 := r.Geocode(context.Background(), "Paris", "")

	assert.True(t, found1)
	assert.True(t, found2)
	assert.Equal(t, loc1, loc2)
	assert.Len(t, geocoder.calls, 1)
}

func TestGeocode_CachesMisses(t *testing.T) {
	geocoder := &recordingGeocoder{responses: map[string]Location{}}
	r := NewResolver(&stubTagger{}, geocoder, nil)

	_, found1 := r.Geocode(context.Background(), "Nowhereville", "")
	_, found2 := r.Geocode(context.Background(), "Nowhereville", "")

	assert.False(t, found1)
	assert.False(t, found2)
	assert.Len(t, geocoder.calls, 1)
}

func TestGeocode_ContextAppendedUnlessContained(t *testing.T) {
	geocoder := &recordingGeocoder{responses: map[string]Location{
		"Springfield, USA": {Coordinates: domain.GeoPoint{Lat: 39.78, Lon: -89.65}},
	}}
	r := NewResolver(&stubTagger{}, geocoder, nil)

	_, found := r.Geocode(context.Background(), "Springfield", "USA")
	require.True(t, found)
	assert.Equal(t, []string{"Springfield, USA"}, geocoder.calls)

	// Context already inside the name is not appended again.
	geocoder.calls = nil
	geocoder.responses["New York, USA"] = Location{Coordinates: domain.GeoPoint{Lat: 40.7, Lon: -74}}
	_, _ = r.Geocode(context.Background(), "New York, USA", "usa")
	assert.Equal(t, []string{"New York, USA"}, geocoder.calls)
}

func TestGeocode_RetriesBareNameWhenContextualMisses(t *testing.T) {
	geocoder := &recordingGeocoder{responses: map[string]Location{
		"Atlantis": {Coordinates: domain.GeoPoint{Lat: 1, Lon: 2}},
	}}
	r := NewResolver(&stubTagger{}, geocoder, nil)

	loc, found := r.Geocode(context.Background(), "Atlantis", "Greece")
	require.True(t, found)
	assert.Equal(t, domain.GeoPoint{Lat: 1, Lon: 2}, loc.Coordinates)
	assert.Equal(t, []string{"Atlantis, Greece", "Atlantis"}, geocoder.calls)
}

func TestGeocode_ExpandsAbbreviations(t *testing.T) {
	geocoder := &recordingGeocoder{responses: map[string]Location{
		"United Kingdom": {Coordinates: domain.GeoPoint{Lat: 55, Lon: -3}},
	}}
	r := NewResolver(&stubTagger{}, geocoder, nil)

	_, found := r.Geocode(context.Background(), "uk", "")
	assert.True(t, found)
	assert.Equal(t, []string{"United Kingdom"}, geocoder.calls)
}

func TestGeocode_FallbackGazetteerOnServiceError(t *testing.T) {
	geocoder := &recordingGeocoder{err: errors.New("service unavailable")}
	r := NewResolver(&stubTagger{}, geocoder, nil)

	loc, found := r.Geocode(context.Background(), "London", "")
	require.True(t, found)
	assert.InDelta(t, 51.5074, loc.Coordinates.Lat, 0.001)

	// Outcome is cached, so the failing service is not retried.
	_, found = r.Geocode(context.Background(), "London", "")
	assert.True(t, found)
	assert.Len(t, geocoder.calls, 1)
}

func TestGeocode_FallbackGazetteerOnUnknownCity(t *testing.T) {
	geocoder := &recordingGeocoder{err: errors.New("service unavailable")}
	r := NewResolver(&stubTagger{}, geocoder, nil)

	_, found := r.Geocode(context.Background(), "Obscureville", "")
	assert.False(t, found)
}

func TestExtractAndGeocode_FirstGPEIsContext(t *testing.T) {
	tagger := &stubTagger{spans: []nlp.Span{
		{Text: "USA", Label: nlp.LabelGPE},
		{Text: "Springfield", Label: nlp.LabelGPE},
	}}
	geocoder := &recordingGeocoder{responses: map[string]Location{
		"United States":    {Coordinates: domain.GeoPoint{Lat: 38, Lon: -97}},
		"Springfield, USA": {Coordinates: domain.GeoPoint{Lat: 39.78, Lon: -89.65}},
	}}
	r := NewResolver(tagger, geocoder, nil)

	refs, err := r.ExtractAndGeocode(context.Background(), "Springfield, USA report")
	require.NoError(t, err)

	assert.Equal(t, []string{"Springfield", "USA"}, refs.Places)
	require.Len(t, refs.Locations, 2)
	require.NotNil(t, refs.Primary)
	assert.Equal(t, domain.GeoPoint{Lat: 39.78, Lon: -89.65}, *refs.Primary)
}

func TestExtractAndGeocode_GeocodesEveryPlace(t *testing.T) {
	tagger := &stubTagger{spans: []nlp.Span{
		{Text: "Borduria Northern Highlands", Label: nlp.LabelGPE},
		{Text: "Syldavia Coastal Province", Label: nlp.LabelGPE},
		{Text: "Zubrowka Eastern District", Label: nlp.LabelGPE},
		{Text: "Latveria Central Valley", Label: nlp.LabelGPE},
		{Text: "Elbonia Western Marshes", Label: nlp.LabelGPE},
		{Text: "Paris", Label: nlp.LabelGPE},
	}}
	geocoder := &recordingGeocoder{responses: map[string]Location{
		"Paris": {Name: "Paris", Coordinates: domain.GeoPoint{Lat: 48.85, Lon: 2.35}},
	}}
	r := NewResolver(tagger, geocoder, nil)

	refs, err := r.ExtractAndGeocode(context.Background(), "wire copy")
	require.NoError(t, err)

	assert.Len(t, refs.Places, 6)
	require.Len(t, refs.Locations, 1)
	assert.Equal(t, "Paris", refs.Locations[0].Name)
	require.NotNil(t, refs.Primary)
	assert.Equal(t, domain.GeoPoint{Lat: 48.85, Lon: 2.35}, *refs.Primary)
}
