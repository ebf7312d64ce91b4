package geo

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/YAQOOBM6874/Smart-IR-System/internal/domain"
	"github.com/YAQOOBM6874/Smart-IR-System/internal/nlp"
)

// excludedPlaces are tagger artifacts that must never reach the geocoder.
var excludedPlaces = map[string]struct{}{
	"untitled": {},
}

// Georeferences is the geographic enrichment of one text: every place name
// found, the subset that resolved to coordinates, and the primary point.
type Georeferences struct {
	Places    []string
	Locations []domain.NamedLocation
	Primary   *domain.GeoPoint
}

// Resolver extracts place names from text and resolves them to coordinates
// through a cache, a geocoding service and a local fallback gazetteer.
type Resolver struct {
	tagger    nlp.Tagger
	geocoder  Geocoder
	cache     *Cache
	gazetteer *Gazetteer
}

func NewResolver(tagger nlp.Tagger, geocoder Geocoder, gazetteer *Gazetteer) *Resolver {
	if gazetteer == nil {
		gazetteer = NewGazetteer()
	}
	return &Resolver{
		tagger:    tagger,
		geocoder:  geocoder,
		cache:     NewCache(),
		gazetteer: gazetteer,
	}
}

// ExtractPlaces returns the distinct place names mentioned in text, longest
// first so the most specific names geocode first. Equal-length names keep
// their first-seen order.
func (r *Resolver) ExtractPlaces(ctx context.Context, text string) ([]string, error) {
	if text == "" {
		return nil, nil
	}

	spans, err := r.tagger.Tag(ctx, text)
	if err != nil {
		return nil, err
	}

	return placesFromSpans(spans), nil
}

func placesFromSpans(spans []nlp.Span) []string {
	seen := make(map[string]struct{})
	var places []string
	for _, span := range spans {
		if !nlp.IsPlaceLabel(span.Label) {
			continue
		}
		if _, excluded := excludedPlaces[strings.ToLower(span.Text)]; excluded {
			continue
		}
		if _, dup := seen[span.Text]; dup {
			continue
		}
		seen[span.Text] = struct{}{}
		places = append(places, span.Text)
	}

	sort.SliceStable(places, func(i, j int) bool {
		return len(places[i]) > len(places[j])
	})

	return places
}

// Geocode resolves one place name to coordinates. placeContext, when set and
// not already part of the name, is appended to disambiguate the query
// ("Springfield, USA"). Resolution order: cache, geocoding service with the
// contextual query, geocoding service with the bare name, fallback gazetteer.
// Every outcome is cached, including definitive misses.
func (r *Resolver) Geocode(ctx context.Context, name, placeContext string) (Location, bool) {
	normalized := r.gazetteer.Expand(name)

	query := normalized
	if placeContext != "" && !strings.Contains(strings.ToLower(normalized), strings.ToLower(placeContext)) {
		query = normalized + ", " + placeContext
	}

	if loc, found, hit := r.cache.Get(query); hit {
		return loc, found
	}

	loc, found, err := r.resolveWithRetry(ctx, query, normalized)
	if err != nil {
		slog.Warn("geocoding service failed, consulting fallback gazetteer",
			"query", query, "error", err)
		loc, found = r.gazetteer.FallbackLookup(normalized)
	} else if !found {
		loc, found = r.gazetteer.FallbackLookup(normalized)
	}

	if found && loc.Name == "" {
		loc.Name = name
	}
	r.cache.Put(query, loc, found)
	return loc, found
}

// resolveWithRetry asks the service for the contextual query and, when that
// yields nothing, retries with the bare name.
func (r *Resolver) resolveWithRetry(ctx context.Context, query, bare string) (Location, bool, error) {
	loc, found, err := r.geocoder.Resolve(ctx, query)
	if err == nil && found {
		return loc, true, nil
	}
	if query == bare {
		return loc, found, err
	}

	if cached, cachedFound, hit := r.cache.Get(bare); hit {
		return cached, cachedFound, nil
	}

	loc, found, retryErr := r.geocoder.Resolve(ctx, bare)
	if retryErr != nil {
		if err != nil {
			return Location{}, false, err
		}
		return Location{}, false, retryErr
	}
	r.cache.Put(bare, loc, found)
	return loc, found, nil
}

// ExtractAndGeocode runs the full chain over one text, geocoding every
// extracted place. The first geopolitical entity in the text serves as
// disambiguation context for the remaining places; the first successfully
// geocoded place becomes the primary point.
func (r *Resolver) ExtractAndGeocode(ctx context.Context, text string) (Georeferences, error) {
	if text == "" {
		return Georeferences{}, nil
	}

	spans, err := r.tagger.Tag(ctx, text)
	if err != nil {
		return Georeferences{}, err
	}

	places := placesFromSpans(spans)
	if len(places) == 0 {
		return Georeferences{}, nil
	}

	placeContext := firstGPE(spans)

	result := Georeferences{Places: places}
	for _, place := range places {
		queryContext := placeContext
		if strings.EqualFold(place, placeContext) {
			queryContext = ""
		}

		loc, found := r.Geocode(ctx, place, queryContext)
		if !found {
			continue
		}

		result.Locations = append(result.Locations, domain.NamedLocation{
			Name:        place,
			Coordinates: loc.Coordinates,
		})
		if result.Primary == nil {
			pt := loc.Coordinates
			result.Primary = &pt
		}
	}

	return result, nil
}

func firstGPE(spans []nlp.Span) string {
	for _, span := range spans {
		if span.Label == nlp.LabelGPE {
			return span.Text
		}
	}
	return ""
}
