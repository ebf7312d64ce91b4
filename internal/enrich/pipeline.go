package enrich

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/YAQOOBM6874/Smart-IR-System/internal/apperr"
	"github.com/YAQOOBM6874/Smart-IR-System/internal/domain"
	"github.com/YAQOOBM6874/Smart-IR-System/internal/geo"
	"github.com/YAQOOBM6874/Smart-IR-System/internal/storage"
	"github.com/YAQOOBM6874/Smart-IR-System/internal/temporal"
)

// maxGeocodedPlaces caps geocoding work for structured source places. Extra
// place names are still indexed as georeferences, just without coordinates.
const maxGeocodedPlaces = 5

type temporalExtractor interface {
	Extract(ctx context.Context, text string) (temporal.Extraction, error)
}

type geoResolver interface {
	ExtractAndGeocode(ctx context.Context, text string) (geo.Georeferences, error)
	Geocode(ctx context.Context, name, placeContext string) (geo.Location, bool)
}

type textEncoder interface {
	EncodeText(ctx context.Context, text string) ([]float32, error)
}

// Pipeline enriches raw documents into index-ready records: temporal and
// geographic extraction, author normalization and content vectors.
type Pipeline struct {
	temporal temporalExtractor
	geo      geoResolver
	encoder  textEncoder
	indexer  storage.Indexer
	now      func() time.Time
}

type PipelineOption func(p *Pipeline)

// WithEncoder enables vector enrichment. Without it records get no vector
// and searches fall back to purely lexical scoring.
func WithEncoder(enc textEncoder) PipelineOption {
	return func(p *Pipeline) {
		p.encoder = enc
	}
}

func WithPipelineClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) {
		p.now = now
	}
}

func NewPipeline(te temporalExtractor, gr geoResolver, indexer storage.Indexer, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		temporal: te,
		geo:      gr,
		indexer:  indexer,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Process enriches one raw document. Provider-supplied metadata is trusted
// over extraction: a structured source date beats any date found in the
// text, and structured place lists skip place extraction entirely.
func (p *Pipeline) Process(ctx context.Context, raw domain.RawDocument) (*domain.Record, error) {
	title := strings.TrimSpace(raw.Title)
	content := StripHTML(raw.Content)

	if title == "" && content == "" {
		return nil, apperr.NewValidation("document has neither title nor content")
	}

	corpus := title
	if content != "" {
		corpus = strings.TrimSpace(title + "\n" + content)
	}

	ext, err := p.temporal.Extract(ctx, corpus)
	if err != nil {
		slog.Warn("temporal extraction failed, record keeps no expressions",
			"id", raw.ID, "error", err)
		ext = temporal.Extraction{}
	}

	refs := p.resolveGeoreferences(ctx, raw, corpus)

	authors := []domain.Author(raw.Authors)
	if authors == nil {
		authors = []domain.Author{}
	}

	record := &domain.Record{
		ID:                  raw.ID,
		Title:               title,
		Content:             content,
		Authors:             authors,
		Date:                p.resolveDate(raw, ext),
		TemporalExpressions: ext.Expressions,
		ExtractedDates:      ext.ParsedDates,
		Georeferences:       refs.Places,
		ExtractedLocations:  refs.Locations,
		GeoPoint:            resolveGeoPoint(raw, refs),
	}

	if p.encoder != nil && content != "" {
		vec, err := p.encoder.EncodeText(ctx, content)
		if err != nil {
			return nil, err
		}
		record.ContentVector = vec
	}

	return record, nil
}

// IndexOne enriches and stores a single document, returning its id.
func (p *Pipeline) IndexOne(ctx context.Context, raw domain.RawDocument) (string, error) {
	record, err := p.Process(ctx, raw)
	if err != nil {
		return "", err
	}
	return p.indexer.Save(ctx, *record)
}

// IndexBulk enriches a batch and stores the successes. A document failing
// enrichment counts as failed without aborting the batch.
func (p *Pipeline) IndexBulk(ctx context.Context, raws []domain.RawDocument) (storage.BulkStats, error) {
	records := make([]domain.Record, 0, len(raws))
	stats := storage.BulkStats{Total: len(raws)}

	for _, raw := range raws {
		record, err := p.Process(ctx, raw)
		if err != nil {
			slog.Warn("skipping document that failed enrichment", "id", raw.ID, "error", err)
			stats.Failed++
			continue
		}
		records = append(records, *record)
	}

	if len(records) == 0 {
		return stats, nil
	}

	saved, err := p.indexer.SaveBulk(ctx, records)
	if err != nil {
		return stats, err
	}

	stats.Success = saved.Success
	stats.Failed += saved.Failed
	return stats, nil
}

func (p *Pipeline) resolveGeoreferences(ctx context.Context, raw domain.RawDocument, corpus string) geo.Georeferences {
	if raw.Metadata != nil && len(raw.Metadata.SourcePlaces) > 0 {
		return p.geocodeStructuredPlaces(ctx, raw.Metadata.SourcePlaces)
	}

	refs, err := p.geo.ExtractAndGeocode(ctx, corpus)
	if err != nil {
		slog.Warn("place extraction failed, record keeps no georeferences",
			"id", raw.ID, "error", err)
		return geo.Georeferences{}
	}
	return refs
}

func (p *Pipeline) geocodeStructuredPlaces(ctx context.Context, places []string) geo.Georeferences {
	refs := geo.Georeferences{Places: places}

	for i, place := range places {
		if i >= maxGeocodedPlaces {
			break
		}

		loc, found := p.geo.Geocode(ctx, place, "")
		if !found {
			continue
		}

		refs.Locations = append(refs.Locations, domain.NamedLocation{
			Name:        place,
			Coordinates: loc.Coordinates,
		})
		if refs.Primary == nil {
			pt := loc.Coordinates
			refs.Primary = &pt
		}
	}

	return refs
}

// resolveDate picks the record date: explicit field, then structured source
// date, then the most recent date found in the text, then ingestion time.
func (p *Pipeline) resolveDate(raw domain.RawDocument, ext temporal.Extraction) time.Time {
	if raw.Date != nil {
		return *raw.Date
	}

	if raw.Metadata != nil && raw.Metadata.SourceDate != "" {
		if t, ok := temporal.Parse(p.now(), raw.Metadata.SourceDate); ok {
			return t
		}
		slog.Warn("unparseable source date, falling back to extracted dates",
			"source_date", raw.Metadata.SourceDate)
	}

	if ext.MostRecent != nil {
		return *ext.MostRecent
	}

	return p.now()
}

func resolveGeoPoint(raw domain.RawDocument, refs geo.Georeferences) *domain.GeoPoint {
	if raw.GeoPoint != nil {
		return raw.GeoPoint
	}
	return refs.Primary
}
