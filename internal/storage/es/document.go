package es

import (
	"time"

	"github.com/YAQOOBM6874/Smart-IR-System/internal/domain"
	"github.com/google/uuid"
)

const esTimeLayout = "2006-01-02T15:04:05"

type esTime struct {
	time.Time
}

func (t esTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format(esTimeLayout) + `"`), nil
}

func (t *esTime) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		return nil
	}
	parsed, err := time.Parse(`"`+esTimeLayout+`"`, s)
	if err != nil {
		// Tolerate bare dates written directly to the index.
		parsed, err = time.Parse(`"2006-01-02"`, s)
		if err != nil {
			return err
		}
	}
	t.Time = parsed
	return nil
}

type esAuthor struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
}

type esLocation struct {
	Name        string          `json:"name"`
	Coordinates domain.GeoPoint `json:"coordinates"`
}

// esDocument is the index-side shape of a record. Dates serialize without a
// zone to match the index date format, and authors carry the precomputed
// full_name keyword.
type esDocument struct {
	ID                  string           `json:"id"`
	Title               string           `json:"title"`
	Content             string           `json:"content"`
	Authors             []esAuthor       `json:"authors"`
	Date                esTime           `json:"date"`
	TemporalExpressions []string         `json:"temporal_expressions"`
	Georeferences       []string         `json:"georeferences"`
	GeoPoint            *domain.GeoPoint `json:"geopoint,omitempty"`
	ExtractedDates      []esTime         `json:"extracted_dates,omitempty"`
	ExtractedLocations  []esLocation     `json:"extracted_locations,omitempty"`
	ContentVector       []float32        `json:"content_vector,omitempty"`
	IndexedAt           esTime           `json:"indexed_at"`
}

func mapToESDocument(record domain.Record) esDocument {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	authors := make([]esAuthor, 0, len(record.Authors))
	for _, a := range record.Authors {
		authors = append(authors, esAuthor{
			FirstName: a.FirstName,
			LastName:  a.LastName,
			Email:     a.Email,
			FullName:  a.FullName(),
		})
	}

	dates := make([]esTime, 0, len(record.ExtractedDates))
	for _, d := range record.ExtractedDates {
		dates = append(dates, esTime{d})
	}

	locations := make([]esLocation, 0, len(record.ExtractedLocations))
	for _, l := range record.ExtractedLocations {
		locations = append(locations, esLocation{Name: l.Name, Coordinates: l.Coordinates})
	}

	return esDocument{
		ID:                  record.ID,
		Title:               record.Title,
		Content:             record.Content,
		Authors:             authors,
		Date:                esTime{record.Date},
		TemporalExpressions: record.TemporalExpressions,
		Georeferences:       record.Georeferences,
		GeoPoint:            record.GeoPoint,
		ExtractedDates:      dates,
		ExtractedLocations:  locations,
		ContentVector:       record.ContentVector,
		IndexedAt:           esTime{time.Now()},
	}
}

func mapToRecord(doc esDocument) domain.Record {
	authors := make([]domain.Author, 0, len(doc.Authors))
	for _, a := range doc.Authors {
		authors = append(authors, domain.Author{
			FirstName: a.FirstName,
			LastName:  a.LastName,
			Email:     a.Email,
		})
	}

	dates := make([]time.Time, 0, len(doc.ExtractedDates))
	for _, d := range doc.ExtractedDates {
		dates = append(dates, d.Time)
	}

	locations := make([]domain.NamedLocation, 0, len(doc.ExtractedLocations))
	for _, l := range doc.ExtractedLocations {
		locations = append(locations, domain.NamedLocation{Name: l.Name, Coordinates: l.Coordinates})
	}

	return domain.Record{
		ID:                  doc.ID,
		Title:               doc.Title,
		Content:             doc.Content,
		Authors:             authors,
		Date:                doc.Date.Time,
		TemporalExpressions: doc.TemporalExpressions,
		Georeferences:       doc.Georeferences,
		GeoPoint:            doc.GeoPoint,
		ExtractedDates:      dates,
		ExtractedLocations:  locations,
		ContentVector:       doc.ContentVector,
	}
}
