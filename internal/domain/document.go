package domain

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DefaultVectorDims is the output dimension of the default embedding model.
const DefaultVectorDims = 384

// GeoPoint is a WGS84 coordinate pair.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Author is the canonical author shape. All input variants normalize to it;
// missing parts are empty strings, never omitted.
type Author struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// FullName joins the normalized name parts, used for author aggregations.
func (a Author) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

var emailBracketRe = regexp.MustCompile(`<(.+?)>`)

// ParseAuthorString normalizes a "First Last <email@example.com>" string.
// The first token becomes the first name, the remaining tokens the last name,
// the bracketed part the email. Any absent part yields an empty string.
func ParseAuthorString(s string) Author {
	var email string
	if m := emailBracketRe.FindStringSubmatch(s); m != nil {
		email = m[1]
	}

	namePart := strings.TrimSpace(emailBracketRe.ReplaceAllString(s, ""))
	parts := strings.Fields(namePart)

	var first, last string
	if len(parts) > 0 {
		first = parts[0]
	}
	if len(parts) > 1 {
		last = strings.Join(parts[1:], " ")
	}

	return Author{FirstName: first, LastName: last, Email: email}
}

// AuthorsField accepts the three author input variants found in raw feeds:
// a single string, a list of strings, or a list of structured records.
// Whatever the variant, it holds the canonical normalized authors.
type AuthorsField []Author

func (f *AuthorsField) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*f = nil
		return nil
	}

	// Variant 1: single author string.
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*f = normalizeAuthorStrings([]string{single})
		return nil
	}

	// Variant 2: list of author strings.
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*f = normalizeAuthorStrings(list)
		return nil
	}

	// Variant 3: list of structured records.
	var structured []Author
	if err := json.Unmarshal(data, &structured); err == nil {
		*f = normalizeStructuredAuthors(structured)
		return nil
	}

	return fmt.Errorf("authors: unsupported shape: %s", trimmed)
}

func normalizeAuthorStrings(list []string) []Author {
	authors := make([]Author, 0, len(list))
	for _, s := range list {
		authors = append(authors, ParseAuthorString(s))
	}
	return authors
}

func normalizeStructuredAuthors(list []Author) []Author {
	authors := make([]Author, 0, len(list))
	for _, a := range list {
		authors = append(authors, Author{
			FirstName: strings.TrimSpace(a.FirstName),
			LastName:  strings.TrimSpace(a.LastName),
			Email:     strings.TrimSpace(a.Email),
		})
	}
	return authors
}

// SourceMetadata carries provider-supplied structured fields. When present
// they are trusted over anything the extraction pipeline would produce.
type SourceMetadata struct {
	SourceDate   string   `json:"sourceDate,omitempty"`
	SourcePlaces []string `json:"sourcePlaces,omitempty"`
	SourceTopics []string `json:"sourceTopics,omitempty"`
}

// RawDocument is the enrichment input. Every field except one of
// title/content is optional.
type RawDocument struct {
	ID       string          `json:"id,omitempty"`
	Title    string          `json:"title,omitempty"`
	Content  string          `json:"content,omitempty"`
	Authors  AuthorsField    `json:"authors,omitempty"`
	Date     *time.Time      `json:"date,omitempty"`
	GeoPoint *GeoPoint       `json:"geopoint,omitempty"`
	Metadata *SourceMetadata `json:"metadata,omitempty"`
}

// NamedLocation is a geocoded place attached to a record.
type NamedLocation struct {
	Name        string   `json:"name"`
	Coordinates GeoPoint `json:"coordinates"`
}

// Record is the enriched, index-ready document.
type Record struct {
	ID                  string          `json:"id,omitempty"`
	Title               string          `json:"title"`
	Content             string          `json:"content"`
	Authors             []Author        `json:"authors"`
	Date                time.Time       `json:"date"`
	TemporalExpressions []string        `json:"temporal_expressions"`
	Georeferences       []string        `json:"georeferences"`
	GeoPoint            *GeoPoint       `json:"geopoint,omitempty"`
	ExtractedDates      []time.Time     `json:"extracted_dates,omitempty"`
	ExtractedLocations  []NamedLocation `json:"extracted_locations,omitempty"`
	ContentVector       []float32       `json:"content_vector,omitempty"`
}
