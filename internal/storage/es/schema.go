package es

import (
	"github.com/YAQOOBM6874/Smart-IR-System/internal/domain"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/densevectorsimilarity"
)

// dateFormats accepts full timestamps, bare dates and epoch millis so both
// enriched records and hand-written filter bounds index cleanly.
const dateFormats = "yyyy-MM-dd'T'HH:mm:ss||yyyy-MM-dd||epoch_millis"

type schemaBuilder struct {
	vectorDims int
}

func newSchemaBuilder() *schemaBuilder {
	return &schemaBuilder{
		vectorDims: domain.DefaultVectorDims,
	}
}

// buildSettings defines the analysis chain: an edge-ngram analyzer for
// title suggestions and a content analyzer that strips markup, stopwords,
// short tokens and applies English stemming.
func (b *schemaBuilder) buildSettings() types.IndexSettings {
	return types.IndexSettings{
		Analysis: &types.IndexSettingsAnalysis{
			Analyzer: map[string]types.Analyzer{
				"autocomplete": types.CustomAnalyzer{
					Tokenizer: "autocomplete_tokenizer",
					Filter:    []string{"lowercase"},
				},
				"autocomplete_search": types.CustomAnalyzer{
					Tokenizer: "lowercase",
				},
				"content_analyzer": types.CustomAnalyzer{
					Tokenizer:  "standard",
					CharFilter: []string{"html_strip"},
					Filter:     []string{"lowercase", "stop", "min_length", "english_stemmer"},
				},
			},
			Tokenizer: map[string]types.Tokenizer{
				"autocomplete_tokenizer": types.EdgeNGramTokenizer{
					MinGram: intPtr(3),
					MaxGram: intPtr(20),
				},
			},
			Filter: map[string]types.TokenFilter{
				"min_length": types.LengthTokenFilter{
					Min: intPtr(3),
				},
				"english_stemmer": types.StemmerTokenFilter{
					Language: strPtr("english"),
				},
			},
		},
	}
}

func (b *schemaBuilder) buildMapping() types.TypeMapping {
	return types.TypeMapping{
		Properties: map[string]types.Property{
			"id":                   types.NewKeywordProperty(),
			"title":                b.titleProperty(),
			"content":              b.contentProperty(),
			"authors":              b.authorsProperty(),
			"date":                 b.dateProperty(),
			"temporal_expressions": types.NewTextProperty(),
			"georeferences":        types.NewKeywordProperty(),
			"geopoint":             types.NewGeoPointProperty(),
			"extracted_dates":      b.dateProperty(),
			"extracted_locations":  b.locationsProperty(),
			"content_vector":       b.vectorProperty(),
			"indexed_at":           b.dateProperty(),
		},
	}
}

// titleProperty indexes the title three ways: standard analysis on the main
// field, edge-ngrams for suggestion prefixes, and a keyword for exact use.
func (b *schemaBuilder) titleProperty() types.Property {
	title := types.NewTextProperty()
	autocomplete := types.NewTextProperty()
	autocomplete.Analyzer = strPtr("autocomplete")
	autocomplete.SearchAnalyzer = strPtr("autocomplete_search")

	standard := types.NewTextProperty()
	standard.Analyzer = strPtr("standard")

	title.Fields = map[string]types.Property{
		"autocomplete": autocomplete,
		"standard":     standard,
		"keyword":      types.NewKeywordProperty(),
	}
	return title
}

func (b *schemaBuilder) contentProperty() types.Property {
	content := types.NewTextProperty()
	content.Analyzer = strPtr("content_analyzer")
	return content
}

// authorsProperty is nested so queries can match first and last name within
// one author. full_name is a keyword fed at index time, which keeps author
// aggregations script-free.
func (b *schemaBuilder) authorsProperty() types.Property {
	nested := types.NewNestedProperty()
	nested.Properties = map[string]types.Property{
		"first_name": types.NewTextProperty(),
		"last_name":  types.NewTextProperty(),
		"email":      types.NewKeywordProperty(),
		"full_name":  types.NewKeywordProperty(),
	}
	return nested
}

func (b *schemaBuilder) dateProperty() types.Property {
	date := types.NewDateProperty()
	date.Format = strPtr(dateFormats)
	return date
}

func (b *schemaBuilder) locationsProperty() types.Property {
	obj := types.NewObjectProperty()
	obj.Properties = map[string]types.Property{
		"name":        types.NewKeywordProperty(),
		"coordinates": types.NewGeoPointProperty(),
	}
	return obj
}

func (b *schemaBuilder) vectorProperty() types.Property {
	vector := types.NewDenseVectorProperty()
	vector.Dims = intPtr(b.vectorDims)
	index := true
	vector.Index = &index
	cosine := densevectorsimilarity.Cosine
	vector.Similarity = &cosine
	return vector
}

func intPtr(v int) *int {
	return &v
}

func strPtr(v string) *string {
	return &v
}
