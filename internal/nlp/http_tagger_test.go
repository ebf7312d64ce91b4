package nlp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPTagger_Tag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/tag", r.URL.Path)
		_, _ = w.Write([]byte(`{"entities":[{"text":"Paris","label":"GPE"},{"text":"March 15","label":"DATE"}]}`))
	}))
	defer srv.Close()

	tagger, err := NewHTTPTagger(srv.URL)
	require.NoError(t, err)

	spans, err := tagger.Tag(context.Background(), "The conference was held in Paris on March 15.")
	require.NoError(t, err)
	require.Len(t, spans, 2)
	assert.Equal(t, Span{Text: "Paris", Label: LabelGPE}, spans[0])
	assert.Equal(t, Span{Text: "March 15", Label: LabelDate}, spans[1])
}

func TestHTTPTagger_EmptyTextSkipsCall(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	tagger, err := NewHTTPTagger(srv.URL)
	require.NoError(t, err)

	spans, err := tagger.Tag(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, spans)
	assert.False(t, called)
}

func TestHTTPTagger_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	tagger, err := NewHTTPTagger(srv.URL)
	require.NoError(t, err)

	_, err = tagger.Tag(context.Background(), "some text")
	require.Error(t, err)
}

func TestNoopTagger(t *testing.T) {
	spans, err := NewNoopTagger().Tag(context.Background(), "London and Paris in 1987")
	require.NoError(t, err)
	assert.Empty(t, spans)
}

func TestLabelPredicates(t *testing.T) {
	assert.True(t, IsPlaceLabel(LabelGPE))
	assert.True(t, IsPlaceLabel(LabelLocation))
	assert.True(t, IsPlaceLabel(LabelFacility))
	assert.False(t, IsPlaceLabel(LabelDate))

	assert.True(t, IsTemporalLabel(LabelDate))
	assert.True(t, IsTemporalLabel(LabelTime))
	assert.False(t, IsTemporalLabel(LabelGPE))
}
