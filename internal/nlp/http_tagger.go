package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/YAQOOBM6874/Smart-IR-System/internal/apperr"
)

const defaultTimeout = 30 * time.Second

// HTTPTagger calls an NER sidecar service over HTTP.
type HTTPTagger struct {
	base url.URL
	http *http.Client
}

type HTTPTaggerOption func(t *HTTPTagger)

func NewHTTPTagger(baseURL string, opts ...HTTPTaggerOption) (*HTTPTagger, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	t := &HTTPTagger{
		base: *base,
		http: &http.Client{
			Timeout: defaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(t)
	}

	return t, nil
}

func WithHttpClient(httpClient *http.Client) HTTPTaggerOption {
	return func(t *HTTPTagger) {
		t.http = httpClient
	}
}

type tagRequest struct {
	Text string `json:"text"`
}

type tagResponse struct {
	Entities []Span `json:"entities"`
}

func (t *HTTPTagger) Tag(ctx context.Context, text string) ([]Span, error) {
	if text == "" {
		return nil, nil
	}

	reqBytes, err := json.Marshal(tagRequest{Text: text})
	if err != nil {
		return nil, err
	}

	reqURL := t.base.JoinPath("/tag")
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL.String(), bytes.NewReader(reqBytes))
	if err != nil {
		return nil, err
	}

	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")

	resp, err := t.http.Do(request)
	if err != nil {
		return nil, apperr.NewExtraction("entity", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.NewExtraction("entity", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apperr.NewExtraction("entity",
			fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(respBody)))
	}

	var tagged tagResponse
	if err := json.Unmarshal(respBody, &tagged); err != nil {
		return nil, apperr.NewExtraction("entity", fmt.Errorf("unmarshal response: %w", err))
	}

	return tagged.Entities, nil
}
