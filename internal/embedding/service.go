package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/YAQOOBM6874/Smart-IR-System/internal/apperr"
	"github.com/YAQOOBM6874/Smart-IR-System/internal/domain"
)

const defaultMaxChars = 2048

// Service turns text into fixed-dimension vectors. All callers share one
// handle obtained from Shared so the backing model is loaded once.
type Service struct {
	client   Client
	model    string
	dims     int
	maxChars int
}

type ServiceOption func(s *Service)

func WithModel(model string) ServiceOption {
	return func(s *Service) {
		s.model = model
	}
}

func WithMaxChars(n int) ServiceOption {
	return func(s *Service) {
		s.maxChars = n
	}
}

func WithDims(n int) ServiceOption {
	return func(s *Service) {
		s.dims = n
	}
}

func NewService(client Client, opts ...ServiceOption) *Service {
	s := &Service{
		client:   client,
		model:    defaultModel,
		dims:     domain.DefaultVectorDims,
		maxChars: defaultMaxChars,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

var (
	sharedOnce sync.Once
	shared     *Service
	sharedErr  error
)

// Shared builds the process-wide embedding service on first call and
// returns the same handle afterwards.
func Shared(cfg *Config) (*Service, error) {
	sharedOnce.Do(func() {
		client, err := NewOllamaClient(cfg.BaseURL)
		if err != nil {
			sharedErr = fmt.Errorf("embedding client: %w", err)
			return
		}

		var opts []ServiceOption
		if cfg.Model != "" {
			opts = append(opts, WithModel(cfg.Model))
		}
		if cfg.MaxLength != nil {
			opts = append(opts, WithMaxChars(*cfg.MaxLength))
		}
		shared = NewService(client, opts...)
	})
	return shared, sharedErr
}

// Warmup probes the model with a tiny request. A failing probe means the
// vector side of the system cannot work at all, which the caller should
// treat as fatal.
func (s *Service) Warmup(ctx context.Context) error {
	_, err := s.client.Generate(ctx, Request{
		Model:  s.model,
		Prompt: "warmup",
	})
	if err != nil {
		return apperr.NewEmbeddingUnavailable(s.model, err)
	}

	slog.Info("embedding model ready", "model", s.model, "dims", s.dims)
	return nil
}

func (s *Service) Dims() int {
	return s.dims
}

// EncodeText embeds one text. Input longer than the configured character
// budget is truncated before the model sees it.
func (s *Service) EncodeText(ctx context.Context, text string) ([]float32, error) {
	text = s.truncate(strings.TrimSpace(text))
	if text == "" {
		return nil, apperr.NewValidation("missing text to embed")
	}

	resp, err := s.client.Generate(ctx, Request{
		Model:  s.model,
		Prompt: text,
	})
	if err != nil {
		return nil, err
	}

	if err := s.checkDims(resp.Embedding); err != nil {
		return nil, err
	}

	return resp.Embedding, nil
}

// EncodeBatch embeds several texts in one round trip, preserving order.
func (s *Service) EncodeBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	prompts := make([]string, len(texts))
	for i, t := range texts {
		prompts[i] = s.truncate(strings.TrimSpace(t))
	}

	resp, err := s.client.GenerateBatch(ctx, BatchRequest{
		Model:   s.model,
		Prompts: prompts,
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Embeddings))
	}

	for _, emb := range resp.Embeddings {
		if err := s.checkDims(emb); err != nil {
			return nil, err
		}
	}

	return resp.Embeddings, nil
}

func (s *Service) truncate(text string) string {
	if s.maxChars > 0 && len(text) > s.maxChars {
		return text[:s.maxChars]
	}
	return text
}

func (s *Service) checkDims(emb []float32) error {
	if len(emb) != s.dims {
		return fmt.Errorf("model returned %d dimensions, index expects %d", len(emb), s.dims)
	}
	return nil
}
