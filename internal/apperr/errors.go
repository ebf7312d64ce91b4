package apperr

// ValidationError marks malformed or empty required input.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

// ExtractionError marks a tagger or parser failure. Always non-fatal:
// callers degrade to empty output or a fallback extractor.
type ExtractionError struct {
	Stage string
	Err   error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return e.Stage + " extraction failed: " + e.Err.Error()
	}
	return e.Stage + " extraction failed"
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func NewExtraction(stage string, err error) *ExtractionError {
	return &ExtractionError{Stage: stage, Err: err}
}

// GeocodingError marks a geocoder timeout, service error, or no-result.
// Always non-fatal: the place degrades to "no location".
type GeocodingError struct {
	Query   string
	Timeout bool
	Err     error
}

func (e *GeocodingError) Error() string {
	msg := "geocoding failed for " + e.Query
	if e.Timeout {
		msg = "geocoding timed out for " + e.Query
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *GeocodingError) Unwrap() error {
	return e.Err
}

func NewGeocoding(query string, timeout bool, err error) *GeocodingError {
	return &GeocodingError{Query: query, Timeout: timeout, Err: err}
}

// EmbeddingUnavailableError is fatal at construction time: the embedding
// model could not be loaded. It must never degrade to zero vectors.
type EmbeddingUnavailableError struct {
	Model string
	Err   error
}

func (e *EmbeddingUnavailableError) Error() string {
	if e.Err != nil {
		return "embedding model " + e.Model + " unavailable: " + e.Err.Error()
	}
	return "embedding model " + e.Model + " unavailable"
}

func (e *EmbeddingUnavailableError) Unwrap() error {
	return e.Err
}

func NewEmbeddingUnavailable(model string, err error) *EmbeddingUnavailableError {
	return &EmbeddingUnavailableError{Model: model, Err: err}
}

// NotFoundError marks a missing document lookup.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return "document not found: " + e.ID
}

func NewNotFound(id string) *NotFoundError {
	return &NotFoundError{ID: id}
}

// IndexBackendError marks a failed index backend operation. Fatal for that
// operation and surfaced to the caller; never retried silently.
type IndexBackendError struct {
	Op  string
	Err error
}

func (e *IndexBackendError) Error() string {
	if e.Err != nil {
		return "index backend " + e.Op + " failed: " + e.Err.Error()
	}
	return "index backend " + e.Op + " failed"
}

func (e *IndexBackendError) Unwrap() error {
	return e.Err
}

func NewIndexBackend(op string, err error) *IndexBackendError {
	return &IndexBackendError{Op: op, Err: err}
}
