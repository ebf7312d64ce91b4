package ingest

import "context"

// Result carries one collected item or the error that produced it.
type Result[T any] struct {
	Item T
	Err  error
}

// Collector streams raw documents from some source. The channel closes when
// the source is exhausted or the context ends.
type Collector[T any] interface {
	Collect(ctx context.Context) (<-chan Result[T], error)
}
