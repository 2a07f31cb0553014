// Package embedding provides text embedding providers (VoyageAI, local ONNX)
// and caching.
package embedding

import (
	"context"
	"errors"
)

// ErrExternalCall indicates the embedding provider timed out or errored.
// Retryable with backoff; fatal to the specific insert or query it served,
// since no vector can be produced without it.
var ErrExternalCall = errors.New("embedding provider call failed")

// Embedder produces vector embeddings for text. Implementations must be
// deterministic: repeated calls on identical text return the same vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}
