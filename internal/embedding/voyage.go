package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/austinfhunter/voyageai"

	"github.com/hyperjump/senko/pkg/utils"
)

const (
	defaultVoyageModel   = "voyage-3.5-lite"
	defaultVoyageTimeout = 30 * time.Second
)

// VoyageEmbedder produces embeddings via the VoyageAI API. Vectors are
// unit-normalized after retrieval so both similarity formulas can treat
// norms as close to 1.
type VoyageEmbedder struct {
	client     *voyageai.VoyageClient
	model      string
	dimensions int
	timeout    time.Duration
	cache      *Cache
}

// NewVoyageEmbedder creates a VoyageAI-backed embedder. model defaults to
// voyage-3.5-lite and timeout to 30s when zero.
func NewVoyageEmbedder(apiKey, model string, dimensions, cacheSize int, timeout time.Duration) (*VoyageEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("voyage api key is required")
	}
	if dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive")
	}
	if model == "" {
		model = defaultVoyageModel
	}
	if timeout <= 0 {
		timeout = defaultVoyageTimeout
	}
	return &VoyageEmbedder{
		client:     voyageai.NewClient(&voyageai.VoyageClientOpts{Key: apiKey}),
		model:      model,
		dimensions: dimensions,
		timeout:    timeout,
		cache:      NewCache(cacheSize),
	}, nil
}

// Embed returns the embedding for text, using the cache when available.
func (e *VoyageEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if cached, ok := e.cache.Get(text); ok {
		return cached, nil
	}
	out, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// EmbedBatch embeds texts in a single API call. The call is bounded by the
// configured timeout; results are cached per text.
func (e *VoyageEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	type embedResult struct {
		data []voyageai.EmbeddingObject
		err  error
	}
	resultCh := make(chan embedResult, 1)
	go func() {
		resp, err := e.client.Embed(texts, e.model, &voyageai.EmbeddingRequestOpts{
			OutputDimension: &e.dimensions,
		})
		if err != nil {
			resultCh <- embedResult{err: err}
			return
		}
		resultCh <- embedResult{data: resp.Data}
	}()

	var result embedResult
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrExternalCall, ctx.Err())
	case result = <-resultCh:
	}
	if result.err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExternalCall, result.err)
	}
	if len(result.data) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d texts", ErrExternalCall, len(result.data), len(texts))
	}
	out := make([][]float32, len(texts))
	for i, obj := range result.data {
		if len(obj.Embedding) != e.dimensions {
			return nil, fmt.Errorf("%w: embedding has %d dimensions, expected %d", ErrExternalCall, len(obj.Embedding), e.dimensions)
		}
		emb := make([]float32, e.dimensions)
		copy(emb, obj.Embedding)
		utils.NormalizeL2(emb)
		out[i] = emb
		e.cache.Set(texts[i], emb)
	}
	return out, nil
}

// Dimensions returns the embedding dimension.
func (e *VoyageEmbedder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op; the underlying client is stateless HTTP.
func (e *VoyageEmbedder) Close() error {
	return nil
}
