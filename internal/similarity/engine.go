// Package similarity wraps a vector index + metadata catalog pair for one
// collection (postings or profiles) behind insert and nearest-neighbor search.
package similarity

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/hyperjump/senko/internal/embedding"
	"github.com/hyperjump/senko/internal/vector"
)

// Hit is a single search result. Similarity uses the approximate
// 1 - squared-L2 convention (see vector.ApproxSimilarity); it can go
// negative for very dissimilar vectors and is only for candidate
// pre-selection, never for stored scores.
type Hit struct {
	ExternalID string                 `json:"external_id"`
	Ordinal    int                    `json:"ordinal"`
	Similarity float64                `json:"similarity"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

// Engine owns one FlatIndex + Catalog pair. All inserts for the collection go
// through its write mutex, so ordinal assignment stays monotonic and gap-free.
// The mutex is never held across the embedding call.
type Engine struct {
	name     string
	index    *vector.FlatIndex
	catalog  *vector.Catalog
	embedder embedding.Embedder
	logger   *zap.Logger

	writeMu sync.Mutex
}

// NewEngine opens (or creates) the collection's index and catalog files and
// reconciles them: vector records past the catalog count are uncommitted
// leftovers from a crash between the two appends and are discarded.
func NewEngine(name, indexPath, catalogPath string, embedder embedding.Embedder, logger *zap.Logger) (*Engine, error) {
	idx, err := vector.OpenFlatIndex(indexPath, embedder.Dimensions())
	if err != nil {
		return nil, fmt.Errorf("open %s index: %w", name, err)
	}
	cat, err := vector.OpenCatalog(catalogPath)
	if err != nil {
		_ = idx.Close()
		return nil, fmt.Errorf("open %s catalog: %w", name, err)
	}
	if idx.Size() < cat.Count() {
		_ = idx.Close()
		_ = cat.Close()
		return nil, fmt.Errorf("%w: %s catalog has %d entries but index has %d vectors",
			vector.ErrStorageIO, name, cat.Count(), idx.Size())
	}
	if idx.Size() > cat.Count() {
		logger.Warn("discarding uncommitted vector records",
			zap.String("collection", name),
			zap.Int("index_size", idx.Size()),
			zap.Int("catalog_count", cat.Count()),
		)
		if err := idx.TruncateTo(cat.Count()); err != nil {
			_ = idx.Close()
			_ = cat.Close()
			return nil, fmt.Errorf("reconcile %s index: %w", name, err)
		}
	}
	return &Engine{name: name, index: idx, catalog: cat, embedder: embedder, logger: logger}, nil
}

// Insert embeds text and commits the vector together with its metadata entry.
// The vector record is staged first; the catalog append is the commit point.
// If the catalog write fails the staged vector is truncated away, so partial
// inserts are never observable, in memory or on disk.
func (e *Engine) Insert(ctx context.Context, externalID, text string, attrs map[string]interface{}) (int, error) {
	if externalID == "" {
		return 0, fmt.Errorf("%w: external id is required", vector.ErrInvalidArgument)
	}
	if e.catalog.Has(externalID) {
		return 0, fmt.Errorf("%w: %s", vector.ErrDuplicateExternalID, externalID)
	}

	// Embedding is slow and externally rate-limited; keep it outside the
	// write lock.
	vec, err := e.embedder.Embed(ctx, text)
	if err != nil {
		return 0, fmt.Errorf("embed %s %s: %w", e.name, externalID, err)
	}

	e.writeMu.Lock()
	defer e.writeMu.Unlock()

	// Re-check under the lock: a concurrent insert may have won the id.
	if e.catalog.Has(externalID) {
		return 0, fmt.Errorf("%w: %s", vector.ErrDuplicateExternalID, externalID)
	}
	ordinal, err := e.index.Append(vec)
	if err != nil {
		return 0, err
	}
	if err := e.catalog.Append(vector.Entry{Ordinal: ordinal, ExternalID: externalID, Attributes: attrs}); err != nil {
		if truncErr := e.index.TruncateTo(ordinal); truncErr != nil {
			e.logger.Error("rollback of staged vector failed",
				zap.String("collection", e.name),
				zap.Int("ordinal", ordinal),
				zap.Error(truncErr),
			)
		}
		return 0, err
	}
	e.logger.Debug("vector inserted",
		zap.String("collection", e.name),
		zap.String("external_id", externalID),
		zap.Int("ordinal", ordinal),
	)
	return ordinal, nil
}

// Search embeds text and returns up to k nearest records with their metadata,
// ordered by ascending distance (descending approximate similarity).
func (e *Engine) Search(ctx context.Context, text string, k int) ([]Hit, error) {
	vec, err := e.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed %s query: %w", e.name, err)
	}
	neighbors, err := e.index.Nearest(vec, k)
	if err != nil {
		return nil, err
	}
	hits := make([]Hit, 0, len(neighbors))
	for _, n := range neighbors {
		entry, ok := e.catalog.ByOrdinal(n.Ordinal)
		if !ok {
			// Catalog and index co-evolve in lockstep; a miss here means
			// on-disk corruption.
			return nil, fmt.Errorf("%w: %s ordinal %d has no catalog entry", vector.ErrStorageIO, e.name, n.Ordinal)
		}
		hits = append(hits, Hit{
			ExternalID: entry.ExternalID,
			Ordinal:    n.Ordinal,
			Similarity: vector.ApproxSimilarity(n.Distance),
			Attributes: entry.Attributes,
		})
	}
	return hits, nil
}

// DirectSimilarity embeds both texts and returns their exact cosine
// similarity clamped to [0,1]. This is the scoring formula; it never uses the
// index's approximate distance conversion.
func (e *Engine) DirectSimilarity(ctx context.Context, textA, textB string) (float64, error) {
	embs, err := e.embedder.EmbedBatch(ctx, []string{textA, textB})
	if err != nil {
		return 0, fmt.Errorf("embed for direct similarity: %w", err)
	}
	if len(embs) != 2 {
		return 0, fmt.Errorf("%w: provider returned %d embeddings for 2 inputs", embedding.ErrExternalCall, len(embs))
	}
	return vector.CosineSimilarity(embs[0], embs[1]), nil
}

// Has reports whether externalID is present in the collection.
func (e *Engine) Has(externalID string) bool {
	return e.catalog.Has(externalID)
}

// Size returns the number of committed records.
func (e *Engine) Size() int {
	return e.catalog.Count()
}

// Name returns the collection name.
func (e *Engine) Name() string {
	return e.name
}

// Close closes both files.
func (e *Engine) Close() error {
	idxErr := e.index.Close()
	catErr := e.catalog.Close()
	if idxErr != nil {
		return idxErr
	}
	return catErr
}
