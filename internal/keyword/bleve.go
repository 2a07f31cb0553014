package keyword

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"

	"github.com/hyperjump/senko/internal/models"
)

// BleveIndex implements Index using Bleve.
type BleveIndex struct {
	index bleve.Index
}

// postingDoc is the flattened form a posting is indexed under.
type postingDoc struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Skills      string `json:"skills"`
	Description string `json:"description"`
}

// NewBleveIndex creates or opens a Bleve index at path. An existing index
// is opened and reused; remove the directory to force a full re-index
// after a mapping change.
func NewBleveIndex(path string) (*BleveIndex, error) {
	im := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	// Standard analyzer (lowercase + tokenize, no stemming) so skill
	// queries like "go" match the exact token.
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("title", textFieldMapping)
	docMapping.AddFieldMappingsAt("company", textFieldMapping)
	docMapping.AddFieldMappingsAt("skills", textFieldMapping)
	docMapping.AddFieldMappingsAt("description", textFieldMapping)
	im.AddDocumentMapping("posting", docMapping)
	im.DefaultType = "posting"
	im.DefaultMapping = docMapping

	if _, err := os.Stat(path); err == nil {
		index, openErr := bleve.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("failed to open Bleve index: %w", openErr)
		}
		return &BleveIndex{index: index}, nil
	}

	index, err := bleve.New(path, im)
	if err != nil {
		return nil, fmt.Errorf("failed to create Bleve index: %w", err)
	}
	return &BleveIndex{index: index}, nil
}

// IndexPosting indexes a posting under its ID.
func (b *BleveIndex) IndexPosting(ctx context.Context, posting *models.Posting) error {
	doc := postingDoc{
		Title:       posting.Title,
		Company:     posting.Company,
		Skills:      strings.Join(posting.Skills, " "),
		Description: posting.Description,
	}
	return b.index.Index(posting.ID, doc)
}

// Search runs a match query and returns up to limit results.
func (b *BleveIndex) Search(ctx context.Context, query string, limit int) ([]*Result, error) {
	q := bleve.NewMatchQuery(query)
	search := bleve.NewSearchRequest(q)
	search.Size = limit
	results, err := b.index.Search(search)
	if err != nil {
		return nil, fmt.Errorf("Bleve search failed: %w", err)
	}
	out := make([]*Result, len(results.Hits))
	for i, hit := range results.Hits {
		out[i] = &Result{ID: hit.ID, Score: hit.Score}
	}
	return out, nil
}

// Delete removes a posting from the index.
func (b *BleveIndex) Delete(ctx context.Context, id string) error {
	return b.index.Delete(id)
}

// DocCount returns the number of indexed postings.
func (b *BleveIndex) DocCount() (uint64, error) {
	return b.index.DocCount()
}

// Close closes the index.
func (b *BleveIndex) Close() error {
	return b.index.Close()
}
