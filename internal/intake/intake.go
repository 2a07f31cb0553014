// Package intake imports resumes and posting spreadsheets from the
// filesystem.
package intake

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/hyperjump/senko/internal/extract"
	"github.com/hyperjump/senko/internal/models"
)

const idPrefix = "file:"

// FileID returns a stable ID for the given absolute path. The same path
// always yields the same ID, so a file that is imported again is
// recognized instead of ingested as a duplicate.
func FileID(absolutePath string) string {
	normalized := filepath.Clean(absolutePath)
	hash := sha256.Sum256([]byte(normalized))
	return idPrefix + hex.EncodeToString(hash[:])
}

type ingestor interface {
	IngestPosting(ctx context.Context, input *models.PostingInput) (*models.Posting, error)
	IngestProfileFile(ctx context.Context, path string) (*models.Profile, error)
}

// Importer routes intake files to the matcher: spreadsheets become bulk
// posting imports, documents become profiles.
type Importer struct {
	ingest ingestor
	logger *zap.Logger
}

func NewImporter(ingest ingestor, logger *zap.Logger) *Importer {
	return &Importer{ingest: ingest, logger: logger}
}

// ImportFile imports one intake file by extension. Unsupported extensions
// are skipped without error.
func (im *Importer) ImportFile(ctx context.Context, path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".xlsx":
		n, err := im.ImportPostingsXLSX(ctx, path)
		if err != nil {
			return err
		}
		im.logger.Info("imported posting spreadsheet",
			zap.String("path", path),
			zap.Int("postings", n),
		)
		return nil
	case extract.Supported(ext):
		profile, err := im.ingest.IngestProfileFile(ctx, path)
		if err != nil {
			return err
		}
		im.logger.Info("imported resume",
			zap.String("path", path),
			zap.String("profile_id", profile.ID),
		)
		return nil
	default:
		im.logger.Debug("skipping unsupported intake file", zap.String("path", path))
		return nil
	}
}

// ImportPostingsXLSX reads one posting per row from the first sheet. The
// header row names the columns; recognized headers are title, company,
// experience, qualification, skills, and description. Skills cells are
// split on commas. Returns the number of postings imported.
func (im *Importer) ImportPostingsXLSX(ctx context.Context, path string) (int, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return 0, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return 0, fmt.Errorf("spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return 0, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return 0, nil
	}

	columns := make(map[string]int)
	for i, header := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(header))] = i
	}
	if _, ok := columns["title"]; !ok {
		return 0, fmt.Errorf("spreadsheet is missing a title column")
	}

	cell := func(row []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	imported := 0
	for rowNum, row := range rows[1:] {
		input := &models.PostingInput{
			Title:         cell(row, "title"),
			Company:       cell(row, "company"),
			Experience:    cell(row, "experience"),
			Qualification: cell(row, "qualification"),
			Description:   cell(row, "description"),
		}
		if skills := cell(row, "skills"); skills != "" {
			for _, s := range strings.Split(skills, ",") {
				if s = strings.TrimSpace(s); s != "" {
					input.Skills = append(input.Skills, s)
				}
			}
		}
		if input.Title == "" {
			im.logger.Warn("skipping spreadsheet row without title",
				zap.String("path", path),
				zap.Int("row", rowNum+2),
			)
			continue
		}
		if _, err := im.ingest.IngestPosting(ctx, input); err != nil {
			return imported, fmt.Errorf("import row %d: %w", rowNum+2, err)
		}
		imported++
	}
	return imported, nil
}
