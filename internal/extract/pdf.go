package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDF pulls the plain text layer out of a PDF. Pages whose text
// layer cannot be decoded are skipped, so a single damaged page does not
// lose a whole resume; the document fails only when no page yields text
// and at least one page errored.
func extractPDF(content []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}

	var pages []string
	var pageErr error
	for n := 1; n <= reader.NumPage(); n++ {
		page := reader.Page(n)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			pageErr = fmt.Errorf("page %d: %w", n, err)
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}
	if len(pages) == 0 && pageErr != nil {
		return "", fmt.Errorf("parse pdf: %w", pageErr)
	}
	return strings.Join(pages, "\n"), nil
}
