package extract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// wordMainType is the OOXML content type of the main document part.
const wordMainType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"

const defaultWordPart = "word/document.xml"

var (
	// runText matches a <w:t> text run regardless of its attributes
	// (xml:space and friends).
	runText = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)

	overrideTag = regexp.MustCompile(`<Override[^>]*>`)
	partName    = regexp.MustCompile(`PartName="([^"]+)"`)
)

// extractDOCX reads the main document part of a .docx archive and joins
// its <w:t> runs with spaces, keeping the text independent of paragraph
// and run formatting.
func extractDOCX(content []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}

	raw, err := readArchiveFile(archive, mainDocumentPart(archive))
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}

	var b strings.Builder
	for _, run := range runText.FindAllSubmatch(raw, -1) {
		text := strings.TrimSpace(string(run[1]))
		if text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(text)
	}
	return b.String(), nil
}

// mainDocumentPart resolves the main document path declared in
// [Content_Types].xml, falling back to word/document.xml. Attribute order
// inside Override varies between producers, so each Override element is
// scanned for both attributes instead of assuming a fixed order.
func mainDocumentPart(archive *zip.Reader) string {
	raw, err := readArchiveFile(archive, "[Content_Types].xml")
	if err != nil {
		return defaultWordPart
	}
	for _, override := range overrideTag.FindAllString(string(raw), -1) {
		if !strings.Contains(override, wordMainType) {
			continue
		}
		if match := partName.FindStringSubmatch(override); len(match) > 1 {
			return strings.TrimPrefix(match[1], "/")
		}
	}
	return defaultWordPart
}

func readArchiveFile(archive *zip.Reader, name string) ([]byte, error) {
	for _, f := range archive.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%s missing from archive", name)
}
