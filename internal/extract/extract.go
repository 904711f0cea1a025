package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var (
	// ErrUnsupportedFormat is returned for media types outside the allow-list,
	// before any parsing is attempted.
	ErrUnsupportedFormat = errors.New("unsupported media type")
	// ErrExtractionFailed wraps parser errors for malformed or corrupt documents.
	ErrExtractionFailed = errors.New("text extraction failed")
)

// Extract pulls plain text from an in-memory document of a known media type.
// The result is trimmed; an empty result is valid and left to the caller to
// reject.
func Extract(data []byte, mediaType string) (string, error) {
	switch normalizeMediaType(mediaType) {
	case mimePDF:
		return extractPDF(data)
	case mimeDOCX:
		return extractDOCX(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, mediaType)
	}
}

// Supported reports whether the media type is on the allow-list.
func Supported(mediaType string) bool {
	switch normalizeMediaType(mediaType) {
	case mimePDF, mimeDOCX:
		return true
	default:
		return false
	}
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: pdf: %v", ErrExtractionFailed, err)
	}

	// Page text is collected in page order and joined with newlines; reading
	// order within a page is whatever the reader reports, not reflowed.
	var pages []string
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("%w: pdf page %d: %v", ErrExtractionFailed, pageNum, err)
		}
		pages = append(pages, strings.TrimSpace(text))
	}

	return strings.TrimSpace(strings.Join(pages, "\n")), nil
}

func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: docx: %v", ErrExtractionFailed, err)
	}

	var docFile *zip.File
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		if name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", fmt.Errorf("%w: docx: document.xml not found", ErrExtractionFailed)
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", fmt.Errorf("%w: docx: %v", ErrExtractionFailed, err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("%w: docx: %v", ErrExtractionFailed, err)
	}

	text, err := stripDocxXML(raw)
	if err != nil {
		return "", fmt.Errorf("%w: docx: %v", ErrExtractionFailed, err)
	}
	return text, nil
}

// stripDocxXML discards all formatting and keeps character data, inserting
// newlines at paragraph and line-break boundaries.
func stripDocxXML(raw []byte) (string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.Write(t)
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String()), nil
}

func normalizeMediaType(mediaType string) string {
	return strings.ToLower(strings.TrimSpace(strings.Split(mediaType, ";")[0]))
}
