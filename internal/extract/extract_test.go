package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
)

const docxMediaType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

func TestExtractUnsupportedMediaType(t *testing.T) {
	// Valid PDF bytes with the wrong declared type must be rejected before
	// any parse attempt.
	data := buildPDF(t, "hello")
	_, err := Extract(data, "image/png")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestExtractPDFSinglePage(t *testing.T) {
	data := buildPDF(t, "Jane Doe Resume")
	text, err := Extract(data, "application/pdf")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !strings.Contains(text, "Jane Doe Resume") {
		t.Fatalf("expected page text, got %q", text)
	}
}

func TestExtractPDFPagesInOrder(t *testing.T) {
	data := buildPDF(t, "first page", "second page")
	text, err := Extract(data, "application/pdf; charset=binary")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	first := strings.Index(text, "first page")
	second := strings.Index(text, "second page")
	if first < 0 || second < 0 {
		t.Fatalf("missing page text: %q", text)
	}
	if first > second {
		t.Fatalf("pages out of order: %q", text)
	}
	if !strings.Contains(text, "\n") {
		t.Fatalf("expected newline between pages: %q", text)
	}
}

func TestExtractPDFCorrupt(t *testing.T) {
	_, err := Extract([]byte("%PDF-1.4 garbage with no xref"), "application/pdf")
	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
}

func TestExtractDOCX(t *testing.T) {
	data := buildDOCX(t, `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Jane Doe, jane@x.com</w:t></w:r></w:p>
<w:p><w:r><w:t>Skills: Python, AWS</w:t></w:r></w:p>
</w:body>
</w:document>`)

	text, err := Extract(data, docxMediaType)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := "Jane Doe, jane@x.com\nSkills: Python, AWS"
	if text != want {
		t.Fatalf("got %q, want %q", text, want)
	}
}

func TestExtractDOCXEmptyIsValid(t *testing.T) {
	data := buildDOCX(t, `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body><w:p></w:p></w:body></w:document>`)

	text, err := Extract(data, docxMediaType)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if text != "" {
		t.Fatalf("expected empty text, got %q", text)
	}
}

func TestExtractDOCXMissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("notes.txt")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	_, err = Extract(buf.Bytes(), docxMediaType)
	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("expected ErrExtractionFailed, got %v", err)
	}
}

// buildDOCX assembles the minimal zip container the extractor reads.
func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create document.xml: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write document.xml: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

// buildPDF assembles a minimal uncompressed PDF with one page per text,
// computing xref offsets so standard readers accept it.
func buildPDF(t *testing.T, pageTexts ...string) []byte {
	t.Helper()

	n := len(pageTexts)
	// Object numbering: 1 catalog, 2 pages, 3..2+n page dicts,
	// 3+n..2+2n content streams, 3+2n font.
	fontObj := 3 + 2*n

	var buf bytes.Buffer
	offsets := make([]int, fontObj+1)

	buf.WriteString("%PDF-1.4\n")

	writeObj := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	kids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		kids = append(kids, fmt.Sprintf("%d 0 R", 3+i))
	}

	writeObj(1, "<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n))

	for i := 0; i < n; i++ {
		writeObj(3+i, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents %d 0 R /Resources << /Font << /F1 %d 0 R >> >> >>",
			3+n+i, fontObj))
	}

	for i, text := range pageTexts {
		escaped := strings.NewReplacer("\\", "\\\\", "(", "\\(", ")", "\\)").Replace(text)
		stream := fmt.Sprintf("BT /F1 12 Tf 72 712 Td (%s) Tj ET", escaped)
		body := fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream)
		writeObj(3+n+i, body)
	}

	writeObj(fontObj, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	xrefStart := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", fontObj+1)
	buf.WriteString("0000000000 65535 f \n")
	for num := 1; num <= fontObj; num++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[num])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", fontObj+1, xrefStart)

	return buf.Bytes()
}
