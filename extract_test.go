package edugo

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeZip(t *testing.T, name string, parts map[string]string) string {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for partName, content := range parts {
		f, err := w.Create(partName)
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}
	return path
}

func TestExtractDOCX(t *testing.T) {
	path := writeZip(t, "notes.docx", map[string]string{
		"word/document.xml": `<?xml version="1.0"?>
			<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
				<w:body>
					<w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
					<w:p><w:r><w:t>Second paragraph.</w:t></w:r></w:p>
				</w:body>
			</w:document>`,
	})

	fe := NewFileExtractor(0)
	text, err := fe.ExtractText(context.Background(), path)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if !strings.Contains(text, "First paragraph.") || !strings.Contains(text, "Second paragraph.") {
		t.Errorf("Missing paragraph text: %q", text)
	}
}

func TestExtractPPTX(t *testing.T) {
	path := writeZip(t, "deck.pptx", map[string]string{
		"ppt/slides/slide1.xml": `<?xml version="1.0"?>
			<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"
				xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
				<a:p><a:r><a:t>Slide one text</a:t></a:r></a:p>
			</p:sld>`,
		"ppt/slides/slide2.xml": `<?xml version="1.0"?>
			<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"
				xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
				<a:p><a:r><a:t>Slide two text</a:t></a:r></a:p>
			</p:sld>`,
	})

	fe := NewFileExtractor(0)
	text, err := fe.ExtractText(context.Background(), path)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if !strings.Contains(text, "Slide one text") || !strings.Contains(text, "Slide two text") {
		t.Errorf("Missing slide text: %q", text)
	}
}

func TestExtractTruncatesToMaxChars(t *testing.T) {
	long := strings.Repeat("word ", 100)
	path := writeZip(t, "notes.docx", map[string]string{
		"word/document.xml": `<?xml version="1.0"?>
			<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
				<w:body><w:p><w:r><w:t>` + long + `</w:t></w:r></w:p></w:body>
			</w:document>`,
	})

	fe := NewFileExtractor(50)
	text, err := fe.ExtractText(context.Background(), path)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if len(text) > 50 {
		t.Errorf("Expected truncation to 50 chars, got %d", len(text))
	}
}

func TestExtractUnsupportedExtension(t *testing.T) {
	fe := NewFileExtractor(0)
	if _, err := fe.ExtractText(context.Background(), "notes.txt"); !errors.Is(err, ErrUnsupportedFile) {
		t.Errorf("Expected ErrUnsupportedFile, got %v", err)
	}
}

func TestExtractMissingDocumentPart(t *testing.T) {
	path := writeZip(t, "broken.docx", map[string]string{
		"other.xml": "<x/>",
	})
	fe := NewFileExtractor(0)
	if _, err := fe.ExtractText(context.Background(), path); err == nil {
		t.Error("Expected error for docx without document part")
	}
}
