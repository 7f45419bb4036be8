package edugo

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Extractor turns an uploaded document into plain text. Implementations may
// do real I/O and must honor ctx; an empty result means extraction failed
// and the upload is rejected.
type Extractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// Caps on how much of a document is read, matching the original service.
const (
	maxPDFPages  = 20
	maxPPTSlides = 20
)

// FileExtractor extracts PDF text by shelling out to pdftotext, and walks
// the XML parts of DOCX/PPTX archives directly. Output is truncated to
// maxChars.
type FileExtractor struct {
	maxChars int
}

// NewFileExtractor creates an extractor truncating output to maxChars
// (0 disables truncation).
func NewFileExtractor(maxChars int) *FileExtractor {
	return &FileExtractor{maxChars: maxChars}
}

// ExtractText dispatches on the file extension.
func (fe *FileExtractor) ExtractText(ctx context.Context, path string) (string, error) {
	var text string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		text, err = fe.extractPDF(ctx, path)
	case ".docx", ".doc":
		text, err = fe.extractDOCX(path)
	case ".pptx":
		text, err = fe.extractPPTX(path)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Ext(path))
	}
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if fe.maxChars > 0 && len(text) > fe.maxChars {
		text = text[:fe.maxChars]
	}
	return text, nil
}

func (fe *FileExtractor) extractPDF(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, "pdftotext", "-l", strconv.Itoa(maxPDFPages), path, "-")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext failed: %w", err)
	}
	return string(output), nil
}

func (fe *FileExtractor) extractDOCX(path string) (string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("failed to open docx archive: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			return readXMLText(f)
		}
	}
	return "", fmt.Errorf("docx has no document part")
}

func (fe *FileExtractor) extractPPTX(path string) (string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pptx archive: %w", err)
	}
	defer r.Close()

	var slides []*zip.File
	for _, f := range r.File {
		if strings.HasPrefix(f.Name, "ppt/slides/slide") && strings.HasSuffix(f.Name, ".xml") {
			slides = append(slides, f)
		}
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].Name < slides[j].Name })
	if len(slides) > maxPPTSlides {
		slides = slides[:maxPPTSlides]
	}

	var sb strings.Builder
	for _, f := range slides {
		text, err := readXMLText(f)
		if err != nil {
			return "", err
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// readXMLText collects all character data from an Office XML part. The XML
// interleaves text runs with markup; concatenating runs with newlines keeps
// enough structure for question generation.
func readXMLText(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer rc.Close()

	var sb strings.Builder
	dec := xml.NewDecoder(rc)
	inTextRun := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse %s: %w", f.Name, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			// Office text runs live in <w:t> (docx) and <a:t> (pptx).
			inTextRun = t.Name.Local == "t"
		case xml.EndElement:
			if t.Name.Local == "p" {
				sb.WriteString("\n")
			}
			inTextRun = false
		case xml.CharData:
			if inTextRun {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}
