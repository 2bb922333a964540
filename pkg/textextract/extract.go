// Package textextract pulls plain text out of uploaded job-description
// documents (PDF, DOCX, TXT).
package textextract

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

func SupportedTypes() []string {
	return []string{".pdf", ".docx", ".txt"}
}

// Extract dispatches on the file extension or MIME type.
func Extract(data io.ReaderAt, size int64, fileType string) (string, error) {
	switch strings.ToLower(fileType) {
	case ".pdf", "pdf", "application/pdf":
		return extractPDF(data, size)
	case ".docx", "docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return extractDOCX(data, size)
	case ".txt", "txt", "text/plain":
		return extractTXT(data, size)
	default:
		return "", fmt.Errorf("unsupported file type: %s", fileType)
	}
}

func extractPDF(data io.ReaderAt, size int64) (string, error) {
	reader, err := pdf.NewReader(data, size)
	if err != nil {
		return "", fmt.Errorf("open PDF: %w", err)
	}

	var buf strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		buf.WriteString(text)
		buf.WriteString("\n")
	}

	return strings.TrimSpace(buf.String()), nil
}

func extractDOCX(data io.ReaderAt, size int64) (string, error) {
	reader, err := zip.NewReader(data, size)
	if err != nil {
		return "", fmt.Errorf("open DOCX: %w", err)
	}

	for _, f := range reader.File {
		if filepath.Base(f.Name) != "document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open document.xml: %w", err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("read document.xml: %w", err)
		}
		return stripXMLTags(string(content)), nil
	}

	return "", fmt.Errorf("no document.xml in archive")
}

func extractTXT(data io.ReaderAt, size int64) (string, error) {
	buf := make([]byte, size)
	if _, err := data.ReadAt(buf, 0); err != nil && err != io.EOF {
		return "", fmt.Errorf("read TXT: %w", err)
	}
	return string(bytes.TrimSpace(buf)), nil
}

func stripXMLTags(s string) string {
	var result strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			result.WriteRune(' ')
		case !inTag:
			result.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(result.String()), " ")
}
