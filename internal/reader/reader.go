// Package reader extracts text from uploaded documents.
package reader

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/kailas-cloud/docdex/internal/domain"
)

// Page is one extracted unit of a source document. Index is the zero-based
// page index for paginated formats and -1 for plain text sources.
type Page struct {
	Text  string
	Index int
}

// Document is the extraction output: ordered pages plus document-level info
// fields (creator, creationdate) when the format carries them.
type Document struct {
	Name  string
	Pages []Page
	Info  map[string]any
}

// Reader extracts a Document from raw file content.
type Reader interface {
	Read(name string, r io.Reader) (Document, error)
}

// ByExtension returns the reader responsible for the file's extension.
func ByExtension(name string) (Reader, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".txt", ".md", ".text":
		return &TextReader{}, nil
	case ".pdf":
		return &PDFReader{}, nil
	default:
		return nil, domain.NewUnsupportedFile(ext)
	}
}
