package reader

import (
	"fmt"
	"io"
)

// TextReader reads plain text files as a single unpaginated page.
type TextReader struct{}

// Read consumes the full content.
func (t *TextReader) Read(name string, r io.Reader) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("read text file: %w", err)
	}

	return Document{
		Name:  name,
		Pages: []Page{{Text: string(data), Index: -1}},
	}, nil
}
