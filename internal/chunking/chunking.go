// Package chunking provides document splitting strategies for ingestion.
package chunking

import (
	"errors"
	"strings"
)

// Splitter splits extracted document text into chunk contents.
type Splitter interface {
	Split(text string) ([]string, error)
}

// ErrEmptyText signals that the text has no content after normalization.
var ErrEmptyText = errors.New("text is empty")

// Default splitting parameters.
const (
	DefaultChunkSize = 300
	DefaultOverlap   = 100
)

// DefaultSeparators is the separator hierarchy in priority order: paragraph
// breaks first, then lines, sentence punctuation, clauses, words, characters.
func DefaultSeparators() []string {
	return []string{"\n\n", "\n", ".", "!", "?", ",", " ", ""}
}

// CleanText trims the text and normalizes line breaks and per-line whitespace.
func CleanText(content string) string {
	processed := strings.TrimSpace(content)

	processed = strings.ReplaceAll(processed, "\r\n", "\n")
	processed = strings.ReplaceAll(processed, "\r", "\n")

	lines := strings.Split(processed, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n")
}
