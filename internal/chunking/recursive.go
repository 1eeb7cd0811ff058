package chunking

import (
	"strings"
)

// Recursive implements a recursive splitting strategy over a separator hierarchy.
type Recursive struct {
	chunkSize  int
	overlap    int
	separators []string
}

// Option configures a Recursive splitter.
type Option func(*Recursive)

// WithChunkSize sets the maximum size of each chunk in bytes.
func WithChunkSize(size int) Option {
	return func(r *Recursive) {
		r.chunkSize = size
	}
}

// WithOverlap sets the number of bytes carried over between consecutive chunks.
func WithOverlap(overlap int) Option {
	return func(r *Recursive) {
		r.overlap = overlap
	}
}

// WithSeparators sets the separators to use in priority order.
func WithSeparators(separators []string) Option {
	return func(r *Recursive) {
		r.separators = separators
	}
}

// NewRecursive creates a recursive splitter with options.
func NewRecursive(opts ...Option) *Recursive {
	r := &Recursive{
		chunkSize:  DefaultChunkSize,
		overlap:    DefaultOverlap,
		separators: DefaultSeparators(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.overlap >= r.chunkSize {
		r.overlap = min(DefaultOverlap, r.chunkSize-1)
	}
	return r
}

// Split cleans the text and splits it using the separator hierarchy.
func (r *Recursive) Split(text string) ([]string, error) {
	content := CleanText(text)
	if content == "" {
		return nil, ErrEmptyText
	}

	chunks := r.recursiveSplit(content, r.separators)
	if r.overlap > 0 {
		chunks = r.applyOverlap(chunks)
	}
	return chunks, nil
}

// recursiveSplit splits text with the first separator that applies, recursing
// into the next separator for pieces that are still too large.
func (r *Recursive) recursiveSplit(text string, separators []string) []string {
	if len(text) <= r.chunkSize {
		return []string{text}
	}

	if len(separators) == 0 {
		return []string{text[:r.chunkSize]}
	}

	separator := separators[0]
	var splits []string
	if separator == "" {
		splits = strings.Split(text, "")
	} else {
		splits = strings.Split(text, separator)
	}

	var chunks []string
	for _, split := range splits {
		if len(split) == 0 {
			continue
		}

		if len(split) <= r.chunkSize {
			chunks = append(chunks, split)
			continue
		}

		if len(separators) > 1 {
			chunks = append(chunks, r.recursiveSplit(split, separators[1:])...)
			continue
		}

		// No more separators, force split at chunk size.
		for i := 0; i < len(split); i += r.chunkSize {
			end := min(i+r.chunkSize, len(split))
			chunks = append(chunks, split[i:end])
		}
	}
	return chunks
}

// applyOverlap prefixes each chunk after the first with the tail of its predecessor.
func (r *Recursive) applyOverlap(chunks []string) []string {
	if len(chunks) <= 1 {
		return chunks
	}

	overlapped := []string{chunks[0]}
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		if len(prev) > r.overlap {
			prev = prev[len(prev)-r.overlap:]
		}
		overlapped = append(overlapped, prev+chunks[i])
	}
	return overlapped
}
