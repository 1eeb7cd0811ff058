package reader

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// PDFReader extracts per-page plain text plus document info metadata.
type PDFReader struct{}

// Read parses the PDF and extracts every page. Pages that fail text
// extraction are skipped rather than failing the whole document.
func (p *PDFReader) Read(name string, r io.Reader) (Document, error) {
	readerAt, size, err := toReaderAt(r)
	if err != nil {
		return Document{}, fmt.Errorf("buffer pdf: %w", err)
	}

	pdfReader, err := pdf.NewReader(readerAt, size)
	if err != nil {
		return Document{}, fmt.Errorf("parse pdf: %w", err)
	}

	doc := Document{
		Name: name,
		Info: docInfo(pdfReader),
	}

	totalPages := pdfReader.NumPage()
	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		doc.Pages = append(doc.Pages, Page{Text: text, Index: pageNum - 1})
	}

	return doc, nil
}

// docInfo pulls creator and creation date from the PDF Info dictionary.
// The creation date stays in the raw D:YYYYMMDD form; display formatting is a
// presentation concern.
func docInfo(r *pdf.Reader) map[string]any {
	info := r.Trailer().Key("Info")
	if info.IsNull() {
		return nil
	}

	fields := map[string]any{}
	if v := info.Key("Creator"); !v.IsNull() {
		if s := v.Text(); s != "" {
			fields["creator"] = s
		}
	}
	if v := info.Key("CreationDate"); !v.IsNull() {
		if s := v.Text(); s != "" {
			fields["creationdate"] = s
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// toReaderAt adapts a stream to the random-access form pdf.NewReader needs.
// Seekable inputs (like *os.File) are used directly, everything else is buffered.
func toReaderAt(r io.Reader) (io.ReaderAt, int64, error) {
	if ra, ok := r.(io.ReaderAt); ok {
		if rs, ok := r.(io.ReadSeeker); ok {
			size, err := rs.Seek(0, io.SeekEnd)
			if err != nil {
				return nil, 0, err
			}
			if _, err := rs.Seek(0, io.SeekStart); err != nil {
				return nil, 0, err
			}
			return ra, size, nil
		}
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, err
	}
	return bytes.NewReader(data), int64(len(data)), nil
}
