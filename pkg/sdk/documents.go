package docdex

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Upload ingests one document: the content is read from r, the format picked
// by the filename extension on the server side.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (sum UploadSummary, err error) {
	start := time.Now()
	defer func() { c.obs.observe("upload", start, err) }()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return UploadSummary{}, fmt.Errorf("upload: %w", err)
	}
	if _, err = io.Copy(part, r); err != nil {
		return UploadSummary{}, fmt.Errorf("upload: read content: %w", err)
	}
	if err = mw.Close(); err != nil {
		return UploadSummary{}, fmt.Errorf("upload: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/v1/documents", &buf)
	if err != nil {
		return UploadSummary{}, fmt.Errorf("upload: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	if err = c.doJSON(req, &sum); err != nil {
		return UploadSummary{}, fmt.Errorf("upload: %w", err)
	}
	return sum, nil
}

// Chunks returns one page of the stored chunk listing. An empty cursor starts
// from the beginning; limit <= 0 uses the service default page size.
func (c *Client) Chunks(ctx context.Context, cursor string, limit int) (page ChunkPage, err error) {
	start := time.Now()
	defer func() { c.obs.observe("chunks", start, err) }()

	q := url.Values{}
	if cursor != "" {
		q.Set("cursor", cursor)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/v1/documents"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return ChunkPage{}, fmt.Errorf("chunks: %w", err)
	}
	if err = c.doJSON(req, &page); err != nil {
		return ChunkPage{}, fmt.Errorf("chunks: %w", err)
	}
	return page, nil
}

// DeleteChunk removes one chunk by id.
func (c *Client) DeleteChunk(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("delete_chunk", start, err) }()

	if id == "" {
		return fmt.Errorf("delete chunk: id required")
	}
	req, err := c.newRequest(ctx, http.MethodDelete, "/v1/documents/"+url.PathEscape(id), nil)
	if err != nil {
		return fmt.Errorf("delete chunk: %w", err)
	}
	if err = c.doJSON(req, nil); err != nil {
		return fmt.Errorf("delete chunk: %w", err)
	}
	return nil
}

// Clear removes every stored chunk and reports how many were deleted.
func (c *Client) Clear(ctx context.Context) (deleted int64, err error) {
	start := time.Now()
	defer func() { c.obs.observe("clear", start, err) }()

	req, err := c.newRequest(ctx, http.MethodDelete, "/v1/documents", nil)
	if err != nil {
		return 0, fmt.Errorf("clear: %w", err)
	}
	var out clearResponse
	if err = c.doJSON(req, &out); err != nil {
		return 0, fmt.Errorf("clear: %w", err)
	}
	return out.Deleted, nil
}
