package docdex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Search runs a ranked document search and returns up to k results, sorted by
// similarity descending. Pass k <= 0 to let the service apply its default.
func (c *Client) Search(ctx context.Context, query string, k int) (results []SearchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	payload := searchRequest{Query: query}
	if k > 0 {
		payload.K = &k
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/v1/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out searchResponse
	if err = c.doJSON(req, &out); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return out.Results, nil
}
