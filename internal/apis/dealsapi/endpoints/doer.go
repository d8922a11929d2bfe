package endpoints

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"dealfinder/internal/domain/models"
)

const (
	maxBody      = 4 * 1024 * 1024
	maxErrorBody = 64 * 1024
)

type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	Doer         Doer
	BaseURL      string
	ApplyHeaders func(*http.Request)
}

func New(doer Doer, baseURL string, applyHeaders func(*http.Request)) *Client {
	return &Client{
		Doer:         doer,
		BaseURL:      strings.TrimRight(baseURL, "/"),
		ApplyHeaders: applyHeaders,
	}
}

func (c *Client) newReq(ctx context.Context, method, path string, body any) (*http.Request, error) {
	if c.BaseURL == "" {
		return nil, fmt.Errorf("BaseURL is empty")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		// bytes.Reader lets NewRequest set GetBody
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.ApplyHeaders != nil {
		c.ApplyHeaders(req)
	}
	return req, nil
}

// do sends req and decodes a successful JSON body into out. Any status other
// than want becomes an *APIError.
func do[T any](c *Client, req *http.Request, want int, out *T) error {
	op := req.Method + " " + req.URL.Path

	resp, err := c.Doer.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return fmt.Errorf("%s: %w", op, ctxErr)
		}
		return fmt.Errorf("%s: %w: %w", op, models.ErrFetchFailure, err)
	}

	if resp.StatusCode != want {
		b, _ := readLimited(resp, maxErrorBody)
		return ParseAPIError(resp.StatusCode, bytes.TrimSpace(b))
	}

	b, err := readLimited(resp, maxBody)
	if err != nil {
		return fmt.Errorf("%s: read body: %w: %w", op, models.ErrFetchFailure, err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("%s: bad json body=%s: %w", op, string(b[:min(len(b), 1024)]), models.ErrFetchFailure)
	}
	return nil
}

func readLimited(resp *http.Response, limit int64) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(io.LimitReader(resp.Body, limit))
}
