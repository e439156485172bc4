package notestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Paintersrp/notehub/internal/note"
	"github.com/Paintersrp/notehub/internal/query"
)

const maxErrorBody = 512

// HTTPClient is a Store backed by the NoteHub REST API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption configures an HTTPClient.
type ClientOption func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(h *HTTPClient) {
		if c != nil {
			h.httpClient = c
		}
	}
}

// WithToken sends token as a bearer credential.
func WithToken(token string) ClientOption {
	return func(h *HTTPClient) {
		h.token = strings.TrimSpace(token)
	}
}

// WithLogger sets the logger for request tracing.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(h *HTTPClient) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHTTPClient builds a client for the API rooted at baseURL.
func NewHTTPClient(baseURL string, timeout time.Duration, opts ...ClientOption) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must use http or https", baseURL)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	c := &HTTPClient{
		baseURL:    strings.TrimRight(u.String(), "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListNotes fetches one page. Empty search and the no-filter tag are left
// out of the request.
func (c *HTTPClient) ListNotes(ctx context.Context, params query.ListParams) (note.ResultPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(max(params.Page, 1)))
	if params.PerPage > 0 {
		q.Set("perPage", strconv.Itoa(params.PerPage))
	}
	if params.Search != "" {
		q.Set("search", params.Search)
	}
	if params.Tag.IsFilter() {
		q.Set("tag", string(params.Tag))
	}

	var page note.ResultPage
	if err := c.do(ctx, http.MethodGet, "/notes?"+q.Encode(), nil, &page); err != nil {
		return note.ResultPage{}, err
	}
	if page.Notes == nil {
		page.Notes = []note.Note{}
	}
	return page, nil
}

// CreateNote posts payload and returns the stored note.
func (c *HTTPClient) CreateNote(ctx context.Context, payload note.NewNote) (note.Note, error) {
	var created note.Note
	if err := c.do(ctx, http.MethodPost, "/notes", payload, &created); err != nil {
		return note.Note{}, err
	}
	return created, nil
}

// GetNote fetches a note by id.
func (c *HTTPClient) GetNote(ctx context.Context, id string) (note.Note, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return note.Note{}, ErrNotFound
	}

	var n note.Note
	if err := c.do(ctx, http.MethodGet, "/notes/"+url.PathEscape(id), nil, &n); err != nil {
		return note.Note{}, err
	}
	return n, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshalling request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("note store not reachable (%w)", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("note store request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)

	if resp.StatusCode == http.StatusNotFound && method == http.MethodGet && strings.HasPrefix(path, "/notes/") {
		return ErrNotFound
	}
	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Method: method,
			Path:   path,
			Code:   resp.StatusCode,
			Body:   strings.TrimSpace(string(data)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
