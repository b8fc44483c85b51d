// Package client talks to the arbor HTTP API.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alexanderramin/arbor/internal/contract"
	"github.com/alexanderramin/arbor/internal/domain"
	"github.com/goccy/go-json"
)

// ErrNotFound matches any 404 response.
var ErrNotFound = errors.New("not found")

// ErrUnavailable wraps dial and connection failures.
var ErrUnavailable = errors.New("server unavailable")

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
	Details string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("server returned %d", e.Status)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Details != "" {
		msg += " (" + e.Details + ")"
	}
	return msg
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a Client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Health(ctx context.Context) error {
	var resp contract.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/healthz", nil, &resp); err != nil {
		return err
	}
	if resp.Status != "ok" {
		return fmt.Errorf("unexpected health status %q", resp.Status)
	}
	return nil
}

func (c *Client) ListSummaries(ctx context.Context) ([]domain.ListSummary, error) {
	var out []domain.ListSummary
	if err := c.do(ctx, http.MethodGet, "/api/lists", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DefaultListID returns the first list's id, or "" when there are none.
func (c *Client) DefaultListID(ctx context.Context) (string, error) {
	var out contract.DefaultListResponse
	err := c.do(ctx, http.MethodGet, "/api/lists/default", nil, &out)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return out.ID, nil
}

// FetchList reads one list page with the default view parameters.
func (c *Client) FetchList(ctx context.Context, listID string) (*contract.ListReadResponse, error) {
	return c.FetchListWithQuery(ctx, listID, nil)
}

func (c *Client) FetchListWithQuery(ctx context.Context, listID string, query url.Values) (*contract.ListReadResponse, error) {
	path := "/api/lists/" + url.PathEscape(listID)
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	var out contract.ListReadResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if out.ActiveList == nil {
		return nil, fmt.Errorf("fetching list %s: response has no active list", listID)
	}
	return &out, nil
}

// Mutate posts req against listID and returns the redirect target.
func (c *Client) Mutate(ctx context.Context, listID string, req contract.MutationRequest) (contract.MutationResponse, error) {
	path := "/api/lists/" + url.PathEscape(listID) + "/actions"
	var out contract.MutationResponse
	if err := c.do(ctx, http.MethodPost, path, req, &out); err != nil {
		return out, err
	}
	if out.RedirectTo == "" {
		return out, errors.New("mutation response has no redirect")
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if isConnectionError(err) {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var body contract.ErrorResponse
		if json.Unmarshal(data, &body) == nil {
			apiErr.Message = body.Error
			apiErr.Details = body.Details
		} else {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return apiErr
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func isConnectionError(err error) bool {
	var netErr *net.OpError
	return errors.As(err, &netErr)
}
