// Package api provides the HTTP client for the agency backend's content
// pipeline endpoints.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
)

// Config holds client configuration.
type Config struct {
	// BaseURL is the backend API root, e.g. "http://localhost:8000/api".
	BaseURL string

	// Token is the bearer token sent with every request. The client does
	// not refresh it; an expired token surfaces as ErrAuth.
	Token string

	// HTTPClient overrides the underlying transport (default: 15s timeout).
	HTTPClient *http.Client

	// Logger for request activity (default: stderr logger).
	Logger *log.Logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		Logger:     log.New(os.Stderr, "[api] ", log.LstdFlags),
	}
}

// Client talks to the backend's kanban endpoints.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *log.Logger
}

// NewClient creates a backend API client.
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	logger := config.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "[api] ", log.LstdFlags)
	}

	return &Client{
		baseURL: config.BaseURL,
		token:   config.Token,
		http:    httpClient,
		logger:  logger,
	}, nil
}

// ListContentItems fetches the full content item list across the boards
// the token can see. The endpoint is cheap and safe to poll.
func (c *Client) ListContentItems(ctx context.Context) ([]ContentItem, error) {
	var items []ContentItem
	if err := c.doJSON(ctx, http.MethodGet, "/kanban/content-items/", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// MoveContentItem asks the backend to move an item to the target column.
// The backend validates the transition; a refusal surfaces as ErrDenied.
func (c *Client) MoveContentItem(ctx context.Context, itemID, targetColumn string) error {
	path := fmt.Sprintf("/kanban/content-items/%s/move/", itemID)
	body := map[string]string{"target_column": targetColumn}
	return c.doJSON(ctx, http.MethodPost, path, body, nil)
}

// ScheduleContentItem asks the backend to schedule an item for publishing
// at the given RFC 3339 timestamp. The backend moves it to scheduled.
func (c *Client) ScheduleContentItem(ctx context.Context, itemID, scheduledAt string) error {
	path := fmt.Sprintf("/kanban/content-items/%s/schedule/", itemID)
	body := map[string]string{"scheduled_at": scheduledAt}
	return c.doJSON(ctx, http.MethodPost, path, body, nil)
}

// ApproveContentItem records a client approval decision. Action is
// "approve" or "revise".
func (c *Client) ApproveContentItem(ctx context.Context, itemID, action string) error {
	path := fmt.Sprintf("/kanban/content-items/%s/approve/", itemID)
	body := map[string]string{"action": action}
	return c.doJSON(ctx, http.MethodPost, path, body, nil)
}

// doJSON issues a request and decodes the JSON response into out (if non-nil).
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		c.logger.Printf("%s %s -> %v", method, path, err)
		return err
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// checkStatus maps HTTP statuses to the package error taxonomy.
func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrAuth
	case resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrDenied, snippet(resp.Body))
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrDenied, snippet(resp.Body))
	default:
		return &StatusError{Status: resp.StatusCode, Body: snippet(resp.Body)}
	}
}

// snippet reads at most 256 bytes of the body for error context.
func snippet(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, 256))
	return string(bytes.TrimSpace(data))
}
