// internal/infrastructure/api/client.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/grocery-storefront/internal/config"
)

const maxResponseSize = 10 << 20

// Requester is the slice of the API client the domain states depend on.
// Every method returns nil only when the server accepted the request; out, when
// non-nil, receives the envelope's data.
type Requester interface {
	Get(ctx context.Context, path string, query url.Values, out interface{}) error
	Post(ctx context.Context, path string, body, out interface{}) error
	Put(ctx context.Context, path string, body, out interface{}) error
	Delete(ctx context.Context, path string, body, out interface{}) error
}

// TokenSource returns the bearer token for the current session, or ""
type TokenSource func() string

// Client is a JSON-over-HTTP client for the storefront backend
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *logrus.Logger

	mu          sync.RWMutex
	tokenSource TokenSource
}

var _ Requester = (*Client)(nil)

// NewClient creates a new API client for the configured base URL
func NewClient(cfg *config.Config, logger *logrus.Logger) (*Client, error) {
	return NewClientWithHTTP(cfg.API.BaseURL, &http.Client{Timeout: cfg.API.Timeout}, logger)
}

// NewClientWithHTTP creates a client around an existing http.Client
func NewClientWithHTTP(baseURL string, httpClient *http.Client, logger *logrus.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("API base URL must be absolute: %q", baseURL)
	}

	return &Client{
		baseURL:    u,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// SetTokenSource installs the bearer token provider
func (c *Client) SetTokenSource(ts TokenSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokenSource = ts
}

// Get issues a GET request
func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues a POST request with a JSON body
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// Put issues a PUT request with a JSON body
func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

// Delete issues a DELETE request; the backend expects identifiers in the body
func (c *Client) Delete(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodDelete, path, nil, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	start := time.Now()
	requestID := uuid.NewString()

	endpoint := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Op: "encode", Method: method, Path: path, Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return &TransportError{Op: "encode", Method: method, Path: path, Err: err}
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     method,
			"path":       path,
		}).WithError(err).Warn("API request failed")
		return &TransportError{Op: "send", Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return &TransportError{Op: "read", Method: method, Path: path, Err: err}
	}

	entry := c.logger.WithFields(logrus.Fields{
		"request_id":  requestID,
		"method":      method,
		"path":        path,
		"status_code": resp.StatusCode,
		"latency":     time.Since(start),
	})

	env, err := decodeEnvelope(resp.StatusCode, raw)
	if err != nil {
		entry.WithError(err).Warn("API response could not be decoded")
		return &TransportError{Op: "decode", Method: method, Path: path, Err: err}
	}

	if !env.Success {
		entry.WithField("message", env.Message).Info("API request rejected")
		return &RejectionError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	entry.Debug("API request completed")

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &TransportError{Op: "decode", Method: method, Path: path, Err: err}
	}
	return nil
}

func (c *Client) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.tokenSource == nil {
		return ""
	}
	return c.tokenSource()
}
