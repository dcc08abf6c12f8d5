// Package api is a typed client for the golf booking REST API.
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
	"time"

	"github.com/google/uuid"

	"github.com/cheerioskun/teesheet/internal/utils"
)

const (
	// DefaultBaseURL is where the booking API listens in development
	DefaultBaseURL = "http://localhost:8000"
	// DefaultTimeout bounds a single request
	DefaultTimeout = 10 * time.Second

	// RequestIDHeader carries a fresh uuid on every request
	RequestIDHeader = "X-Request-ID"
)

// Client talks to the booking API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *utils.Logger
}

// NewClient creates a new API client. A nil httpClient gets DefaultTimeout.
func NewClient(baseURL string, httpClient *http.Client, logger *utils.Logger) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = DefaultHTTPClient(DefaultTimeout)
	}
	if logger == nil {
		logger = utils.GetLogger()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// DefaultHTTPClient returns an http.Client with the given timeout
func DefaultHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// BaseURL returns the API root the client was built with
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do sends a JSON request and decodes a JSON response into out when out is non-nil
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := c.logger.With("request_id", requestID, "method", method, "path", path)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warning("request failed: %v", err)
		return &NetworkError{Op: method, URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: method, URL: endpoint, Err: err}
	}
	log.Debug("%d in %s", resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(resp.StatusCode, data)
		log.Warning("api error: %v", apiErr)
		return apiErr
	}
	if out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

func resourcePath(resource string, id int) string {
	return fmt.Sprintf("/api/%s/%d/", resource, id)
}
