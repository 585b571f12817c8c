// Package backend is the HTTP client for the hosted studio backend: the auth
// provider, the REST table facade and the payment-intent function. It owns no
// state beyond the bearer token currently in use; every call is a direct
// request/response against the provider.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Client talks to the hosted backend. Safe for concurrent use; the bearer
// token is the only mutable field and is guarded.
type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
	log        zerolog.Logger

	mu     sync.RWMutex
	bearer string
}

// New creates a backend client. baseURL is the project endpoint
// (https://<ref>.example.co) and anonKey the project's anonymous API key.
func New(baseURL, anonKey string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// BaseURL returns the configured project endpoint.
func (c *Client) BaseURL() string { return c.baseURL }

// SetBearer swaps the Authorization token used for subsequent calls.
// The session manager calls this on every session change; an empty token
// falls back to the anonymous key.
func (c *Client) SetBearer(token string) {
	c.mu.Lock()
	c.bearer = token
	c.mu.Unlock()
}

func (c *Client) currentBearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.bearer != "" {
		return c.bearer
	}
	return c.anonKey
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out, nil)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out, nil)
}

// doRequest performs one provider call. Non-2xx responses are decoded into
// *APIError carrying the provider's message field. extraHeaders lets table
// writes attach Prefer directives.
func (c *Client) doRequest(ctx context.Context, method, path string, body, out any, extraHeaders map[string]string) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+c.currentBearer())
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug().Str("method", method).Str("path", path).Err(err).Msg("backend request failed")
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		apiErr := decodeAPIError(resp)
		c.log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Str("message", apiErr.Message).Msg("backend error response")
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
