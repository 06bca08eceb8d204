package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"restaurant-pos/internal/config"
	"restaurant-pos/internal/session"
	"restaurant-pos/internal/transport"
)

// ErrUnauthorized matches any APIError produced by a 401 response, after the
// session has already been cleared.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is the single normalized error every request method returns.
// Status is zero when no response was received at all.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// Client is the single point of HTTP egress. Every outgoing request carries
// the session's bearer token when one is present; every 401 clears the
// session and fires OnUnauthorized before the call returns its error.
type Client struct {
	baseURL string
	http    *http.Client
	session session.Store

	// OnUnauthorized is the forced-login seam: the browser original
	// navigated to /login here.
	OnUnauthorized func()
}

func New(baseURL string, timeout time.Duration, sess session.Store) *Client {
	if baseURL == "" {
		baseURL = config.DefaultAPIURL
	}
	if timeout <= 0 {
		timeout = config.DefaultRequestTimeout
	}
	return &Client{
		baseURL: baseURL,
		session: sess,
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func (c *Client) raw(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("client: marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("client: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &APIError{Message: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Message: err.Error()}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		_ = c.session.Clear()
		if c.OnUnauthorized != nil {
			c.OnUnauthorized()
		}
		return nil, &APIError{Status: resp.StatusCode, Message: serverMessage(data, resp.StatusCode)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Message: serverMessage(data, resp.StatusCode)}
	}
	return data, nil
}

// serverMessage prefers the envelope's message field, falling back to the
// HTTP status text.
func serverMessage(data []byte, status int) string {
	var env struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &env); err == nil && env.Message != "" {
		return env.Message
	}
	return http.StatusText(status)
}

func doJSON[T any](c *Client, ctx context.Context, method, path string, query url.Values, body any) (T, error) {
	var zero T
	data, err := c.raw(ctx, method, path, query, body)
	if err != nil {
		return zero, err
	}
	var env transport.Response[T]
	if err := json.Unmarshal(data, &env); err != nil {
		return zero, &APIError{Message: fmt.Sprintf("decode response: %v", err)}
	}
	return env.Data, nil
}

func doPaged[T any](c *Client, ctx context.Context, method, path string, query url.Values, body any) ([]T, *transport.Pagination, error) {
	data, err := c.raw(ctx, method, path, query, body)
	if err != nil {
		return nil, nil, err
	}
	var env transport.Paginated[[]T]
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, nil, &APIError{Message: fmt.Sprintf("decode response: %v", err)}
	}
	return env.Data, env.Pagination, nil
}
