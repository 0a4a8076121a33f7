package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"messapp/internal/workflow"
)

const (
	DefaultTimeout = 7 * time.Second

	headerIdempotencyKey = "X-Idempotency-Key"
)

var errDecode = errors.New("malformed response body")

// Client talks to the mess API over HTTP/JSON and implements workflow.Gateway.
type Client struct {
	baseURL string
	http    *http.Client

	mu     sync.RWMutex
	token  string
	userID int64
}

var _ workflow.Gateway = (*Client)(nil)

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithToken starts the client with an existing access token.
func WithToken(token string, userID int64) Option {
	return func(c *Client) {
		c.token = token
		c.userID = userID
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) session() (string, int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token, c.userID
}

func (c *Client) setSession(token string, userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	c.userID = userID
}

type errorBody struct {
	Error string `json:"error"`
}

// do sends in as JSON and decodes a 2xx body into out.
// Transport failures become NetworkError and non-2xx answers RejectedError.
func (c *Client) do(ctx context.Context, op, method, path string, headers map[string]string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, _ := c.session(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &workflow.NetworkError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &workflow.NetworkError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		_ = json.Unmarshal(data, &eb)
		return &workflow.RejectedError{Status: resp.StatusCode, Detail: strings.TrimSpace(eb.Error)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: %w: %v", op, errDecode, err)
	}
	return nil
}
