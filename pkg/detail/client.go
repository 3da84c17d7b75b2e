// Package detail talks to the topic-detail service: given a selected node
// id it fetches the conversation chunks underlying that topic. Failures are
// absorbed into empty responses so a flaky service can never break the map.
package detail

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultFetchTimeout is the default timeout for chunk fetches.
const DefaultFetchTimeout = 5 * time.Second

// DefaultChunkLimit is the default max number of chunks per topic.
const DefaultChunkLimit = 20

// MaxResponseSize is the max bytes read from the service (1MB).
const MaxResponseSize = 1024 * 1024

// MaxConcurrentFetches limits in-flight detail requests.
const MaxConcurrentFetches = 2

// Chunk is one piece of conversation content underlying a topic.
type Chunk struct {
	ID        string    `json:"id"`
	TopicID   string    `json:"topic_id"`
	Content   string    `json:"content"`
	Speaker   string    `json:"speaker,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// Meta describes how a fetch went.
type Meta struct {
	ElapsedMs int    `json:"elapsed_ms"`
	Total     int    `json:"total"`
	Error     string `json:"error,omitempty"` // non-empty on partial failure
}

// Response holds the chunks for one topic plus fetch metadata.
type Response struct {
	Chunks []Chunk `json:"chunks"`
	Meta   Meta    `json:"meta"`
}

// Options configures a single fetch.
type Options struct {
	TopicID string        // required: the selected node id
	Limit   int           // max chunks (default 20)
	Timeout time.Duration // override default timeout
}

// Client fetches topic detail with safety wrappers: bounded concurrency,
// per-request timeouts, and graceful degradation to empty responses.
type Client struct {
	baseURL   string
	semaphore chan struct{}
	timeout   time.Duration

	// For testing: allow overriding request execution.
	doRequest func(ctx context.Context, endpoint string) ([]byte, error)
}

// NewClient creates a detail client for the given API base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   baseURL,
		semaphore: make(chan struct{}, MaxConcurrentFetches),
		timeout:   DefaultFetchTimeout,
	}
	c.doRequest = c.httpRequest
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the default fetch timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// Fetch retrieves the chunks for a topic. It returns an empty response (not
// an error) on any failure. Safe for concurrent use.
func (c *Client) Fetch(ctx context.Context, opts Options) Response {
	if opts.TopicID == "" {
		return Response{Chunks: []Chunk{}, Meta: Meta{Error: "no topic selected"}}
	}

	select {
	case c.semaphore <- struct{}{}:
		defer func() { <-c.semaphore }()
	case <-ctx.Done():
		return Response{Chunks: []Chunk{}, Meta: Meta{Error: "context cancelled waiting for slot"}}
	}

	timeout := c.timeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}
	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	endpoint, err := c.endpoint(opts)
	if err != nil {
		return Response{Chunks: []Chunk{}, Meta: Meta{Error: "bad api base url"}}
	}

	start := time.Now()
	output, err := c.doRequest(fetchCtx, endpoint)
	elapsed := int(time.Since(start).Milliseconds())

	if err != nil {
		return Response{Chunks: []Chunk{}, Meta: Meta{ElapsedMs: elapsed, Error: "detail fetch failed"}}
	}
	return parseResponse(output, elapsed)
}

func (c *Client) endpoint(opts Options) (string, error) {
	endpoint, err := url.JoinPath(c.baseURL, "topics", opts.TopicID, "chunks")
	if err != nil {
		return "", err
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultChunkLimit
	}
	return fmt.Sprintf("%s?limit=%d", endpoint, limit), nil
}

// parseResponse decodes service output, tolerating partial shapes. Malformed
// payloads yield empty results, never an error.
func parseResponse(output []byte, elapsedMs int) Response {
	resp := Response{Meta: Meta{ElapsedMs: elapsedMs}}
	if len(output) == 0 {
		resp.Chunks = []Chunk{}
		return resp
	}

	if err := json.Unmarshal(output, &resp); err != nil {
		var chunksOnly struct {
			Chunks []Chunk `json:"chunks"`
		}
		if err := json.Unmarshal(output, &chunksOnly); err != nil {
			resp.Chunks = []Chunk{}
			resp.Meta.Error = "failed to parse response"
			return resp
		}
		resp.Chunks = chunksOnly.Chunks
	}
	resp.Meta.ElapsedMs = elapsedMs

	if resp.Chunks == nil {
		resp.Chunks = []Chunk{}
	}
	if resp.Meta.Total == 0 {
		resp.Meta.Total = len(resp.Chunks)
	}
	return resp
}

// httpRequest performs a GET and returns at most MaxResponseSize bytes.
func (c *Client) httpRequest(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
}
