package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/kraitsura/insight_viewer/pkg/model"
)

// DefaultFetchTimeout bounds a single snapshot fetch.
const DefaultFetchTimeout = 15 * time.Second

// MaxSnapshotSize is the max bytes accepted for one snapshot (10MB).
const MaxSnapshotSize = 10 * 1024 * 1024

// Client fetches insight graph snapshots from the insights API, keyed by
// conversation id.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a snapshot client for the given API base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: DefaultFetchTimeout},
	}
}

// FetchGraph retrieves the current snapshot for a conversation.
func (c *Client) FetchGraph(ctx context.Context, conversationID string) (model.InsightGraph, error) {
	endpoint, err := url.JoinPath(c.baseURL, "conversations", conversationID, "insight-graph")
	if err != nil {
		return model.InsightGraph{}, fmt.Errorf("bad api base url: %w", err)
	}
	return c.get(ctx, endpoint, conversationID)
}

// Regenerate asks the service to rebuild the graph and returns the fresh
// snapshot. Hosts treat the result like any new snapshot: full state reset.
func (c *Client) Regenerate(ctx context.Context, conversationID string) (model.InsightGraph, error) {
	endpoint, err := url.JoinPath(c.baseURL, "conversations", conversationID, "insight-graph", "regenerate")
	if err != nil {
		return model.InsightGraph{}, fmt.Errorf("bad api base url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return model.InsightGraph{}, err
	}
	return c.do(req, conversationID)
}

func (c *Client) get(ctx context.Context, endpoint, conversationID string) (model.InsightGraph, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return model.InsightGraph{}, err
	}
	return c.do(req, conversationID)
}

func (c *Client) do(req *http.Request, conversationID string) (model.InsightGraph, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return model.InsightGraph{}, fmt.Errorf("fetch graph: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.InsightGraph{}, fmt.Errorf("fetch graph: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxSnapshotSize))
	if err != nil {
		return model.InsightGraph{}, fmt.Errorf("read graph response: %w", err)
	}

	g, err := ParseGraph(data)
	if err != nil {
		return model.InsightGraph{}, err
	}
	if g.ConversationID == "" {
		g.ConversationID = conversationID
	}
	return g, nil
}
