package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"go-debate-client/internal/model"
	"go-debate-client/internal/transport"
)

type DebatesClient struct {
	http *transport.Client
}

func NewDebatesClient(http *transport.Client) *DebatesClient {
	return &DebatesClient{http: http}
}

type CreateDebateRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (c *DebatesClient) List(ctx context.Context) ([]model.Debate, error) {
	var debates []model.Debate
	if err := c.http.Get(ctx, "/api/Debates", &debates); err != nil {
		return nil, err
	}

	return debates, nil
}

func (c *DebatesClient) Get(ctx context.Context, id string) (model.Debate, error) {
	var debate model.Debate
	if err := c.http.Get(ctx, "/api/Debates/"+id, &debate); err != nil {
		return model.Debate{}, err
	}

	return debate, nil
}

// Create submits a new debate; it enters the moderation queue server-side.
func (c *DebatesClient) Create(ctx context.Context, req CreateDebateRequest) (model.Debate, error) {
	var debate model.Debate
	if err := c.http.Post(ctx, "/api/Debates", req, &debate); err != nil {
		return model.Debate{}, err
	}

	return debate, nil
}

// Join enqueues the session's user for the given side of a debate.
func (c *DebatesClient) Join(ctx context.Context, debateID string, side model.Side) error {
	payload := struct {
		Side model.Side `json:"side"`
	}{Side: side}

	return c.http.Post(ctx, fmt.Sprintf("/api/debates/%s/join", debateID), payload, nil)
}

// MyQueue lists the session user's pending queue entries. Older servers
// return a single object instead of a list for a lone entry, so the payload
// is normalized before decoding.
func (c *DebatesClient) MyQueue(ctx context.Context) ([]model.QueueEntry, error) {
	var raw json.RawMessage
	if err := c.http.Get(ctx, "/api/debates/queue/mine", &raw); err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var entries []model.QueueEntry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, fmt.Errorf("decode queue entries: %w", err)
		}
		return entries, nil
	}

	var single model.QueueEntry
	if err := json.Unmarshal(trimmed, &single); err != nil {
		return nil, fmt.Errorf("decode queue entry: %w", err)
	}
	if single.DebateID == "" {
		return nil, nil
	}

	return []model.QueueEntry{single}, nil
}
