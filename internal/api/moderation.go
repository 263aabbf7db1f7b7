package api

import (
	"context"

	"go-debate-client/internal/model"
	"go-debate-client/internal/transport"
)

type ModerationClient struct {
	http *transport.Client
}

func NewModerationClient(http *transport.Client) *ModerationClient {
	return &ModerationClient{http: http}
}

type statusChangeRequest struct {
	NewStatus model.DebateStatus `json:"NewStatus"`
	Reason    string             `json:"Reason,omitempty"`
}

// Pending lists debates awaiting moderator action.
func (c *ModerationClient) Pending(ctx context.Context) ([]model.Debate, error) {
	var debates []model.Debate
	if err := c.http.Get(ctx, "/api/Debates/moderation", &debates); err != nil {
		return nil, err
	}

	return debates, nil
}

// ChangeStatus requests a moderator transition for a debate. The reason is
// optional and omitted from the payload when empty.
func (c *ModerationClient) ChangeStatus(ctx context.Context, debateID string, newStatus model.DebateStatus, reason string) error {
	return c.http.Post(ctx, "/api/Debates/"+debateID+"/status", statusChangeRequest{
		NewStatus: newStatus,
		Reason:    reason,
	}, nil)
}
