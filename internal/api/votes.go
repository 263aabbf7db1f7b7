package api

import (
	"context"
	"fmt"

	"go-debate-client/internal/model"
	"go-debate-client/internal/transport"
)

type VotesClient struct {
	http *transport.Client
}

func NewVotesClient(http *transport.Client) *VotesClient {
	return &VotesClient{http: http}
}

// Cast votes for a side on a match. One vote per user per match; participants
// are rejected with a 403. Both rules are server-enforced, the client only
// surfaces them.
func (c *VotesClient) Cast(ctx context.Context, matchID string, value model.Side) error {
	if value != model.SidePro && value != model.SideContro {
		return fmt.Errorf("%w: vote value %d", model.ErrInvalidInput, int(value))
	}

	payload := struct {
		Value model.Side `json:"value"`
	}{Value: value}

	return c.http.Post(ctx, fmt.Sprintf("/api/matches/%s/votes", matchID), payload, nil)
}
