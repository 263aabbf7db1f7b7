package api

import (
	"context"

	"go-debate-client/internal/model"
	"go-debate-client/internal/transport"
)

type MatchesClient struct {
	http *transport.Client
}

func NewMatchesClient(http *transport.Client) *MatchesClient {
	return &MatchesClient{http: http}
}

func (c *MatchesClient) Mine(ctx context.Context) ([]model.Match, error) {
	var matches []model.Match
	if err := c.http.Get(ctx, "/api/Matches/mine", &matches); err != nil {
		return nil, err
	}

	return matches, nil
}

func (c *MatchesClient) Get(ctx context.Context, id string) (model.Match, error) {
	var match model.Match
	if err := c.http.Get(ctx, "/api/Matches/"+id, &match); err != nil {
		return model.Match{}, err
	}

	return match, nil
}

// Results lists closed matches with their final tallies.
func (c *MatchesClient) Results(ctx context.Context) ([]model.Match, error) {
	var matches []model.Match
	if err := c.http.Get(ctx, "/api/Matches/results", &matches); err != nil {
		return nil, err
	}

	return matches, nil
}
