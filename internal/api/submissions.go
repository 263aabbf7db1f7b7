package api

import (
	"context"
	"fmt"

	"go-debate-client/internal/model"
	"go-debate-client/internal/transport"
)

type SubmissionsClient struct {
	http *transport.Client
}

func NewSubmissionsClient(http *transport.Client) *SubmissionsClient {
	return &SubmissionsClient{http: http}
}

type submissionBody struct {
	Body string `json:"body"`
}

// SaveDraft overwrites the caller's draft for a round. Drafts may be rewritten
// any number of times until the round is finalized.
func (c *SubmissionsClient) SaveDraft(ctx context.Context, matchID string, round model.Round, body string) error {
	path, err := roundPath(matchID, round, "draft")
	if err != nil {
		return err
	}

	return c.http.Put(ctx, path, submissionBody{Body: body}, nil)
}

// Submit finalizes the caller's submission for a round. Once accepted the
// text is immutable from the client's side.
func (c *SubmissionsClient) Submit(ctx context.Context, matchID string, round model.Round, body string) error {
	path, err := roundPath(matchID, round, "submit")
	if err != nil {
		return err
	}

	return c.http.Post(ctx, path, submissionBody{Body: body}, nil)
}

func roundPath(matchID string, round model.Round, action string) (string, error) {
	var segment string
	switch round {
	case model.RoundOpening:
		segment = "opening"
	case model.RoundRebuttal:
		segment = "rebuttal"
	default:
		return "", fmt.Errorf("%w: unknown round %d", model.ErrInvalidInput, int(round))
	}

	return fmt.Sprintf("/api/matches/%s/submissions/%s/%s", matchID, segment, action), nil
}
