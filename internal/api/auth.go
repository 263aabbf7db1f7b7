package api

import (
	"context"

	"go-debate-client/internal/transport"
)

type AuthClient struct {
	http *transport.Client
}

func NewAuthClient(http *transport.Client) *AuthClient {
	return &AuthClient{http: http}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse covers every token field name the server has shipped under.
// Which one is populated depends on the server version; the session store
// picks the first present candidate.
type LoginResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"accessToken"`
	JWT         string `json:"jwt"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *AuthClient) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	var res LoginResponse
	if err := c.http.Post(ctx, "/api/Auth/login", req, &res, transport.WithoutAuth()); err != nil {
		return LoginResponse{}, err
	}

	return res, nil
}

func (c *AuthClient) Register(ctx context.Context, req RegisterRequest) error {
	return c.http.Post(ctx, "/api/Auth/register", req, nil, transport.WithoutAuth())
}
