package remote

import (
	"context"
	"net/http"

	"notesync-web/internal/domain"
)

func (c *Client) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResult, error) {
	var result domain.LoginResult
	err := c.do(ctx, call{
		endpoint: "user.login",
		method:   http.MethodPost,
		path:     "/api/user/login",
		body:     req,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) UserInfo(ctx context.Context, token string) (*domain.User, error) {
	var user domain.User
	err := c.do(ctx, call{
		endpoint: "user.info",
		method:   http.MethodGet,
		path:     "/api/user/info",
		token:    token,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
