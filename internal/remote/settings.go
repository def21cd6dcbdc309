package remote

import (
	"context"
	"net/http"

	"notesync-web/internal/domain"
)

func (c *Client) GetSettings(ctx context.Context, token string) (*domain.AdminSettings, error) {
	var settings domain.AdminSettings
	err := c.do(ctx, call{
		endpoint: "admin.config.get",
		method:   http.MethodGet,
		path:     "/api/admin/config",
		token:    token,
	}, &settings)
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (c *Client) UpdateSettings(ctx context.Context, token string, settings *domain.AdminSettings) error {
	return c.do(ctx, call{
		endpoint: "admin.config.update",
		method:   http.MethodPost,
		path:     "/api/admin/config",
		body:     settings,
		token:    token,
	}, nil)
}
