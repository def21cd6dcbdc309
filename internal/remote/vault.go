package remote

import (
	"context"
	"net/http"
	"net/url"

	"notesync-web/internal/domain"
)

func (c *Client) ListVaults(ctx context.Context, token string) ([]domain.Vault, error) {
	var vaults []domain.Vault
	err := c.do(ctx, call{
		endpoint: "vault.list",
		method:   http.MethodGet,
		path:     "/api/vault",
		token:    token,
	}, &vaults)
	if err != nil {
		return nil, err
	}
	return vaults, nil
}

func (c *Client) ListFiles(ctx context.Context, token, vault string, page, pageSize int) (*domain.FileList, error) {
	q := pageQuery(page, pageSize)
	q.Set("vault", vault)

	var list domain.FileList
	err := c.do(ctx, call{
		endpoint: "file.list",
		method:   http.MethodGet,
		path:     "/api/files",
		query:    q,
		token:    token,
	}, &list)
	if err != nil {
		return nil, err
	}
	return &list, nil
}

func noteRefQuery(ref domain.NoteRef) url.Values {
	q := url.Values{}
	q.Set("vault", ref.Vault)
	if ref.Path != "" {
		q.Set("path", ref.Path)
	}
	if ref.PathHash != "" {
		q.Set("pathHash", ref.PathHash)
	}
	return q
}
