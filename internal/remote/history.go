package remote

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"notesync-web/internal/domain"
)

func (c *Client) ListHistory(ctx context.Context, token string, key domain.HistoryKey, page, pageSize int) (*domain.HistoryList, error) {
	q := pageQuery(page, pageSize)
	q.Set("vault", key.Vault)
	q.Set("path", key.Path)
	q.Set("pathHash", key.PathHash)
	q.Set("isRecycle", strconv.FormatBool(key.IsRecycle))

	var list domain.HistoryList
	err := c.do(ctx, call{
		endpoint: "history.list",
		method:   http.MethodGet,
		path:     "/api/note/histories",
		query:    q,
		token:    token,
	}, &list)
	if err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) GetHistory(ctx context.Context, token, vault string, id int64) (*domain.HistoryDetail, error) {
	q := url.Values{}
	q.Set("vault", vault)
	q.Set("id", strconv.FormatInt(id, 10))

	var detail domain.HistoryDetail
	err := c.do(ctx, call{
		endpoint: "history.get",
		method:   http.MethodGet,
		path:     "/api/note/history",
		query:    q,
		token:    token,
	}, &detail)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func (c *Client) RestoreHistory(ctx context.Context, token, vault string, id int64) error {
	return c.do(ctx, call{
		endpoint: "history.restore",
		method:   http.MethodPut,
		path:     "/api/note/history/restore",
		body:     &domain.HistoryRestoreRequest{Vault: vault, HistoryID: id},
		token:    token,
	}, nil)
}
