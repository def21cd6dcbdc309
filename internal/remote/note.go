package remote

import (
	"context"
	"net/http"

	"notesync-web/internal/domain"
)

func (c *Client) ListNotes(ctx context.Context, token string, req *domain.NoteListRequest) (*domain.NoteList, error) {
	q := pageQuery(req.Page, req.PageSize)
	q.Set("vault", req.Vault)
	if req.Keyword != "" {
		q.Set("keyword", req.Keyword)
	}
	endpoint := "note.list"
	if req.IsRecycle {
		q.Set("isRecycle", "true")
		endpoint = "recycle.list"
	}

	var list domain.NoteList
	err := c.do(ctx, call{
		endpoint: endpoint,
		method:   http.MethodGet,
		path:     "/api/notes",
		query:    q,
		token:    token,
	}, &list)
	if err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) GetNote(ctx context.Context, token string, ref domain.NoteRef) (*domain.Note, error) {
	var note domain.Note
	err := c.do(ctx, call{
		endpoint: "note.get",
		method:   http.MethodGet,
		path:     "/api/note",
		query:    noteRefQuery(ref),
		token:    token,
	}, &note)
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *Client) RestoreRecycle(ctx context.Context, token string, ref domain.NoteRef) error {
	return c.do(ctx, call{
		endpoint: "recycle.restore",
		method:   http.MethodPut,
		path:     "/api/note/recycle/restore",
		body:     ref,
		token:    token,
	}, nil)
}

func (c *Client) DeleteRecycle(ctx context.Context, token string, ref domain.NoteRef) error {
	return c.do(ctx, call{
		endpoint: "recycle.delete",
		method:   http.MethodDelete,
		path:     "/api/note/recycle",
		query:    noteRefQuery(ref),
		token:    token,
	}, nil)
}
