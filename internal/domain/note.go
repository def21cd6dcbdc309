package domain

import "time"

type Note struct {
	ID          int64     `json:"id" validate:"required"`
	Path        string    `json:"path" validate:"required"`
	PathHash    string    `json:"pathHash"`
	Content     string    `json:"content,omitempty"`
	ContentHash string    `json:"contentHash"`
	Version     int64     `json:"version" validate:"gte=0"`
	Ctime       int64     `json:"ctime"`
	Mtime       int64     `json:"mtime"`
	UpdatedAt   time.Time `json:"updatedAt"`
	IsDeleted   bool      `json:"isDeleted"`
}

type NoteList struct {
	List  []Note `json:"list" validate:"dive"`
	Pager Pager  `json:"pager"`
}

type NoteListRequest struct {
	Vault     string `validate:"required"`
	Keyword   string `validate:"max=200"`
	IsRecycle bool
	Page      int `validate:"gte=1"`
	PageSize  int `validate:"gte=1,lte=100"`
}

type NoteRef struct {
	Vault    string `json:"vault" validate:"required"`
	Path     string `json:"path" validate:"required_without=PathHash"`
	PathHash string `json:"pathHash"`
}
