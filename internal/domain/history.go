package domain

import (
	"strings"
	"time"
)

type HistoryKey struct {
	Vault     string `json:"vault" validate:"required"`
	Path      string `json:"path" validate:"required_without=PathHash"`
	PathHash  string `json:"pathHash"`
	IsRecycle bool   `json:"isRecycle"`
}

func (k HistoryKey) String() string {
	var b strings.Builder
	b.WriteString(k.Vault)
	b.WriteByte('|')
	b.WriteString(k.PathHash)
	b.WriteByte('|')
	b.WriteString(k.Path)
	if k.IsRecycle {
		b.WriteString("|recycle")
	}
	return b.String()
}

type HistoryEntry struct {
	ID         int64     `json:"id" validate:"required"`
	NoteID     int64     `json:"noteId"`
	VaultID    int64     `json:"vaultId"`
	Path       string    `json:"path"`
	Version    int64     `json:"version" validate:"gte=0"`
	ClientName string    `json:"clientName"`
	CreatedAt  time.Time `json:"createdAt"`
}

type HistoryDetail struct {
	ID          int64         `json:"id" validate:"required"`
	NoteID      int64         `json:"noteId"`
	VaultID     int64         `json:"vaultId"`
	Path        string        `json:"path"`
	Version     int64         `json:"version" validate:"gte=0"`
	Diffs       []DiffSegment `json:"diffs" validate:"dive"`
	Content     string        `json:"content"`
	ContentHash string        `json:"contentHash"`
	ClientName  string        `json:"clientName"`
	CreatedAt   time.Time     `json:"createdAt"`
}

type HistoryList struct {
	List  []HistoryEntry `json:"list" validate:"dive"`
	Pager Pager          `json:"pager"`
}

type HistoryRestoreRequest struct {
	Vault     string `json:"vault" validate:"required"`
	HistoryID int64  `json:"historyId" validate:"required,gt=0"`
}
