package domain

import "time"

type Vault struct {
	ID        int64     `json:"id" validate:"required"`
	Name      string    `json:"vault" validate:"required"`
	NoteCount int64     `json:"noteCount"`
	NoteSize  int64     `json:"noteSize"`
	FileCount int64     `json:"fileCount"`
	FileSize  int64     `json:"fileSize"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type File struct {
	ID        int64     `json:"id" validate:"required"`
	Path      string    `json:"path" validate:"required"`
	PathHash  string    `json:"pathHash"`
	Size      int64     `json:"size"`
	Ctime     int64     `json:"ctime"`
	Mtime     int64     `json:"mtime"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type FileList struct {
	List  []File `json:"list" validate:"dive"`
	Pager Pager  `json:"pager"`
}
