package view

import (
	"html/template"

	"notesync-web/internal/domain"
	"notesync-web/internal/service"
)

type Toast struct {
	Kind    string
	Message string
}

type ViewData struct {
	Title           string
	ContentTemplate string
	ContentHTML     template.HTML
	Lang            string
	Theme           string
	State           *domain.AppState
	Toast           *Toast
	Placeholder     string

	Username string

	Vault     string
	Vaults    []domain.Vault
	Notes     []domain.Note
	Files     []domain.File
	Note      *domain.Note
	NoteHTML  template.HTML
	Pager     domain.Pager
	Query     string
	IsRecycle bool

	History      *service.HistoryView
	DiffHTML     template.HTML
	OriginalHTML template.HTML

	Settings *domain.AdminSettings
}

// NewViewData fills the layout fields from the signed-in user's
// preferences.
func NewViewData(state *domain.AppState, title, content string) ViewData {
	prefs := domain.DefaultPreferences()
	if state != nil {
		prefs = state.Preferences
	}
	return ViewData{
		Title:           title,
		ContentTemplate: content,
		Lang:            normalizeLang(prefs.Lang),
		Theme:           prefs.Theme,
		State:           state,
	}
}

func (d ViewData) T(key string) string {
	return Translate(d.Lang, key)
}

func (d ViewData) PrevPage() int {
	return d.Pager.Page - 1
}

func (d ViewData) NextPage() int {
	return d.Pager.Page + 1
}
