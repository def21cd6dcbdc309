package domain

import "time"

const (
	LangEnglish = "en"
	LangChinese = "zh"

	ThemeLight = "light"
	ThemeDark  = "dark"
	ThemeAuto  = "auto"
)

// AppState is everything the web front end remembers about a browser
// session: the sync API token and the user's UI preferences.
type AppState struct {
	SessionID   string      `json:"session_id"`
	UserUID     int64       `json:"user_uid"`
	Username    string      `json:"username"`
	IsAdmin     bool        `json:"is_admin"`
	Token       string      `json:"token"`
	Preferences Preferences `json:"preferences"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	ExpiresAt   time.Time   `json:"expires_at"`
}

func (s *AppState) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

type Preferences struct {
	Lang               string `json:"lang" validate:"omitempty,oneof=en zh"`
	Theme              string `json:"theme" validate:"omitempty,oneof=light dark auto"`
	PageSize           int    `json:"page_size" validate:"omitempty,gte=5,lte=100"`
	HistoryChangedOnly bool   `json:"history_changed_only"`
	LastVault          string `json:"last_vault" validate:"max=255"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		Lang:     LangEnglish,
		Theme:    ThemeAuto,
		PageSize: 20,
	}
}

type UpdatePreferencesRequest struct {
	Lang               *string `json:"lang" validate:"omitempty,oneof=en zh"`
	Theme              *string `json:"theme" validate:"omitempty,oneof=light dark auto"`
	PageSize           *int    `json:"page_size" validate:"omitempty,gte=5,lte=100"`
	HistoryChangedOnly *bool   `json:"history_changed_only"`
	LastVault          *string `json:"last_vault" validate:"omitempty,max=255"`
}
