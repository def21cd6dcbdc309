package service

import (
	"context"
	"log"

	"notesync-web/internal/domain"

	"github.com/go-playground/validator/v10"
)

type SettingsAPI interface {
	GetSettings(ctx context.Context, token string) (*domain.AdminSettings, error)
	UpdateSettings(ctx context.Context, token string, settings *domain.AdminSettings) error
}

// SettingsService exposes the sync server's admin configuration to admins
// only.
type SettingsService struct {
	api      SettingsAPI
	validate *validator.Validate
}

func NewSettingsService(api SettingsAPI) *SettingsService {
	return &SettingsService{
		api:      api,
		validate: domain.NewValidator(),
	}
}

func (s *SettingsService) Get(ctx context.Context, state *domain.AppState) (*domain.AdminSettings, error) {
	if !state.IsAdmin {
		return nil, ErrForbidden
	}
	return s.api.GetSettings(ctx, state.Token)
}

func (s *SettingsService) Update(ctx context.Context, state *domain.AppState, settings *domain.AdminSettings) error {
	if !state.IsAdmin {
		return ErrForbidden
	}
	if err := s.validate.Struct(settings); err != nil {
		return &ValidationError{Err: err}
	}
	if err := s.api.UpdateSettings(ctx, state.Token, settings); err != nil {
		return err
	}
	log.Printf("[Settings] updated by user %d", state.UserUID)
	return nil
}
