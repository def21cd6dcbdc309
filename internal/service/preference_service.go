package service

import (
	"context"
	"fmt"
	"time"

	"notesync-web/internal/domain"
	"notesync-web/internal/repository"

	"github.com/go-playground/validator/v10"
)

type PreferenceService struct {
	repo     repository.AppStateRepository
	validate *validator.Validate
	now      func() time.Time
}

func NewPreferenceService(repo repository.AppStateRepository) *PreferenceService {
	return &PreferenceService{
		repo:     repo,
		validate: domain.NewValidator(),
		now:      time.Now,
	}
}

// Update applies the fields present in req and persists the session.
func (s *PreferenceService) Update(ctx context.Context, state *domain.AppState, req *domain.UpdatePreferencesRequest) (*domain.Preferences, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, &ValidationError{Err: err}
	}

	prefs := state.Preferences
	if req.Lang != nil {
		prefs.Lang = *req.Lang
	}
	if req.Theme != nil {
		prefs.Theme = *req.Theme
	}
	if req.PageSize != nil {
		prefs.PageSize = *req.PageSize
	}
	if req.HistoryChangedOnly != nil {
		prefs.HistoryChangedOnly = *req.HistoryChangedOnly
	}
	if req.LastVault != nil {
		prefs.LastVault = *req.LastVault
	}

	state.Preferences = prefs
	state.UpdatedAt = s.now()
	if err := s.repo.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to save preferences: %w", err)
	}
	return &prefs, nil
}

// RememberVault records the last vault browsed, skipping the write when it
// has not changed.
func (s *PreferenceService) RememberVault(ctx context.Context, state *domain.AppState, vault string) error {
	if vault == "" || state.Preferences.LastVault == vault {
		return nil
	}
	_, err := s.Update(ctx, state, &domain.UpdatePreferencesRequest{LastVault: &vault})
	return err
}
