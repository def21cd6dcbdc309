package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"notesync-web/internal/domain"
	"notesync-web/internal/repository"
	"notesync-web/pkg/jwt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type UserAPI interface {
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResult, error)
	UserInfo(ctx context.Context, token string) (*domain.User, error)
}

// AuthService signs users in against the sync API and keeps the resulting
// token server side. The browser only ever holds a signed session id.
type AuthService struct {
	api      UserAPI
	repo     repository.AppStateRepository
	key      []byte
	ttl      time.Duration
	validate *validator.Validate
	now      func() time.Time
}

func NewAuthService(api UserAPI, repo repository.AppStateRepository, key []byte, ttl time.Duration) *AuthService {
	return &AuthService{
		api:      api,
		repo:     repo,
		key:      key,
		ttl:      ttl,
		validate: domain.NewValidator(),
		now:      time.Now,
	}
}

// Login returns the new app state and the cookie value that identifies it.
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AppState, string, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, "", &ValidationError{Err: err}
	}

	result, err := s.api.Login(ctx, req)
	if err != nil {
		return nil, "", err
	}

	user := result.User
	if info, err := s.api.UserInfo(ctx, result.Token); err == nil {
		user = *info
	} else {
		log.Printf("[Auth] user info for %s failed, using login payload: %v", result.Username, err)
	}

	now := s.now()
	state := &domain.AppState{
		SessionID:   uuid.New().String(),
		UserUID:     user.UID,
		Username:    user.Username,
		IsAdmin:     user.IsAdmin,
		Token:       result.Token,
		Preferences: domain.DefaultPreferences(),
		CreatedAt:   now,
		UpdatedAt:   now,
		ExpiresAt:   now.Add(s.ttl),
	}

	if err := s.repo.Save(ctx, state); err != nil {
		return nil, "", fmt.Errorf("failed to save session: %w", err)
	}

	cookie, err := jwt.GenerateToken(state.SessionID, s.ttl, s.key)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign session: %w", err)
	}

	return state, cookie, nil
}

// Authenticate resolves a session cookie to its app state.
func (s *AuthService) Authenticate(ctx context.Context, cookie string) (*domain.AppState, error) {
	claims, err := jwt.ValidateToken(cookie, s.key)
	if err != nil {
		return nil, fmt.Errorf("invalid session: %w", err)
	}

	state, err := s.repo.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, repository.ErrStateNotFound) {
			return nil, ErrSessionExpired
		}
		return nil, err
	}

	if state.Expired(s.now()) {
		if err := s.repo.Delete(ctx, state.SessionID); err != nil && !errors.Is(err, repository.ErrStateNotFound) {
			log.Printf("[Auth] failed to delete expired session %s: %v", state.SessionID, err)
		}
		return nil, ErrSessionExpired
	}

	return state, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.repo.Delete(ctx, sessionID); err != nil && !errors.Is(err, repository.ErrStateNotFound) {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
