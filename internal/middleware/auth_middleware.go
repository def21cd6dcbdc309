package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"notesync-web/internal/domain"
	"notesync-web/internal/service"
	"notesync-web/pkg/response"
)

type contextKey string

const StateKey contextKey = "appState"

type Authenticator interface {
	Authenticate(ctx context.Context, cookie string) (*domain.AppState, error)
}

// SessionCookie describes the cookie carrying the signed session id.
type SessionCookie struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

func (c SessionCookie) Set(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(c.TTL.Seconds()),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c SessionCookie) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (c SessionCookie) Read(r *http.Request) string {
	cookie, err := r.Cookie(c.Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// AuthMiddleware loads the app state named by the session cookie. Pages
// without a valid session are sent to /login; JSON and fragment requests
// get a 401.
func AuthMiddleware(auth Authenticator, cookie SessionCookie) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			value := cookie.Read(r)
			if value == "" {
				Unauthenticated(w, r)
				return
			}

			state, err := auth.Authenticate(r.Context(), value)
			if err != nil {
				if !errors.Is(err, service.ErrSessionExpired) {
					log.Printf("[Auth] rejected session cookie: %v", err)
				}
				cookie.Clear(w)
				Unauthenticated(w, r)
				return
			}

			recordUser(r.Context(), state.Username)
			next.ServeHTTP(w, r.WithContext(WithState(r.Context(), state)))
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state := CurrentState(r)
		if state == nil || !state.IsAdmin {
			response.Forbidden(w, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Unauthenticated ends a request that needs a signed-in user.
func Unauthenticated(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Header.Get("HX-Request") == "true":
		w.Header().Set("HX-Redirect", "/login")
		w.WriteHeader(http.StatusUnauthorized)
	case WantsJSON(r):
		response.Unauthorized(w, "Not signed in")
	default:
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}

func WantsJSON(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/") ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}

func WithState(ctx context.Context, state *domain.AppState) context.Context {
	return context.WithValue(ctx, StateKey, state)
}

func CurrentState(r *http.Request) *domain.AppState {
	state, ok := r.Context().Value(StateKey).(*domain.AppState)
	if !ok {
		return nil
	}
	return state
}
