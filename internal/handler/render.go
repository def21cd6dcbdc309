package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"notesync-web/internal/domain"
	"notesync-web/internal/middleware"
	"notesync-web/internal/remote"
	"notesync-web/internal/service"
	"notesync-web/internal/view"
	"notesync-web/pkg/response"
)

type sessionEnder interface {
	Logout(ctx context.Context, sessionID string) error
}

// Renderer is shared by the page handlers: it renders views and turns
// errors into the response each kind of request expects.
type Renderer struct {
	views  *view.Templates
	auth   sessionEnder
	cookie middleware.SessionCookie
}

func NewRenderer(views *view.Templates, auth sessionEnder, cookie middleware.SessionCookie) *Renderer {
	return &Renderer{views: views, auth: auth, cookie: cookie}
}

func isFragment(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

func (rd *Renderer) page(w http.ResponseWriter, status int, data view.ViewData) {
	rd.views.RenderPage(w, status, data)
}

func (rd *Renderer) fragment(w http.ResponseWriter, name string, data view.ViewData) {
	rd.views.RenderTemplate(w, http.StatusOK, name, data)
}

// fail reports err to the user. An expired sync-API token ends the
// session; everything else becomes a JSON error, a toast swapped into the
// page, or an error page.
func (rd *Renderer) fail(w http.ResponseWriter, r *http.Request, err error) {
	state := middleware.CurrentState(r)

	if remote.IsUnauthorized(err) {
		if state != nil {
			if logoutErr := rd.auth.Logout(r.Context(), state.SessionID); logoutErr != nil {
				log.Printf("[Auth] failed to drop session %s: %v", state.SessionID, logoutErr)
			}
		}
		rd.cookie.Clear(w)
		middleware.Unauthenticated(w, r)
		return
	}

	status, kind := statusFor(err)
	data := view.NewViewData(state, "", "error")
	message := messageFor(data, err)
	if status >= http.StatusInternalServerError {
		log.Printf("[Handler] %s %s: %v", r.Method, r.URL.Path, err)
	}

	switch {
	case middleware.WantsJSON(r):
		response.Fail(w, status, kind, message)
	case isFragment(r):
		// htmx only swaps 2xx responses
		data.Toast = &view.Toast{Kind: service.NoticeError, Message: message}
		w.Header().Set("HX-Retarget", "#toasts")
		w.Header().Set("HX-Reswap", "beforeend")
		rd.fragment(w, "toast", data)
	default:
		data.Title = data.T("error.title")
		data.Toast = &view.Toast{Kind: service.NoticeError, Message: message}
		rd.page(w, status, data)
	}
}

func statusFor(err error) (int, string) {
	var validation *service.ValidationError
	switch {
	case errors.As(err, &validation), errors.Is(err, service.ErrPageOutOfRange):
		return http.StatusBadRequest, "invalid"
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, service.ErrSessionClosed), errors.Is(err, service.ErrUnknownVersion):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrNoSelection), errors.Is(err, service.ErrSelectionChanged),
		errors.Is(err, service.ErrRestoreInFlight):
		return http.StatusConflict, "conflict"
	}

	switch remote.Classify(err) {
	case remote.KindRejected:
		return http.StatusUnprocessableEntity, "rejected"
	case remote.KindEmpty:
		return http.StatusNotFound, "empty"
	case remote.KindNetwork:
		var failure *remote.NetworkFailure
		var malformed *remote.MalformedResponse
		if errors.As(err, &failure) || errors.As(err, &malformed) {
			return http.StatusBadGateway, "network"
		}
	}
	return http.StatusInternalServerError, "internal"
}

func messageFor(data view.ViewData, err error) string {
	status, kind := statusFor(err)
	switch {
	case kind == "network":
		return data.T("error.network")
	case kind == "forbidden":
		return data.T("error.forbidden")
	case kind == "empty":
		return data.T("error.notFound")
	case status == http.StatusInternalServerError:
		return data.T("error.title")
	}
	return remote.Message(err)
}

// stateOf returns the signed-in user's state; routes behind AuthMiddleware
// always have one.
func stateOf(r *http.Request) *domain.AppState {
	return middleware.CurrentState(r)
}
