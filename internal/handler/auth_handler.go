package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"notesync-web/internal/domain"
	"notesync-web/internal/middleware"
	"notesync-web/internal/remote"
	"notesync-web/internal/service"
	"notesync-web/internal/view"
	"notesync-web/pkg/response"
)

type AuthHandler struct {
	*Renderer
	authService    *service.AuthService
	historyService *service.HistoryService
}

func NewAuthHandler(rd *Renderer, authService *service.AuthService, historyService *service.HistoryService) *AuthHandler {
	return &AuthHandler{
		Renderer:       rd,
		authService:    authService,
		historyService: historyService,
	}
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	data := view.NewViewData(nil, "", "login")
	data.Title = data.T("login.title")
	h.page(w, http.StatusOK, data)
}

// Login accepts a form post from the login page or a JSON body.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request body")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			response.BadRequest(w, "Invalid form")
			return
		}
		req.Credentials = strings.TrimSpace(r.PostForm.Get("credentials"))
		req.Password = r.PostForm.Get("password")
	}

	state, cookie, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		h.loginFailed(w, r, &req, err)
		return
	}

	h.cookie.Set(w, cookie)
	log.Printf("[Auth] user %s signed in (session %s)", state.Username, state.SessionID)

	if middleware.WantsJSON(r) {
		response.Success(w, map[string]interface{}{
			"username": state.Username,
			"isAdmin":  state.IsAdmin,
		})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) loginFailed(w http.ResponseWriter, r *http.Request, req *domain.LoginRequest, err error) {
	status, kind := statusFor(err)
	if remote.Classify(err) == remote.KindRejected {
		status = http.StatusUnauthorized
	}

	data := view.NewViewData(nil, "", "login")
	message := data.T("login.failed")
	if kind == "network" {
		message = data.T("error.network")
	} else if kind == "rejected" || kind == "invalid" {
		message = message + ": " + remote.Message(err)
	}

	if middleware.WantsJSON(r) {
		response.Fail(w, status, kind, message)
		return
	}

	data.Title = data.T("login.title")
	data.Username = req.Credentials
	data.Toast = &view.Toast{Kind: service.NoticeError, Message: message}
	h.page(w, status, data)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	state := stateOf(r)
	h.historyService.CloseAll(state.SessionID)
	if err := h.authService.Logout(r.Context(), state.SessionID); err != nil {
		log.Printf("[Auth] logout %s: %v", state.SessionID, err)
	}
	h.cookie.Clear(w)

	if middleware.WantsJSON(r) {
		response.Message(w, "Logged out successfully")
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
