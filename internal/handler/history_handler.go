package handler

import (
	"context"
	"errors"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"time"

	"notesync-web/internal/diff"
	"notesync-web/internal/domain"
	"notesync-web/internal/middleware"
	"notesync-web/internal/remote"
	"notesync-web/internal/service"
	"notesync-web/internal/view"
	"notesync-web/pkg/response"

	"github.com/gorilla/mux"
)

const restoreGrace = 100 * time.Millisecond

// HistoryHandler serves the history panel of the note page. Every action
// answers with the re-rendered panel, or with the session view as JSON.
type HistoryHandler struct {
	*Renderer
	historyService    *service.HistoryService
	preferenceService *service.PreferenceService
	restoreWait       time.Duration
}

func NewHistoryHandler(rd *Renderer, historyService *service.HistoryService, preferenceService *service.PreferenceService, restoreTimeout time.Duration) *HistoryHandler {
	return &HistoryHandler{
		Renderer:          rd,
		historyService:    historyService,
		preferenceService: preferenceService,
		restoreWait:       restoreTimeout + restoreGrace,
	}
}

func (h *HistoryHandler) Open(w http.ResponseWriter, r *http.Request) {
	state := stateOf(r)
	if err := r.ParseForm(); err != nil {
		response.BadRequest(w, "Invalid form")
		return
	}

	key := historyKeyOf(r)

	session, err := h.historyService.Open(r.Context(), state, key)
	if h.expired(w, r, err) {
		return
	}
	if session == nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, session.View())
}

func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	err := session.SetPage(r.Context(), pageParam(r))
	if h.expired(w, r, err) {
		return
	}
	if errors.Is(err, service.ErrSessionClosed) {
		h.fail(w, r, err)
		return
	}
	// out-of-range pages are ignored; fetch failures show up as the notice
	h.respond(w, r, session.View())
}

func (h *HistoryHandler) Select(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	id, ok := historyID(w, r)
	if !ok {
		return
	}

	err := session.Select(r.Context(), id)
	if h.expired(w, r, err) {
		return
	}
	if errors.Is(err, service.ErrUnknownVersion) || errors.Is(err, service.ErrSessionClosed) {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, session.View())
}

func (h *HistoryHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	state := stateOf(r)
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	current := session.View()
	switch r.PostForm.Get("toggle") {
	case "changedOnly":
		on := !current.ChangedOnly
		session.SetChangedOnly(on)
		if _, err := h.preferenceService.Update(r.Context(), state, &domain.UpdatePreferencesRequest{HistoryChangedOnly: &on}); err != nil {
			log.Printf("[History] save changed-only preference: %v", err)
		}
	case "showOriginal":
		session.SetShowOriginal(!current.ShowOriginal)
	default:
		response.BadRequest(w, "Unknown toggle")
		return
	}
	h.respond(w, r, session.View())
}

// Restore waits for the sync API at most until the session's safety timer
// has re-enabled the restore button; a later success still closes the
// session and notifies the user's pages. The form names the version the
// user was shown, so a stale page cannot restore another selection.
func (h *HistoryHandler) Restore(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseInt(r.Form.Get("historyId"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "Invalid history id")
		return
	}

	done := make(chan error, 1)
	go func() {
		done <- session.Restore(context.WithoutCancel(r.Context()), id)
	}()

	select {
	case err = <-done:
	case <-time.After(h.restoreWait):
	}

	if h.expired(w, r, err) {
		return
	}
	if errors.Is(err, service.ErrNoSelection) || errors.Is(err, service.ErrSelectionChanged) ||
		errors.Is(err, service.ErrSessionClosed) {
		h.fail(w, r, err)
		return
	}

	v := session.View()
	if err == nil && v.State == service.HistoryClosed {
		v.Notice = &service.Notice{Kind: service.NoticeInfo, Message: view.Translate(langOf(r), "history.restored")}
	}
	h.respond(w, r, v)
}

func (h *HistoryHandler) Close(w http.ResponseWriter, r *http.Request) {
	state := stateOf(r)
	if err := r.ParseForm(); err != nil {
		response.BadRequest(w, "Invalid form")
		return
	}
	h.historyService.Close(state.SessionID, historyKeyOf(r))

	if middleware.WantsJSON(r) {
		response.Message(w, "closed")
		return
	}
	h.fragment(w, "history_panel", view.NewViewData(state, "", ""))
}

// Raw returns the selected version's full content as plain text for the
// copy button.
func (h *HistoryHandler) Raw(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}
	id, ok := historyID(w, r)
	if !ok {
		return
	}

	v := session.View()
	if v.Detail == nil || v.Detail.ID != id {
		h.fail(w, r, service.ErrNoSelection)
		return
	}
	content, err := session.OriginalContent()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write([]byte(content))
}

// expired ends the history session and the sign-in when the sync API no
// longer accepts the user's token.
func (h *HistoryHandler) expired(w http.ResponseWriter, r *http.Request, err error) bool {
	if err == nil || !remote.IsUnauthorized(err) {
		return false
	}
	h.historyService.CloseAll(stateOf(r).SessionID)
	h.fail(w, r, err)
	return true
}

// session looks up the history session of the note named in the query or
// form; every panel request carries the note's key.
func (h *HistoryHandler) session(w http.ResponseWriter, r *http.Request) (*service.HistorySession, bool) {
	if err := r.ParseForm(); err != nil {
		response.BadRequest(w, "Invalid form")
		return nil, false
	}
	session, err := h.historyService.Get(stateOf(r).SessionID, historyKeyOf(r))
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	return session, true
}

func historyKeyOf(r *http.Request) domain.HistoryKey {
	isRecycle, _ := strconv.ParseBool(r.Form.Get("isRecycle"))
	return domain.HistoryKey{
		Vault:     r.Form.Get("vault"),
		Path:      r.Form.Get("path"),
		PathHash:  r.Form.Get("pathHash"),
		IsRecycle: isRecycle,
	}
}

func historyID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "Invalid history id")
		return 0, false
	}
	return id, true
}

func langOf(r *http.Request) string {
	if state := stateOf(r); state != nil {
		return state.Preferences.Lang
	}
	return domain.LangEnglish
}

func (h *HistoryHandler) respond(w http.ResponseWriter, r *http.Request, v service.HistoryView) {
	if middleware.WantsJSON(r) {
		response.Success(w, v)
		return
	}
	h.fragment(w, "history_panel", h.panelData(stateOf(r), v))
}

func (h *HistoryHandler) panelData(state *domain.AppState, v service.HistoryView) view.ViewData {
	data := view.NewViewData(state, "", "")
	data.Placeholder = data.T("history.empty")
	data.History = &v
	if v.Notice != nil {
		data.Toast = &view.Toast{Kind: v.Notice.Kind, Message: v.Notice.Message}
	}

	if v.Detail == nil {
		return data
	}

	if v.ShowOriginal {
		highlighted, err := diff.HighlightContent(v.Key.Path, v.Detail.Content)
		if err != nil {
			log.Printf("[History] highlight %s: %v", v.Key.Path, err)
			highlighted = template.HTML("<pre>" + template.HTMLEscapeString(v.Detail.Content) + "</pre>")
		}
		data.OriginalHTML = highlighted
		return data
	}

	data.DiffHTML = diff.RenderHTML(v.Lines, diff.RenderOptions{
		ChangedOnly: v.ChangedOnly,
		Header:      v.Key.Path,
		Placeholder: data.Placeholder,
	})
	return data
}
