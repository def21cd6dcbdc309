package handler

import (
	"context"
	"net/http"
	"net/url"

	"notesync-web/internal/domain"
	"notesync-web/internal/middleware"
	"notesync-web/internal/service"
	"notesync-web/internal/view"
	"notesync-web/pkg/response"

	"github.com/gorilla/mux"
)

type RecycleHandler struct {
	*Renderer
	noteService *service.NoteService
}

func NewRecycleHandler(rd *Renderer, noteService *service.NoteService) *RecycleHandler {
	return &RecycleHandler{
		Renderer:    rd,
		noteService: noteService,
	}
}

func (h *RecycleHandler) List(w http.ResponseWriter, r *http.Request) {
	state := stateOf(r)
	vault := mux.Vars(r)["vault"]

	list, err := h.noteService.List(r.Context(), state, &domain.NoteListRequest{
		Vault:     vault,
		IsRecycle: true,
		Page:      pageParam(r),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if middleware.WantsJSON(r) {
		response.Success(w, list)
		return
	}

	data := view.NewViewData(state, vault, "recycle")
	data.Vault = vault
	data.Notes = list.List
	data.Pager = list.Pager
	switch r.URL.Query().Get("done") {
	case "restored":
		data.Toast = &view.Toast{Kind: service.NoticeInfo, Message: data.T("recycle.restored")}
	case "deleted":
		data.Toast = &view.Toast{Kind: service.NoticeInfo, Message: data.T("recycle.deleted")}
	}
	h.page(w, http.StatusOK, data)
}

func (h *RecycleHandler) Restore(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "restored", h.noteService.RestoreRecycled)
}

func (h *RecycleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "deleted", h.noteService.PurgeRecycled)
}

// mutate runs a recycle-bin action on the note named in the form and
// redirects back to the bin.
func (h *RecycleHandler) mutate(w http.ResponseWriter, r *http.Request, done string, op func(context.Context, *domain.AppState, domain.NoteRef) error) {
	state := stateOf(r)
	vault := mux.Vars(r)["vault"]

	if err := r.ParseForm(); err != nil {
		response.BadRequest(w, "Invalid form")
		return
	}
	ref := domain.NoteRef{
		Vault:    vault,
		Path:     r.PostForm.Get("path"),
		PathHash: r.PostForm.Get("pathHash"),
	}

	if err := op(r.Context(), state, ref); err != nil {
		h.fail(w, r, err)
		return
	}

	if middleware.WantsJSON(r) {
		response.Message(w, done)
		return
	}
	http.Redirect(w, r, "/vaults/"+url.PathEscape(vault)+"/recycle?done="+done, http.StatusSeeOther)
}
