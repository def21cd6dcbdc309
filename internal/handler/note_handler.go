package handler

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"notesync-web/internal/domain"
	"notesync-web/internal/middleware"
	"notesync-web/internal/service"
	"notesync-web/internal/view"
	"notesync-web/pkg/response"

	"github.com/gorilla/mux"
)

type NoteHandler struct {
	*Renderer
	noteService       *service.NoteService
	preferenceService *service.PreferenceService
}

func NewNoteHandler(rd *Renderer, noteService *service.NoteService, preferenceService *service.PreferenceService) *NoteHandler {
	return &NoteHandler{
		Renderer:          rd,
		noteService:       noteService,
		preferenceService: preferenceService,
	}
}

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func (h *NoteHandler) Vaults(w http.ResponseWriter, r *http.Request) {
	state := stateOf(r)

	vaults, err := h.noteService.Vaults(r.Context(), state)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if middleware.WantsJSON(r) {
		response.Success(w, vaults)
		return
	}

	data := view.NewViewData(state, "", "vaults")
	data.Title = data.T("vaults.title")
	data.Vaults = vaults
	h.page(w, http.StatusOK, data)
}

func (h *NoteHandler) Notes(w http.ResponseWriter, r *http.Request) {
	state := stateOf(r)
	vault := mux.Vars(r)["vault"]
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	list, err := h.noteService.List(r.Context(), state, &domain.NoteListRequest{
		Vault:   vault,
		Keyword: query,
		Page:    pageParam(r),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.preferenceService.RememberVault(r.Context(), state, vault); err != nil {
		log.Printf("[Note] remember vault %s: %v", vault, err)
	}

	if middleware.WantsJSON(r) {
		response.Success(w, list)
		return
	}

	data := view.NewViewData(state, vault, "notes")
	data.Vault = vault
	data.Query = query
	data.Notes = list.List
	data.Pager = list.Pager
	h.page(w, http.StatusOK, data)
}

func (h *NoteHandler) Note(w http.ResponseWriter, r *http.Request) {
	state := stateOf(r)
	vault := mux.Vars(r)["vault"]
	ref := domain.NoteRef{
		Vault:    vault,
		Path:     r.URL.Query().Get("path"),
		PathHash: r.URL.Query().Get("pathHash"),
	}

	note, err := h.noteService.Get(r.Context(), state, ref)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if middleware.WantsJSON(r) {
		response.Success(w, note)
		return
	}

	rendered, err := view.Markdown(note.Content)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	data := view.NewViewData(state, note.Path, "note")
	data.Vault = vault
	data.Note = note
	data.NoteHTML = rendered
	h.page(w, http.StatusOK, data)
}

func (h *NoteHandler) Files(w http.ResponseWriter, r *http.Request) {
	state := stateOf(r)
	vault := mux.Vars(r)["vault"]

	files, err := h.noteService.Files(r.Context(), state, vault, pageParam(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if middleware.WantsJSON(r) {
		response.Success(w, files)
		return
	}

	data := view.NewViewData(state, vault, "files")
	data.Vault = vault
	data.Files = files.List
	data.Pager = files.Pager
	h.page(w, http.StatusOK, data)
}
