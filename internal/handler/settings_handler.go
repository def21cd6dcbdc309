package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"notesync-web/internal/domain"
	"notesync-web/internal/middleware"
	"notesync-web/internal/service"
	"notesync-web/internal/view"
	"notesync-web/pkg/response"
)

type SettingsHandler struct {
	*Renderer
	settingsService *service.SettingsService
}

func NewSettingsHandler(rd *Renderer, settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		Renderer:        rd,
		settingsService: settingsService,
	}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	state := stateOf(r)

	settings, err := h.settingsService.Get(r.Context(), state)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if middleware.WantsJSON(r) {
		response.Success(w, settings)
		return
	}
	h.render(w, state, settings, nil)
}

func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	state := stateOf(r)

	var settings domain.AdminSettings
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
			response.BadRequest(w, "Invalid request body")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			response.BadRequest(w, "Invalid form")
			return
		}
		settings = settingsFromForm(r)
	}

	if err := h.settingsService.Update(r.Context(), state, &settings); err != nil {
		h.fail(w, r, err)
		return
	}

	if middleware.WantsJSON(r) {
		response.Success(w, settings)
		return
	}
	data := view.NewViewData(state, "", "")
	h.render(w, state, &settings, &view.Toast{Kind: service.NoticeInfo, Message: data.T("settings.saved")})
}

func (h *SettingsHandler) render(w http.ResponseWriter, state *domain.AppState, settings *domain.AdminSettings, toast *view.Toast) {
	data := view.NewViewData(state, "", "settings")
	data.Title = data.T("settings.title")
	data.Settings = settings
	data.Toast = toast
	h.page(w, http.StatusOK, data)
}

func settingsFromForm(r *http.Request) domain.AdminSettings {
	keep, _ := strconv.Atoi(r.PostForm.Get("historyKeepVersions"))
	register, _ := strconv.ParseBool(r.PostForm.Get("registerEnabled"))
	return domain.AdminSettings{
		RegisterEnabled:     register,
		HistoryKeepVersions: keep,
		HistorySaveDelay:    strings.TrimSpace(r.PostForm.Get("historySaveDelay")),
		SoftDeleteRetention: strings.TrimSpace(r.PostForm.Get("softDeleteRetentionTime")),
		FontSet:             strings.TrimSpace(r.PostForm.Get("fontSet")),
	}
}
