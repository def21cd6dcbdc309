package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"notesync-web/internal/domain"
	"notesync-web/internal/service"
	"notesync-web/pkg/response"
)

type PreferenceHandler struct {
	preferenceService *service.PreferenceService
}

func NewPreferenceHandler(preferenceService *service.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{
		preferenceService: preferenceService,
	}
}

func (h *PreferenceHandler) Get(w http.ResponseWriter, r *http.Request) {
	response.Success(w, stateOf(r).Preferences)
}

func (h *PreferenceHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdatePreferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	prefs, err := h.preferenceService.Update(r.Context(), stateOf(r), &req)
	if err != nil {
		var validation *service.ValidationError
		if errors.As(err, &validation) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to save preferences")
		return
	}

	response.Success(w, prefs)
}
