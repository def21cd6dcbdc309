package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"notesync-web/internal/repository"
	"notesync-web/pkg/response"
)

type HealthHandler struct {
	repo repository.AppStateRepository
}

func NewHealthHandler(repo repository.AppStateRepository) *HealthHandler {
	return &HealthHandler{repo: repo}
}

// Health reports unhealthy when the app-state store cannot answer a lookup.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	_, err := h.repo.Get(ctx, "health-check")
	if err != nil && !errors.Is(err, repository.ErrStateNotFound) {
		response.JSON(w, http.StatusServiceUnavailable, response.Response{
			Error: "state store unavailable",
			Data:  map[string]string{"status": "unhealthy", "service": "notesync-web"},
		})
		return
	}

	response.Success(w, map[string]string{"status": "healthy", "service": "notesync-web"})
}
