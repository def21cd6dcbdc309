package response

import (
	"encoding/json"
	"net/http"
)

// Response is the JSON envelope of every /api endpoint. Kind names the
// error class so scripts can tell a retryable failure from a refusal.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Kind    string      `json:"kind,omitempty"`
	Message string      `json:"message,omitempty"`
}

func JSON(w http.ResponseWriter, statusCode int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

func Success(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, Response{Success: true, Data: data})
}

func Message(w http.ResponseWriter, message string) {
	JSON(w, http.StatusOK, Response{Success: true, Message: message})
}

func Error(w http.ResponseWriter, statusCode int, err string) {
	JSON(w, statusCode, Response{Error: err})
}

func Fail(w http.ResponseWriter, statusCode int, kind, err string) {
	JSON(w, statusCode, Response{Error: err, Kind: kind})
}

func BadRequest(w http.ResponseWriter, err string) {
	Fail(w, http.StatusBadRequest, "invalid", err)
}

func Unauthorized(w http.ResponseWriter, err string) {
	Fail(w, http.StatusUnauthorized, "unauthorized", err)
}

func Forbidden(w http.ResponseWriter, err string) {
	Fail(w, http.StatusForbidden, "forbidden", err)
}

func NotFound(w http.ResponseWriter, err string) {
	Fail(w, http.StatusNotFound, "not_found", err)
}

func InternalError(w http.ResponseWriter, err string) {
	Error(w, http.StatusInternalServerError, err)
}
