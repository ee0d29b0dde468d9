package response

import (
	"encoding/json"
	"net/http"

	"github.com/tahcohcat/eventquest-web/internal/apperr"
	"github.com/tahcohcat/eventquest-web/internal/logger"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.New().WithError(err).Warn("failed to encode response")
	}
}

func Success(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, APIResponse{Success: true, Data: data})
}

func Message(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusOK, APIResponse{Success: true, Message: msg})
}

func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, APIResponse{Success: false, Error: msg})
}

// FromError answers with the status and display message of err.
func FromError(w http.ResponseWriter, err error) {
	Error(w, apperr.StatusCode(err), err.Error())
}
