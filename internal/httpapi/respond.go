package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Veraticus/pinpoint/internal/model"
)

// errorResponse is the terse error shape returned for rejected requests.
type errorResponse struct {
	Status  model.RecordStatus `json:"status"`
	Message string             `json:"message"`
	OrderID string             `json:"orderId,omitempty"`
	Row     int                `json:"row,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Status: model.StatusError, Message: message})
}
