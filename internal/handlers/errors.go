package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/jeremyjsx/portfolio/internal/middleware"
)

type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

type errorResponse struct {
	Error APIError `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError sends the error envelope. The request id is read back from
// the response header set by middleware.RequestID.
func writeError(w http.ResponseWriter, status int, code, message string, details map[string]string) {
	writeJSON(w, status, errorResponse{Error: APIError{
		Code:      code,
		Message:   message,
		Details:   details,
		RequestID: w.Header().Get(middleware.RequestIDHeader),
	}})
}
