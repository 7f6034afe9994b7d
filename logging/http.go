package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

// HTTPErrorResponse represents a standard JSON error response
type HTTPErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSONError writes a JSON error response and logs it. Server errors
// are logged at error level, client errors at warn.
func WriteJSONError(w http.ResponseWriter, logger *slog.Logger, message string, statusCode int, attrs ...any) {
	if logger != nil {
		level := slog.LevelWarn
		if statusCode >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		args := append([]any{"status_code", statusCode, "message", message}, attrs...)
		logger.Log(context.Background(), level, "HTTP error response", args...)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(HTTPErrorResponse{Error: message}); err != nil && logger != nil {
		logger.Warn("Failed to encode error response", "error", err)
	}
}

// WriteJSONSuccess writes a JSON success response
func WriteJSONSuccess(w http.ResponseWriter, logger *slog.Logger, data any, attrs ...any) {
	if logger != nil && len(attrs) > 0 {
		logger.Debug("HTTP success response", attrs...)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil && logger != nil {
		logger.Warn("Failed to encode success response", "error", err)
	}
}
