package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// JSON writes data as a JSON body with the given status. Encoding
// failures after the header is written can only be logged.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encoding response body", slog.Any("error", err))
	}
}

// NoContent writes an empty 204 response
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
