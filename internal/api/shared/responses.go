package shared

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorResponse is the envelope for all non-2xx responses. Status mirrors
// the HTTP status code in the body; Message carries business-rule and
// catch-all errors while Error carries structured field errors from
// request validation.
type ErrorResponse struct {
	Status  int               `json:"status"`
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Error   map[string]string `json:"error,omitempty"`
	TraceID string            `json:"trace_id,omitempty"`
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// RespondWithError writes a JSON error envelope with the given status code
// and message. 4xx responses are logged at debug level.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	traceID := GetTraceID(r.Context())

	slog.Debug("sending error response",
		"status_code", status,
		"message", message,
		"trace_id", traceID,
		"path", r.URL.Path,
		"method", r.Method)

	RespondWithJSON(w, r, status, ErrorResponse{
		Status:  status,
		Success: false,
		Message: message,
		TraceID: traceID,
	})
}

// RespondWithFieldErrors writes a 400 envelope carrying per-field
// validation messages.
func RespondWithFieldErrors(w http.ResponseWriter, r *http.Request, fields map[string]string) {
	RespondWithJSON(w, r, http.StatusBadRequest, ErrorResponse{
		Status:  http.StatusBadRequest,
		Success: false,
		Error:   fields,
		TraceID: GetTraceID(r.Context()),
	})
}

// RespondWithInternalError writes the 500 catch-all envelope. The underlying
// error message is exposed in the body on purpose: that is the documented
// behavior of this API, noted as a hardening gap rather than fixed silently.
func RespondWithInternalError(w http.ResponseWriter, r *http.Request, err error) {
	traceID := GetTraceID(r.Context())

	message := "Unknown error occurred"
	if err != nil {
		message = err.Error()
	}

	slog.Error("internal error response",
		"error", message,
		"trace_id", traceID,
		"path", r.URL.Path,
		"method", r.Method)

	RespondWithJSON(w, r, http.StatusInternalServerError, ErrorResponse{
		Status:  http.StatusInternalServerError,
		Success: false,
		Message: message,
		TraceID: traceID,
	})
}
