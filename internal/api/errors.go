package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nerrad567/netmcp/internal/device"
	"github.com/nerrad567/netmcp/internal/mcp"
)

// Error is the body of every transport-level failure.
// Envelope errors never use it; they travel inside a 200 response.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Transport error codes.
const (
	ErrCodeBadRequest     = "bad_request"
	ErrCodeNotFound       = "not_found"
	ErrCodeInternal       = "internal_error"
	ErrCodeMethodNotAllow = "method_not_allowed"
)

// badInput lists the sentinels that mean the caller sent something malformed.
var badInput = []error{
	mcp.ErrInvalidRequest,
	mcp.ErrInvalidParams,
	device.ErrInvalidPage,
	device.ErrInvalidStatus,
	device.ErrInvalidPatch,
	device.ErrInvalidID,
	device.ErrUnknownField,
	device.ErrImmutableField,
	device.ErrInvalidIP,
	device.ErrInvalidHostname,
	device.ErrInvalidTags,
}

// classify maps a handler error onto an HTTP status and error code.
// Unrecognised errors are internal.
func classify(err error) (int, string) {
	if errors.Is(err, device.ErrDeviceNotFound) {
		return http.StatusNotFound, ErrCodeNotFound
	}
	for _, target := range badInput {
		if errors.Is(err, target) {
			return http.StatusBadRequest, ErrCodeBadRequest
		}
	}
	return http.StatusInternalServerError, ErrCodeInternal
}

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // client may have gone away
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

// writeFailure answers with the status classify picks for err.
// Internal errors are logged and their text is not sent to the caller.
func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", r.Context().Value(ctxKeyRequestID),
			"error", err,
		)
		writeError(w, status, code, "internal server error")
		return
	}
	writeError(w, status, code, err.Error())
}

// writeNotFound writes a 404 error response.
func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

// writeInternalError writes a 500 error response.
func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}
