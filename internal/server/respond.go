package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"
)

const maxJSONBody = 1 << 20

// responder writes JSON bodies and maps errors to statuses.
type responder struct {
	logger *zap.Logger
}

// jsonResponse writes a JSON response
func (rs responder) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		rs.logger.Warn("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (rs responder) errorResponse(w http.ResponseWriter, status int, message string) {
	rs.jsonResponse(w, status, map[string]string{"error": message})
}

type hinter interface {
	Hint() string
}

// handleError writes err with the status HTTPStatus picks for it. Internal
// errors are logged and replaced by a generic message.
func (rs responder) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		rs.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		rs.errorResponse(w, status, "internal server error")
		return
	}

	body := map[string]string{"error": err.Error()}
	var h hinter
	if errors.As(err, &h) {
		body["hint"] = h.Hint()
	}
	rs.jsonResponse(w, status, body)
}

// decodeJSON reads a JSON request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return &ErrValidation{Message: "request body is empty"}
		}
		return &ErrValidation{Message: "invalid request body"}
	}
	return nil
}
