package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"servermap/internal/domain"
	"servermap/internal/filtermap"
	"servermap/internal/service"
	"servermap/internal/validate"
)

// maxBodyBytes bounds request bodies; filter lists live in URLs, so real
// requests are small.
const maxBodyBytes = 1 << 20

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type responder struct {
	logger *zap.Logger
}

func (h responder) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	body, err := domain.EncodeJSON(data)
	if err != nil {
		h.logger.Error("failed to encode JSON", zap.Error(err))
		h.writeError(w, "Failed to encode response", err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(append(body, '\n'))
}

func (h responder) writeError(w http.ResponseWriter, error, details string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Details: details,
	}); err != nil {
		h.logger.Error("failed to encode error response", zap.Error(err))
	}
}

// writeServiceError maps a service error to its HTTP status
func (h responder) writeServiceError(w http.ResponseWriter, action string, err error) {
	switch {
	case errors.Is(err, domain.ErrViewNotFound):
		h.writeError(w, "Not found", err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrInvalid),
		errors.Is(err, filtermap.ErrNotFilteredMap),
		errors.Is(err, filtermap.ErrMalformedAddress):
		h.writeError(w, "Invalid request", err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error(action+" failed", zap.Error(err))
		h.writeError(w, fmt.Sprintf("Failed to %s", action), err.Error(), http.StatusInternalServerError)
	}
}

// readJSON reads the request body, validates it against schema when one is
// given, and decodes it into dst. It writes the error reply itself and
// reports whether the caller should continue.
func (h responder) readJSON(w http.ResponseWriter, r *http.Request, schema validate.Schema, dst interface{}) bool {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.writeError(w, "Failed to read request body", err.Error(), http.StatusBadRequest)
		return false
	}

	if schema != "" {
		if err := validate.JSON(schema, data); err != nil {
			h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
			return false
		}
	}

	if err := json.Unmarshal(data, dst); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}
