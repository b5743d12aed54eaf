// Package api wires the HTTP surface: routing, middleware, and handlers.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

// errorResponse is the uniform error body for every failed request.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func respondJSON(w http.ResponseWriter, logger *logrus.Logger, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.WithError(err).Error("Failed to encode response")
	}
}

func respondError(w http.ResponseWriter, logger *logrus.Logger, status int, message string) {
	respondJSON(w, logger, status, errorResponse{Success: false, Error: message})
}
