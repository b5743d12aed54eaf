package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridline/internal/models"
	"github.com/yourusername/gridline/internal/service"
)

// F1Handler serves the championship data endpoints.
type F1Handler struct {
	f1     *service.F1Service
	logger *logrus.Logger
}

// NewF1Handler creates the F1 endpoints handler.
func NewF1Handler(f1 *service.F1Service, logger *logrus.Logger) *F1Handler {
	return &F1Handler{f1: f1, logger: logger}
}

// FetchData pulls the current season from the upstream API and caches
// the snapshot.
func (h *F1Handler) FetchData(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.f1.FetchAndCache(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch F1 data")
		respondError(w, h.logger, http.StatusInternalServerError, "Error fetching F1 data: "+err.Error())
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    snapshot,
	})
}

// Insights serves narrative insights over the latest cached snapshot.
func (h *F1Handler) Insights(w http.ResponseWriter, r *http.Request) {
	insights, snapshot, err := h.f1.Insights(r.Context())
	if errors.Is(err, models.ErrNoSnapshot) {
		respondError(w, h.logger, http.StatusNotFound, "No cached data found. Please fetch data first.")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to generate insights")
		respondError(w, h.logger, http.StatusInternalServerError, "Error generating insights: "+err.Error())
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"insights": insights,
		"data":     snapshot,
	})
}

// Historical serves a past season's calendar and champion. Lookup
// failures are part of the response body, not HTTP errors.
func (h *F1Handler) Historical(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid year")
		return
	}

	respondJSON(w, h.logger, http.StatusOK, h.f1.Historical(r.Context(), year))
}
