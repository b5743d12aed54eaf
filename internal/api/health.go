package api

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// DatabasePinger reports whether the backing store is reachable.
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

// healthHandler answers liveness probes. The process being up is the
// whole check.
func healthHandler(logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, logger, http.StatusOK, map[string]string{"status": "healthy"})
	}
}

// readyHandler answers readiness probes by pinging the database.
func readyHandler(pinger DatabasePinger, logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := pinger.Ping(ctx); err != nil {
			logger.WithError(err).Warn("Readiness check failed")
			respondJSON(w, logger, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"reason": "database unreachable",
			})
			return
		}

		respondJSON(w, logger, http.StatusOK, map[string]string{"status": "ready"})
	}
}
