package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridline/internal/metrics"
)

// RouterConfig carries the routing options taken from the app config.
type RouterConfig struct {
	CORSOrigins    []string
	MetricsEnabled bool
	MetricsPath    string
}

// NewRouter assembles the full HTTP surface.
func NewRouter(f1 *F1Handler, files *FileHandler, pinger DatabasePinger, cfg RouterConfig, logger *logrus.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/", rootHandler(logger))
	r.Get("/health", healthHandler(logger))
	r.Get("/ready", readyHandler(pinger, logger))
	if cfg.MetricsEnabled {
		r.Handle(cfg.MetricsPath, metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/f1", func(r chi.Router) {
			r.Post("/fetch-data", f1.FetchData)
			r.Get("/insights", f1.Insights)
			r.Get("/historical/{year}", f1.Historical)
		})

		r.Route("/files", func(r chi.Router) {
			r.Get("/", files.List)
			r.Post("/upload", files.Upload)
			r.Route("/{fileID}", func(r chi.Router) {
				r.Get("/", files.Get)
				r.Delete("/", files.Delete)
				r.Get("/analyze", files.Analyze)
				r.Post("/insights", files.AttachInsights)
			})
		})
	})

	return r
}

// rootHandler serves the API banner.
func rootHandler(logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, logger, http.StatusOK, map[string]string{
			"message":    "F1 Dashboard API with Jolpica (Ergast)",
			"status":     "running",
			"data_range": "1950-present",
		})
	}
}
