// Package main provides the entry point for the Gridline API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/gridline/internal/analysis"
	"github.com/yourusername/gridline/internal/api"
	"github.com/yourusername/gridline/internal/config"
	"github.com/yourusername/gridline/internal/database"
	"github.com/yourusername/gridline/internal/ergast"
	"github.com/yourusername/gridline/internal/logger"
	"github.com/yourusername/gridline/internal/metrics"
	"github.com/yourusername/gridline/internal/repository"
	"github.com/yourusername/gridline/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	cfg        *config.Config
	appLogger  *logrus.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
}

var rootCmd = &cobra.Command{
	Use:   "gridline",
	Short: "F1 statistics API backed by the Jolpica (Ergast) archive",
	Long:  `Serves current and historical Formula 1 season data with cached upstream snapshots, plus descriptive analysis of uploaded race data files.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
			region := os.Getenv("AWS_REGION")
			secretName := os.Getenv("AWS_SECRET_NAME")
			if region == "" || secretName == "" {
				return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
			}
			if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
				return fmt.Errorf("failed to load secrets: %w", err)
			}
		}

		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		appLogger = logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func runServer() error {
	appLogger.WithFields(logrus.Fields{
		"version":     Version,
		"git_commit":  GitCommit,
		"build_date":  BuildDate,
		"environment": cfg.App.Environment,
	}).Info("Starting Gridline API server")

	metrics.InitRegistry()

	db, err := database.New(&cfg.Database, appLogger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	httpClient := ergast.NewRateLimitedClient(ergast.HTTPClientConfig{
		Timeout:      cfg.ErgastTimeout(),
		MaxRetries:   cfg.Ergast.MaxRetries,
		RetryWaitMin: 100 * time.Millisecond,
		RetryWaitMax: 10 * time.Second,
		RateLimit:    cfg.Ergast.RateLimit,
	}, appLogger)
	defer httpClient.Close()

	ergastClient := ergast.NewClient(cfg.Ergast.BaseURL, cfg.Ergast.APIKey, httpClient, appLogger)

	f1Service := service.NewF1Service(
		ergastClient,
		repository.NewSQLiteSnapshotRepository(db),
		cfg.Ergast.DefaultSeason,
		cfg.Analysis.CompetitivenessWins,
		cfg.HistoricalTTL(),
		appLogger,
	)
	analysisService := service.NewAnalysisService(
		repository.NewSQLiteFileRepository(db),
		analysis.NewEngine(cfg.Analysis.DegradationThreshold, appLogger),
		appLogger,
	)

	router := api.NewRouter(
		api.NewF1Handler(f1Service, appLogger),
		api.NewFileHandler(analysisService, appLogger),
		db,
		api.RouterConfig{
			CORSOrigins:    cfg.Server.CORSOrigins,
			MetricsEnabled: cfg.Metrics.Enabled,
			MetricsPath:    cfg.Metrics.Path,
		},
		appLogger,
	)

	server := &http.Server{
		Addr:         cfg.ListenAddr(),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		appLogger.WithField("addr", server.Addr).Info("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		appLogger.WithField("signal", sig.String()).Info("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	appLogger.Info("Server stopped")
	return nil
}
