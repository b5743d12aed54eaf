package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridline/internal/analysis"
	"github.com/yourusername/gridline/internal/metrics"
	"github.com/yourusername/gridline/internal/models"
	"github.com/yourusername/gridline/internal/repository"
)

// UploadResult is the outcome of storing an uploaded file.
type UploadResult struct {
	Success         bool     `json:"success"`
	FileID          int64    `json:"file_id"`
	Filename        string   `json:"filename"`
	FileType        string   `json:"file_type"`
	InitialInsights []string `json:"initial_insights"`
}

// AnalyzeResult is the outcome of analyzing a stored file. Success is
// false for file types the engine cannot analyze.
type AnalyzeResult struct {
	Success  bool             `json:"success"`
	Filename string           `json:"filename,omitempty"`
	Message  string           `json:"message,omitempty"`
	Analysis *analysis.Report `json:"analysis,omitempty"`
}

// AnalysisService manages uploaded files and runs the insight engine
// over them.
type AnalysisService struct {
	files  repository.FileRepository
	engine *analysis.Engine
	logger *logrus.Logger
}

// NewAnalysisService creates the file analysis service.
func NewAnalysisService(files repository.FileRepository, engine *analysis.Engine, logger *logrus.Logger) *AnalysisService {
	return &AnalysisService{
		files:  files,
		engine: engine,
		logger: logger,
	}
}

// Upload stores a file and produces quick shape-level insights without
// running the full engine.
func (s *AnalysisService) Upload(ctx context.Context, filename string, content string) (*UploadResult, error) {
	file := &models.StoredFile{
		Filename:   filename,
		UploadDate: time.Now().UTC(),
		FileType:   models.FileTypeFromName(filename),
		Data:       content,
	}

	insights, err := s.initialInsights(file.FileType, content)
	if err != nil {
		return nil, err
	}

	if err := s.files.Create(ctx, file); err != nil {
		return nil, err
	}
	metrics.RecordFileUpload()

	s.logger.WithFields(logrus.Fields{
		"file_id":   file.ID,
		"filename":  filename,
		"file_type": file.FileType,
	}).Info("Stored uploaded file")

	return &UploadResult{
		Success:         true,
		FileID:          file.ID,
		Filename:        filename,
		FileType:        file.FileType,
		InitialInsights: insights,
	}, nil
}

// initialInsights describes the file's shape per type. Unparseable
// content of a declared type is an upload error, not a stored file.
func (s *AnalysisService) initialInsights(fileType string, content string) ([]string, error) {
	insights := []string{}

	switch fileType {
	case models.FileTypeCSV:
		table, err := analysis.ParseCSV(strings.NewReader(content))
		if err != nil {
			return nil, fmt.Errorf("parse uploaded CSV: %w", err)
		}
		insights = append(insights,
			fmt.Sprintf("CSV file with %d rows and %d columns", len(table.Rows), len(table.Columns)),
			fmt.Sprintf("Columns: %s", strings.Join(table.Columns, ", ")),
		)
	case models.FileTypeJSON:
		var root interface{}
		if err := json.Unmarshal([]byte(content), &root); err != nil {
			return nil, fmt.Errorf("parse uploaded JSON: %w", err)
		}
		// Only countable roots get a size insight.
		switch v := root.(type) {
		case map[string]interface{}:
			insights = append(insights, fmt.Sprintf("JSON file with %d root elements", len(v)))
		case []interface{}:
			insights = append(insights, fmt.Sprintf("JSON file with %d root elements", len(v)))
		}
	}

	return insights, nil
}

// Analyze runs the insight engine over a stored CSV file and persists
// the generated insights.
func (s *AnalysisService) Analyze(ctx context.Context, fileID int64) (*AnalyzeResult, error) {
	file, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}

	if file.FileType != models.FileTypeCSV {
		return &AnalyzeResult{
			Success: false,
			Message: "Only CSV files can be analyzed at this time",
		}, nil
	}

	start := time.Now()

	table, err := analysis.ParseCSV(strings.NewReader(file.Data))
	if err != nil {
		return nil, fmt.Errorf("parse stored CSV: %w", err)
	}

	report := s.engine.Analyze(table)

	stored, err := json.Marshal(report.Insights)
	if err != nil {
		return nil, fmt.Errorf("marshal insights: %w", err)
	}
	if err := s.files.UpdateInsights(ctx, fileID, string(stored)); err != nil {
		return nil, err
	}

	metrics.RecordFileAnalysis(time.Since(start).Seconds())
	s.logger.WithFields(logrus.Fields{
		"file_id":  fileID,
		"insights": len(report.Insights),
	}).Info("Analyzed file")

	return &AnalyzeResult{
		Success:  true,
		Filename: file.Filename,
		Analysis: report,
	}, nil
}

// AttachInsights stores caller-provided insights on a file.
func (s *AnalysisService) AttachInsights(ctx context.Context, fileID int64, insights string) error {
	return s.files.UpdateInsights(ctx, fileID, insights)
}

// List returns all stored files, newest first, without raw content.
func (s *AnalysisService) List(ctx context.Context) ([]*models.StoredFile, error) {
	return s.files.List(ctx)
}

// Get returns a stored file including its raw content.
func (s *AnalysisService) Get(ctx context.Context, fileID int64) (*models.StoredFile, error) {
	return s.files.GetByID(ctx, fileID)
}

// Delete removes a stored file.
func (s *AnalysisService) Delete(ctx context.Context, fileID int64) error {
	return s.files.Delete(ctx, fileID)
}
