package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridline/internal/models"
	"github.com/yourusername/gridline/internal/service"
)

// maxUploadBytes bounds how much of an upload is read into memory.
const maxUploadBytes = 32 << 20

// FileHandler serves the uploaded-file endpoints.
type FileHandler struct {
	analysis *service.AnalysisService
	logger   *logrus.Logger
}

// NewFileHandler creates the file endpoints handler.
func NewFileHandler(analysis *service.AnalysisService, logger *logrus.Logger) *FileHandler {
	return &FileHandler{analysis: analysis, logger: logger}
}

// Upload stores a multipart file upload and returns quick insights.
// Uploads over the size cap are rejected outright rather than stored
// truncated.
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respondError(w, h.logger, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		respondError(w, h.logger, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		respondError(w, h.logger, http.StatusInternalServerError, "Error reading file: "+err.Error())
		return
	}

	result, err := h.analysis.Upload(r.Context(), header.Filename, string(content))
	if err != nil {
		h.logger.WithError(err).Error("Failed to store upload")
		respondError(w, h.logger, http.StatusInternalServerError, "Error uploading file: "+err.Error())
		return
	}

	respondJSON(w, h.logger, http.StatusOK, result)
}

// List returns all stored files without their raw content.
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	files, err := h.analysis.List(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list files")
		respondError(w, h.logger, http.StatusInternalServerError, "Error retrieving files: "+err.Error())
		return
	}
	if files == nil {
		files = []*models.StoredFile{}
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{"files": files})
}

// Get returns a stored file including its raw content.
func (h *FileHandler) Get(w http.ResponseWriter, r *http.Request) {
	fileID, ok := h.fileID(w, r)
	if !ok {
		return
	}

	file, err := h.analysis.Get(r.Context(), fileID)
	if errors.Is(err, models.ErrNotFound) {
		respondError(w, h.logger, http.StatusNotFound, "File not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to load file")
		respondError(w, h.logger, http.StatusInternalServerError, "Error retrieving file: "+err.Error())
		return
	}

	respondJSON(w, h.logger, http.StatusOK, file)
}

// Analyze runs the insight engine over a stored file.
func (h *FileHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	fileID, ok := h.fileID(w, r)
	if !ok {
		return
	}

	result, err := h.analysis.Analyze(r.Context(), fileID)
	if errors.Is(err, models.ErrNotFound) {
		respondError(w, h.logger, http.StatusNotFound, "File not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to analyze file")
		respondError(w, h.logger, http.StatusInternalServerError, "Error analyzing file: "+err.Error())
		return
	}

	respondJSON(w, h.logger, http.StatusOK, result)
}

// insightsRequest is the body of a manual insights update.
type insightsRequest struct {
	Insights string `json:"insights"`
}

// AttachInsights stores caller-provided insights on a file.
func (h *FileHandler) AttachInsights(w http.ResponseWriter, r *http.Request) {
	fileID, ok := h.fileID(w, r)
	if !ok {
		return
	}

	var req insightsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.analysis.AttachInsights(r.Context(), fileID, req.Insights)
	if errors.Is(err, models.ErrNotFound) {
		respondError(w, h.logger, http.StatusNotFound, "File not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to attach insights")
		respondError(w, h.logger, http.StatusInternalServerError, "Error adding insights: "+err.Error())
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Insights added successfully",
	})
}

// Delete removes a stored file.
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	fileID, ok := h.fileID(w, r)
	if !ok {
		return
	}

	err := h.analysis.Delete(r.Context(), fileID)
	if errors.Is(err, models.ErrNotFound) {
		respondError(w, h.logger, http.StatusNotFound, "File not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to delete file")
		respondError(w, h.logger, http.StatusInternalServerError, "Error deleting file: "+err.Error())
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "File deleted successfully",
	})
}

func (h *FileHandler) fileID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "fileID"), 10, 64)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "Invalid file ID")
		return 0, false
	}
	return id, true
}
