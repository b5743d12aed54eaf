package models

import (
	"strings"
	"time"
)

// File type tags stored alongside uploaded files.
const (
	FileTypeCSV  = "csv"
	FileTypeJSON = "json"
	FileTypeText = "text"
)

// StoredFile represents an uploaded file held in the blob store together
// with its most recently computed insights.
type StoredFile struct {
	ID         int64     `json:"id"`
	Filename   string    `json:"filename"`
	UploadDate time.Time `json:"upload_date"`
	FileType   string    `json:"file_type"`
	Data       string    `json:"data,omitempty"`
	Insights   *string   `json:"insights"`
}

// FileTypeFromName derives the stored type tag from the filename extension.
func FileTypeFromName(filename string) string {
	switch {
	case strings.HasSuffix(filename, ".csv"):
		return FileTypeCSV
	case strings.HasSuffix(filename, ".json"):
		return FileTypeJSON
	default:
		return FileTypeText
	}
}
