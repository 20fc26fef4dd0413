package domain

import (
	"time"

	"github.com/google/uuid"
)

// FileStatus tracks where an uploaded file sits in the processing lifecycle.
type FileStatus string

const (
	FileStatusPending    FileStatus = "pending"
	FileStatusProcessing FileStatus = "processing"
	FileStatusCompleted  FileStatus = "completed"
	FileStatusFailed     FileStatus = "failed"
)

// IsTerminal reports whether no further transitions are allowed from s.
func (s FileStatus) IsTerminal() bool {
	return s == FileStatusCompleted || s == FileStatusFailed
}

// CanTransitionTo enforces the forward-only lifecycle
// pending -> processing -> {completed|failed}.
func (s FileStatus) CanTransitionTo(next FileStatus) bool {
	switch s {
	case FileStatusPending:
		return next == FileStatusProcessing
	case FileStatusProcessing:
		return next == FileStatusCompleted || next == FileStatusFailed
	default:
		return false
	}
}

// ProcessSummary captures the outcome of a completed parse run.
type ProcessSummary struct {
	TotalRows int      `json:"totalRows"`
	ValidRows int      `json:"validRows"`
	Columns   []string `json:"columns"`
}

// FileUpload represents one user-submitted spreadsheet and its processing record.
type FileUpload struct {
	ID            uuid.UUID       `json:"id"`
	Filename      string          `json:"filename"`
	OriginalName  string          `json:"original_name"`
	Mimetype      string          `json:"mimetype"`
	Size          int64           `json:"size"`
	FilePath      string          `json:"-"`
	UploadedBy    uuid.UUID       `json:"uploaded_by"`
	Status        FileStatus      `json:"status"`
	ResultSummary *ProcessSummary `json:"result_summary,omitempty"`
	ErrorMessage  *string         `json:"error_message,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// NewFileUpload creates a pending upload record for a stored file.
func NewFileUpload(filename, originalName, mimetype string, size int64, filePath string, uploadedBy uuid.UUID) FileUpload {
	now := time.Now()
	return FileUpload{
		ID:           uuid.New(),
		Filename:     filename,
		OriginalName: originalName,
		Mimetype:     mimetype,
		Size:         size,
		FilePath:     filePath,
		UploadedBy:   uploadedBy,
		Status:       FileStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
