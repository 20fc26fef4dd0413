package repository

import (
	"context"

	"github.com/aridharma/sheetdrop/internal/domain"

	"github.com/google/uuid"
)

// FileUploadRepository defines the interface for upload record operations.
// Status transitions are written atomically with their accompanying data
// (summary on completion, message on failure) so readers never observe a
// terminal status without its payload.
type FileUploadRepository interface {
	Create(ctx context.Context, upload domain.FileUpload) (domain.FileUpload, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.FileUpload, error)
	GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (domain.FileUpload, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.FileUpload, int, error)
	MarkProcessing(ctx context.Context, id uuid.UUID) error
	MarkCompleted(ctx context.Context, id uuid.UUID, summary domain.ProcessSummary) error
	MarkFailed(ctx context.Context, id uuid.UUID, message string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ContactRowRepository defines the interface for normalized row operations.
// Rows are immutable once written; CreateBatch is all-or-nothing.
type ContactRowRepository interface {
	CreateBatch(ctx context.Context, fileID uuid.UUID, rows []domain.ContactRow) error
	ListByFile(ctx context.Context, fileID uuid.UUID) ([]domain.ContactRow, error)
	CountByFile(ctx context.Context, fileID uuid.UUID) (int64, error)
}

// UserRepository defines the interface for account operations.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
}
