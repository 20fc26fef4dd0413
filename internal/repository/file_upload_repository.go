package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aridharma/sheetdrop/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a requested record does not exist or is not
// visible to the requesting user.
var ErrNotFound = errors.New("record not found")

type fileUploadRepository struct {
	pool *pgxpool.Pool
}

// NewFileUploadRepository wires a repository backed by pgxpool.
func NewFileUploadRepository(pool *pgxpool.Pool) FileUploadRepository {
	return &fileUploadRepository{pool: pool}
}

func (r *fileUploadRepository) Create(ctx context.Context, upload domain.FileUpload) (domain.FileUpload, error) {
	row := r.pool.QueryRow(
		ctx,
		`INSERT INTO file_uploads (id, filename, original_name, mimetype, size, file_path, uploaded_by, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at, updated_at`,
		upload.ID,
		upload.Filename,
		upload.OriginalName,
		upload.Mimetype,
		upload.Size,
		upload.FilePath,
		upload.UploadedBy,
		upload.Status,
	)
	if err := row.Scan(&upload.CreatedAt, &upload.UpdatedAt); err != nil {
		return domain.FileUpload{}, fmt.Errorf("failed to create file upload: %w", err)
	}
	return upload, nil
}

func (r *fileUploadRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.FileUpload, error) {
	return r.get(ctx, `SELECT `+fileUploadColumns+` FROM file_uploads WHERE id = $1`, id)
}

func (r *fileUploadRepository) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (domain.FileUpload, error) {
	return r.get(ctx, `SELECT `+fileUploadColumns+` FROM file_uploads WHERE id = $1 AND uploaded_by = $2`, id, userID)
}

const fileUploadColumns = `id, filename, original_name, mimetype, size, file_path, uploaded_by, status, result_summary, error_message, created_at, updated_at`

func (r *fileUploadRepository) get(ctx context.Context, query string, args ...any) (domain.FileUpload, error) {
	upload, err := scanFileUpload(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.FileUpload{}, ErrNotFound
		}
		return domain.FileUpload{}, fmt.Errorf("failed to get file upload: %w", err)
	}
	return upload, nil
}

func (r *fileUploadRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.FileUpload, int, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.pool.Query(
		ctx,
		`SELECT `+fileUploadColumns+`, count(*) OVER() AS total_count
		 FROM file_uploads
		 WHERE uploaded_by = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		userID,
		limit,
		offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list file uploads: %w", err)
	}
	defer rows.Close()

	uploads := []domain.FileUpload{}
	total := 0
	for rows.Next() {
		upload, count, scanErr := scanFileUploadWithCount(rows)
		if scanErr != nil {
			return nil, 0, fmt.Errorf("failed to scan file upload: %w", scanErr)
		}
		total = count
		uploads = append(uploads, upload)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, 0, fmt.Errorf("failed to iterate file uploads: %w", rowsErr)
	}

	return uploads, total, nil
}

func (r *fileUploadRepository) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(
		ctx,
		`UPDATE file_uploads
		 SET status = $2, updated_at = now()
		 WHERE id = $1 AND status = $3`,
		id,
		domain.FileStatusProcessing,
		domain.FileStatusPending,
	)
	if err != nil {
		return fmt.Errorf("failed to mark file upload processing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("file upload %s is not in %s state", id, domain.FileStatusPending)
	}
	return nil
}

func (r *fileUploadRepository) MarkCompleted(ctx context.Context, id uuid.UUID, summary domain.ProcessSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal result summary: %w", err)
	}

	tag, err := r.pool.Exec(
		ctx,
		`UPDATE file_uploads
		 SET status = $2, result_summary = $3, updated_at = now()
		 WHERE id = $1 AND status = $4`,
		id,
		domain.FileStatusCompleted,
		payload,
		domain.FileStatusProcessing,
	)
	if err != nil {
		return fmt.Errorf("failed to mark file upload completed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("file upload %s is not in %s state", id, domain.FileStatusProcessing)
	}
	return nil
}

func (r *fileUploadRepository) MarkFailed(ctx context.Context, id uuid.UUID, message string) error {
	tag, err := r.pool.Exec(
		ctx,
		`UPDATE file_uploads
		 SET status = $2, error_message = $3, updated_at = now()
		 WHERE id = $1 AND status = $4`,
		id,
		domain.FileStatusFailed,
		message,
		domain.FileStatusProcessing,
	)
	if err != nil {
		return fmt.Errorf("failed to mark file upload failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("file upload %s is not in %s state", id, domain.FileStatusProcessing)
	}
	return nil
}

func (r *fileUploadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM file_uploads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete file upload: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFileUpload(scanner rowScanner) (domain.FileUpload, error) {
	var (
		upload       domain.FileUpload
		summaryJSON  []byte
		errorMessage pgtype.Text
		createdAt    pgtype.Timestamptz
		updatedAt    pgtype.Timestamptz
	)
	if err := scanner.Scan(
		&upload.ID,
		&upload.Filename,
		&upload.OriginalName,
		&upload.Mimetype,
		&upload.Size,
		&upload.FilePath,
		&upload.UploadedBy,
		&upload.Status,
		&summaryJSON,
		&errorMessage,
		&createdAt,
		&updatedAt,
	); err != nil {
		return domain.FileUpload{}, err
	}

	if len(summaryJSON) > 0 {
		var summary domain.ProcessSummary
		if err := json.Unmarshal(summaryJSON, &summary); err != nil {
			return domain.FileUpload{}, fmt.Errorf("failed to decode result summary: %w", err)
		}
		upload.ResultSummary = &summary
	}
	if errorMessage.Valid {
		message := errorMessage.String
		upload.ErrorMessage = &message
	}
	if createdAt.Valid {
		upload.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		upload.UpdatedAt = updatedAt.Time
	}

	return upload, nil
}

func scanFileUploadWithCount(rows pgx.Rows) (domain.FileUpload, int, error) {
	var (
		upload       domain.FileUpload
		summaryJSON  []byte
		errorMessage pgtype.Text
		createdAt    pgtype.Timestamptz
		updatedAt    pgtype.Timestamptz
		total        int
	)
	if err := rows.Scan(
		&upload.ID,
		&upload.Filename,
		&upload.OriginalName,
		&upload.Mimetype,
		&upload.Size,
		&upload.FilePath,
		&upload.UploadedBy,
		&upload.Status,
		&summaryJSON,
		&errorMessage,
		&createdAt,
		&updatedAt,
		&total,
	); err != nil {
		return domain.FileUpload{}, 0, err
	}

	if len(summaryJSON) > 0 {
		var summary domain.ProcessSummary
		if err := json.Unmarshal(summaryJSON, &summary); err != nil {
			return domain.FileUpload{}, 0, fmt.Errorf("failed to decode result summary: %w", err)
		}
		upload.ResultSummary = &summary
	}
	if errorMessage.Valid {
		message := errorMessage.String
		upload.ErrorMessage = &message
	}
	if createdAt.Valid {
		upload.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		upload.UpdatedAt = updatedAt.Time
	}

	return upload, total, nil
}
