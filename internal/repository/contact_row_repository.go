package repository

import (
	"context"
	"fmt"

	"github.com/aridharma/sheetdrop/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type contactRowRepository struct {
	pool *pgxpool.Pool
}

// NewContactRowRepository wires a repository backed by pgxpool.
func NewContactRowRepository(pool *pgxpool.Pool) ContactRowRepository {
	return &contactRowRepository{pool: pool}
}

// CreateBatch inserts all rows for a file in a single transaction. Either
// every row becomes visible or, on failure, none do.
func (r *contactRowRepository) CreateBatch(ctx context.Context, fileID uuid.UUID, rows []domain.ContactRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin batch insert: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.CopyFrom(
		ctx,
		pgx.Identifier{"contact_rows"},
		[]string{"id", "file_id", "name", "email", "phone", "company"},
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			row := rows[i]
			return []any{
				uuid.New(),
				fileID,
				row.Name,
				row.Email,
				row.Phone,
				row.Company,
			}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to insert contact rows: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit contact rows: %w", err)
	}
	return nil
}

// ListByFile returns a file's rows in insertion order, matching the order of
// the source spreadsheet.
func (r *contactRowRepository) ListByFile(ctx context.Context, fileID uuid.UUID) ([]domain.ContactRow, error) {
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, file_id, name, email, phone, company, created_at
		 FROM contact_rows
		 WHERE file_id = $1
		 ORDER BY seq ASC`,
		fileID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact rows: %w", err)
	}
	defer rows.Close()

	contacts := []domain.ContactRow{}
	for rows.Next() {
		var (
			contact   domain.ContactRow
			name      pgtype.Text
			email     pgtype.Text
			phone     pgtype.Text
			company   pgtype.Text
			createdAt pgtype.Timestamptz
		)
		if scanErr := rows.Scan(
			&contact.ID,
			&contact.FileID,
			&name,
			&email,
			&phone,
			&company,
			&createdAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan contact row: %w", scanErr)
		}

		contact.Name = textPtr(name)
		contact.Email = textPtr(email)
		contact.Phone = textPtr(phone)
		contact.Company = textPtr(company)
		if createdAt.Valid {
			contact.CreatedAt = createdAt.Time
		}

		contacts = append(contacts, contact)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate contact rows: %w", rowsErr)
	}

	return contacts, nil
}

func (r *contactRowRepository) CountByFile(ctx context.Context, fileID uuid.UUID) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM contact_rows WHERE file_id = $1`, fileID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count contact rows: %w", err)
	}
	return count, nil
}

func textPtr(value pgtype.Text) *string {
	if !value.Valid {
		return nil
	}
	s := value.String
	return &s
}
