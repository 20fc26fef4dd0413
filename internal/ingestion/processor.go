package ingestion

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/aridharma/sheetdrop/internal/domain"
	"github.com/aridharma/sheetdrop/internal/repository"
)

// Processor drives one uploaded file through its lifecycle:
// pending -> processing -> {completed|failed}.
type Processor struct {
	parser   *Parser
	fileRepo repository.FileUploadRepository
	rowRepo  repository.ContactRowRepository
}

// NewProcessor creates a processor backed by the given stores.
func NewProcessor(parser *Parser, fileRepo repository.FileUploadRepository, rowRepo repository.ContactRowRepository) *Processor {
	return &Processor{
		parser:   parser,
		fileRepo: fileRepo,
		rowRepo:  rowRepo,
	}
}

// Process parses the file at path and records the outcome on the upload
// record. The processing status is persisted before any parsing starts, so a
// crash mid-parse leaves a visibly stuck record rather than an untouched one.
// On failure the terminal state is recorded and the stored file is removed
// best-effort before the error is returned to the scheduler.
func (p *Processor) Process(ctx context.Context, fileID uuid.UUID, path string) error {
	if err := p.fileRepo.MarkProcessing(ctx, fileID); err != nil {
		return fmt.Errorf("failed to mark file %s processing: %w", fileID, err)
	}

	rows, err := p.parser.Parse(path)
	if err != nil {
		p.fail(ctx, fileID, path, err)
		return err
	}

	valid := make([]domain.ContactRow, 0, len(rows))
	for _, row := range rows {
		if row.HasData() {
			valid = append(valid, row)
		}
	}

	if err := p.rowRepo.CreateBatch(ctx, fileID, valid); err != nil {
		p.fail(ctx, fileID, path, err)
		return err
	}

	summary := domain.ProcessSummary{
		TotalRows: len(rows),
		ValidRows: len(valid),
		Columns:   SchemaColumns(),
	}
	if err := p.fileRepo.MarkCompleted(ctx, fileID, summary); err != nil {
		p.fail(ctx, fileID, path, err)
		return err
	}

	return nil
}

// fail records the terminal failed state and cleans up the uploaded file.
// Cleanup failures are only logged; they never change the job outcome.
func (p *Processor) fail(ctx context.Context, fileID uuid.UUID, path string, cause error) {
	message := "unknown processing error"
	if cause != nil && cause.Error() != "" {
		message = cause.Error()
	}

	if err := p.fileRepo.MarkFailed(ctx, fileID, message); err != nil {
		log.Printf("[PROCESSOR] failed to record failure for file %s: %v", fileID, err)
	}

	if _, err := os.Stat(path); err == nil {
		if err := os.Remove(path); err != nil {
			log.Printf("[PROCESSOR] failed to clean up file %s: %v", path, err)
		}
	}
}
