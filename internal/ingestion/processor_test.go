package ingestion

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/aridharma/sheetdrop/internal/domain"

	"github.com/google/uuid"
)

type stubFileRepo struct {
	statuses    []domain.FileStatus
	summary     *domain.ProcessSummary
	errorMsg    *string
	failMark    error
	failOnState domain.FileStatus
}

func (s *stubFileRepo) Create(_ context.Context, upload domain.FileUpload) (domain.FileUpload, error) {
	return upload, nil
}

func (s *stubFileRepo) GetByID(_ context.Context, _ uuid.UUID) (domain.FileUpload, error) {
	return domain.FileUpload{}, nil
}

func (s *stubFileRepo) GetByIDForUser(_ context.Context, _, _ uuid.UUID) (domain.FileUpload, error) {
	return domain.FileUpload{}, nil
}

func (s *stubFileRepo) ListByUser(_ context.Context, _ uuid.UUID, _, _ int) ([]domain.FileUpload, int, error) {
	return nil, 0, nil
}

func (s *stubFileRepo) MarkProcessing(_ context.Context, _ uuid.UUID) error {
	if s.failOnState == domain.FileStatusProcessing {
		return s.failMark
	}
	s.statuses = append(s.statuses, domain.FileStatusProcessing)
	return nil
}

func (s *stubFileRepo) MarkCompleted(_ context.Context, _ uuid.UUID, summary domain.ProcessSummary) error {
	if s.failOnState == domain.FileStatusCompleted {
		return s.failMark
	}
	s.statuses = append(s.statuses, domain.FileStatusCompleted)
	s.summary = &summary
	return nil
}

func (s *stubFileRepo) MarkFailed(_ context.Context, _ uuid.UUID, message string) error {
	s.statuses = append(s.statuses, domain.FileStatusFailed)
	s.errorMsg = &message
	return nil
}

func (s *stubFileRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }

type stubRowRepo struct {
	batches [][]domain.ContactRow
	failErr error
}

func (s *stubRowRepo) CreateBatch(_ context.Context, _ uuid.UUID, rows []domain.ContactRow) error {
	if s.failErr != nil {
		return s.failErr
	}
	s.batches = append(s.batches, rows)
	return nil
}

func (s *stubRowRepo) ListByFile(_ context.Context, _ uuid.UUID) ([]domain.ContactRow, error) {
	return nil, nil
}

func (s *stubRowRepo) CountByFile(_ context.Context, _ uuid.UUID) (int64, error) {
	return 0, nil
}

func TestProcessCompletesWithSummary(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"name", "email"},
		{"Ana", ""},
		{"", ""},
		{"", "b@x.com"},
	})

	fileRepo := &stubFileRepo{}
	rowRepo := &stubRowRepo{}
	processor := NewProcessor(NewParser(), fileRepo, rowRepo)

	if err := processor.Process(context.Background(), uuid.New(), path); err != nil {
		t.Fatalf("process returned error: %v", err)
	}

	wantStatuses := []domain.FileStatus{domain.FileStatusProcessing, domain.FileStatusCompleted}
	if len(fileRepo.statuses) != len(wantStatuses) {
		t.Fatalf("unexpected status sequence: %v", fileRepo.statuses)
	}
	for i, status := range wantStatuses {
		if fileRepo.statuses[i] != status {
			t.Fatalf("expected status %s at step %d, got %s", status, i, fileRepo.statuses[i])
		}
	}

	if fileRepo.summary == nil {
		t.Fatalf("expected a result summary")
	}
	if fileRepo.summary.TotalRows != 3 || fileRepo.summary.ValidRows != 2 {
		t.Fatalf("unexpected summary: %+v", fileRepo.summary)
	}
	wantColumns := []string{"name", "email", "phone", "company"}
	for i, column := range wantColumns {
		if fileRepo.summary.Columns[i] != column {
			t.Fatalf("unexpected columns: %v", fileRepo.summary.Columns)
		}
	}

	if len(rowRepo.batches) != 1 || len(rowRepo.batches[0]) != 2 {
		t.Fatalf("expected one batch with 2 valid rows, got %v", rowRepo.batches)
	}
	for _, row := range rowRepo.batches[0] {
		if !row.HasData() {
			t.Fatalf("fully-empty row reached the store: %+v", row)
		}
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected uploaded file kept on success: %v", err)
	}
}

func TestProcessParseFailureMarksFailedAndDeletesFile(t *testing.T) {
	path := writeWorkbook(t, nil)
	if err := os.WriteFile(path, []byte("corrupt"), 0o644); err != nil {
		t.Fatalf("failed to corrupt fixture: %v", err)
	}

	fileRepo := &stubFileRepo{}
	rowRepo := &stubRowRepo{}
	processor := NewProcessor(NewParser(), fileRepo, rowRepo)

	err := processor.Process(context.Background(), uuid.New(), path)
	if !errors.Is(err, ErrUnreadable) {
		t.Fatalf("expected ErrUnreadable surfaced to scheduler, got %v", err)
	}

	if len(fileRepo.statuses) != 2 || fileRepo.statuses[1] != domain.FileStatusFailed {
		t.Fatalf("expected processing then failed, got %v", fileRepo.statuses)
	}
	if fileRepo.errorMsg == nil || !strings.Contains(*fileRepo.errorMsg, "failed to read spreadsheet") {
		t.Fatalf("expected readable error message, got %v", fileRepo.errorMsg)
	}
	if len(rowRepo.batches) != 0 {
		t.Fatalf("expected no rows persisted, got %v", rowRepo.batches)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Fatalf("expected uploaded file removed on failure, stat err: %v", statErr)
	}
}

func TestProcessStoreFailureMarksFailed(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"name"},
		{"Ana"},
	})

	fileRepo := &stubFileRepo{}
	rowRepo := &stubRowRepo{failErr: errors.New("bulk insert refused")}
	processor := NewProcessor(NewParser(), fileRepo, rowRepo)

	err := processor.Process(context.Background(), uuid.New(), path)
	if err == nil || !strings.Contains(err.Error(), "bulk insert refused") {
		t.Fatalf("expected store error surfaced, got %v", err)
	}

	if len(fileRepo.statuses) != 2 || fileRepo.statuses[1] != domain.FileStatusFailed {
		t.Fatalf("expected processing then failed, got %v", fileRepo.statuses)
	}
	if fileRepo.errorMsg == nil || *fileRepo.errorMsg != "bulk insert refused" {
		t.Fatalf("unexpected error message: %v", fileRepo.errorMsg)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Fatalf("expected uploaded file removed on failure, stat err: %v", statErr)
	}
}

func TestProcessMarkProcessingFailureStopsEarly(t *testing.T) {
	path := writeWorkbook(t, [][]any{{"name"}, {"Ana"}})

	fileRepo := &stubFileRepo{
		failOnState: domain.FileStatusProcessing,
		failMark:    errors.New("store offline"),
	}
	rowRepo := &stubRowRepo{}
	processor := NewProcessor(NewParser(), fileRepo, rowRepo)

	err := processor.Process(context.Background(), uuid.New(), path)
	if err == nil || !strings.Contains(err.Error(), "store offline") {
		t.Fatalf("expected store error, got %v", err)
	}
	if len(rowRepo.batches) != 0 {
		t.Fatalf("expected no rows persisted, got %v", rowRepo.batches)
	}
}
