package files

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aridharma/sheetdrop/internal/auth"
	"github.com/aridharma/sheetdrop/internal/domain"
	"github.com/aridharma/sheetdrop/internal/ingestion"
	"github.com/aridharma/sheetdrop/internal/repository"
)

const maxUploadSize = 32 << 20

// Scheduler abstracts the background pipeline from the HTTP layer.
type Scheduler interface {
	Schedule(fileID uuid.UUID, path string)
}

// Handler exposes the file upload and retrieval endpoints.
type Handler struct {
	fileRepo   repository.FileUploadRepository
	rowRepo    repository.ContactRowRepository
	scheduler  Scheduler
	uploadsDir string
}

// NewHTTPHandler wires the file endpoints.
func NewHTTPHandler(fileRepo repository.FileUploadRepository, rowRepo repository.ContactRowRepository, scheduler Scheduler, uploadsDir string) *Handler {
	return &Handler{
		fileRepo:   fileRepo,
		rowRepo:    rowRepo,
		scheduler:  scheduler,
		uploadsDir: uploadsDir,
	}
}

// ServeHTTP routes /files and /files/{id}.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/files"), "/")

	switch {
	case rest == "upload" && r.Method == http.MethodPost:
		h.upload(w, r)
	case rest == "" && r.Method == http.MethodGet:
		h.list(w, r)
	case rest != "" && r.Method == http.MethodGet:
		h.getByID(w, r, rest)
	case rest != "" && r.Method == http.MethodDelete:
		h.deleteByID(w, r, rest)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

type uploadResponse struct {
	ID           string            `json:"id"`
	Filename     string            `json:"filename"`
	OriginalName string            `json:"original_name"`
	Status       domain.FileStatus `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
}

// upload accepts a multipart spreadsheet, stores it, creates the pending
// upload record, and schedules background processing. It returns before any
// parsing happens; clients poll the detail endpoint for the outcome.
func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, fmt.Sprintf("invalid form data: %v", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, fmt.Sprintf("file required: %v", err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != ".xlsx" {
		http.Error(w, fmt.Sprintf("unsupported file format: %s", ext), http.StatusBadRequest)
		return
	}

	storedName := fmt.Sprintf("%s%s", uuid.New(), filepath.Ext(header.Filename))
	storedPath := filepath.Join(h.uploadsDir, storedName)

	if err := h.saveFile(file, storedPath); err != nil {
		http.Error(w, "failed to store file", http.StatusInternalServerError)
		return
	}

	upload := domain.NewFileUpload(
		storedName,
		header.Filename,
		header.Header.Get("Content-Type"),
		header.Size,
		storedPath,
		userID,
	)
	created, err := h.fileRepo.Create(r.Context(), upload)
	if err != nil {
		if removeErr := os.Remove(storedPath); removeErr != nil {
			log.Printf("[FILES] failed to clean up stored file %s: %v", storedPath, removeErr)
		}
		http.Error(w, "failed to record upload", http.StatusInternalServerError)
		return
	}

	h.scheduler.Schedule(created.ID, storedPath)

	writeJSON(w, http.StatusCreated, uploadResponse{
		ID:           created.ID.String(),
		Filename:     created.Filename,
		OriginalName: created.OriginalName,
		Status:       created.Status,
		CreatedAt:    created.CreatedAt,
	})
}

func (h *Handler) saveFile(src io.Reader, path string) error {
	if err := os.MkdirAll(h.uploadsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create uploads dir: %w", err)
	}

	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

type listResponse struct {
	Files      []domain.FileUpload `json:"files"`
	Pagination pagination          `json:"pagination"`
}

type pagination struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	TotalCount  int `json:"totalCount"`
	PageSize    int `json:"pageSize"`
}

// list returns the caller's uploads, newest first, with page/rows pagination.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("rows"))
	if size < 1 {
		size = 10
	}

	uploads, total, err := h.fileRepo.ListByUser(r.Context(), userID, size, (page-1)*size)
	if err != nil {
		http.Error(w, "failed to retrieve files", http.StatusInternalServerError)
		return
	}

	totalPages := (total + size - 1) / size
	writeJSON(w, http.StatusOK, listResponse{
		Files: uploads,
		Pagination: pagination{
			CurrentPage: page,
			TotalPages:  totalPages,
			TotalCount:  total,
			PageSize:    size,
		},
	})
}

type detailResponse struct {
	domain.FileUpload
	Rows []domain.ContactRow `json:"rows"`
}

// getByID returns one upload with its contact rows in spreadsheet order.
func (h *Handler) getByID(w http.ResponseWriter, r *http.Request, rawID string) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}

	fileID, err := uuid.Parse(rawID)
	if err != nil {
		http.Error(w, "invalid file id", http.StatusBadRequest)
		return
	}

	upload, err := h.fileRepo.GetByIDForUser(r.Context(), fileID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "file not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to retrieve file", http.StatusInternalServerError)
		return
	}

	rows, err := h.rowRepo.ListByFile(r.Context(), fileID)
	if err != nil {
		http.Error(w, "failed to retrieve rows", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, detailResponse{FileUpload: upload, Rows: rows})
}

// deleteByID removes the upload record (rows cascade in the store) and
// best-effort removes the stored file.
func (h *Handler) deleteByID(w http.ResponseWriter, r *http.Request, rawID string) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "user not authenticated", http.StatusUnauthorized)
		return
	}

	fileID, err := uuid.Parse(rawID)
	if err != nil {
		http.Error(w, "invalid file id", http.StatusBadRequest)
		return
	}

	upload, err := h.fileRepo.GetByIDForUser(r.Context(), fileID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "file not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to retrieve file", http.StatusInternalServerError)
		return
	}

	if err := h.fileRepo.Delete(r.Context(), fileID); err != nil {
		http.Error(w, "failed to delete file", http.StatusInternalServerError)
		return
	}

	if _, statErr := os.Stat(upload.FilePath); statErr == nil {
		if removeErr := os.Remove(upload.FilePath); removeErr != nil {
			log.Printf("[FILES] failed to clean up physical file %s: %v", upload.FilePath, removeErr)
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "file deleted successfully"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}

var _ Scheduler = (*ingestion.Scheduler)(nil)
