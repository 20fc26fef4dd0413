package ingestion

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"
)

// FileProcessor runs one file through its processing lifecycle.
type FileProcessor interface {
	Process(ctx context.Context, fileID uuid.UUID, path string) error
}

// job pairs an upload record with the location of its stored file.
type job struct {
	fileID uuid.UUID
	path   string
}

// Scheduler runs file processing off the request path on a pool of worker
// goroutines. Errors and panics escaping the processor are logged here and
// never reach the submitter.
type Scheduler struct {
	processor FileProcessor
	jobs      chan job
	wg        sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewScheduler creates a scheduler with the given worker count and queue
// capacity and starts its workers.
func NewScheduler(processor FileProcessor, workers, queueSize int) *Scheduler {
	if workers <= 0 {
		workers = 2
	}
	if queueSize <= 0 {
		queueSize = 64
	}

	s := &Scheduler{
		processor: processor,
		jobs:      make(chan job, queueSize),
	}
	for i := 0; i < workers; i++ {
		s.wg.Add(1)
		go s.worker(i + 1)
	}
	return s
}

// Schedule enqueues a file for background processing and returns immediately.
// When the queue is full the hand-off moves to its own goroutine so the
// submitting request is never blocked. A failed job stays failed; there is no
// retry, re-processing requires a new upload.
func (s *Scheduler) Schedule(fileID uuid.UUID, path string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		log.Printf("[SCHEDULER] rejected file %s: scheduler stopped", fileID)
		return
	}
	s.mu.Unlock()

	j := job{fileID: fileID, path: path}
	select {
	case s.jobs <- j:
	default:
		go func() {
			// A send can race with Stop closing the queue; an upload
			// dropped during shutdown stays pending, which is visible
			// to the uploader.
			defer func() {
				if r := recover(); r != nil {
					log.Printf("[SCHEDULER] dropped file %s: scheduler stopped", j.fileID)
				}
			}()
			s.jobs <- j
		}()
	}
}

// Stop closes the queue and waits for in-flight jobs to reach a terminal
// state. Jobs already queued still run.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.jobs)
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()
	for j := range s.jobs {
		s.run(id, j)
	}
}

// run executes one job inside the scheduler's isolation boundary: whatever
// escapes the processor is observed and dropped.
func (s *Scheduler) run(workerID int, j job) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[SCHEDULER] worker %d: panic while processing file %s: %v", workerID, j.fileID, r)
		}
	}()

	if err := s.processor.Process(context.Background(), j.fileID, j.path); err != nil {
		log.Printf("[SCHEDULER] worker %d: background processing failed for file %s: %v", workerID, j.fileID, err)
	}
}
