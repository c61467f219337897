package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"slide-coach/internal/models"

	"github.com/google/uuid"
)

// JobStore manages a persistent queue of alignment jobs so the worker
// can pick up pending work across restarts. Completed reports are
// written alongside as individual JSON files.
type JobStore struct {
	dir      string
	filePath string
	jobs     map[string]*models.AlignmentJob
	mu       sync.RWMutex
	maxAge   time.Duration
}

// NewJobStore opens (or creates) the job store under dataDir. Terminal
// jobs older than maxAge are dropped on load.
func NewJobStore(dataDir string, maxAge time.Duration) (*JobStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	store := &JobStore{
		dir:      dataDir,
		filePath: filepath.Join(dataDir, "alignment_jobs.json"),
		jobs:     make(map[string]*models.AlignmentJob),
		maxAge:   maxAge,
	}

	if err := store.load(); err != nil {
		return nil, fmt.Errorf("failed to load job store: %w", err)
	}
	store.cleanup()

	return store, nil
}

// Enqueue adds a new pending job and persists it.
func (s *JobStore) Enqueue(script string, slides []models.SlideInput) (*models.AlignmentJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job := &models.AlignmentJob{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Script:    script,
		Slides:    slides,
		Status:    models.JobPending,
	}
	s.jobs[job.ID] = job

	if err := s.save(); err != nil {
		delete(s.jobs, job.ID)
		return nil, err
	}
	return job, nil
}

// Pending returns pending jobs in creation order.
func (s *JobStore) Pending() []*models.AlignmentJob {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var pending []*models.AlignmentJob
	for _, job := range s.jobs {
		if job.Status == models.JobPending {
			pending = append(pending, job)
		}
	}
	sortJobs(pending)
	return pending
}

// Count returns the number of tracked jobs.
func (s *JobStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

// MarkDone marks a job complete and persists the change.
func (s *JobStore) MarkDone(id string) error {
	return s.setStatus(id, models.JobDone, "")
}

// MarkFailed marks a job failed with its error message.
func (s *JobStore) MarkFailed(id string, reason string) error {
	return s.setStatus(id, models.JobFailed, reason)
}

func (s *JobStore) setStatus(id string, status models.JobStatus, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return fmt.Errorf("unknown job %s", id)
	}
	job.Status = status
	job.Error = reason
	return s.save()
}

// SaveReport writes a completed alignment report next to the queue.
func (s *JobStore) SaveReport(report *models.AlignmentReport) error {
	path := filepath.Join(s.dir, fmt.Sprintf("report_%s.json", report.JobID))

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

// cleanup drops terminal jobs older than maxAge. Pending jobs are
// never dropped, however old.
func (s *JobStore) cleanup() {
	cutoff := time.Now().Add(-s.maxAge)
	for id, job := range s.jobs {
		if job.Status != models.JobPending && job.CreatedAt.Before(cutoff) {
			delete(s.jobs, id)
		}
	}
}

func (s *JobStore) load() error {
	file, err := os.Open(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open job file: %w", err)
	}
	defer file.Close()

	var jobs []*models.AlignmentJob
	if err := json.NewDecoder(file).Decode(&jobs); err != nil {
		return fmt.Errorf("failed to decode job data: %w", err)
	}

	for _, job := range jobs {
		s.jobs[job.ID] = job
	}
	return nil
}

func (s *JobStore) save() error {
	jobs := make([]*models.AlignmentJob, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, job)
	}
	sortJobs(jobs)

	file, err := os.Create(s.filePath)
	if err != nil {
		return fmt.Errorf("failed to create job file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(jobs)
}

func sortJobs(jobs []*models.AlignmentJob) {
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.Before(jobs[j].CreatedAt)
	})
}
