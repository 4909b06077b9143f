package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/senyabanana/rentr-service/internal/models"
)

type memoryEntry struct {
	mu      sync.Mutex
	job     *models.Job
	deleted bool
}

// MemoryJobRepository - реализация JobRepository в памяти процесса.
// Каждая работа защищена собственным мьютексом, общий мьютекс охраняет только индекс.
type MemoryJobRepository struct {
	mu   sync.RWMutex
	jobs map[string]*memoryEntry
}

var _ JobRepository = (*MemoryJobRepository)(nil)

// NewMemoryJobRepository создаёт пустое хранилище.
func NewMemoryJobRepository() *MemoryJobRepository {
	return &MemoryJobRepository{jobs: make(map[string]*memoryEntry)}
}

// ListJobs возвращает список работ, новые первыми.
func (r *MemoryJobRepository) ListJobs(_ context.Context, filter models.JobFilter) ([]models.Job, error) {
	r.mu.RLock()
	entries := make([]*memoryEntry, 0, len(r.jobs))
	for _, e := range r.jobs {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	jobs := make([]models.Job, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		if !e.deleted && filter.Matches(e.job) {
			jobs = append(jobs, *e.job.Clone())
		}
		e.mu.Unlock()
	}
	return paginate(sortJobs(jobs), filter), nil
}

// GetJob возвращает работу по ID.
func (r *MemoryJobRepository) GetJob(_ context.Context, jobId string) (*models.Job, error) {
	e, ok := r.entry(jobId)
	if !ok {
		return nil, ErrJobNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.deleted {
		return nil, ErrJobNotFound
	}
	return e.job.Clone(), nil
}

// CreateJob сохраняет новую работу.
func (r *MemoryJobRepository) CreateJob(_ context.Context, job *models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.jobs[job.ID]; exists {
		return ErrConflict
	}
	r.jobs[job.ID] = &memoryEntry{job: job.Clone()}
	return nil
}

// UpdateJob применяет mutate под мьютексом работы.
func (r *MemoryJobRepository) UpdateJob(_ context.Context, jobId string, mutate MutateFunc) (*models.Job, error) {
	e, ok := r.entry(jobId)
	if !ok {
		return nil, ErrJobNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.deleted {
		return nil, ErrJobNotFound
	}

	updated := e.job.Clone()
	if err := applyMutation(updated, mutate); err != nil {
		return nil, err
	}
	updated.ID = e.job.ID
	updated.CreatedAt = e.job.CreatedAt
	updated.Version = e.job.Version + 1
	updated.UpdatedAt = time.Now().UTC()

	e.job = updated
	return updated.Clone(), nil
}

// DeleteJob удаляет работу, если check не вернул ошибку.
func (r *MemoryJobRepository) DeleteJob(_ context.Context, jobId string, check func(job *models.Job) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.jobs[jobId]
	if !ok {
		return ErrJobNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if check != nil {
		if err := check(e.job.Clone()); err != nil {
			return err
		}
	}
	e.deleted = true
	delete(r.jobs, jobId)
	return nil
}

func (r *MemoryJobRepository) entry(jobId string) (*memoryEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.jobs[jobId]
	return e, ok
}

func sortJobs(jobs []models.Job) []models.Job {
	sort.SliceStable(jobs, func(i, j int) bool {
		if !jobs[i].CreatedAt.Equal(jobs[j].CreatedAt) {
			return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
		}
		return jobs[i].ID > jobs[j].ID
	})
	return jobs
}

func paginate(jobs []models.Job, filter models.JobFilter) []models.Job {
	if filter.Offset > 0 {
		if filter.Offset >= len(jobs) {
			return []models.Job{}
		}
		jobs = jobs[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(jobs) {
		jobs = jobs[:filter.Limit]
	}
	return jobs
}
