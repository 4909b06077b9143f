package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/senyabanana/rentr-service/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

var (
	ErrJobNotFound        = errors.New("job not found")
	ErrContractorNotFound = errors.New("contractor not found")
	ErrConflict           = errors.New("job was modified concurrently")
)

// MutateFunc изменяет копию работы. Если функция вернула ошибку, изменения не сохраняются.
type MutateFunc func(job *models.Job) error

// applyMutation применяет mutate и отклоняет результат, нарушающий согласованность статуса.
func applyMutation(job *models.Job, mutate MutateFunc) error {
	if err := mutate(job); err != nil {
		return err
	}
	return job.CheckInvariants()
}

// JobRepository - интерфейс для работы с работами (job).
// UpdateJob и DeleteJob выполняют чтение, проверку и запись как одну операцию для одного ID.
type JobRepository interface {
	ListJobs(ctx context.Context, filter models.JobFilter) ([]models.Job, error)
	GetJob(ctx context.Context, jobId string) (*models.Job, error)
	CreateJob(ctx context.Context, job *models.Job) error
	UpdateJob(ctx context.Context, jobId string, mutate MutateFunc) (*models.Job, error)
	DeleteJob(ctx context.Context, jobId string, check func(job *models.Job) error) error
}

const jobColumns = `id, title, description, type, budget, status, applicants, assigned_to, invoice, version, created_at, updated_at`

// PostgresJobRepository - реализация JobRepository для базы данных.
type PostgresJobRepository struct {
	DB *pgxpool.Pool
}

var _ JobRepository = (*PostgresJobRepository)(nil)

// NewPostgresJobRepository создаёт новый экземпляр PostgresJobRepository.
func NewPostgresJobRepository(db *pgxpool.Pool) *PostgresJobRepository {
	return &PostgresJobRepository{DB: db}
}

// ListJobs возвращает список работ, новые первыми.
func (r *PostgresJobRepository) ListJobs(ctx context.Context, filter models.JobFilter) ([]models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs`
	var filters []string
	var args []interface{}
	argIndex := 1

	if len(filter.Types) > 0 {
		types := make([]string, 0, len(filter.Types))
		for _, t := range filter.Types {
			types = append(types, string(t))
		}
		filters = append(filters, fmt.Sprintf("type = ANY($%d)", argIndex))
		args = append(args, pq.Array(types))
		argIndex++
	}

	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		filters = append(filters, fmt.Sprintf("status = ANY($%d)", argIndex))
		args = append(args, pq.Array(statuses))
		argIndex++
	}

	if len(filters) > 0 {
		query += " WHERE " + strings.Join(filters, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filter.Limit)
		argIndex++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, filter.Offset)
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer rows.Close()

	jobs := []models.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

// GetJob возвращает работу по ID.
func (r *PostgresJobRepository) GetJob(ctx context.Context, jobId string) (*models.Job, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, jobId)
	job, err := scanJob(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrJobNotFound
	}
	return job, err
}

// CreateJob сохраняет новую работу.
func (r *PostgresJobRepository) CreateJob(ctx context.Context, job *models.Job) error {
	applicants, invoice, err := encodeJobDocuments(job)
	if err != nil {
		return err
	}
	_, err = r.DB.Exec(ctx, `
       INSERT INTO jobs (`+jobColumns+`)
       VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
   `,
		job.ID,
		job.Title,
		job.Description,
		job.Type,
		job.Budget,
		job.Status,
		applicants,
		job.AssignedTo,
		invoice,
		job.Version,
		job.CreatedAt,
		job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert job: %w", err)
	}
	return nil
}

// UpdateJob блокирует строку работы (SELECT ... FOR UPDATE), применяет mutate и сохраняет результат.
func (r *PostgresJobRepository) UpdateJob(ctx context.Context, jobId string, mutate MutateFunc) (*models.Job, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	current, err := scanJob(tx.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1 FOR UPDATE`, jobId))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}

	updated := current.Clone()
	if err := applyMutation(updated, mutate); err != nil {
		return nil, err
	}
	updated.ID = current.ID
	updated.CreatedAt = current.CreatedAt
	updated.Version = current.Version + 1
	updated.UpdatedAt = time.Now().UTC()

	applicants, invoice, err := encodeJobDocuments(updated)
	if err != nil {
		return nil, err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE jobs
		SET title = $1, description = $2, type = $3, budget = $4, status = $5,
		    applicants = $6, assigned_to = $7, invoice = $8, version = $9, updated_at = $10
		WHERE id = $11 AND version = $12`,
		updated.Title,
		updated.Description,
		updated.Type,
		updated.Budget,
		updated.Status,
		applicants,
		updated.AssignedTo,
		invoice,
		updated.Version,
		updated.UpdatedAt,
		jobId,
		current.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to update job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrConflict
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit job update: %w", err)
	}
	return updated, nil
}

// DeleteJob удаляет работу, если check не вернул ошибку.
func (r *PostgresJobRepository) DeleteJob(ctx context.Context, jobId string, check func(job *models.Job) error) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	current, err := scanJob(tx.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1 FOR UPDATE`, jobId))
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrJobNotFound
	}
	if err != nil {
		return err
	}
	if check != nil {
		if err := check(current); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, jobId); err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	return tx.Commit(ctx)
}

func scanJob(row pgx.Row) (*models.Job, error) {
	var job models.Job
	var applicants, invoice []byte
	err := row.Scan(
		&job.ID,
		&job.Title,
		&job.Description,
		&job.Type,
		&job.Budget,
		&job.Status,
		&applicants,
		&job.AssignedTo,
		&invoice,
		&job.Version,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	job.Applicants = []models.Application{}
	if len(applicants) > 0 {
		if err := json.Unmarshal(applicants, &job.Applicants); err != nil {
			return nil, fmt.Errorf("failed to decode applicants of job %s: %w", job.ID, err)
		}
	}
	if len(invoice) > 0 {
		var inv models.Invoice
		if err := json.Unmarshal(invoice, &inv); err != nil {
			return nil, fmt.Errorf("failed to decode invoice of job %s: %w", job.ID, err)
		}
		job.Invoice = &inv
	}
	return &job, nil
}

func encodeJobDocuments(job *models.Job) (applicants []byte, invoice []byte, err error) {
	list := job.Applicants
	if list == nil {
		list = []models.Application{}
	}
	applicants, err = json.Marshal(list)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode applicants: %w", err)
	}
	if job.Invoice != nil {
		invoice, err = json.Marshal(job.Invoice)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode invoice: %w", err)
		}
	}
	return applicants, invoice, nil
}
