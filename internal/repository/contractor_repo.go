package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/senyabanana/rentr-service/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ContractorRepository - интерфейс для работы с профилями подрядчиков.
type ContractorRepository interface {
	GetContractor(ctx context.Context, contractorId string) (*models.Contractor, error)
	SaveContractor(ctx context.Context, contractor models.Contractor) error
}

// PostgresContractorRepository - реализация ContractorRepository для базы данных.
type PostgresContractorRepository struct {
	DB *pgxpool.Pool
}

var _ ContractorRepository = (*PostgresContractorRepository)(nil)

// NewPostgresContractorRepository создаёт новый экземпляр PostgresContractorRepository.
func NewPostgresContractorRepository(db *pgxpool.Pool) *PostgresContractorRepository {
	return &PostgresContractorRepository{DB: db}
}

// GetContractor возвращает профиль подрядчика.
func (r *PostgresContractorRepository) GetContractor(ctx context.Context, contractorId string) (*models.Contractor, error) {
	var c models.Contractor
	var history []byte
	query := `SELECT id, name, company, role, location, rating, completed_jobs, bio, skills, history
	          FROM contractors WHERE id = $1`
	err := r.DB.QueryRow(ctx, query, contractorId).Scan(
		&c.ID,
		&c.Name,
		&c.Company,
		&c.Role,
		&c.Location,
		&c.Rating,
		&c.CompletedJobs,
		&c.Bio,
		&c.Skills,
		&history,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrContractorNotFound
	}
	if err != nil {
		return nil, err
	}

	c.History = []models.JobSummary{}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &c.History); err != nil {
			return nil, fmt.Errorf("failed to decode contractor history: %w", err)
		}
	}
	if c.Skills == nil {
		c.Skills = []string{}
	}
	return &c, nil
}

// SaveContractor создаёт или заменяет профиль подрядчика.
func (r *PostgresContractorRepository) SaveContractor(ctx context.Context, c models.Contractor) error {
	history, err := json.Marshal(nonNilHistory(c.History))
	if err != nil {
		return fmt.Errorf("failed to encode contractor history: %w", err)
	}
	skills := c.Skills
	if skills == nil {
		skills = []string{}
	}

	_, err = r.DB.Exec(ctx, `
		INSERT INTO contractors (id, name, company, role, location, rating, completed_jobs, bio, skills, history)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, company = EXCLUDED.company, role = EXCLUDED.role,
			location = EXCLUDED.location, rating = EXCLUDED.rating, completed_jobs = EXCLUDED.completed_jobs,
			bio = EXCLUDED.bio, skills = EXCLUDED.skills, history = EXCLUDED.history`,
		c.ID, c.Name, c.Company, c.Role, c.Location, c.Rating, c.CompletedJobs, c.Bio, skills, history)
	if err != nil {
		return fmt.Errorf("failed to save contractor: %w", err)
	}
	return nil
}

// MemoryContractorRepository - реализация ContractorRepository в памяти.
type MemoryContractorRepository struct {
	mu          sync.RWMutex
	contractors map[string]models.Contractor
}

var _ ContractorRepository = (*MemoryContractorRepository)(nil)

// NewMemoryContractorRepository создаёт пустое хранилище профилей.
func NewMemoryContractorRepository() *MemoryContractorRepository {
	return &MemoryContractorRepository{contractors: make(map[string]models.Contractor)}
}

// GetContractor возвращает профиль подрядчика.
func (r *MemoryContractorRepository) GetContractor(_ context.Context, contractorId string) (*models.Contractor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.contractors[contractorId]
	if !ok {
		return nil, ErrContractorNotFound
	}
	c.History = append([]models.JobSummary{}, nonNilHistory(c.History)...)
	c.Skills = append([]string{}, c.Skills...)
	return &c, nil
}

// SaveContractor создаёт или заменяет профиль подрядчика.
func (r *MemoryContractorRepository) SaveContractor(_ context.Context, c models.Contractor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contractors[c.ID] = c
	return nil
}

func nonNilHistory(h []models.JobSummary) []models.JobSummary {
	if h == nil {
		return []models.JobSummary{}
	}
	return h
}
