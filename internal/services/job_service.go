package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/senyabanana/rentr-service/internal/events"
	"github.com/senyabanana/rentr-service/internal/logger"
	"github.com/senyabanana/rentr-service/internal/metrics"
	"github.com/senyabanana/rentr-service/internal/models"
	"github.com/senyabanana/rentr-service/internal/repository"
	"github.com/senyabanana/rentr-service/internal/utils"

	"github.com/google/uuid"
)

// Policy - настраиваемые ограничения сервиса поверх жизненного цикла.
type Policy struct {
	EditOpenOnly       bool // Редактирование только открытых работ
	DeleteOpenOnly     bool // Удаление только открытых работ
	UniqueApplications bool // Не больше одной заявки подрядчика на работу
}

// Option настраивает JobService.
type Option func(*JobService)

// WithPublisher задаёт получателя событий.
func WithPublisher(p events.Publisher) Option {
	return func(s *JobService) { s.publisher = p }
}

// WithMetrics задаёт метрики.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *JobService) { s.metrics = m }
}

// WithLogger задаёт логгер.
func WithLogger(l *slog.Logger) Option {
	return func(s *JobService) { s.logger = l }
}

// WithPolicy задаёт ограничения редактирования, удаления и откликов.
func WithPolicy(p Policy) Option {
	return func(s *JobService) { s.policy = p }
}

// WithClock подменяет источник времени.
func WithClock(now func() time.Time) Option {
	return func(s *JobService) { s.now = now }
}

type JobService struct {
	Repo        repository.JobRepository
	Contractors repository.ContractorRepository

	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
	policy    Policy
	now       func() time.Time
}

// NewJobService создаёт новый экземпляр JobService.
func NewJobService(repo repository.JobRepository, contractors repository.ContractorRepository, opts ...Option) *JobService {
	s := &JobService{
		Repo:        repo,
		Contractors: contractors,
		publisher:   events.NoopPublisher{},
		logger:      slog.Default(),
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListJobs получает список работ.
func (s *JobService) ListJobs(ctx context.Context, filter models.JobFilter) ([]models.Job, error) {
	jobs, err := s.Repo.ListJobs(ctx, filter)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return jobs, nil
}

// GetJob получает работу по ID.
func (s *JobService) GetJob(ctx context.Context, jobId string) (*models.Job, error) {
	job, err := s.Repo.GetJob(ctx, jobId)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return job, nil
}

// CreateJob создает новую работу в статусе Open.
func (s *JobService) CreateJob(ctx context.Context, jobReq models.JobRequest) (job *models.Job, err error) {
	defer func() { s.observe(models.ActionCreated, err) }()

	title := strings.TrimSpace(jobReq.Title)
	description := strings.TrimSpace(jobReq.Description)
	if title == "" || description == "" {
		return nil, models.NewValidationError("missing required fields: title and description")
	}
	if jobReq.Budget == nil {
		return nil, models.NewValidationError("missing required field: budget")
	}
	if *jobReq.Budget < 0 {
		return nil, models.NewValidationError("budget must be a non-negative integer")
	}

	now := s.now()
	job = &models.Job{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		Type:        models.ParseJobType(jobReq.Type),
		Budget:      jobReq.Budget.Int64(),
		Status:      models.OpenJob,
		Applicants:  []models.Application{},
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err = s.Repo.CreateJob(ctx, job); err != nil {
		return nil, mapRepoError(err)
	}

	s.publish(ctx, models.JobEvent{Action: models.ActionCreated, JobID: job.ID, Status: job.Status, Amount: job.Budget})
	return job, nil
}

// Apply добавляет заявку подрядчика к открытой работе.
func (s *JobService) Apply(ctx context.Context, jobId string, appReq models.ApplicationRequest) (app *models.Application, err error) {
	defer func() { s.observe(models.ActionApplied, err) }()

	if appReq.Bid == nil {
		return nil, models.NewValidationError("missing required field: bid")
	}
	if *appReq.Bid < 0 {
		return nil, models.NewValidationError("bid must be a non-negative integer")
	}

	name := strings.TrimSpace(appReq.ContractorName)
	contractorId := strings.TrimSpace(appReq.ContractorID)
	if name == "" && contractorId != "" {
		contractor, err := s.Contractors.GetContractor(ctx, contractorId)
		if err != nil {
			return nil, mapRepoError(err)
		}
		name = contractor.Name
	}
	if name == "" {
		return nil, models.NewValidationError("missing required field: contractorName")
	}

	app = &models.Application{
		ID:           uuid.New().String(),
		ContractorID: contractorId,
		Name:         name,
		Bid:          appReq.Bid.Int64(),
		Proposal:     strings.TrimSpace(appReq.Proposal),
		Date:         s.now(),
	}

	job, err := s.Repo.UpdateJob(ctx, jobId, func(job *models.Job) error {
		if err := requireStatus(job, models.OpenJob, "apply to"); err != nil {
			return err
		}
		if s.policy.UniqueApplications {
			for _, existing := range job.Applicants {
				if strings.EqualFold(existing.Name, name) {
					return models.NewConflict("%s has already applied to job %s", name, job.ID)
				}
			}
		}
		job.Applicants = append(job.Applicants, *app)
		return nil
	})
	if err != nil {
		return nil, mapRepoError(err)
	}

	s.publish(ctx, models.JobEvent{Action: models.ActionApplied, JobID: job.ID, Status: job.Status, Amount: app.Bid})
	return app, nil
}

// Assign назначает исполнителем одного из откликнувшихся подрядчиков.
func (s *JobService) Assign(ctx context.Context, jobId, applicantId string) (job *models.Job, err error) {
	defer func() { s.observe(models.ActionAssigned, err) }()

	if strings.TrimSpace(applicantId) == "" {
		return nil, models.NewValidationError("missing required field: applicantId")
	}

	job, err = s.Repo.UpdateJob(ctx, jobId, func(job *models.Job) error {
		if err := requireStatus(job, models.OpenJob, "assign"); err != nil {
			return err
		}
		applicant, ok := job.FindApplicant(applicantId)
		if !ok {
			return models.NewNotFound("applicant %s not found for job %s", applicantId, job.ID)
		}
		name := applicant.Name
		job.Status = models.AssignedJob
		job.AssignedTo = &name
		return nil
	})
	if err != nil {
		return nil, mapRepoError(err)
	}

	s.publish(ctx, models.JobEvent{Action: models.ActionAssigned, JobID: job.ID, Status: job.Status, AssignedTo: *job.AssignedTo})
	return job, nil
}

// UpdateJobStatus переводит работу в InProgress или Completed.
func (s *JobService) UpdateJobStatus(ctx context.Context, jobId, status string) (job *models.Job, err error) {
	target, ok := models.ParseJobStatus(status)
	action := statusAction(target)
	defer func() { s.observe(action, err) }()

	if !ok {
		return nil, models.NewValidationError("invalid job status: %q", status)
	}
	if !utils.Contains(callerDrivenStatuses, target) {
		return nil, models.NewInvalidTransition("status %s cannot be set directly", target)
	}

	job, err = s.Repo.UpdateJob(ctx, jobId, func(job *models.Job) error {
		if !CanTransition(job.Status, target) {
			return models.NewInvalidTransition("cannot move job %s from %s to %s, allowed next: %s",
				job.ID, job.Status, target, describeStatuses(NextStatuses(job.Status)))
		}
		job.Status = target
		return nil
	})
	if err != nil {
		return nil, mapRepoError(err)
	}

	s.publish(ctx, models.JobEvent{Action: action, JobID: job.ID, Status: job.Status, AssignedTo: derefString(job.AssignedTo)})
	return job, nil
}

// SubmitInvoice выставляет счёт по завершённой работе.
func (s *JobService) SubmitInvoice(ctx context.Context, jobId string, invoiceReq models.InvoiceRequest) (invoice *models.Invoice, err error) {
	defer func() { s.observe(models.ActionInvoiced, err) }()

	if invoiceReq.Amount == nil {
		return nil, models.NewValidationError("missing required field: amount")
	}
	if *invoiceReq.Amount < 0 {
		return nil, models.NewValidationError("amount must be a non-negative integer")
	}

	now := s.now()
	invoice = &models.Invoice{
		ID:     invoiceID(now),
		Amount: invoiceReq.Amount.Int64(),
		Notes:  strings.TrimSpace(invoiceReq.Notes),
		Date:   now,
	}

	job, err := s.Repo.UpdateJob(ctx, jobId, func(job *models.Job) error {
		if err := requireStatus(job, models.CompletedJob, "invoice"); err != nil {
			return err
		}
		inv := *invoice
		job.Invoice = &inv
		job.Status = models.InvoicedJob
		return nil
	})
	if err != nil {
		return nil, mapRepoError(err)
	}

	s.publish(ctx, models.JobEvent{Action: models.ActionInvoiced, JobID: job.ID, Status: job.Status, AssignedTo: derefString(job.AssignedTo), Amount: invoice.Amount})
	return invoice, nil
}

// PayInvoice оплачивает выставленный счёт.
func (s *JobService) PayInvoice(ctx context.Context, jobId string) (job *models.Job, err error) {
	defer func() { s.observe(models.ActionPaid, err) }()

	job, err = s.Repo.UpdateJob(ctx, jobId, func(job *models.Job) error {
		if err := requireStatus(job, models.InvoicedJob, "pay for"); err != nil {
			return err
		}
		job.Status = models.PaidJob
		return nil
	})
	if err != nil {
		return nil, mapRepoError(err)
	}

	var amount int64
	if job.Invoice != nil {
		amount = job.Invoice.Amount
	}
	s.publish(ctx, models.JobEvent{Action: models.ActionPaid, JobID: job.ID, Status: job.Status, AssignedTo: derefString(job.AssignedTo), Amount: amount})
	return job, nil
}

// EditJob меняет описание работы.
func (s *JobService) EditJob(ctx context.Context, jobId string, update models.JobUpdate) (job *models.Job, err error) {
	defer func() { s.observe(models.ActionUpdated, err) }()

	if update.Empty() {
		return nil, models.NewValidationError("no valid fields to update")
	}
	if update.Title != nil && strings.TrimSpace(*update.Title) == "" {
		return nil, models.NewValidationError("title must not be empty")
	}
	if update.Description != nil && strings.TrimSpace(*update.Description) == "" {
		return nil, models.NewValidationError("description must not be empty")
	}
	if update.Budget != nil && *update.Budget < 0 {
		return nil, models.NewValidationError("budget must be a non-negative integer")
	}

	job, err = s.Repo.UpdateJob(ctx, jobId, func(job *models.Job) error {
		if s.policy.EditOpenOnly {
			if err := requireStatus(job, models.OpenJob, "edit"); err != nil {
				return err
			}
		}
		if update.Title != nil {
			job.Title = strings.TrimSpace(*update.Title)
		}
		if update.Description != nil {
			job.Description = strings.TrimSpace(*update.Description)
		}
		if update.Type != nil {
			job.Type = models.ParseJobType(*update.Type)
		}
		if update.Budget != nil {
			job.Budget = update.Budget.Int64()
		}
		return nil
	})
	if err != nil {
		return nil, mapRepoError(err)
	}

	s.publish(ctx, models.JobEvent{Action: models.ActionUpdated, JobID: job.ID, Status: job.Status})
	return job, nil
}

// DeleteJob удаляет работу.
func (s *JobService) DeleteJob(ctx context.Context, jobId string) (err error) {
	defer func() { s.observe(models.ActionDeleted, err) }()

	err = s.Repo.DeleteJob(ctx, jobId, func(job *models.Job) error {
		if s.policy.DeleteOpenOnly {
			return requireStatus(job, models.OpenJob, "delete")
		}
		return nil
	})
	if err != nil {
		return mapRepoError(err)
	}

	s.publish(ctx, models.JobEvent{Action: models.ActionDeleted, JobID: jobId})
	return nil
}

func (s *JobService) publish(ctx context.Context, event models.JobEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.now()
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.FromContext(ctx, s.logger).Warn("failed to publish job event",
			"action", event.Action, "job_id", event.JobID, "error", err)
	}
}

func (s *JobService) observe(action models.JobAction, err error) {
	result := "ok"
	if err != nil {
		var errorResponse *models.ErrorResponse
		if errors.As(err, &errorResponse) {
			result = string(errorResponse.Kind)
		} else {
			result = string(models.Internal)
		}
	}
	s.metrics.ObserveAction(string(action), result)
}

// mapRepoError переводит ошибки хранилища в ошибки API. Ошибки, уже имеющие категорию, не меняются.
func mapRepoError(err error) error {
	var errorResponse *models.ErrorResponse
	switch {
	case errors.As(err, &errorResponse):
		return errorResponse
	case errors.Is(err, repository.ErrJobNotFound):
		return models.NewNotFound("job not found")
	case errors.Is(err, repository.ErrContractorNotFound):
		return models.NewNotFound("contractor not found")
	case errors.Is(err, repository.ErrConflict):
		return models.NewConflict("job was modified concurrently, retry the request")
	default:
		return fmt.Errorf("storage error: %w", err)
	}
}

func invoiceID(now time.Time) string {
	return fmt.Sprintf("INV-%06d", now.UnixMilli()%1_000_000)
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
