package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type (
	JobType   string // Категория работы
	JobStatus string // Статус работы
)

const (
	Plumbing   JobType = "Plumbing"
	Electrical JobType = "Electrical"
	Carpentry  JobType = "Carpentry"
	HVAC       JobType = "HVAC"
	General    JobType = "General"

	OpenJob       JobStatus = "Open"        // Работа опубликована и принимает заявки
	AssignedJob   JobStatus = "Assigned"    // Исполнитель выбран
	InProgressJob JobStatus = "In Progress" // Работа начата
	CompletedJob  JobStatus = "Completed"   // Работа завершена
	InvoicedJob   JobStatus = "Invoiced"    // Счёт выставлен
	PaidJob       JobStatus = "Paid"        // Счёт оплачен
)

// JobTypes - все допустимые категории работ.
var JobTypes = []JobType{Plumbing, Electrical, Carpentry, HVAC, General}

// JobStatuses - все статусы в порядке жизненного цикла.
var JobStatuses = []JobStatus{OpenJob, AssignedJob, InProgressJob, CompletedJob, InvoicedJob, PaidJob}

// ParseJobType возвращает категорию работы. Неизвестные значения приводятся к General.
func ParseJobType(s string) JobType {
	for _, t := range JobTypes {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t
		}
	}
	return General
}

// ParseJobStatus разбирает статус, пришедший извне.
func ParseJobStatus(s string) (JobStatus, bool) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "InProgress") {
		return InProgressJob, true
	}
	for _, st := range JobStatuses {
		if strings.EqualFold(string(st), s) {
			return st, true
		}
	}
	return "", false
}

// HasAssignee сообщает, должен ли в этом статусе быть назначен исполнитель.
func (s JobStatus) HasAssignee() bool {
	return s != OpenJob && s != ""
}

// HasInvoice сообщает, должен ли в этом статусе существовать счёт.
func (s JobStatus) HasInvoice() bool {
	return s == InvoicedJob || s == PaidJob
}

// ErrJobInvariant - исполнитель или счёт не соответствуют статусу работы.
var ErrJobInvariant = errors.New("job invariant violated")

// Job представляет модель работы.
type Job struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Type        JobType       `json:"type"`
	Budget      int64         `json:"budget"`
	Status      JobStatus     `json:"status"`
	Applicants  []Application `json:"applicants"`
	AssignedTo  *string       `json:"assignedTo"`
	Invoice     *Invoice      `json:"invoice"`
	Version     int           `json:"version"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// FindApplicant ищет заявку по ID.
func (j *Job) FindApplicant(applicantID string) (*Application, bool) {
	for i := range j.Applicants {
		if j.Applicants[i].ID == applicantID {
			return &j.Applicants[i], true
		}
	}
	return nil, false
}

// CheckInvariants проверяет, что исполнитель назначен начиная с Assigned, а счёт есть только у Invoiced и Paid.
func (j *Job) CheckInvariants() error {
	if j.Status.HasAssignee() != (j.AssignedTo != nil) {
		return fmt.Errorf("%w: job %s in status %s has assignedTo=%t", ErrJobInvariant, j.ID, j.Status, j.AssignedTo != nil)
	}
	if j.Status.HasInvoice() != (j.Invoice != nil) {
		return fmt.Errorf("%w: job %s in status %s has invoice=%t", ErrJobInvariant, j.ID, j.Status, j.Invoice != nil)
	}
	return nil
}

// Clone возвращает глубокую копию работы.
func (j *Job) Clone() *Job {
	c := *j
	c.Applicants = make([]Application, len(j.Applicants))
	copy(c.Applicants, j.Applicants)
	if j.AssignedTo != nil {
		name := *j.AssignedTo
		c.AssignedTo = &name
	}
	if j.Invoice != nil {
		inv := *j.Invoice
		c.Invoice = &inv
	}
	return &c
}

// Application представляет заявку подрядчика на работу.
type Application struct {
	ID           string    `json:"id"`
	ContractorID string    `json:"contractorId"`
	Name         string    `json:"name"`
	Bid          int64     `json:"bid"`
	Proposal     string    `json:"proposal"`
	Date         time.Time `json:"date"`
}

// Invoice представляет счёт за выполненную работу.
type Invoice struct {
	ID     string    `json:"id"`
	Amount int64     `json:"amount"`
	Notes  string    `json:"notes"`
	Date   time.Time `json:"date"`
}

// JobRequest представляет структуру запроса для создания работы.
type JobRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Budget      *Amount `json:"budget"`
}

// JobUpdate - частичное изменение работы. Остальные поля тела запроса игнорируются.
type JobUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Type        *string `json:"type"`
	Budget      *Amount `json:"budget"`
}

// Empty сообщает, что в запросе нет ни одного изменяемого поля.
func (u JobUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Type == nil && u.Budget == nil
}

// ApplicationRequest - тело запроса на отклик.
type ApplicationRequest struct {
	ContractorName string  `json:"contractorName"`
	ContractorID   string  `json:"contractorId"`
	Bid            *Amount `json:"bid"`
	Proposal       string  `json:"proposal"`
}

// AssignRequest - тело запроса на назначение исполнителя.
type AssignRequest struct {
	ApplicantID    string `json:"applicantId"`
	ContractorName string `json:"contractorName"`
}

// StatusRequest - тело запроса на смену статуса.
type StatusRequest struct {
	Status string `json:"status"`
}

// InvoiceRequest - тело запроса на выставление счёта. Дата всегда берётся серверная.
type InvoiceRequest struct {
	Amount *Amount `json:"amount"`
	Notes  string  `json:"notes"`
	Date   string  `json:"date"`
}

// JobFilter - параметры выборки списка работ.
type JobFilter struct {
	Types    []JobType
	Statuses []JobStatus
	Limit    int // 0 - без ограничения
	Offset   int
}

// Matches проверяет работу на соответствие фильтру (без учёта limit/offset).
func (f JobFilter) Matches(j *Job) bool {
	if len(f.Types) > 0 && !contains(f.Types, j.Type) {
		return false
	}
	if len(f.Statuses) > 0 && !contains(f.Statuses, j.Status) {
		return false
	}
	return true
}

func contains[T comparable](items []T, v T) bool {
	for _, it := range items {
		if it == v {
			return true
		}
	}
	return false
}

// JobActionResponse - ответ на действие, меняющее работу.
type JobActionResponse struct {
	Success bool `json:"success"`
	Job     *Job `json:"job"`
}

// ApplicationResponse - ответ на отклик.
type ApplicationResponse struct {
	Success     bool         `json:"success"`
	Application *Application `json:"application"`
}

// InvoiceResponse - ответ на выставление счёта.
type InvoiceResponse struct {
	Success bool     `json:"success"`
	Invoice *Invoice `json:"invoice"`
}

// SuccessResponse - ответ без данных.
type SuccessResponse struct {
	Success bool `json:"success"`
}
