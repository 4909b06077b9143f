package services

import (
	"strings"

	"github.com/senyabanana/rentr-service/internal/models"
	"github.com/senyabanana/rentr-service/internal/utils"
)

// allowedStatusTransition - единственные допустимые переходы. Путь строго линейный, Paid - конечный статус.
var allowedStatusTransition = map[models.JobStatus][]models.JobStatus{
	models.OpenJob:       {models.AssignedJob},
	models.AssignedJob:   {models.InProgressJob},
	models.InProgressJob: {models.CompletedJob},
	models.CompletedJob:  {models.InvoicedJob},
	models.InvoicedJob:   {models.PaidJob},
	models.PaidJob:       {},
}

// Статусы, которые можно выставить через UpdateJobStatus. Остальные переходы имеют собственные операции.
var callerDrivenStatuses = []models.JobStatus{models.InProgressJob, models.CompletedJob}

// CanTransition сообщает, разрешён ли переход from -> to.
func CanTransition(from, to models.JobStatus) bool {
	return utils.Contains(allowedStatusTransition[from], to)
}

// NextStatuses возвращает статусы, достижимые из текущего за один шаг.
func NextStatuses(from models.JobStatus) []models.JobStatus {
	return append([]models.JobStatus(nil), allowedStatusTransition[from]...)
}

func describeStatuses(statuses []models.JobStatus) string {
	if len(statuses) == 0 {
		return "none"
	}
	names := make([]string, 0, len(statuses))
	for _, st := range statuses {
		names = append(names, string(st))
	}
	return strings.Join(names, ", ")
}

func requireStatus(job *models.Job, want models.JobStatus, verb string) error {
	if job.Status != want {
		return models.NewInvalidState("cannot %s job %s: status is %s, expected %s", verb, job.ID, job.Status, want)
	}
	return nil
}

func statusAction(status models.JobStatus) models.JobAction {
	switch status {
	case models.InProgressJob:
		return models.ActionStarted
	case models.CompletedJob:
		return models.ActionCompleted
	default:
		return models.JobAction("status")
	}
}
