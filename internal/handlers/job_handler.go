package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/senyabanana/rentr-service/internal/logger"
	"github.com/senyabanana/rentr-service/internal/models"
	"github.com/senyabanana/rentr-service/internal/services"
	"github.com/senyabanana/rentr-service/internal/utils"
)

// JobHandler - структура для обработки HTTP-запросов к работам.
type JobHandler struct {
	Service *services.JobService
	Logger  *slog.Logger
	Timeout time.Duration
}

// NewJobHandler создаёт новый экземпляр JobHandler.
func NewJobHandler(service *services.JobService, logger *slog.Logger, timeout time.Duration) *JobHandler {
	return &JobHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// ListJobs обрабатывает запросы для получения списка работ.
func (h *JobHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	filter, err := utils.ParseJobFilter(r)
	if err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	jobs, err := h.Service.ListJobs(ctx, filter)
	if err != nil {
		h.sendError(w, r, err, "failed to fetch jobs")
		return
	}

	utils.SendJSON(w, http.StatusOK, jobs)
}

// GetJob обрабатывает запросы для получения работы по ID.
func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	job, err := h.Service.GetJob(ctx, r.PathValue("jobId"))
	if err != nil {
		h.sendError(w, r, err, "failed to fetch job")
		return
	}

	utils.SendJSON(w, http.StatusOK, job)
}

// CreateJob обрабатывает запросы для создания работы.
func (h *JobHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var jobReq models.JobRequest
	if err := decodeBody(w, r, &jobReq); err != nil {
		utils.SendError(w, err)
		return
	}

	job, err := h.Service.CreateJob(ctx, jobReq)
	if err != nil {
		h.sendError(w, r, err, "failed to create job")
		return
	}

	utils.SendJSON(w, http.StatusCreated, job)
}

// ApplyToJob обрабатывает отклик подрядчика на работу.
func (h *JobHandler) ApplyToJob(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var appReq models.ApplicationRequest
	if err := decodeBody(w, r, &appReq); err != nil {
		utils.SendError(w, err)
		return
	}

	app, err := h.Service.Apply(ctx, r.PathValue("jobId"), appReq)
	if err != nil {
		h.sendError(w, r, err, "failed to apply to job")
		return
	}

	utils.SendJSON(w, http.StatusOK, models.ApplicationResponse{Success: true, Application: app})
}

// AssignJob обрабатывает назначение исполнителя.
func (h *JobHandler) AssignJob(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var assignReq models.AssignRequest
	if err := decodeBody(w, r, &assignReq); err != nil {
		utils.SendError(w, err)
		return
	}

	job, err := h.Service.Assign(ctx, r.PathValue("jobId"), assignReq.ApplicantID)
	if err != nil {
		h.sendError(w, r, err, "failed to assign job")
		return
	}

	utils.SendJSON(w, http.StatusOK, models.JobActionResponse{Success: true, Job: job})
}

// UpdateJobStatus обрабатывает смену статуса на "In Progress" или "Completed".
func (h *JobHandler) UpdateJobStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var statusReq models.StatusRequest
	if err := decodeBody(w, r, &statusReq); err != nil {
		utils.SendError(w, err)
		return
	}
	if statusReq.Status == "" {
		utils.SendErrorResponse(w, http.StatusBadRequest, "missing required field: status")
		return
	}

	job, err := h.Service.UpdateJobStatus(ctx, r.PathValue("jobId"), statusReq.Status)
	if err != nil {
		h.sendError(w, r, err, "failed to update job status")
		return
	}

	utils.SendJSON(w, http.StatusOK, models.JobActionResponse{Success: true, Job: job})
}

// SubmitInvoice обрабатывает выставление счёта.
func (h *JobHandler) SubmitInvoice(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var invoiceReq models.InvoiceRequest
	if err := decodeBody(w, r, &invoiceReq); err != nil {
		utils.SendError(w, err)
		return
	}

	invoice, err := h.Service.SubmitInvoice(ctx, r.PathValue("jobId"), invoiceReq)
	if err != nil {
		h.sendError(w, r, err, "failed to submit invoice")
		return
	}

	utils.SendJSON(w, http.StatusOK, models.InvoiceResponse{Success: true, Invoice: invoice})
}

// PayInvoice обрабатывает оплату счёта. Тело запроса не требуется.
func (h *JobHandler) PayInvoice(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	job, err := h.Service.PayInvoice(ctx, r.PathValue("jobId"))
	if err != nil {
		h.sendError(w, r, err, "failed to pay invoice")
		return
	}

	utils.SendJSON(w, http.StatusOK, models.JobActionResponse{Success: true, Job: job})
}

// EditJob обрабатывает частичное изменение работы.
func (h *JobHandler) EditJob(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var update models.JobUpdate
	if err := decodeBody(w, r, &update); err != nil {
		utils.SendError(w, err)
		return
	}

	job, err := h.Service.EditJob(ctx, r.PathValue("jobId"), update)
	if err != nil {
		h.sendError(w, r, err, "failed to edit job")
		return
	}

	utils.SendJSON(w, http.StatusOK, job)
}

// DeleteJob обрабатывает удаление работы.
func (h *JobHandler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	if err := h.Service.DeleteJob(ctx, r.PathValue("jobId")); err != nil {
		h.sendError(w, r, err, "failed to delete job")
		return
	}

	utils.SendJSON(w, http.StatusOK, models.SuccessResponse{Success: true})
}

// sendError отвечает ошибкой с категорией. Ошибки без категории скрываются за fallback.
func (h *JobHandler) sendError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	respondError(w, logger.FromContext(r.Context(), h.Logger), err, fallback)
}

func respondError(w http.ResponseWriter, log *slog.Logger, err error, fallback string) {
	var errorResponse *models.ErrorResponse
	if errors.As(err, &errorResponse) {
		log.Debug("request rejected", "kind", errorResponse.Kind, "error", err)
		utils.SendError(w, errorResponse)
		return
	}
	if errors.Is(err, context.DeadlineExceeded) {
		log.Error(fallback, "error", err)
		utils.SendErrorResponse(w, http.StatusServiceUnavailable, "request timed out")
		return
	}
	log.Error(fallback, "error", err)
	utils.SendErrorResponse(w, http.StatusInternalServerError, fallback)
}

// maxBodyBytes - предельный размер тела запроса.
const maxBodyBytes = 1 << 20

// decodeBody разбирает JSON-тело запроса. Ошибки суммы сохраняют своё сообщение.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) *models.ErrorResponse {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return nil
	}
	var errorResponse *models.ErrorResponse
	if errors.As(err, &errorResponse) {
		return errorResponse
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return models.NewErrorResponse(http.StatusRequestEntityTooLarge, "request body is too large")
	}
	if errors.Is(err, io.EOF) {
		return models.NewValidationError("request body is empty")
	}
	return models.NewValidationError("invalid request body")
}
