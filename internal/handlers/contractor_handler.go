package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/senyabanana/rentr-service/internal/logger"
	"github.com/senyabanana/rentr-service/internal/services"
	"github.com/senyabanana/rentr-service/internal/utils"
)

// ContractorHandler обрабатывает запросы к профилям подрядчиков.
type ContractorHandler struct {
	Service *services.ContractorService
	Logger  *slog.Logger
	Timeout time.Duration
}

// NewContractorHandler создаёт новый экземпляр ContractorHandler.
func NewContractorHandler(service *services.ContractorService, logger *slog.Logger, timeout time.Duration) *ContractorHandler {
	return &ContractorHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// GetContractor обрабатывает запросы для получения профиля подрядчика.
func (h *ContractorHandler) GetContractor(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	contractor, err := h.Service.GetContractor(ctx, r.PathValue("contractorId"))
	if err != nil {
		respondError(w, logger.FromContext(r.Context(), h.Logger), err, "failed to fetch contractor")
		return
	}

	utils.SendJSON(w, http.StatusOK, contractor)
}
