package services

import (
	"context"
	"strings"

	"github.com/senyabanana/rentr-service/internal/models"
	"github.com/senyabanana/rentr-service/internal/repository"
)

type ContractorService struct {
	Repo repository.ContractorRepository
}

// NewContractorService создаёт новый экземпляр ContractorService.
func NewContractorService(repo repository.ContractorRepository) *ContractorService {
	return &ContractorService{Repo: repo}
}

// GetContractor получает профиль подрядчика.
func (s *ContractorService) GetContractor(ctx context.Context, contractorId string) (*models.Contractor, error) {
	contractorId = strings.TrimSpace(contractorId)
	if contractorId == "" {
		return nil, models.NewValidationError("missing required parameter: contractorId")
	}
	contractor, err := s.Repo.GetContractor(ctx, contractorId)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return contractor, nil
}
