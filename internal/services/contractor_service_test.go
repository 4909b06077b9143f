package services

import (
	"context"
	"testing"

	"github.com/senyabanana/rentr-service/internal/models"
	"github.com/senyabanana/rentr-service/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContractorService_GetContractor(t *testing.T) {
	repo := repository.NewMemoryContractorRepository()
	require.NoError(t, repo.SaveContractor(context.Background(), models.Contractor{ID: "102", Name: "Bob the Builder", Role: "Carpenter"}))
	svc := NewContractorService(repo)

	c, err := svc.GetContractor(context.Background(), " 102 ")
	require.NoError(t, err)
	assert.Equal(t, "Bob the Builder", c.Name)

	_, err = svc.GetContractor(context.Background(), "404")
	assert.Equal(t, models.NotFound, kindOf(err))

	_, err = svc.GetContractor(context.Background(), "")
	assert.Equal(t, models.ValidationError, kindOf(err))
}

func TestTransitionTable(t *testing.T) {
	for i, from := range models.JobStatuses {
		for j, to := range models.JobStatuses {
			assert.Equal(t, j == i+1, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
	assert.Empty(t, NextStatuses(models.PaidJob))
	assert.Equal(t, []models.JobStatus{models.AssignedJob}, NextStatuses(models.OpenJob))
}
