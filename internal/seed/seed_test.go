package seed

import (
	"context"
	"math/rand"
	"testing"

	"github.com/senyabanana/rentr-service/internal/logger"
	"github.com/senyabanana/rentr-service/internal/models"
	"github.com/senyabanana/rentr-service/internal/repository"
	"github.com/senyabanana/rentr-service/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContractors(t *testing.T) {
	contractors, err := Contractors()
	require.NoError(t, err)
	require.Len(t, contractors, 3)

	assert.Equal(t, "101", contractors[0].ID)
	assert.Equal(t, "Agent Smith", contractors[0].Name)
	assert.Equal(t, 42, contractors[0].CompletedJobs)

	danish := contractors[2]
	assert.Equal(t, "Mir Electrical Solutions", danish.Company)
	assert.Contains(t, danish.Skills, "Smart Home")
	assert.Len(t, danish.History, 2)
}

func TestDemoJobs(t *testing.T) {
	jobs := DemoJobs(DemoJobCount, rand.New(rand.NewSource(7)))
	require.Len(t, jobs, DemoJobCount)

	for _, j := range jobs {
		require.NotNil(t, j.Budget)
		assert.GreaterOrEqual(t, j.Budget.Int64(), int64(100))
		assert.Less(t, j.Budget.Int64(), int64(600))
		assert.NotEmpty(t, j.Title)
		assert.Contains(t, []string{"Plumbing", "Electrical", "Carpentry", "HVAC"}, j.Type)
	}
}

func TestRun_SeedsOnlyEmptyStore(t *testing.T) {
	ctx := context.Background()
	contractors := repository.NewMemoryContractorRepository()
	svc := services.NewJobService(repository.NewMemoryJobRepository(), contractors, services.WithLogger(logger.Discard()))

	require.NoError(t, Run(ctx, svc, contractors, rand.New(rand.NewSource(1)), logger.Discard()))
	jobs, err := svc.ListJobs(ctx, models.JobFilter{})
	require.NoError(t, err)
	assert.Len(t, jobs, DemoJobCount)
	for _, j := range jobs {
		assert.Equal(t, models.OpenJob, j.Status)
	}

	c, err := contractors.GetContractor(ctx, "102")
	require.NoError(t, err)
	assert.Equal(t, "Bob the Builder", c.Name)

	require.NoError(t, Run(ctx, svc, contractors, rand.New(rand.NewSource(2)), logger.Discard()))
	jobs, err = svc.ListJobs(ctx, models.JobFilter{})
	require.NoError(t, err)
	assert.Len(t, jobs, DemoJobCount)
}
