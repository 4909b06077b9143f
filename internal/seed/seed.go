// Package seed заполняет пустое хранилище демонстрационными данными.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/senyabanana/rentr-service/internal/models"
	"github.com/senyabanana/rentr-service/internal/repository"
	"github.com/senyabanana/rentr-service/internal/services"

	"gopkg.in/yaml.v3"
)

const (
	DemoJobCount     = 25
	demoDescription  = "Standard maintenance work required. Please provide a quote for labor and materials."
	minDemoBudget    = 100
	demoBudgetSpread = 500
)

//go:embed contractors.yaml
var contractorsYAML []byte

var jobCatalog = []struct {
	jobType models.JobType
	titles  []string
}{
	{models.Plumbing, []string{"Fix Leaking Kitchen Sink", "Replace Bathroom Faucet", "Unclog Main Drain", "Install Water Heater"}},
	{models.Electrical, []string{"Install Ceiling Fan", "Replace Circuit Breaker", "Install Outdoor Lighting", "Fix Flickering Lights"}},
	{models.Carpentry, []string{"Repair Drywall", "Build Custom Shelves", "Fix Door Frame", "Install Baseboards"}},
	{models.HVAC, []string{"AC Maintenance Service", "Fix Heating Unit", "Clean Air Ducts", "Thermostat Installation"}},
}

// Contractors возвращает встроенные профили подрядчиков.
func Contractors() ([]models.Contractor, error) {
	var contractors []models.Contractor
	if err := yaml.Unmarshal(contractorsYAML, &contractors); err != nil {
		return nil, fmt.Errorf("failed to parse contractors: %w", err)
	}
	return contractors, nil
}

// DemoJobs генерирует n открытых работ со случайными названиями и бюджетом 100..599.
func DemoJobs(n int, rng *rand.Rand) []models.JobRequest {
	jobs := make([]models.JobRequest, 0, n)
	for i := 0; i < n; i++ {
		category := jobCatalog[rng.Intn(len(jobCatalog))]
		budget := models.Amount(minDemoBudget + rng.Intn(demoBudgetSpread))
		jobs = append(jobs, models.JobRequest{
			Title:       category.titles[rng.Intn(len(category.titles))],
			Description: demoDescription,
			Type:        string(category.jobType),
			Budget:      &budget,
		})
	}
	return jobs
}

// Run сохраняет профили подрядчиков и, если работ ещё нет, создаёт демонстрационные работы.
func Run(ctx context.Context, jobs *services.JobService, contractors repository.ContractorRepository, rng *rand.Rand, log *slog.Logger) error {
	profiles, err := Contractors()
	if err != nil {
		return err
	}
	for _, c := range profiles {
		if err := contractors.SaveContractor(ctx, c); err != nil {
			return fmt.Errorf("failed to save contractor %s: %w", c.ID, err)
		}
	}

	existing, err := jobs.ListJobs(ctx, models.JobFilter{Limit: 1})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Info("job store is not empty, skipping demo jobs")
		return nil
	}

	for _, req := range DemoJobs(DemoJobCount, rng) {
		if _, err := jobs.CreateJob(ctx, req); err != nil {
			return fmt.Errorf("failed to create demo job: %w", err)
		}
	}
	log.Info("demo data seeded", "jobs", DemoJobCount, "contractors", len(profiles))
	return nil
}
