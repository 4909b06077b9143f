package router

import (
	"net/http"

	"github.com/senyabanana/rentr-service/internal/handlers"
	"github.com/senyabanana/rentr-service/internal/metrics"
	"github.com/senyabanana/rentr-service/internal/middleware"
)

func InitRoutes(jobHandler *handlers.JobHandler, contractorHandler *handlers.ContractorHandler, m *metrics.Metrics, mws ...middleware.Middleware) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/ping", handlers.PingHandler)

	mux.HandleFunc("GET /api/jobs", jobHandler.ListJobs)
	mux.HandleFunc("POST /api/jobs", jobHandler.CreateJob)
	mux.HandleFunc("GET /api/jobs/{jobId}", jobHandler.GetJob)
	mux.HandleFunc("PUT /api/jobs/{jobId}", jobHandler.EditJob)
	mux.HandleFunc("DELETE /api/jobs/{jobId}", jobHandler.DeleteJob)
	mux.HandleFunc("POST /api/jobs/{jobId}/apply", jobHandler.ApplyToJob)
	mux.HandleFunc("POST /api/jobs/{jobId}/assign", jobHandler.AssignJob)
	mux.HandleFunc("POST /api/jobs/{jobId}/status", jobHandler.UpdateJobStatus)
	mux.HandleFunc("POST /api/jobs/{jobId}/invoice", jobHandler.SubmitInvoice)
	mux.HandleFunc("POST /api/jobs/{jobId}/pay", jobHandler.PayInvoice)

	mux.HandleFunc("GET /api/contractors/{contractorId}", contractorHandler.GetContractor)

	if m != nil {
		mux.Handle("GET /metrics", m.Handler())
	}

	return middleware.Chain(mux, mws...)
}
