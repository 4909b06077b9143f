package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/senyabanana/rentr-service/internal/models"
)

// JobClient выполняет запросы к API сервиса.
type JobClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewJobClient создаёт клиент для baseURL.
func NewJobClient(baseURL string) *JobClient {
	return &JobClient{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError - ошибка, которую вернул сервер.
type APIError struct {
	StatusCode int
	Kind       models.ErrorKind
	Message    string
}

func (e *APIError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("API error (%d %s): %s", e.StatusCode, e.Kind, e.Message)
	}
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
}

// ListJobs запрашивает GET /api/jobs.
func (c *JobClient) ListJobs(query url.Values) ([]models.Job, error) {
	path := "/api/jobs"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}
	var jobs []models.Job
	if err := c.do(http.MethodGet, path, nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// GetJob запрашивает GET /api/jobs/{id}.
func (c *JobClient) GetJob(jobID string) (*models.Job, error) {
	var job models.Job
	if err := c.do(http.MethodGet, "/api/jobs/"+url.PathEscape(jobID), nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// CreateJob отправляет POST /api/jobs.
func (c *JobClient) CreateJob(req models.JobRequest) (*models.Job, error) {
	var job models.Job
	if err := c.do(http.MethodPost, "/api/jobs", req, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// EditJob отправляет PUT /api/jobs/{id}.
func (c *JobClient) EditJob(jobID string, update models.JobUpdate) (*models.Job, error) {
	var job models.Job
	if err := c.do(http.MethodPut, "/api/jobs/"+url.PathEscape(jobID), update, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// DeleteJob отправляет DELETE /api/jobs/{id}.
func (c *JobClient) DeleteJob(jobID string) error {
	var resp models.SuccessResponse
	return c.do(http.MethodDelete, "/api/jobs/"+url.PathEscape(jobID), nil, &resp)
}

// Apply отправляет POST /api/jobs/{id}/apply.
func (c *JobClient) Apply(jobID string, req models.ApplicationRequest) (*models.Application, error) {
	var resp models.ApplicationResponse
	if err := c.do(http.MethodPost, jobPath(jobID, "apply"), req, &resp); err != nil {
		return nil, err
	}
	return resp.Application, nil
}

// Assign отправляет POST /api/jobs/{id}/assign.
func (c *JobClient) Assign(jobID, applicantID string) (*models.Job, error) {
	return c.jobAction(jobPath(jobID, "assign"), models.AssignRequest{ApplicantID: applicantID})
}

// UpdateStatus отправляет POST /api/jobs/{id}/status.
func (c *JobClient) UpdateStatus(jobID string, status models.JobStatus) (*models.Job, error) {
	return c.jobAction(jobPath(jobID, "status"), models.StatusRequest{Status: string(status)})
}

// SubmitInvoice отправляет POST /api/jobs/{id}/invoice.
func (c *JobClient) SubmitInvoice(jobID string, req models.InvoiceRequest) (*models.Invoice, error) {
	var resp models.InvoiceResponse
	if err := c.do(http.MethodPost, jobPath(jobID, "invoice"), req, &resp); err != nil {
		return nil, err
	}
	return resp.Invoice, nil
}

// PayInvoice отправляет POST /api/jobs/{id}/pay.
func (c *JobClient) PayInvoice(jobID string) (*models.Job, error) {
	return c.jobAction(jobPath(jobID, "pay"), nil)
}

// GetContractor запрашивает GET /api/contractors/{id}.
func (c *JobClient) GetContractor(contractorID string) (*models.Contractor, error) {
	var contractor models.Contractor
	if err := c.do(http.MethodGet, "/api/contractors/"+url.PathEscape(contractorID), nil, &contractor); err != nil {
		return nil, err
	}
	return &contractor, nil
}

func (c *JobClient) jobAction(path string, body interface{}) (*models.Job, error) {
	var resp models.JobActionResponse
	if err := c.do(http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}
	return resp.Job, nil
}

func jobPath(jobID, action string) string {
	return fmt.Sprintf("/api/jobs/%s/%s", url.PathEscape(jobID), action)
}

func (c *JobClient) do(method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(bodyBytes)
	}

	httpReq, err := http.NewRequest(method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		httpReq.Header.Add("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: string(bytes.TrimSpace(respBody))}
		var errBody models.ErrorResponse
		if json.Unmarshal(respBody, &errBody) == nil && errBody.Message != "" {
			apiErr.Kind = errBody.Kind
			apiErr.Message = errBody.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
