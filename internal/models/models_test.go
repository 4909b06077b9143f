package models

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    *Amount
		wantErr bool
	}{
		{name: "integer", input: `{"budget":150}`, want: amountPtr(150)},
		{name: "fraction truncated", input: `{"budget":149.99}`, want: amountPtr(149)},
		{name: "numeric string", input: `{"budget":"300"}`, want: amountPtr(300)},
		{name: "padded string", input: `{"budget":" 42.7 "}`, want: amountPtr(42)},
		{name: "negative kept for validation", input: `{"budget":-5}`, want: amountPtr(-5)},
		{name: "null", input: `{"budget":null}`},
		{name: "missing", input: `{}`},
		{name: "word", input: `{"budget":"lots"}`, wantErr: true},
		{name: "empty string", input: `{"budget":""}`, wantErr: true},
		{name: "boolean", input: `{"budget":true}`, wantErr: true},
		{name: "just above int64", input: `{"budget":9223372036854775808}`, wantErr: true},
		{name: "huge float string", input: `{"budget":"1e30"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req JobRequest
			err := json.Unmarshal([]byte(tt.input), &req)
			if tt.wantErr {
				require.Error(t, err)
				var errorResponse *ErrorResponse
				require.True(t, errors.As(err, &errorResponse))
				assert.Equal(t, ValidationError, errorResponse.Kind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, req.Budget)
		})
	}
}

func TestParseAmount_Bounds(t *testing.T) {
	v, err := ParseAmount("9223372036854775807")
	require.NoError(t, err)
	assert.Equal(t, Amount(math.MaxInt64), v)

	v, err = ParseAmount("-9223372036854775808")
	require.NoError(t, err)
	assert.Equal(t, Amount(math.MinInt64), v)

	for _, raw := range []string{"9223372036854775808", "9223372036854775808.5", "-1e19", "NaN", "Inf"} {
		_, err := ParseAmount(raw)
		assert.Error(t, err, raw)
	}
}

func amountPtr(v int64) *Amount {
	a := Amount(v)
	return &a
}

func TestParseJobStatus(t *testing.T) {
	tests := []struct {
		input string
		want  JobStatus
		ok    bool
	}{
		{"Open", OpenJob, true},
		{"in progress", InProgressJob, true},
		{"InProgress", InProgressJob, true},
		{" Paid ", PaidJob, true},
		{"Cancelled", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseJobStatus(tt.input)
		assert.Equal(t, tt.ok, ok, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}
}

func TestParseJobType(t *testing.T) {
	assert.Equal(t, HVAC, ParseJobType("hvac"))
	assert.Equal(t, Plumbing, ParseJobType("Plumbing"))
	assert.Equal(t, General, ParseJobType("Roofing"))
	assert.Equal(t, General, ParseJobType(""))
}

func TestJobStatusInvariants(t *testing.T) {
	for _, s := range JobStatuses {
		assert.Equal(t, s != OpenJob, s.HasAssignee(), s)
		assert.Equal(t, s == InvoicedJob || s == PaidJob, s.HasInvoice(), s)
	}
}

func TestJobJSONShape(t *testing.T) {
	job := Job{ID: "1", Title: "t", Status: InProgressJob, Applicants: []Application{}}
	data, err := json.Marshal(job)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "In Progress", raw["status"])
	assert.Nil(t, raw["assignedTo"])
	assert.Nil(t, raw["invoice"])
	assert.Equal(t, []any{}, raw["applicants"])
}

func TestJobClone(t *testing.T) {
	name := "Bob"
	job := &Job{
		ID:         "1",
		Applicants: []Application{{ID: "a", Name: "Bob"}},
		AssignedTo: &name,
		Invoice:    &Invoice{ID: "INV-000001", Amount: 10},
	}
	c := job.Clone()
	c.Applicants[0].Name = "Eve"
	*c.AssignedTo = "Eve"
	c.Invoice.Amount = 99

	assert.Equal(t, "Bob", job.Applicants[0].Name)
	assert.Equal(t, "Bob", *job.AssignedTo)
	assert.Equal(t, int64(10), job.Invoice.Amount)
}

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		err  *ErrorResponse
		code int
		kind ErrorKind
	}{
		{NewNotFound("job %s not found", "x"), http.StatusNotFound, NotFound},
		{NewValidationError("bad"), http.StatusBadRequest, ValidationError},
		{NewInvalidState("bad"), http.StatusConflict, InvalidState},
		{NewInvalidTransition("bad"), http.StatusConflict, InvalidTransition},
		{NewConflict("bad"), http.StatusConflict, Conflict},
		{NewErrorResponse(http.StatusInternalServerError, "boom"), http.StatusInternalServerError, Internal},
		{NewErrorResponse(http.StatusTooManyRequests, "slow down"), http.StatusTooManyRequests, RateLimited},
		{NewErrorResponse(http.StatusRequestEntityTooLarge, "too large"), http.StatusRequestEntityTooLarge, ValidationError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, tt.err.StatusCode, tt.err.Message)
		assert.Equal(t, tt.kind, tt.err.Kind, tt.err.Message)
	}

	data, err := json.Marshal(NewNotFound("job not found"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":"job not found","kind":"NotFound"}`, string(data))
}

func TestJobCheckInvariants(t *testing.T) {
	name := "Bob the Builder"
	invoice := &Invoice{ID: "INV-000042", Amount: 100}

	tests := []struct {
		name    string
		job     Job
		wantErr bool
	}{
		{name: "open", job: Job{Status: OpenJob}},
		{name: "open with assignee", job: Job{Status: OpenJob, AssignedTo: &name}, wantErr: true},
		{name: "assigned", job: Job{Status: AssignedJob, AssignedTo: &name}},
		{name: "assigned without assignee", job: Job{Status: AssignedJob}, wantErr: true},
		{name: "completed with invoice", job: Job{Status: CompletedJob, AssignedTo: &name, Invoice: invoice}, wantErr: true},
		{name: "invoiced", job: Job{Status: InvoicedJob, AssignedTo: &name, Invoice: invoice}},
		{name: "paid without invoice", job: Job{Status: PaidJob, AssignedTo: &name}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.job.CheckInvariants()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrJobInvariant)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestJobFilterMatches(t *testing.T) {
	job := &Job{Type: Plumbing, Status: OpenJob}
	assert.True(t, JobFilter{}.Matches(job))
	assert.True(t, JobFilter{Types: []JobType{Plumbing, HVAC}}.Matches(job))
	assert.False(t, JobFilter{Types: []JobType{HVAC}}.Matches(job))
	assert.False(t, JobFilter{Statuses: []JobStatus{PaidJob}}.Matches(job))
}
