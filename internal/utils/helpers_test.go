package utils

import (
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	"github.com/senyabanana/rentr-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLimitOffset(t *testing.T) {
	tests := []struct {
		name       string
		limit      string
		offset     string
		wantLimit  int
		wantOffset int
		wantErr    bool
	}{
		{name: "empty means unbounded", wantLimit: 0, wantOffset: 0},
		{name: "valid", limit: "10", offset: "5", wantLimit: 10, wantOffset: 5},
		{name: "limit too large", limit: "101", wantErr: true},
		{name: "limit zero", limit: "0", wantErr: true},
		{name: "limit not a number", limit: "ten", wantErr: true},
		{name: "negative offset", offset: "-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset, err := ParseLimitOffset(tt.limit, tt.offset)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}

func TestParseJobFilter(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/jobs?type=Plumbing,hvac&status=Open&status=InProgress&limit=20", nil)
	filter, err := ParseJobFilter(req)
	require.NoError(t, err)

	assert.Equal(t, []models.JobType{models.Plumbing, models.HVAC}, filter.Types)
	assert.Equal(t, []models.JobStatus{models.OpenJob, models.InProgressJob}, filter.Statuses)
	assert.Equal(t, 20, filter.Limit)
	assert.Equal(t, 0, filter.Offset)

	for _, query := range []string{"type=Roofing", "status=Archived", "limit=1000"} {
		_, err := ParseJobFilter(httptest.NewRequest(http.MethodGet, "/api/jobs?"+query, nil))
		assert.Error(t, err, query)
	}
}

func TestSendErrorResponse(t *testing.T) {
	rr := httptest.NewRecorder()
	SendErrorResponse(rr, http.StatusNotFound, "job not found")

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"job not found","kind":"NotFound"}`, rr.Body.String())
}

func TestClientIP(t *testing.T) {
	trusted, err := ParseTrustedProxies([]string{"10.0.0.0/8", "192.0.2.1"})
	require.NoError(t, err)

	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		trusted    []netip.Prefix
		want       string
	}{
		{name: "peer address", remoteAddr: "192.0.2.10:5555", want: "192.0.2.10"},
		{name: "forwarded ignored without trusted proxies", remoteAddr: "203.0.113.7:5555", forwarded: "198.51.100.1", want: "203.0.113.7"},
		{name: "forwarded ignored from untrusted peer", remoteAddr: "203.0.113.7:5555", forwarded: "198.51.100.1", trusted: trusted, want: "203.0.113.7"},
		{name: "trusted proxy", remoteAddr: "10.1.2.3:5555", forwarded: "198.51.100.1", trusted: trusted, want: "198.51.100.1"},
		{name: "spoofed hop left of real client", remoteAddr: "10.1.2.3:5555", forwarded: "1.2.3.4, 198.51.100.1, 10.0.0.9", trusted: trusted, want: "198.51.100.1"},
		{name: "only proxies in chain", remoteAddr: "192.0.2.1:80", forwarded: "10.0.0.9", trusted: trusted, want: "10.0.0.9"},
		{name: "trusted proxy without header", remoteAddr: "10.1.2.3:5555", trusted: trusted, want: "10.1.2.3"},
		{name: "no port", remoteAddr: "192.0.2.10", want: "192.0.2.10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			assert.Equal(t, tt.want, ClientIP(req, tt.trusted))
		})
	}
}

func TestParseTrustedProxies(t *testing.T) {
	prefixes, err := ParseTrustedProxies([]string{" 10.0.0.0/8 ", "", "192.0.2.1", "::1"})
	require.NoError(t, err)
	assert.Equal(t, []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("192.0.2.1/32"),
		netip.MustParsePrefix("::1/128"),
	}, prefixes)

	_, err = ParseTrustedProxies([]string{"proxy.local"})
	assert.Error(t, err)
	_, err = ParseTrustedProxies([]string{"10.0.0.0/99"})
	assert.Error(t, err)
}

func TestContains(t *testing.T) {
	assert.True(t, Contains([]string{"a", "b"}, "b"))
	assert.False(t, Contains([]int{1, 2}, 3))
	assert.False(t, Contains(nil, models.OpenJob))
}
