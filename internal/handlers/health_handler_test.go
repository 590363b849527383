package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harshitnarang21/Khushi-Semitronics/internal/health"
)

type stubHealthChecker struct {
	status health.Status
}

func (s stubHealthChecker) CheckBasic() health.Status {
	return s.status
}

func TestHealthEndpointHealthy(t *testing.T) {
	handler := NewHealthHandler(stubHealthChecker{status: health.Status{
		Status:    "healthy",
		Database:  "connected",
		Timestamp: time.Now(),
	}})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.Health(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var status health.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "connected", status.Database)
}

func TestHealthEndpointUnhealthy(t *testing.T) {
	handler := NewHealthHandler(stubHealthChecker{status: health.Status{
		Status:    "unhealthy",
		Database:  "disconnected",
		Timestamp: time.Now(),
	}})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.Health(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
