package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docinsight/internal/domain"
	"docinsight/internal/handler"
	"docinsight/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newHealthHandler() (*handler.HealthHandler, *mocks.MockStatusProvider) {
	watcher := new(mocks.MockStatusProvider)
	return handler.NewHealthHandler(watcher), watcher
}

func TestHealthHandler_Liveness(t *testing.T) {
	h, watcher := newHealthHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/healthz", http.NoBody)

	h.Liveness(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	watcher.AssertNotCalled(t, "Ready")
}

func TestHealthHandler_Readiness_BeforeBaseline(t *testing.T) {
	h, watcher := newHealthHandler()
	watcher.On("Ready").Return(false)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/readyz", http.NoBody)

	h.Readiness(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "unavailable")
	watcher.AssertExpectations(t)
}

func TestHealthHandler_Readiness_Ready(t *testing.T) {
	h, watcher := newHealthHandler()
	watcher.On("Ready").Return(true)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/readyz", http.NoBody)

	h.Readiness(c)

	assert.Equal(t, http.StatusOK, w.Code)
	watcher.AssertExpectations(t)
}

func TestHealthHandler_Status(t *testing.T) {
	h, watcher := newHealthHandler()
	polled := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	watcher.On("Status").Return(domain.RunStatus{
		Ready:          true,
		SourcePrefix:   "bronze/",
		Observed:       3,
		Dispatched:     2,
		Stored:         1,
		Failed:         1,
		FailuresByKind: map[domain.ErrorKind]int{domain.KindExtraction: 1},
		LastPollAt:     &polled,
		LastStoredKey:  "silver/a_analysis.pdf",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/status", http.NoBody)

	h.Status(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool             `json:"success"`
		Data    domain.RunStatus `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 3, resp.Data.Observed)
	assert.Equal(t, 1, resp.Data.FailuresByKind[domain.KindExtraction])
	assert.Equal(t, "silver/a_analysis.pdf", resp.Data.LastStoredKey)
	require.NotNil(t, resp.Data.LastPollAt)
	assert.True(t, polled.Equal(*resp.Data.LastPollAt))
	watcher.AssertExpectations(t)
}

func TestNotFound(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/nope", http.NoBody)

	handler.NotFound(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}
