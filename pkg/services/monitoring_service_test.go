package services

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMonitoringService_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	monitor := NewMonitoringService()

	r := gin.New()
	r.Use(monitor.LoggingMiddleware())
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/v1/ledger/report", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	r.GET("/api/v1/admin/health-status", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/health", "/health", "/api/v1/ledger/report", "/api/v1/admin/health-status", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	data := monitor.GetDashboardData(24)
	assert.Len(t, data.RequestsOverTime, 24)
	assert.Equal(t, 2, data.Endpoints["/health"])
	assert.Equal(t, 1, data.Endpoints["/api/v1/ledger/report"])
	assert.NotContains(t, data.Endpoints, "/api/v1/admin/health-status")
	assert.Equal(t, 2, data.StatusCodes["2xx Success"])
	assert.Equal(t, 1, data.StatusCodes["4xx Client Error"])
	assert.Equal(t, 1, data.StatusCodes["5xx Server Error"])
	assert.Len(t, data.RecentErrors, 1)
}

func TestMonitoringService_Dispatches(t *testing.T) {
	monitor := NewMonitoringService()
	now := time.Now()

	monitor.RecordDispatch(DispatchEntry{Timestamp: now, Action: "report", Duration: 100 * time.Millisecond})
	monitor.RecordDispatch(DispatchEntry{Timestamp: now, Action: "report", Failed: true, Duration: 300 * time.Millisecond})
	monitor.RecordDispatch(DispatchEntry{Timestamp: now.Add(-48 * time.Hour), Action: "update_cost"})

	data := monitor.GetDashboardData(24)
	assert.Equal(t, 2, data.Actions["report"])
	assert.NotContains(t, data.Actions, "update_cost")
	assert.Equal(t, 1, data.FailedMessages)
	assert.Equal(t, int64(200), data.AvgDispatchMs)
}

func TestMonitoringService_DropsEntriesOlderThanRetention(t *testing.T) {
	monitor := NewMonitoringService()
	now := time.Now()

	monitor.RecordDispatch(DispatchEntry{Timestamp: now.Add(-8 * 24 * time.Hour), Action: "report"})
	monitor.RecordDispatch(DispatchEntry{Timestamp: now.Add(-6 * 24 * time.Hour), Action: "report"})
	monitor.RecordDispatch(DispatchEntry{Timestamp: now, Action: "update_cost"})
	monitor.LogRequest(LogEntry{Timestamp: now.Add(-30 * 24 * time.Hour), Path: "/health"})
	monitor.LogRequest(LogEntry{Timestamp: now, Path: "/health"})

	monitor.mu.RLock()
	defer monitor.mu.RUnlock()
	assert.Len(t, monitor.dispatches, 2)
	assert.Equal(t, "update_cost", monitor.dispatches[1].Action)
	assert.Len(t, monitor.logs, 1)
}

func TestDropBefore(t *testing.T) {
	cutoff := time.Unix(100, 0)
	ts := func(sec int64) time.Time { return time.Unix(sec, 0) }
	identity := func(t time.Time) time.Time { return t }

	assert.Empty(t, dropBefore([]time.Time{}, cutoff, identity))
	assert.Equal(t, []time.Time{ts(150), ts(120)}, dropBefore([]time.Time{ts(150), ts(120)}, cutoff, identity))
	assert.Equal(t, []time.Time{ts(150), ts(200)}, dropBefore([]time.Time{ts(50), ts(150), ts(99), ts(200)}, cutoff, identity))
}
