package services

import (
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// LogEntry は単一のリクエストログを表します。
type LogEntry struct {
	Timestamp    time.Time     `json:"timestamp"`
	Path         string        `json:"path"`
	Method       string        `json:"method"`
	StatusCode   int           `json:"status_code"`
	ResponseTime time.Duration `json:"response_time"`
}

// DispatchEntry は1メッセージの処理結果を表します。
type DispatchEntry struct {
	Timestamp time.Time     `json:"timestamp"`
	TraceID   string        `json:"trace_id,omitempty"`
	Action    string        `json:"action"`
	Failed    bool          `json:"failed"`
	Duration  time.Duration `json:"duration"`
}

// MonitoringService はHTTPリクエストとメッセージ処理のモニタリング機能を提供します。
type MonitoringService struct {
	logs       []LogEntry
	dispatches []DispatchEntry
	mu         sync.RWMutex
}

// NewMonitoringService は新しいMonitoringServiceを生成します。
func NewMonitoringService() *MonitoringService {
	return &MonitoringService{
		logs:       make([]LogEntry, 0),
		dispatches: make([]DispatchEntry, 0),
	}
}

// retention はダッシュボードの最長期間（7d）。これより古い記録は追加時に破棄します。
const retention = 7 * 24 * time.Hour

// LogRequest はリクエストを記録します。
func (s *MonitoringService) LogRequest(entry LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().Add(-retention)
	s.logs = dropBefore(append(s.logs, entry), cutoff, func(e LogEntry) time.Time { return e.Timestamp })
}

// RecordDispatch はメッセージ処理の結果を記録します。
func (s *MonitoringService) RecordDispatch(entry DispatchEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().Add(-retention)
	s.dispatches = dropBefore(append(s.dispatches, entry), cutoff, func(e DispatchEntry) time.Time { return e.Timestamp })
}

// dropBefore はcutoffより古いエントリを取り除きます。
// エントリはおおむね時刻順なので、先頭が期間内なら何もしません
func dropBefore[T any](entries []T, cutoff time.Time, timestamp func(T) time.Time) []T {
	if len(entries) == 0 || !timestamp(entries[0]).Before(cutoff) {
		return entries
	}
	n := 0
	for _, e := range entries {
		if !timestamp(e).Before(cutoff) {
			entries[n] = e
			n++
		}
	}
	if n == len(entries) {
		return entries
	}
	clear(entries[n:])
	return entries[:n]
}

// LoggingMiddleware はリクエスト情報を記録するGinミドルウェアです。
func (s *MonitoringService) LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		// 管理系エンドポイントは集計から除外
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/v1/admin") || strings.HasPrefix(path, "/api/v1/monitoring") {
			return
		}

		s.LogRequest(LogEntry{
			Timestamp:    start,
			Path:         path,
			Method:       c.Request.Method,
			StatusCode:   c.Writer.Status(),
			ResponseTime: time.Since(start),
		})
	}
}

// DashboardData はダッシュボードに表示するための集計済みデータです。
type DashboardData struct {
	RequestsOverTime []map[string]interface{} `json:"requestsOverTime"`
	Endpoints        map[string]int           `json:"endpoints"`
	StatusCodes      map[string]int           `json:"statusCodes"`
	Actions          map[string]int           `json:"actions"`
	FailedMessages   int                      `json:"failedMessages"`
	AvgDispatchMs    int64                    `json:"avgDispatchMs"`
	RecentErrors     []LogEntry               `json:"recentErrors"`
}

// GetDashboardData は指定された期間のログを集計してダッシュボード用データを返します。
func (s *MonitoringService) GetDashboardData(periodHours int) DashboardData {
	s.mu.RLock()
	defer s.mu.RUnlock()

	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		loc = time.UTC
	}

	now := time.Now().In(loc)
	since := now.Add(-time.Duration(periodHours) * time.Hour)

	// 時間ごとのバケット（過去から現在の順）
	requestsOverTime := make([]map[string]interface{}, periodHours)
	bucketIndex := make(map[string]int, periodHours)
	for i := 0; i < periodHours; i++ {
		target := now.Add(-time.Duration(periodHours-1-i) * time.Hour)
		bucketIndex[target.Truncate(time.Hour).Format(time.RFC3339)] = i
		requestsOverTime[i] = map[string]interface{}{"time": target.Format("15:00"), "requests": 0}
	}

	endpoints := make(map[string]int)
	statusCodes := map[string]int{
		"2xx Success":      0,
		"4xx Client Error": 0,
		"5xx Server Error": 0,
	}
	recentErrors := make([]LogEntry, 0)

	for i := len(s.logs) - 1; i >= 0; i-- {
		entry := s.logs[i]
		if !entry.Timestamp.After(since) {
			continue
		}

		if idx, ok := bucketIndex[entry.Timestamp.In(loc).Truncate(time.Hour).Format(time.RFC3339)]; ok {
			requestsOverTime[idx]["requests"] = requestsOverTime[idx]["requests"].(int) + 1
		}
		endpoints[entry.Path]++

		switch {
		case entry.StatusCode >= 200 && entry.StatusCode < 300:
			statusCodes["2xx Success"]++
		case entry.StatusCode >= 400 && entry.StatusCode < 500:
			statusCodes["4xx Client Error"]++
		case entry.StatusCode >= 500:
			statusCodes["5xx Server Error"]++
			if len(recentErrors) < 10 {
				recentErrors = append(recentErrors, entry)
			}
		}
	}

	actions := make(map[string]int)
	failed := 0
	var total time.Duration
	count := 0
	for _, d := range s.dispatches {
		if !d.Timestamp.After(since) {
			continue
		}
		actions[d.Action]++
		if d.Failed {
			failed++
		}
		total += d.Duration
		count++
	}

	var avg int64
	if count > 0 {
		avg = total.Milliseconds() / int64(count)
	}

	return DashboardData{
		RequestsOverTime: requestsOverTime,
		Endpoints:        endpoints,
		StatusCodes:      statusCodes,
		Actions:          actions,
		FailedMessages:   failed,
		AvgDispatchMs:    avg,
		RecentErrors:     recentErrors,
	}
}
