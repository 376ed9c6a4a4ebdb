package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// --- モック定義 ---

type mockMetricsRecorder struct {
	statuses  []int
	latencies []time.Duration
}

func (m *mockMetricsRecorder) RecordHTTPStatus(statusCode int) {
	m.statuses = append(m.statuses, statusCode)
}

func (m *mockMetricsRecorder) RecordRequestLatency(duration time.Duration) {
	m.latencies = append(m.latencies, duration)
}

// --- テスト ---

// TestMetricsMiddleware_RecordsStatusAndLatency はレスポンスのステータスコードと
// レイテンシが記録されることを検証する。
func TestMetricsMiddleware_RecordsStatusAndLatency(t *testing.T) {
	recorder := &mockMetricsRecorder{}
	mw := NewMetricsMiddleware(recorder)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if len(recorder.statuses) != 1 || recorder.statuses[0] != http.StatusNotFound {
		t.Errorf("recorded statuses = %v, want [404]", recorder.statuses)
	}
	if len(recorder.latencies) != 1 {
		t.Fatalf("recorded %d latencies, want 1", len(recorder.latencies))
	}
	if recorder.latencies[0] < 0 {
		t.Errorf("latency = %v, want non-negative", recorder.latencies[0])
	}
}

// TestMetricsMiddleware_DefaultsTo200 はWriteHeader未呼び出しのハンドラーで
// 200が記録されることを検証する。
func TestMetricsMiddleware_DefaultsTo200(t *testing.T) {
	recorder := &mockMetricsRecorder{}
	mw := NewMetricsMiddleware(recorder)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if len(recorder.statuses) != 1 || recorder.statuses[0] != http.StatusOK {
		t.Errorf("recorded statuses = %v, want [200]", recorder.statuses)
	}
}
