package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

// counterValue は指定メトリクスのカウンタ値を取得するテストヘルパー。
func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	for _, mf := range metrics {
		if mf.GetName() == name {
			var total float64
			for _, m := range mf.GetMetric() {
				total += m.GetCounter().GetValue()
			}
			return total
		}
	}
	t.Fatalf("%s metric not found", name)
	return 0
}

// TestNewCollector_ReturnsNonNil はCollectorが正常に生成されることを検証する。
func TestNewCollector_ReturnsNonNil(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	if c == nil {
		t.Fatal("expected non-nil Collector")
	}
}

// TestRecordLogin_IncrementsCounter はログインカウンタが増加することを検証する。
func TestRecordLogin_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLogin()
	c.RecordLogin()

	if val := counterValue(t, reg, "meatsafe_logins_total"); val != 2 {
		t.Errorf("logins_total = %v, want 2", val)
	}
}

// TestRecordExchangeFailure_IncrementsCounter は交換失敗カウンタが増加することを検証する。
func TestRecordExchangeFailure_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordExchangeFailure("token_rejected")
	c.RecordExchangeFailure("provider_unavailable")

	if val := counterValue(t, reg, "meatsafe_exchange_failures_total"); val != 2 {
		t.Errorf("exchange_failures_total = %v, want 2", val)
	}
}

// TestRecordStatusTransition_IncrementsCounter はステータス変更カウンタが増加することを検証する。
func TestRecordStatusTransition_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordStatusTransition("approved")

	if val := counterValue(t, reg, "meatsafe_status_transitions_total"); val != 1 {
		t.Errorf("status_transitions_total = %v, want 1", val)
	}
}

// TestRecordUpload_IncrementsCounter はアップロードカウンタが増加することを検証する。
func TestRecordUpload_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordUpload("image")
	c.RecordUpload("video")
	c.RecordUpload("image")

	if val := counterValue(t, reg, "meatsafe_uploads_total"); val != 3 {
		t.Errorf("uploads_total = %v, want 3", val)
	}
}

// TestRecordQuizSubmission_LabelsByResult はクイズ提出が合否別に記録されることを検証する。
func TestRecordQuizSubmission_LabelsByResult(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordQuizSubmission(true)
	c.RecordQuizSubmission(false)
	c.RecordQuizSubmission(true)

	if val := counterValue(t, reg, "meatsafe_quiz_submissions_total"); val != 3 {
		t.Errorf("quiz_submissions_total = %v, want 3", val)
	}
}

// TestHandler_ServesPrometheusFormat はスクレイプハンドラーがPrometheus形式で応答することを検証する。
func TestHandler_ServesPrometheusFormat(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordLogin()

	handler := Handler(reg)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	if !strings.Contains(string(body), "meatsafe_logins_total") {
		t.Error("expected body to contain meatsafe_logins_total")
	}
}
