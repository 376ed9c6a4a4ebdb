// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラーやサービス層から利用する。
type MetricsCollector interface {
	RecordLogin()
	RecordExchangeFailure(reason string)
	RecordStatusTransition(status string)
	RecordUpload(kind string)
	RecordQuizSubmission(passed bool)
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	logins            prometheus.Counter
	exchangeFailures  *prometheus.CounterVec
	statusTransitions *prometheus.CounterVec
	uploads           *prometheus.CounterVec
	quizSubmissions   *prometheus.CounterVec
	httpStatus        *prometheus.CounterVec
	requestLatency    prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		logins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "meatsafe_logins_total",
			Help: "トークン交換によるログイン成功の合計数",
		}),
		exchangeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "meatsafe_exchange_failures_total",
			Help: "トークン交換失敗の理由別合計数",
		}, []string{"reason"}),
		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "meatsafe_status_transitions_total",
			Help: "承認ステータス変更の遷移先別合計数",
		}, []string{"status"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "meatsafe_uploads_total",
			Help: "コンプライアンス証跡アップロードの種別別合計数",
		}, []string{"kind"}),
		quizSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "meatsafe_quiz_submissions_total",
			Help: "クイズ提出の合否別合計数",
		}, []string{"result"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "meatsafe_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "meatsafe_request_latency_seconds",
			Help:    "APIリクエストのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.logins,
		c.exchangeFailures,
		c.statusTransitions,
		c.uploads,
		c.quizSubmissions,
		c.httpStatus,
		c.requestLatency,
	)

	return c
}

// RecordLogin はログイン成功を記録する。
func (c *Collector) RecordLogin() {
	c.logins.Inc()
}

// RecordExchangeFailure はトークン交換失敗を理由付きで記録する。
func (c *Collector) RecordExchangeFailure(reason string) {
	c.exchangeFailures.WithLabelValues(reason).Inc()
}

// RecordStatusTransition は承認ステータス変更を記録する。
func (c *Collector) RecordStatusTransition(status string) {
	c.statusTransitions.WithLabelValues(status).Inc()
}

// RecordUpload はアップロードを種別付きで記録する。
func (c *Collector) RecordUpload(kind string) {
	c.uploads.WithLabelValues(kind).Inc()
}

// RecordQuizSubmission はクイズ提出を合否付きで記録する。
func (c *Collector) RecordQuizSubmission(passed bool) {
	result := "failed"
	if passed {
		result = "passed"
	}
	c.quizSubmissions.WithLabelValues(result).Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエストのレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// compile-time interface check
var _ MetricsCollector = (*Collector)(nil)
