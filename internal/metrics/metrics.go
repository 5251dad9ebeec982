package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dashboard"

// 上传结果标签
const (
	UploadSuccess  = "success"
	UploadRejected = "rejected"
	UploadNoRows   = "no_rows"
	UploadFailed   = "failed"
)

// 导出方式标签
const (
	ExportDirect = "direct"
	ExportStream = "stream"
)

// Metrics Prometheus 指标集合；nil 时所有记录方法为空操作
type Metrics struct {
	registry       *prometheus.Registry
	uploads        *prometheus.CounterVec
	uploadDuration prometheus.Histogram
	rowsImported   prometheus.Counter
	exports        *prometheus.CounterVec
}

// New 创建独立的指标注册表；activeSessions 为 nil 时不注册会话数量
func New(activeSessions func() int) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Upload requests by result.",
		}, []string{"result"}),
		uploadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upload_duration_seconds",
			Help:      "Time spent reading and consolidating an upload.",
			Buckets:   prometheus.DefBuckets,
		}),
		rowsImported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_imported_total",
			Help:      "Transaction rows kept after consolidation.",
		}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Excel exports by mode.",
		}, []string{"mode"}),
	}

	reg.MustRegister(
		m.uploads,
		m.uploadDuration,
		m.rowsImported,
		m.exports,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if activeSessions != nil {
		reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Sessions currently held in memory.",
		}, func() float64 { return float64(activeSessions()) }))
	}
	return m
}

// ObserveUpload 记录一次上传
func (m *Metrics) ObserveUpload(result string, rows int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(result).Inc()
	m.uploadDuration.Observe(elapsed.Seconds())
	if rows > 0 {
		m.rowsImported.Add(float64(rows))
	}
}

// ObserveExport 记录一次导出
func (m *Metrics) ObserveExport(mode string) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(mode).Inc()
}

// Handler /metrics 处理器
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
