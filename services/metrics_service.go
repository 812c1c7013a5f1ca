package services

import (
	"sync/atomic"
	"time"

	"server-launcher/internal/models"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultInstalled = "installed"
	ResultSkipped   = "skipped"
	ResultFailed    = "failed"
)

var (
	installTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "launcher_install_total",
			Help: "Component install attempts by outcome",
		},
		[]string{"component", "result"},
	)

	installDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "launcher_install_duration_seconds",
			Help:    "Duration of component installs that performed work",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
		[]string{"component"},
	)

	downloadBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "launcher_download_bytes_total",
			Help: "Bytes downloaded per component",
		},
		[]string{"component"},
	)

	pipelineState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "launcher_pipeline_state",
			Help: "1 for the current launcher pipeline state, 0 otherwise",
		},
		[]string{"state"},
	)

	requestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "launcher_status_request_total",
			Help: "Total status server requests",
		},
		[]string{"path"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "launcher_status_request_duration_seconds",
			Help:    "Duration of status server requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)

	errorCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "launcher_status_error_total",
			Help: "Status server requests answered with status >= 400",
		},
		[]string{"path"},
	)
)

// prometheus计数器不便读取，健康检查用本地计数器
var (
	totalRequests atomic.Int64
	totalErrors   atomic.Int64
)

func init() {
	prometheus.MustRegister(installTotal)
	prometheus.MustRegister(installDuration)
	prometheus.MustRegister(downloadBytes)
	prometheus.MustRegister(pipelineState)
	prometheus.MustRegister(requestCount)
	prometheus.MustRegister(requestDuration)
	prometheus.MustRegister(errorCount)
}

/**
 * Record the outcome of one install attempt
 * @param {models.ComponentKind} kind - Component that was checked
 * @param {string} result - One of ResultInstalled/ResultSkipped/ResultFailed
 * @param {time.Duration} elapsed - Time spent, ignored for skipped installs
 */
func RecordInstall(kind models.ComponentKind, result string, elapsed time.Duration) {
	installTotal.WithLabelValues(string(kind), result).Inc()
	if result != ResultSkipped {
		installDuration.WithLabelValues(string(kind)).Observe(elapsed.Seconds())
	}
}

func RecordDownload(kind models.ComponentKind, n int64) {
	if n > 0 {
		downloadBytes.WithLabelValues(string(kind)).Add(float64(n))
	}
}

// SetPipelineState marks state as current and clears every other state.
func SetPipelineState(state models.PipelineState) {
	for _, s := range models.PipelineStates {
		v := 0.0
		if s == state {
			v = 1
		}
		pipelineState.WithLabelValues(string(s)).Set(v)
	}
}

func IncrementRequestCount(path string) {
	requestCount.WithLabelValues(path).Inc()
	totalRequests.Add(1)
}

func RecordRequestDuration(path string, seconds float64) {
	requestDuration.WithLabelValues(path).Observe(seconds)
}

func IncrementErrorCount(path string) {
	errorCount.WithLabelValues(path).Inc()
	totalErrors.Add(1)
}

func GetTotalRequestCount() int64 {
	return totalRequests.Load()
}

func GetTotalErrorCount() int64 {
	return totalErrors.Load()
}
