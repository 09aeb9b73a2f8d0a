package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Calorie-API Metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "calorie_api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jan",
			Subsystem: "calorie_api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint"},
	)

	// Analysis outcomes
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "calorie_api",
			Name:      "analyses_total",
			Help:      "Total image analyses by outcome",
		},
		[]string{"model", "status"},
	)

	// Upload bytes counter
	UploadBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "calorie_api",
			Name:      "upload_bytes_total",
			Help:      "Total bytes of analysed uploads",
		},
		[]string{"content_type"},
	)

	// Provider call duration
	ProviderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jan",
			Subsystem: "calorie_api",
			Name:      "provider_duration_seconds",
			Help:      "Provider generateContent duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		},
		[]string{"model"},
	)

	// Provider errors
	ProviderErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "calorie_api",
			Name:      "provider_errors_total",
			Help:      "Total provider call failures",
		},
		[]string{"model", "error_type"},
	)
)

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// Model and content type come from callers, so label values are folded into small fixed sets.
const (
	ModelDefault  = "default"
	ModelOverride = "override"
	labelOther    = "other"
)

var knownContentTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
	"image/heic": {},
	"image/heif": {},
}

// ModelLabel reports whether model is the configured default or a caller override.
func ModelLabel(model, defaultModel string) string {
	if model == defaultModel {
		return ModelDefault
	}
	return ModelOverride
}

// ContentTypeLabel keeps common image types and maps everything else to "other".
func ContentTypeLabel(contentType string) string {
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	if _, ok := knownContentTypes[ct]; ok {
		return ct
	}
	return labelOther
}

// RecordAnalysis records the outcome of one analysis; bytes only count on success.
// modelLabel should come from ModelLabel.
func RecordAnalysis(modelLabel, contentType, status string, bytes int64) {
	AnalysesTotal.WithLabelValues(modelLabel, status).Inc()
	if status == "success" {
		UploadBytesTotal.WithLabelValues(ContentTypeLabel(contentType)).Add(float64(bytes))
	}
}

// RecordProviderCall records a provider call and, when errorType is set, a failure.
// modelLabel should come from ModelLabel.
func RecordProviderCall(modelLabel string, durationSec float64, errorType string) {
	ProviderDuration.WithLabelValues(modelLabel).Observe(durationSec)
	if errorType != "" {
		ProviderErrorsTotal.WithLabelValues(modelLabel, errorType).Inc()
	}
}
