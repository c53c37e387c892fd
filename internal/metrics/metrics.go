package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private Prometheus registry for HTTP and analysis series.
type Metrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	analysesTotal   *prometheus.CounterVec
	confidence      *prometheus.HistogramVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hrdocs",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hrdocs",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	analysesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hrdocs",
			Subsystem: "analysis",
			Name:      "documents_total",
			Help:      "Document analyses by document class and outcome.",
		},
		[]string{"document_class", "outcome"},
	)
	confidence := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "hrdocs",
			Subsystem: "analysis",
			Name:      "confidence",
			Help:      "Distribution of confidence scores for completed analyses.",
			Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
		[]string{"document_class"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		analysesTotal,
		confidence,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	return &Metrics{
		registry:        registry,
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		analysesTotal:   analysesTotal,
		confidence:      confidence,
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware records request counts and latency keyed by route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		m.requestTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// ObserveAnalysis counts one analysis run. Failed runs are counted but their
// confidence is not observed.
func (m *Metrics) ObserveAnalysis(docType string, confidence int, err error) {
	class := DocumentClass(docType)
	if err != nil {
		m.analysesTotal.WithLabelValues(class, "failed").Inc()
		return
	}
	m.analysesTotal.WithLabelValues(class, "completed").Inc()
	m.confidence.WithLabelValues(class).Observe(float64(confidence))
}

// DocumentClass folds a free-text document type hint into a small label set.
func DocumentClass(docType string) string {
	t := strings.ToLower(strings.TrimSpace(docType))
	switch {
	case t == "":
		return "unknown"
	case strings.Contains(t, "contract"):
		return "contract"
	case strings.Contains(t, "iqama"):
		return "iqama"
	case strings.Contains(t, "visa"):
		return "visa"
	case strings.Contains(t, "passport"):
		return "passport"
	case strings.Contains(t, "certificate"):
		return "certificate"
	case strings.Contains(t, "license") || strings.Contains(t, "licence"):
		return "license"
	default:
		return "other"
	}
}
