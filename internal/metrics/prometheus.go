package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AnalyzeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "protected_analyze_duration_seconds",
			Help:    "Analysis request processing duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
	)

	AnalyzeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "protected_analyze_total",
			Help: "Total number of analysis requests processed",
		},
		[]string{"status"},
	)

	ClassificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "protected_classifications_total",
			Help: "Overall classifications by method and category",
		},
		[]string{"method", "category"},
	)

	RiskLevelTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "protected_risk_level_total",
			Help: "Computed risk levels by scope",
		},
		[]string{"scope", "risk"},
	)

	SectionsPerRequest = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "protected_sections_per_request",
			Help:    "Number of answer sections per analysis request",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
		},
	)

	ModelLayerAvailable = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "protected_model_layer_available",
			Help: "Whether a model-backed classification layer is available (1) or disabled (0)",
		},
		[]string{"layer"},
	)

	PersistenceFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "protected_persistence_failures_total",
			Help: "Assessment rows that failed to persist",
		},
	)

	EmbeddingCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "protected_embedding_cache_hits_total",
			Help: "Embedding cache hits",
		},
	)

	EmbeddingCacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "protected_embedding_cache_misses_total",
			Help: "Embedding cache misses",
		},
	)
)

func Init() {
	prometheus.MustRegister(AnalyzeDuration)
	prometheus.MustRegister(AnalyzeTotal)
	prometheus.MustRegister(ClassificationsTotal)
	prometheus.MustRegister(RiskLevelTotal)
	prometheus.MustRegister(SectionsPerRequest)
	prometheus.MustRegister(ModelLayerAvailable)
	prometheus.MustRegister(PersistenceFailures)
	prometheus.MustRegister(EmbeddingCacheHits)
	prometheus.MustRegister(EmbeddingCacheMisses)
}

func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
