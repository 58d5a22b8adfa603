package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	LinkerRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dengue_kg_linker_runs_total",
			Help: "Total linking runs by final status",
		},
		[]string{"status"},
	)

	LinksCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dengue_kg_links_created_total",
			Help: "New relationships created by category and link type",
		},
		[]string{"category", "link_type"},
	)

	EntitiesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dengue_kg_entities_processed_total",
			Help: "Entities examined by the matcher per category",
		},
		[]string{"category"},
	)

	MatchesByTier = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dengue_kg_matches_by_tier_total",
			Help: "Match outcomes by winning tier",
		},
		[]string{"tier"},
	)

	UnmatchableEntities = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dengue_kg_unmatchable_entities_total",
			Help: "Entities skipped for having no usable name",
		},
	)

	CategoryCoverage = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dengue_kg_category_coverage_pct",
			Help: "Link coverage percentage per entity category",
		},
		[]string{"category"},
	)

	CandidatePoolSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dengue_kg_candidate_pool_size",
			Help:    "Candidate pool size per category after filtering",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		},
		[]string{"category"},
	)

	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dengue_kg_api_request_duration_seconds",
			Help:    "Read API request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"route"},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dengue_kg_cache_hits_total",
			Help: "Total cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dengue_kg_cache_misses_total",
			Help: "Total cache misses",
		},
		[]string{"cache_type"},
	)
)

func Init() {
	prometheus.MustRegister(LinkerRunsTotal)
	prometheus.MustRegister(LinksCreated)
	prometheus.MustRegister(EntitiesProcessed)
	prometheus.MustRegister(MatchesByTier)
	prometheus.MustRegister(UnmatchableEntities)
	prometheus.MustRegister(CategoryCoverage)
	prometheus.MustRegister(CandidatePoolSize)
	prometheus.MustRegister(APIRequestDuration)
	prometheus.MustRegister(CacheHits)
	prometheus.MustRegister(CacheMisses)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
