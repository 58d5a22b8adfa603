package linker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dengue-kg/backend/internal/catalog"
	"github.com/dengue-kg/backend/internal/graph"
	"github.com/dengue-kg/backend/internal/metrics"
	"github.com/dengue-kg/backend/pkg/logger"
)

// CategoryResult accumulates one category's contribution to the run.
type CategoryResult struct {
	Category      graph.Category
	Entities      int
	LinksCreated  int
	Unmatchable   int
	Unlinked      int
	WriteFailures int
	Failed        bool
}

// Summary is the outcome of one full linking run.
type Summary struct {
	RunID            string
	StartedAt        time.Time
	FinishedAt       time.Time
	Categories       []CategoryResult
	EntitiesSeen     int
	LinksCreated     int
	Unmatchable      int
	Unlinked         int
	WriteFailures    int
	CategoriesFailed int
	Coverage         *CoverageReport
}

// Orchestrator sequences the categories through read, pool build, match and
// write, then produces the coverage report. Its failure model is best-effort:
// a failing category is logged and skipped, never aborting the run.
type Orchestrator struct {
	reader   *catalog.Reader
	pools    *PoolBuilder
	writer   *Writer
	reporter *Reporter
	cfg      MatchConfig
	specs    []CategorySpec
}

func NewOrchestrator(store graph.Executor, cfg MatchConfig) *Orchestrator {
	return &Orchestrator{
		reader:   catalog.NewReader(store),
		pools:    NewPoolBuilder(store),
		writer:   NewWriter(store),
		reporter: NewReporter(store),
		cfg:      cfg,
		specs:    CategorySpecs,
	}
}

func (o *Orchestrator) Run(ctx context.Context) *Summary {
	summary := &Summary{
		RunID:     uuid.New().String(),
		StartedAt: time.Now().UTC(),
	}

	logger.Info("Linking run started",
		zap.String("run_id", summary.RunID),
		zap.Int("categories", len(o.specs)),
	)

	for _, spec := range o.specs {
		result := o.runCategory(ctx, spec)
		summary.Categories = append(summary.Categories, result)

		summary.EntitiesSeen += result.Entities
		summary.LinksCreated += result.LinksCreated
		summary.Unmatchable += result.Unmatchable
		summary.Unlinked += result.Unlinked
		summary.WriteFailures += result.WriteFailures
		if result.Failed {
			summary.CategoriesFailed++
		}
	}

	categories := make([]graph.Category, 0, len(o.specs))
	for _, spec := range o.specs {
		categories = append(categories, spec.Category)
	}

	report, err := o.reporter.Report(ctx, categories)
	if err != nil {
		logger.Error("Coverage reporting failed", zap.Error(err))
	} else {
		summary.Coverage = report
		for _, row := range report.Rows {
			metrics.CategoryCoverage.WithLabelValues(row.Category).Set(row.Coverage)
		}
	}

	summary.FinishedAt = time.Now().UTC()

	logger.Info("Linking run finished",
		zap.String("run_id", summary.RunID),
		zap.Int("entities_seen", summary.EntitiesSeen),
		zap.Int("links_created", summary.LinksCreated),
		zap.Int("unmatchable", summary.Unmatchable),
		zap.Int("unlinked", summary.Unlinked),
		zap.Int("categories_failed", summary.CategoriesFailed),
		zap.Duration("elapsed", summary.FinishedAt.Sub(summary.StartedAt)),
	)

	return summary
}

func (o *Orchestrator) runCategory(ctx context.Context, spec CategorySpec) CategoryResult {
	result := CategoryResult{Category: spec.Category}

	entities, err := o.reader.FetchEntities(ctx, spec.Category)
	if err != nil {
		logger.Error("Failed to fetch entities, skipping category",
			zap.String("category", string(spec.Category)),
			zap.Error(err),
		)
		result.Failed = true
		return result
	}
	result.Entities = len(entities)

	pool, err := o.pools.FetchCandidates(ctx, spec.Kind, spec.Filter)
	if err != nil {
		logger.Error("Failed to fetch candidate pool, skipping category",
			zap.String("category", string(spec.Category)),
			zap.Error(err),
		)
		result.Failed = true
		return result
	}
	metrics.CandidatePoolSize.WithLabelValues(string(spec.Category)).Observe(float64(len(pool)))

	matcher := NewMatcher(o.cfg, spec)
	linkType := LinkTypeFor(spec.Kind)

	for _, entity := range entities {
		metrics.EntitiesProcessed.WithLabelValues(string(spec.Category)).Inc()

		match := matcher.Match(entity, pool)
		if match.Unmatchable {
			result.Unmatchable++
			metrics.UnmatchableEntities.Inc()
			logger.Debug("Entity has no usable name, skipped",
				zap.String("category", string(spec.Category)),
				zap.String("id", entity.ID),
			)
			continue
		}

		metrics.MatchesByTier.WithLabelValues(match.Tier.String()).Inc()

		if match.Tier == TierNone {
			result.Unlinked++
			logger.Debug("No candidate matched at any tier",
				zap.String("category", string(spec.Category)),
				zap.String("entity", entity.Name),
			)
			continue
		}

		created, failed := o.writer.WriteLinks(ctx, spec.Category, entity, match.Candidates, linkType)
		result.LinksCreated += created
		result.WriteFailures += failed
		metrics.LinksCreated.WithLabelValues(string(spec.Category), string(linkType)).Add(float64(created))
	}

	logger.Info("Category processed",
		zap.String("category", string(spec.Category)),
		zap.Int("entities", result.Entities),
		zap.Int("pool_size", len(pool)),
		zap.Int("links_created", result.LinksCreated),
		zap.Int("unmatchable", result.Unmatchable),
		zap.Int("unlinked", result.Unlinked),
	)

	return result
}
