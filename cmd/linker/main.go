package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/dengue-kg/backend/internal/cache/redis"
	"github.com/dengue-kg/backend/internal/graph"
	"github.com/dengue-kg/backend/internal/linker"
	"github.com/dengue-kg/backend/internal/metrics"
	"github.com/dengue-kg/backend/internal/storage/models"
	"github.com/dengue-kg/backend/internal/storage/sqlite"
	"github.com/dengue-kg/backend/pkg/config"
	appLogger "github.com/dengue-kg/backend/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		return 1
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		return 1
	}
	defer appLogger.Sync()

	appLogger.Info("Starting reference and ontology linking run")

	metrics.Init()

	ctx := context.Background()

	// Fail fast: without the graph store there is nothing to do.
	graphClient, err := graph.NewClient(ctx, cfg.Neo4j)
	if err != nil {
		if errors.Is(err, graph.ErrStoreUnavailable) {
			appLogger.Error("Graph store unavailable, aborting run", zap.Error(err))
		} else {
			appLogger.Error("Failed to create graph client", zap.Error(err))
		}
		metrics.LinkerRunsTotal.WithLabelValues("aborted").Inc()
		return 1
	}
	defer graphClient.Close(ctx)

	runStore, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Warn("Run history unavailable", zap.Error(err))
		runStore = nil
	} else {
		defer runStore.Close()
		if err := runStore.InitSchema(); err != nil {
			appLogger.Warn("Failed to initialize run history schema", zap.Error(err))
			runStore = nil
		}
	}

	matchCfg := linker.MatchConfig{
		SimilarityThreshold: cfg.Linker.SimilarityThreshold,
		MinTokenLength:      cfg.Linker.MinTokenLength,
	}

	orchestrator := linker.NewOrchestrator(graphClient, matchCfg)
	summary := orchestrator.Run(ctx)

	status := "completed"
	if summary.CategoriesFailed > 0 {
		status = "completed_with_errors"
	}
	metrics.LinkerRunsTotal.WithLabelValues(status).Inc()

	if summary.Coverage != nil {
		fmt.Println(summary.Coverage.String())
	}

	if runStore != nil {
		persistRun(runStore, summary, status)
	}

	if cfg.Redis.Enabled {
		invalidateCache(ctx, cfg)
	}

	appLogger.Info("Linking run complete",
		zap.String("run_id", summary.RunID),
		zap.String("status", status),
		zap.Int("links_created", summary.LinksCreated),
	)

	return 0
}

func persistRun(runStore *sqlite.Client, summary *linker.Summary, status string) {
	run := &models.LinkRun{
		ID:                  summary.RunID,
		StartedAt:           summary.StartedAt,
		FinishedAt:          summary.FinishedAt,
		CategoriesProcessed: len(summary.Categories) - summary.CategoriesFailed,
		CategoriesFailed:    summary.CategoriesFailed,
		EntitiesSeen:        summary.EntitiesSeen,
		LinksCreated:        summary.LinksCreated,
		Unmatchable:         summary.Unmatchable,
		WriteFailures:       summary.WriteFailures,
		Status:              status,
	}

	if err := runStore.InsertRun(run); err != nil {
		appLogger.Warn("Failed to persist run record", zap.Error(err))
		return
	}

	if summary.Coverage == nil {
		return
	}

	snapshots := make([]models.CoverageSnapshot, 0, len(summary.Coverage.Rows))
	for _, row := range summary.Coverage.Rows {
		snapshots = append(snapshots, models.CoverageSnapshot{
			Category:    row.Category,
			Total:       row.Total,
			Linked:      row.Linked,
			CoveragePct: row.Coverage,
		})
	}

	if err := runStore.InsertCoverageSnapshots(summary.RunID, snapshots); err != nil {
		appLogger.Warn("Failed to persist coverage snapshots", zap.Error(err))
	}
}

func invalidateCache(ctx context.Context, cfg *config.Config) {
	cacheClient, err := redis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		time.Duration(cfg.Redis.TTLSec)*time.Second,
	)
	if err != nil {
		appLogger.Warn("Redis unavailable, skipping cache invalidation", zap.Error(err))
		return
	}
	defer cacheClient.Close()

	if err := cacheClient.Invalidate(ctx); err != nil {
		appLogger.Warn("Failed to invalidate response cache", zap.Error(err))
	}
}
