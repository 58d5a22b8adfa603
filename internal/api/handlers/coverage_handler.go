package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/dengue-kg/backend/internal/cache/redis"
	"github.com/dengue-kg/backend/internal/graph"
	"github.com/dengue-kg/backend/internal/linker"
	"github.com/dengue-kg/backend/internal/storage/sqlite"
	"github.com/dengue-kg/backend/pkg/logger"
)

type CoverageHandler struct {
	reporter *linker.Reporter
	runs     *sqlite.Client
	cache    *redis.Client
}

func NewCoverageHandler(store graph.Executor, runs *sqlite.Client, cache *redis.Client) *CoverageHandler {
	return &CoverageHandler{
		reporter: linker.NewReporter(store),
		runs:     runs,
		cache:    cache,
	}
}

func (h *CoverageHandler) Coverage(c *fiber.Ctx) error {
	if h.cache != nil {
		var cached linker.CoverageReport
		hit, err := h.cache.GetResponse(c.Context(), "coverage", &cached)
		if err != nil {
			logger.Warn("Cache read failed", zap.Error(err))
		} else if hit {
			return c.JSON(cached)
		}
	}

	report, err := h.reporter.Report(c.Context(), graph.AllCategories)
	if err != nil {
		logger.Error("Coverage report failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Failed to compute coverage",
		})
	}

	if h.cache != nil {
		if err := h.cache.SetResponse(c.Context(), "coverage", report); err != nil {
			logger.Warn("Cache write failed", zap.Error(err))
		}
	}

	return c.JSON(report)
}

func (h *CoverageHandler) Runs(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "limit must be between 1 and 100",
		})
	}

	runs, err := h.runs.GetRecentRuns(limit)
	if err != nil {
		logger.Error("Failed to fetch run history", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Failed to fetch run history",
		})
	}

	out := make([]fiber.Map, 0, len(runs))
	for _, run := range runs {
		out = append(out, fiber.Map{
			"id":                   run.ID,
			"started_at":           run.StartedAt,
			"finished_at":          run.FinishedAt,
			"categories_processed": run.CategoriesProcessed,
			"categories_failed":    run.CategoriesFailed,
			"entities_seen":        run.EntitiesSeen,
			"links_created":        run.LinksCreated,
			"unmatchable":          run.Unmatchable,
			"write_failures":       run.WriteFailures,
			"status":               run.Status,
		})
	}

	return c.JSON(fiber.Map{
		"runs":  out,
		"count": len(out),
	})
}

func (h *CoverageHandler) RunCoverage(c *fiber.Ctx) error {
	runID := c.Params("id")
	if runID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Run id is required",
		})
	}

	snapshots, err := h.runs.GetCoverageSnapshots(runID)
	if err != nil {
		logger.Error("Failed to fetch coverage snapshots", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Failed to fetch coverage snapshots",
		})
	}

	return c.JSON(fiber.Map{
		"run_id":   runID,
		"coverage": snapshots,
		"count":    len(snapshots),
	})
}
