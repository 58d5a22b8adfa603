package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/dengue-kg/backend/internal/cache/redis"
	"github.com/dengue-kg/backend/internal/graph"
	"github.com/dengue-kg/backend/internal/metrics"
	"github.com/dengue-kg/backend/pkg/logger"
)

// GraphHandler serves the thin read projections over the knowledge graph.
// cache may be nil; every cached path degrades to a direct read.
type GraphHandler struct {
	store graph.Executor
	cache *redis.Client
}

func NewGraphHandler(store graph.Executor, cache *redis.Client) *GraphHandler {
	return &GraphHandler{store: store, cache: cache}
}

func (h *GraphHandler) Health(c *fiber.Ctx) error {
	rows, err := h.store.Read(c.Context(), "RETURN 1 AS n", nil)
	if err != nil || len(rows) != 1 {
		logger.Error("Health check failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":   "unhealthy",
			"database": "unreachable",
		})
	}

	return c.JSON(fiber.Map{
		"status":   "healthy",
		"database": "connected",
	})
}

func (h *GraphHandler) GraphInfo(c *fiber.Ctx) error {
	labelsRows, err := h.store.Read(c.Context(), "CALL db.labels()", nil)
	if err != nil {
		return h.storeError(c, "Failed to list labels", err)
	}
	labels := collectStrings(labelsRows, "label")

	relRows, err := h.store.Read(c.Context(), "CALL db.relationshipTypes()", nil)
	if err != nil {
		return h.storeError(c, "Failed to list relationship types", err)
	}
	relTypes := collectStrings(relRows, "relationshipType")

	countRows, err := h.store.Read(c.Context(), `
		MATCH (n)
		OPTIONAL MATCH ()-[r]->()
		RETURN count(DISTINCT n) AS node_count, count(DISTINCT r) AS rel_count
	`, nil)
	if err != nil {
		return h.storeError(c, "Failed to count graph elements", err)
	}

	nodeCount, relCount := 0, 0
	if len(countRows) > 0 {
		nodeCount = intField(countRows[0], "node_count")
		relCount = intField(countRows[0], "rel_count")
	}

	return c.JSON(fiber.Map{
		"labels":             labels,
		"relationship_types": relTypes,
		"node_count":         nodeCount,
		"relationship_count": relCount,
	})
}

func (h *GraphHandler) GraphStats(c *fiber.Ctx) error {
	nodeCounts := fiber.Map{}
	for _, category := range graph.AllCategories {
		rows, err := h.store.Read(c.Context(),
			"MATCH (n:"+category.Label()+") RETURN count(n) AS count", nil)
		if err != nil {
			return h.storeError(c, "Failed to count nodes", err)
		}
		if len(rows) > 0 {
			nodeCounts[string(category)] = intField(rows[0], "count")
		}
	}

	relCounts := fiber.Map{}
	for _, relType := range []string{"HAS_REFERENCE", "HAS_ONTOLOGY_TERM"} {
		rows, err := h.store.Read(c.Context(),
			"MATCH ()-[r:"+relType+"]->() RETURN count(r) AS count", nil)
		if err != nil {
			return h.storeError(c, "Failed to count relationships", err)
		}
		if len(rows) > 0 {
			relCounts[relType] = intField(rows[0], "count")
		}
	}

	return c.JSON(fiber.Map{
		"node_count_by_category":     nodeCounts,
		"relationship_count_by_type": relCounts,
	})
}

func (h *GraphHandler) NodesByCategory(c *fiber.Ctx) error {
	category, err := graph.ParseCategory(c.Params("category"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown category",
		})
	}

	cacheKey := "nodes:" + string(category)
	var cached fiber.Map
	if h.cacheGet(c, cacheKey, &cached) {
		return c.JSON(cached)
	}

	rows, err := h.store.Read(c.Context(), `
		MATCH (n:`+category.Label()+`)
		RETURN n.id AS id, n.name AS name, n.description AS description
		ORDER BY n.name
	`, nil)
	if err != nil {
		return h.storeError(c, "Failed to fetch nodes", err)
	}

	response := fiber.Map{
		"category": category,
		"nodes":    rows,
		"count":    len(rows),
	}
	h.cacheSet(c, cacheKey, response)

	return c.JSON(response)
}

func (h *GraphHandler) EntityLinks(c *fiber.Ctx) error {
	category, err := graph.ParseCategory(c.Params("category"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown category",
		})
	}

	entityID := c.Params("id")
	if entityID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Entity id is required",
		})
	}

	rows, err := h.store.Read(c.Context(), `
		MATCH (n:`+category.Label()+` {id: $id})-[r:HAS_REFERENCE|HAS_ONTOLOGY_TERM]->(t)
		RETURN type(r) AS link_type, t.id AS target_id,
		       coalesce(t.title, t.name) AS target_text,
		       coalesce(t.source_org, t.source) AS target_source,
		       t.url AS target_url
	`, map[string]any{"id": entityID})
	if err != nil {
		return h.storeError(c, "Failed to fetch entity links", err)
	}

	return c.JSON(fiber.Map{
		"category": category,
		"id":       entityID,
		"links":    rows,
		"count":    len(rows),
	})
}

func (h *GraphHandler) Search(c *fiber.Ctx) error {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Query parameter q is required",
		})
	}

	rows, err := h.store.Read(c.Context(), `
		MATCH (n)
		WHERE NOT n:Reference AND NOT n:OntologyTerm
		  AND toLower(n.name) CONTAINS $q
		RETURN labels(n)[0] AS category, n.id AS id, n.name AS name
		ORDER BY n.name
		LIMIT 50
	`, map[string]any{"q": strings.ToLower(q)})
	if err != nil {
		return h.storeError(c, "Search failed", err)
	}

	return c.JSON(fiber.Map{
		"query":   q,
		"results": rows,
		"count":   len(rows),
	})
}

func (h *GraphHandler) storeError(c *fiber.Ctx, msg string, err error) error {
	logger.Error(msg, zap.Error(err))
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": msg,
	})
}

func (h *GraphHandler) cacheGet(c *fiber.Ctx, key string, out any) bool {
	if h.cache == nil {
		return false
	}
	hit, err := h.cache.GetResponse(c.Context(), key, out)
	if err != nil {
		logger.Warn("Cache read failed", zap.Error(err))
		return false
	}
	if hit {
		metrics.CacheHits.WithLabelValues("api").Inc()
	} else {
		metrics.CacheMisses.WithLabelValues("api").Inc()
	}
	return hit
}

func (h *GraphHandler) cacheSet(c *fiber.Ctx, key string, value any) {
	if h.cache == nil {
		return
	}
	if err := h.cache.SetResponse(c.Context(), key, value); err != nil {
		logger.Warn("Cache write failed", zap.Error(err))
	}
}

func collectStrings(rows []map[string]any, key string) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		if s, ok := row[key].(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func intField(row map[string]any, key string) int {
	switch v := row[key].(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}
