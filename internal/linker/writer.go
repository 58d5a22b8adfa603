package linker

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dengue-kg/backend/internal/catalog"
	"github.com/dengue-kg/backend/internal/graph"
	"github.com/dengue-kg/backend/pkg/logger"
)

// Writer persists matches as create-if-absent relationships. Writes are
// idempotent at single-relationship granularity: a repeat run over already
// linked pairs creates nothing and is not an error.
type Writer struct {
	store graph.Executor
}

func NewWriter(store graph.Executor) *Writer {
	return &Writer{store: store}
}

// WriteLinks merges one typed relationship per (entity, candidate) pair and
// returns how many were newly created alongside how many writes failed.
// Individual write failures are logged and skipped; they never abort the
// batch.
func (w *Writer) WriteLinks(ctx context.Context, category graph.Category, entity catalog.Entity, candidates []Candidate, linkType LinkType) (created, failed int) {
	if len(candidates) == 0 {
		return 0, 0
	}

	targetLabel := "Reference"
	if candidates[0].Kind == KindOntologyTerm {
		targetLabel = "OntologyTerm"
	}

	query := fmt.Sprintf(`
		MATCH (n:%s {id: $entity_id})
		MATCH (t:%s {id: $target_id})
		MERGE (n)-[:%s]->(t)
	`, category.Label(), targetLabel, linkType)

	for _, candidate := range candidates {
		summary, err := w.store.Write(ctx, query, map[string]any{
			"entity_id": entity.ID,
			"target_id": candidate.ID,
		})
		if err != nil {
			failed++
			logger.Warn("Failed to write link",
				zap.String("category", string(category)),
				zap.String("entity", entity.Name),
				zap.String("target", candidate.ID),
				zap.Error(err),
			)
			continue
		}

		if summary.RelationshipsCreated > 0 {
			created += summary.RelationshipsCreated
			logger.Debug("Link created",
				zap.String("category", string(category)),
				zap.String("entity", entity.Name),
				zap.String("link_type", string(linkType)),
				zap.String("target", candidate.ID),
			)
		}
	}

	return created, failed
}
