package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dengue-kg/backend/internal/graph"
	"github.com/dengue-kg/backend/pkg/logger"
)

// Entity is one domain record eligible to receive links. Name may be empty
// for some categories; such entities are skipped by the matcher and counted
// as unmatchable.
type Entity struct {
	ID          string
	Name        string
	Description string
	ConceptType string
}

// Reader retrieves domain entities of a given category. The expected scale is
// hundreds of entities per category, so no pagination.
type Reader struct {
	store graph.Executor
}

func NewReader(store graph.Executor) *Reader {
	return &Reader{store: store}
}

func (r *Reader) FetchEntities(ctx context.Context, category graph.Category) ([]Entity, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %q", graph.ErrUnknownCategory, category)
	}

	query := fmt.Sprintf(`
		MATCH (n:%s)
		RETURN n.id AS id, n.name AS name, n.description AS description,
		       n.conceptType AS concept_type
		ORDER BY n.name
	`, category.Label())

	rows, err := r.store.Read(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s entities: %w", category, err)
	}

	entities := make([]Entity, 0, len(rows))
	for _, row := range rows {
		entities = append(entities, Entity{
			ID:          stringField(row, "id"),
			Name:        stringField(row, "name"),
			Description: stringField(row, "description"),
			ConceptType: stringField(row, "concept_type"),
		})
	}

	logger.Debug("Fetched entities",
		zap.String("category", string(category)),
		zap.Int("count", len(entities)),
	)

	return entities, nil
}

func stringField(row map[string]any, key string) string {
	if v, ok := row[key].(string); ok {
		return v
	}
	return ""
}
