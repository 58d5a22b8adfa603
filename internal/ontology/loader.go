package ontology

import (
	"context"

	"go.uber.org/zap"

	"github.com/dengue-kg/backend/internal/graph"
	"github.com/dengue-kg/backend/internal/storage/models"
	"github.com/dengue-kg/backend/pkg/logger"
)

// Loader merges OntologyTerm nodes keyed on the external ontology id.
// Re-loading an ontology file is a no-op for terms already present.
type Loader struct {
	store graph.Executor
}

func NewLoader(store graph.Executor) *Loader {
	return &Loader{store: store}
}

const mergeTermQuery = `
	MERGE (ot:OntologyTerm {id: $id})
	ON CREATE SET
		ot.name = $name,
		ot.definition = $definition,
		ot.synonyms = $synonyms,
		ot.source = $source
`

func (l *Loader) Load(ctx context.Context, terms []models.OntologyTerm) (created int, err error) {
	for _, term := range terms {
		synonyms := term.Synonyms
		if synonyms == nil {
			synonyms = []string{}
		}

		summary, err := l.store.Write(ctx, mergeTermQuery, map[string]any{
			"id":         term.ID,
			"name":       term.Name,
			"definition": term.Definition,
			"synonyms":   synonyms,
			"source":     term.Source,
		})
		if err != nil {
			logger.Warn("Failed to merge ontology term",
				zap.String("id", term.ID),
				zap.Error(err),
			)
			continue
		}
		created += summary.NodesCreated
	}

	logger.Info("Ontology terms loaded",
		zap.Int("parsed", len(terms)),
		zap.Int("created", created),
	)

	return created, nil
}
