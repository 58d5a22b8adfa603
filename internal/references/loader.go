package references

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dengue-kg/backend/internal/graph"
	"github.com/dengue-kg/backend/internal/storage/models"
	"github.com/dengue-kg/backend/pkg/logger"
)

// Loader writes Reference nodes into the graph. Nodes are merged on URL so
// re-loading the same documents never duplicates a citation; attributes are
// set only on first creation.
//
// REF_<n> ids form one sequence across every Load call of a Loader, seeded
// from the highest id already in the store, and advance only when a node is
// actually created. One Loader instance must serve a whole invocation.
type Loader struct {
	store  graph.Executor
	nextID int
}

func NewLoader(store graph.Executor) *Loader {
	return &Loader{store: store}
}

const mergeReferenceQuery = `
	MERGE (r:Reference {url: $url})
	ON CREATE SET
		r.title = $title,
		r.access_date = $access_date,
		r.source_org = $source_org,
		r.doc_source = $doc_source,
		r.id = $id
`

func (l *Loader) Load(ctx context.Context, refs []models.Reference) (created int, err error) {
	if l.nextID == 0 {
		maxID, err := l.maxAssignedID(ctx)
		if err != nil {
			return 0, err
		}
		l.nextID = maxID + 1
	}

	for _, ref := range refs {
		params := map[string]any{
			"url":         ref.URL,
			"title":       ref.Title,
			"access_date": ref.AccessDate,
			"source_org":  ref.SourceOrg,
			"doc_source":  ref.DocSource,
			"id":          fmt.Sprintf("REF_%d", l.nextID),
		}

		summary, err := l.store.Write(ctx, mergeReferenceQuery, params)
		if err != nil {
			logger.Warn("Failed to merge reference",
				zap.String("url", ref.URL),
				zap.Error(err),
			)
			continue
		}

		// A merge that matched an existing URL leaves the candidate id unused.
		if summary.NodesCreated > 0 {
			created += summary.NodesCreated
			l.nextID++
		}
	}

	logger.Info("References loaded",
		zap.Int("extracted", len(refs)),
		zap.Int("created", created),
	)

	return created, nil
}

// maxAssignedID scans the ids already in the store so a later invocation
// continues the REF_<n> sequence instead of restarting it.
func (l *Loader) maxAssignedID(ctx context.Context) (int, error) {
	rows, err := l.store.Read(ctx, `
		MATCH (r:Reference)
		WHERE r.id STARTS WITH 'REF_'
		RETURN r.id AS id
	`, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to read existing reference ids: %w", err)
	}

	maxID := 0
	for _, row := range rows {
		id, _ := row["id"].(string)
		var n int
		if _, err := fmt.Sscanf(id, "REF_%d", &n); err == nil && n > maxID {
			maxID = n
		}
	}

	return maxID, nil
}
