package linker

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/dengue-kg/backend/internal/graph"
	"github.com/dengue-kg/backend/pkg/logger"
)

// PoolFilter is the coarse pre-filter that bounds the matching search space.
// Keywords are OR'd substring conditions on the candidate text. RequireKeyword
// is AND'd against the keyword group when set. SourceOrgs restricts reference
// candidates to the given publishing organizations.
type PoolFilter struct {
	Keywords       []string
	RequireKeyword string
	SourceOrgs     []string
}

func (f PoolFilter) empty() bool {
	return len(f.Keywords) == 0 && f.RequireKeyword == "" && len(f.SourceOrgs) == 0
}

// guidelineFilter is the marker subset used when a category filter yields
// nothing: every entity still gets a shot at a generic authoritative source.
var guidelineFilter = PoolFilter{Keywords: []string{"guideline"}}

// PoolBuilder fetches the candidate pool for one entity category.
type PoolBuilder struct {
	store graph.Executor
}

func NewPoolBuilder(store graph.Executor) *PoolBuilder {
	return &PoolBuilder{store: store}
}

// FetchCandidates returns the candidates of the given kind matching the
// filter. When the filtered pool is empty it falls back to the unfiltered
// guideline subset.
func (b *PoolBuilder) FetchCandidates(ctx context.Context, kind CandidateKind, filter PoolFilter) ([]Candidate, error) {
	pool, err := b.fetch(ctx, kind, filter)
	if err != nil {
		return nil, err
	}

	if len(pool) == 0 && !filter.empty() {
		logger.Debug("Filtered candidate pool empty, falling back to guideline subset",
			zap.String("kind", string(kind)),
		)
		return b.fetch(ctx, kind, guidelineFilter)
	}

	return pool, nil
}

func (b *PoolBuilder) fetch(ctx context.Context, kind CandidateKind, filter PoolFilter) ([]Candidate, error) {
	var query string
	params := map[string]any{}

	switch kind {
	case KindReference:
		query = buildCandidateQuery("Reference", "r", "r.title", "r.source_org", filter, params)
	case KindOntologyTerm:
		query = buildCandidateQuery("OntologyTerm", "ot", "ot.name", "ot.source", filter, params)
	default:
		return nil, fmt.Errorf("unknown candidate kind %q", kind)
	}

	rows, err := b.store.Read(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s candidates: %w", kind, err)
	}

	candidates := make([]Candidate, 0, len(rows))
	for _, row := range rows {
		candidates = append(candidates, Candidate{
			ID:     stringField(row, "id"),
			Text:   stringField(row, "text"),
			Source: stringField(row, "source"),
			Kind:   kind,
		})
	}

	return candidates, nil
}

// buildCandidateQuery assembles the pool query. Keywords and orgs travel as
// parameters; only the vetted label and property names are interpolated.
func buildCandidateQuery(label, alias, textProp, sourceProp string, filter PoolFilter, params map[string]any) string {
	var conditions []string

	if len(filter.Keywords) > 0 {
		var kwConds []string
		for i, kw := range filter.Keywords {
			name := fmt.Sprintf("kw%d", i)
			params[name] = strings.ToLower(kw)
			kwConds = append(kwConds, fmt.Sprintf("toLower(%s) CONTAINS $%s", textProp, name))
		}
		conditions = append(conditions, "("+strings.Join(kwConds, " OR ")+")")
	}

	if filter.RequireKeyword != "" {
		params["require_kw"] = strings.ToLower(filter.RequireKeyword)
		conditions = append(conditions, fmt.Sprintf("toLower(%s) CONTAINS $require_kw", textProp))
	}

	if len(filter.SourceOrgs) > 0 {
		params["source_orgs"] = filter.SourceOrgs
		conditions = append(conditions, fmt.Sprintf("%s IN $source_orgs", sourceProp))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	return fmt.Sprintf(`
		MATCH (%s:%s)
		%s
		RETURN %s.id AS id, %s AS text, %s AS source
	`, alias, label, where, alias, textProp, sourceProp)
}

func stringField(row map[string]any, key string) string {
	if v, ok := row[key].(string); ok {
		return v
	}
	return ""
}
