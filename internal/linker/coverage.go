package linker

import (
	"context"
	"fmt"
	"strings"

	"github.com/dengue-kg/backend/internal/graph"
)

// CoverageRow reports, for one category, how many entities carry at least one
// outgoing link of either type.
type CoverageRow struct {
	Category string  `json:"category"`
	Total    int     `json:"total_entities"`
	Linked   int     `json:"linked_entities"`
	Coverage float64 `json:"coverage_pct"`
}

// CoverageReport is the per-category table plus one aggregate row across all
// categories combined. References and ontology terms are targets of coverage,
// not subjects, so the aggregate excludes them.
type CoverageReport struct {
	Rows    []CoverageRow `json:"rows"`
	Overall CoverageRow   `json:"overall"`
}

// CoveragePct returns linked/total as a percentage, defined as 0 when the
// category is empty.
func CoveragePct(linked, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(linked) / float64(total) * 100
}

type Reporter struct {
	store graph.Executor
}

func NewReporter(store graph.Executor) *Reporter {
	return &Reporter{store: store}
}

func (r *Reporter) Report(ctx context.Context, categories []graph.Category) (*CoverageReport, error) {
	report := &CoverageReport{}

	for _, category := range categories {
		if !category.Valid() {
			return nil, fmt.Errorf("%w: %q", graph.ErrUnknownCategory, category)
		}

		total, err := r.countOne(ctx, fmt.Sprintf(
			"MATCH (n:%s) RETURN count(n) AS total", category.Label()), "total")
		if err != nil {
			return nil, fmt.Errorf("failed to count %s entities: %w", category, err)
		}

		linked, err := r.countOne(ctx, fmt.Sprintf(`
			MATCH (n:%s)
			WHERE (n)-[:HAS_REFERENCE]->() OR (n)-[:HAS_ONTOLOGY_TERM]->()
			RETURN count(n) AS linked
		`, category.Label()), "linked")
		if err != nil {
			return nil, fmt.Errorf("failed to count linked %s entities: %w", category, err)
		}

		report.Rows = append(report.Rows, CoverageRow{
			Category: string(category),
			Total:    total,
			Linked:   linked,
			Coverage: CoveragePct(linked, total),
		})
	}

	total, err := r.countOne(ctx, `
		MATCH (n)
		WHERE NOT n:Reference AND NOT n:OntologyTerm
		RETURN count(n) AS total
	`, "total")
	if err != nil {
		return nil, fmt.Errorf("failed to count overall entities: %w", err)
	}

	linked, err := r.countOne(ctx, `
		MATCH (n)
		WHERE NOT n:Reference AND NOT n:OntologyTerm
		  AND ((n)-[:HAS_REFERENCE]->() OR (n)-[:HAS_ONTOLOGY_TERM]->())
		RETURN count(n) AS linked
	`, "linked")
	if err != nil {
		return nil, fmt.Errorf("failed to count overall linked entities: %w", err)
	}

	report.Overall = CoverageRow{
		Category: "Overall",
		Total:    total,
		Linked:   linked,
		Coverage: CoveragePct(linked, total),
	}

	return report, nil
}

func (r *Reporter) countOne(ctx context.Context, query, field string) (int, error) {
	rows, err := r.store.Read(ctx, query, nil)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return intField(rows[0], field), nil
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

// String renders the coverage table for the run summary log.
func (r *CoverageReport) String() string {
	var b strings.Builder

	b.WriteString("Link Coverage by Category:\n")
	b.WriteString(strings.Repeat("-", 70) + "\n")
	fmt.Fprintf(&b, "%-25s | %-8s | %-10s | %s\n", "Category", "Total", "Linked", "Coverage")
	b.WriteString(strings.Repeat("-", 70) + "\n")

	for _, row := range r.Rows {
		fmt.Fprintf(&b, "%-25s | %-8d | %-10d | %.1f%%\n",
			row.Category, row.Total, row.Linked, row.Coverage)
	}

	b.WriteString(strings.Repeat("-", 70) + "\n")
	fmt.Fprintf(&b, "Overall: %d/%d entities (%.1f%%)\n",
		r.Overall.Linked, r.Overall.Total, r.Overall.Coverage)

	return b.String()
}
