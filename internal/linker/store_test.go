package linker

import (
	"context"
	"regexp"
	"strings"

	"github.com/dengue-kg/backend/internal/graph"
)

// fakeStore is an in-memory stand-in for the graph store. It dispatches on
// the shape of the query: candidate pool reads, entity reads, coverage counts
// and link merges. Merges are create-if-absent, mirroring the real store.
type fakeStore struct {
	// nodes maps a label to its rows. Candidate rows carry id/text/source,
	// entity rows carry id/name/description/concept_type.
	nodes map[string][]map[string]any

	// links tracks merged (entity id, target id) pairs.
	links map[string]map[string]bool

	// failOn makes any query containing the substring fail.
	failOn   string
	writeErr error
}

var labelPattern = regexp.MustCompile(`MATCH \(\w+:(\w+)`)

func newFakeStore() *fakeStore {
	return &fakeStore{
		nodes: map[string][]map[string]any{},
		links: map[string]map[string]bool{},
	}
}

func (s *fakeStore) addNode(label string, row map[string]any) {
	s.nodes[label] = append(s.nodes[label], row)
}

func (s *fakeStore) Read(_ context.Context, query string, params map[string]any) ([]map[string]any, error) {
	if s.failOn != "" && strings.Contains(query, s.failOn) {
		return nil, graph.ErrQuery
	}

	label := queryLabel(query)
	overall := strings.Contains(query, "NOT n:Reference")

	switch {
	case strings.Contains(query, "AS total") && overall:
		return []map[string]any{{"total": int64(s.countEntities(false))}}, nil
	case strings.Contains(query, "AS linked") && overall:
		return []map[string]any{{"linked": int64(s.countEntities(true))}}, nil
	case strings.Contains(query, "AS total"):
		return []map[string]any{{"total": int64(len(s.nodes[label]))}}, nil
	case strings.Contains(query, "AS linked"):
		return []map[string]any{{"linked": int64(s.countLinked(label))}}, nil
	case label == "Reference" || label == "OntologyTerm":
		return s.filterCandidates(label, params), nil
	default:
		return s.nodes[label], nil
	}
}

func (s *fakeStore) Write(_ context.Context, query string, params map[string]any) (graph.WriteSummary, error) {
	if s.writeErr != nil {
		return graph.WriteSummary{}, s.writeErr
	}
	if s.failOn != "" && strings.Contains(query, s.failOn) {
		return graph.WriteSummary{}, graph.ErrQuery
	}

	entityID := params["entity_id"].(string)
	targetID := params["target_id"].(string)

	if s.links[entityID] == nil {
		s.links[entityID] = map[string]bool{}
	}
	if s.links[entityID][targetID] {
		return graph.WriteSummary{}, nil
	}
	s.links[entityID][targetID] = true

	return graph.WriteSummary{RelationshipsCreated: 1}, nil
}

func (s *fakeStore) filterCandidates(label string, params map[string]any) []map[string]any {
	var keywords []string
	for name, value := range params {
		if strings.HasPrefix(name, "kw") {
			keywords = append(keywords, value.(string))
		}
	}
	requireKw, _ := params["require_kw"].(string)
	sourceOrgs, _ := params["source_orgs"].([]string)

	var out []map[string]any
	for _, row := range s.nodes[label] {
		text := strings.ToLower(stringField(row, "text"))

		if len(keywords) > 0 && !containsAny(text, keywords) {
			continue
		}
		if requireKw != "" && !strings.Contains(text, requireKw) {
			continue
		}
		if len(sourceOrgs) > 0 && !stringIn(stringField(row, "source"), sourceOrgs) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func (s *fakeStore) countEntities(linkedOnly bool) int {
	count := 0
	for label, rows := range s.nodes {
		if label == "Reference" || label == "OntologyTerm" {
			continue
		}
		for _, row := range rows {
			if !linkedOnly || len(s.links[stringField(row, "id")]) > 0 {
				count++
			}
		}
	}
	return count
}

func (s *fakeStore) countLinked(label string) int {
	count := 0
	for _, row := range s.nodes[label] {
		if len(s.links[stringField(row, "id")]) > 0 {
			count++
		}
	}
	return count
}

func (s *fakeStore) linkCount() int {
	count := 0
	for _, targets := range s.links {
		count += len(targets)
	}
	return count
}

func queryLabel(query string) string {
	if m := labelPattern.FindStringSubmatch(query); m != nil {
		return m[1]
	}
	return ""
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func stringIn(s string, set []string) bool {
	for _, v := range set {
		if s == v {
			return true
		}
	}
	return false
}
