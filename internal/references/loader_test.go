package references

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dengue-kg/backend/internal/graph"
	"github.com/dengue-kg/backend/internal/storage/models"
)

type mergeStore struct {
	nodes map[string]map[string]any
}

func (s *mergeStore) Read(context.Context, string, map[string]any) ([]map[string]any, error) {
	var rows []map[string]any
	for _, node := range s.nodes {
		rows = append(rows, map[string]any{"id": node["id"]})
	}
	return rows, nil
}

func (s *mergeStore) Write(_ context.Context, _ string, params map[string]any) (graph.WriteSummary, error) {
	if s.nodes == nil {
		s.nodes = map[string]map[string]any{}
	}
	url := params["url"].(string)
	if _, exists := s.nodes[url]; exists {
		return graph.WriteSummary{}, nil
	}
	s.nodes[url] = params
	return graph.WriteSummary{NodesCreated: 1}, nil
}

func (s *mergeStore) assignedIDs() map[string][]string {
	urlsByID := map[string][]string{}
	for url, node := range s.nodes {
		id := node["id"].(string)
		urlsByID[id] = append(urlsByID[id], url)
	}
	return urlsByID
}

func TestLoader_Load(t *testing.T) {
	store := &mergeStore{}
	l := NewLoader(store)

	refs := []models.Reference{
		{URL: "https://www.cdc.gov/dengue", Title: "Dengue", SourceOrg: "CDC", DocSource: "doc"},
		{URL: "https://www.who.int/dengue", Title: "Dengue and severe dengue", SourceOrg: "WHO", DocSource: "doc"},
	}

	created, err := l.Load(context.Background(), refs)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	node := store.nodes["https://www.cdc.gov/dengue"]
	require.NotNil(t, node)
	assert.Equal(t, "Dengue", node["title"])
	assert.Equal(t, "CDC", node["source_org"])
	assert.Equal(t, "REF_1", node["id"])
	assert.Equal(t, "REF_2", store.nodes["https://www.who.int/dengue"]["id"])
}

func TestLoader_Load_IDsUniqueAcrossBatches(t *testing.T) {
	store := &mergeStore{}
	l := NewLoader(store)

	first := []models.Reference{
		{URL: "https://www.cdc.gov/dengue", Title: "Dengue"},
	}
	second := []models.Reference{
		{URL: "https://www.who.int/dengue", Title: "Dengue and severe dengue"},
	}

	created, err := l.Load(context.Background(), first)
	require.NoError(t, err)
	require.Equal(t, 1, created)

	// The second document continues the sequence; the counter never restarts.
	created, err = l.Load(context.Background(), second)
	require.NoError(t, err)
	require.Equal(t, 1, created)

	for id, urls := range store.assignedIDs() {
		assert.Len(t, urls, 1, "id %s assigned to %d urls", id, len(urls))
	}
	assert.Equal(t, "REF_2", store.nodes["https://www.who.int/dengue"]["id"])
}

func TestLoader_Load_ExistingURLsDoNotConsumeIDs(t *testing.T) {
	store := &mergeStore{}
	l := NewLoader(store)

	_, err := l.Load(context.Background(), []models.Reference{
		{URL: "https://www.cdc.gov/dengue", Title: "Dengue"},
	})
	require.NoError(t, err)

	created, err := l.Load(context.Background(), []models.Reference{
		{URL: "https://www.cdc.gov/dengue", Title: "Dengue"},
		{URL: "https://www.who.int/dengue", Title: "Dengue and severe dengue"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	// The already-merged URL did not advance the counter past the new node.
	assert.Equal(t, "REF_2", store.nodes["https://www.who.int/dengue"]["id"])
}

func TestLoader_Load_SeedsFromStore(t *testing.T) {
	store := &mergeStore{nodes: map[string]map[string]any{
		"https://www.paho.org/dengue": {"id": "REF_5", "url": "https://www.paho.org/dengue"},
	}}
	l := NewLoader(store)

	created, err := l.Load(context.Background(), []models.Reference{
		{URL: "https://www.cdc.gov/dengue", Title: "Dengue"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, created)

	// A fresh loader continues from the highest id already in the store.
	assert.Equal(t, "REF_6", store.nodes["https://www.cdc.gov/dengue"]["id"])
}

func TestLoader_Load_Reload(t *testing.T) {
	store := &mergeStore{}
	l := NewLoader(store)

	refs := []models.Reference{
		{URL: "https://www.cdc.gov/dengue", Title: "Dengue"},
	}

	created, err := l.Load(context.Background(), refs)
	require.NoError(t, err)
	require.Equal(t, 1, created)

	created, err = l.Load(context.Background(), refs)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Len(t, store.nodes, 1)
}
