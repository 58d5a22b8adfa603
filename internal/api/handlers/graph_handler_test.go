package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dengue-kg/backend/internal/graph"
)

// fakeStore answers reads by query substring, in insertion-independent order:
// the first configured needle found in the query wins.
type fakeStore struct {
	responses []fakeResponse
	err       error
}

type fakeResponse struct {
	needle string
	rows   []map[string]any
}

func (s *fakeStore) on(needle string, rows []map[string]any) *fakeStore {
	s.responses = append(s.responses, fakeResponse{needle: needle, rows: rows})
	return s
}

func (s *fakeStore) Read(_ context.Context, query string, _ map[string]any) ([]map[string]any, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, r := range s.responses {
		if strings.Contains(query, r.needle) {
			return r.rows, nil
		}
	}
	return []map[string]any{}, nil
}

func (s *fakeStore) Write(context.Context, string, map[string]any) (graph.WriteSummary, error) {
	return graph.WriteSummary{}, nil
}

func testApp(store *fakeStore) *fiber.App {
	h := NewGraphHandler(store, nil)

	app := fiber.New()
	app.Get("/health", h.Health)
	app.Get("/graph/nodes/:category", h.NodesByCategory)
	app.Get("/entities/:category/:id/links", h.EntityLinks)
	app.Get("/search", h.Search)
	return app
}

func doRequest(t *testing.T, app *fiber.App, path string) (int, map[string]any) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(payload, &body))
	return resp.StatusCode, body
}

func TestGraphHandler_Health(t *testing.T) {
	store := (&fakeStore{}).on("RETURN 1", []map[string]any{{"n": 1}})
	app := testApp(store)

	status, body := doRequest(t, app, "/health")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])
}

func TestGraphHandler_Health_StoreDown(t *testing.T) {
	store := &fakeStore{err: graph.ErrQuery}
	app := testApp(store)

	status, body := doRequest(t, app, "/health")

	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "unhealthy", body["status"])
}

func TestGraphHandler_NodesByCategory(t *testing.T) {
	store := (&fakeStore{}).on("MATCH (n:Symptom)", []map[string]any{
		{"id": "s1", "name": "Fever", "description": "Elevated temperature"},
		{"id": "s2", "name": "Rash", "description": nil},
	})
	app := testApp(store)

	status, body := doRequest(t, app, "/graph/nodes/Symptom")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Symptom", body["category"])
	assert.Equal(t, float64(2), body["count"])
}

func TestGraphHandler_NodesByCategory_Unknown(t *testing.T) {
	app := testApp(&fakeStore{})

	status, body := doRequest(t, app, "/graph/nodes/DropAllTables")

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Unknown category", body["error"])
}

func TestGraphHandler_EntityLinks(t *testing.T) {
	store := (&fakeStore{}).on("HAS_REFERENCE|HAS_ONTOLOGY_TERM", []map[string]any{
		{
			"link_type":     "HAS_ONTOLOGY_TERM",
			"target_id":     "IDODEN_0000049",
			"target_text":   "dengue disease clinical manifestation",
			"target_source": "idoden",
			"target_url":    nil,
		},
	})
	app := testApp(store)

	status, body := doRequest(t, app, "/entities/Symptom/s1/links")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "s1", body["id"])
	assert.Equal(t, float64(1), body["count"])
}

func TestGraphHandler_EntityLinks_UnknownCategory(t *testing.T) {
	app := testApp(&fakeStore{})

	status, _ := doRequest(t, app, "/entities/Bogus/s1/links")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestGraphHandler_Search(t *testing.T) {
	store := (&fakeStore{}).on("CONTAINS $q", []map[string]any{
		{"category": "Symptom", "id": "s1", "name": "Fever"},
	})
	app := testApp(store)

	status, body := doRequest(t, app, "/search?q=fever")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "fever", body["query"])
	assert.Equal(t, float64(1), body["count"])
}

func TestGraphHandler_Search_MissingQuery(t *testing.T) {
	app := testApp(&fakeStore{})

	status, _ := doRequest(t, app, "/search")
	assert.Equal(t, http.StatusBadRequest, status)
}
