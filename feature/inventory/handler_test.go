package inventory

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"inventory-sync/core/database"
	"inventory-sync/core/ingest"
	"inventory-sync/core/source"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeHelpdesk serves a two-user source system: a shallow list plus detail
// payloads carrying the enrichment-only fields.
func fakeHelpdesk(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/users", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("page") != "1" {
			fmt.Fprint(w, `{"total": 2, "users": []}`)
			return
		}
		fmt.Fprint(w, `{"total": 2, "users": [
			{"id": 101, "name": "Alice", "email": "alice@example.com", "active": true},
			{"id": 102, "name": "Bob", "email": "bob@example.com", "active": true}
		]}`)
	})
	mux.HandleFunc("/api/v1/users/101", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"user": {"id": 101, "name": "Alice", "email": "alice@example.com", "active": true,
			"permissions": {"admin": true}, "groups": ["staff"]}}`)
	})
	mux.HandleFunc("/api/v1/users/102", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"user": {"id": 102, "name": "Bob", "email": "bob@example.com", "active": true,
			"permissions": {}, "groups": []}}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	srv := fakeHelpdesk(t)

	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	client := source.New(source.Config{BaseURL: srv.URL, PageSize: 50, TimeoutSeconds: 5}, zap.NewNop())
	feature := NewFeature(db, client, "helpdesk", ingest.Options{Workers: 2, PoolSize: 2, ProgressEvery: 10}, zap.NewNop())

	app := fiber.New()
	require.NoError(t, feature.Load(app))
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	resp, err := app.Test(req, 10000)
	require.NoError(t, err)
	defer resp.Body.Close()

	body := map[string]any{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestHandleSyncFirstAndIncrementalRun(t *testing.T) {
	app := newTestApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/sync/user")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, ingest.StatusCompleted, body["status"])
	assert.NotEmpty(t, body["run_id"])

	stats, ok := body["stats"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(2), stats["created"], "two shallow snapshots from discovery")
	assert.Equal(t, float64(2), stats["updated"], "two enrichment snapshots over them")
	assert.Equal(t, float64(2), stats["processed"])

	// The follow-up incremental run sees no drift and an empty worklist.
	status, body = doJSON(t, app, http.MethodPost, "/sync/user")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, ingest.StatusCompleted, body["status"])
	stats = body["stats"].(map[string]any)
	assert.Equal(t, float64(0), stats["created"])
	assert.Equal(t, float64(0), stats["updated"])
	assert.Equal(t, float64(0), stats["processed"])
}

func TestHandleSyncDryRunPersistsNothing(t *testing.T) {
	app := newTestApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/sync/user?dry_run=true")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, ingest.StatusCompleted, body["status"])

	stats := body["stats"].(map[string]any)
	assert.Equal(t, float64(2), stats["would_create"])
	assert.Equal(t, float64(0), stats["created"])

	// Nothing was written, so the entity is still unknown.
	status, _ = doJSON(t, app, http.MethodGet, "/entities/user/101")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestHandleSyncUnknownEntityType(t *testing.T) {
	app := newTestApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/sync/widget")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "unknown entity type")
}

func TestHandleGetEntity(t *testing.T) {
	app := newTestApp(t)

	status, _ := doJSON(t, app, http.MethodPost, "/sync/user")
	require.Equal(t, http.StatusOK, status)

	status, body := doJSON(t, app, http.MethodGet, "/entities/user/101")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "101", body["external_id"])
	assert.NotEmpty(t, body["content_hash_enriched"])

	payload, ok := body["payload"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Alice", payload["name"])
	assert.Contains(t, payload, "permissions")

	status, _ = doJSON(t, app, http.MethodGet, "/entities/user/999")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = doJSON(t, app, http.MethodGet, "/entities/widget/1")
	assert.Equal(t, http.StatusBadRequest, status)
}
