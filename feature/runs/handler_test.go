package runs

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"inventory-sync/core/ingest"
	"inventory-sync/core/storage/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRunsEndpoints(t *testing.T) {
	store := newTestStore(t)
	mockClient := new(mocks.Client)
	feature := NewFeature(store, mockClient, testBucket, zap.NewNop())

	app := fiber.New()
	require.NoError(t, feature.Load(app))

	runID := seedRun(t, store, ingest.StatusCompleted)

	// List
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/runs", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	resp.Body.Close()
	require.Len(t, list, 1)
	assert.Equal(t, runID, list[0]["run_id"])

	// Get
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/runs/"+runID, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/runs/no-such-run", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Export
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/runs/"+runID+"/export", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, xlsxContentType, resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), runID)
	resp.Body.Close()

	// Archive
	mockClient.On("PutObject", mock.Anything, testBucket, "reports/runs/"+runID+".xlsx",
		mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/runs/"+runID+"/archive", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var archived map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&archived))
	resp.Body.Close()
	assert.Equal(t, "reports/runs/"+runID+".xlsx", archived["object"])
	mockClient.AssertExpectations(t)
}
