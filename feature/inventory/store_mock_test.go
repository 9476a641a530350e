package inventory

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"inventory-sync/core/ingest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	require.NoError(t, err)

	return NewStore(gormDB), mock
}

func TestWorklistQueryShape(t *testing.T) {
	store, mock := setupMockDB(t)
	since := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "external_id", "payload", "enriched_at"}).
		AddRow(int64(7), "101", `{"id":101}`, nil)

	// The worklist picks the newest row per external id via MAX(id) and
	// applies the since cutoff in SQL.
	mock.ExpectQuery(regexp.QuoteMeta("SELECT MAX(id) AS id")).
		WithArgs("user", "helpdesk", since).
		WillReturnRows(rows)

	items, err := store.EntitiesNeedingEnrichment(context.Background(), ingest.WorklistQuery{
		EntityType:   "user",
		SourceSystem: "helpdesk",
		Since:        &since,
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(7), items[0].ID)
	assert.Equal(t, "101", items[0].ExternalID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorklistQueryError(t *testing.T) {
	store, mock := setupMockDB(t)

	mock.ExpectQuery("FROM raw_entities").
		WillReturnError(errors.New("connection reset"))

	_, err := store.EntitiesNeedingEnrichment(context.Background(), ingest.WorklistQuery{
		EntityType:   "user",
		SourceSystem: "helpdesk",
	})
	assert.ErrorContains(t, err, "worklist query failed")
}

func TestLatestSnapshotQueryError(t *testing.T) {
	store, mock := setupMockDB(t)

	mock.ExpectQuery("FROM .raw_entities.").
		WillReturnError(errors.New("connection reset"))

	_, err := store.LatestSnapshot(context.Background(), "user", "helpdesk", "101")
	assert.ErrorContains(t, err, "loading latest snapshot")
}

func TestLastCompletedRunQueryError(t *testing.T) {
	store, mock := setupMockDB(t)

	mock.ExpectQuery("FROM .ingestion_runs.").
		WillReturnError(errors.New("connection reset"))

	_, err := store.LastCompletedRun(context.Background(), "user", "helpdesk")
	assert.ErrorContains(t, err, "loading last completed run")
}
