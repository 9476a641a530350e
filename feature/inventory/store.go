package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"inventory-sync/core/ingest"
	"inventory-sync/core/reconcile"
	"inventory-sync/feature/inventory/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the persistence collaborator: the snapshot warehouse, the run
// history and the lab registry, all behind one *gorm.DB. It implements
// ingest.Store and ingest.RunStore.
type Store struct {
	db *gorm.DB
}

// NewStore creates a store over an established database connection.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the warehouse tables.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&models.RawEntity{}, &models.IngestionRun{}, &models.Lab{})
}

// worklistRow is the scan target for the latest-snapshot query.
type worklistRow struct {
	ID         int64
	ExternalID string
	Payload    string
	EnrichedAt *time.Time
}

// EntitiesNeedingEnrichment returns the worklist for a run: the latest
// snapshot per external id, optionally restricted to rows ingested after the
// last completed run, filtered in-memory by the enrichment probe. A full sync
// skips both filters and returns every latest snapshot.
func (s *Store) EntitiesNeedingEnrichment(ctx context.Context, q ingest.WorklistQuery) ([]ingest.WorkItem, error) {
	// MAX(id) per external id stands in for "newest by ingested_at": ids are
	// assigned in append order and cannot tie the way timestamps can.
	sql := `
		SELECT r.id, r.external_id, r.payload, r.enriched_at
		FROM raw_entities r
		JOIN (
			SELECT MAX(id) AS id
			FROM raw_entities
			WHERE entity_type = ? AND source_system = ?
			GROUP BY external_id
		) latest ON latest.id = r.id`
	args := []any{q.EntityType, q.SourceSystem}

	if !q.FullSync && q.Since != nil {
		sql += ` WHERE r.ingested_at > ?`
		args = append(args, *q.Since)
	}
	sql += ` ORDER BY r.id`

	var rows []worklistRow
	if err := s.db.WithContext(ctx).Raw(sql, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("worklist query failed: %w", err)
	}

	items := make([]ingest.WorkItem, 0, len(rows))
	for _, row := range rows {
		payload := map[string]any{}
		if row.Payload != "" {
			if err := json.Unmarshal([]byte(row.Payload), &payload); err != nil {
				return nil, fmt.Errorf("decoding payload of snapshot %d: %w", row.ID, err)
			}
		}
		if !q.FullSync && q.Probe != nil && !q.Probe(payload, row.EnrichedAt) {
			continue
		}
		name := ""
		if q.DisplayName != nil {
			name = q.DisplayName(payload)
		}
		items = append(items, ingest.WorkItem{ID: row.ID, DisplayName: name, ExternalID: row.ExternalID})
	}
	return items, nil
}

// LatestSnapshot returns the newest snapshot for the key, or (nil, nil) when
// the entity has never been seen.
func (s *Store) LatestSnapshot(ctx context.Context, entityType, sourceSystem, externalID string) (*ingest.Snapshot, error) {
	var row models.RawEntity
	err := s.db.WithContext(ctx).
		Where("entity_type = ? AND source_system = ? AND external_id = ?", entityType, sourceSystem, externalID).
		Order("id DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading latest snapshot: %w", err)
	}

	payload := map[string]any{}
	if row.Payload != "" {
		if err := json.Unmarshal([]byte(row.Payload), &payload); err != nil {
			return nil, fmt.Errorf("decoding payload of snapshot %d: %w", row.ID, err)
		}
	}
	return &ingest.Snapshot{
		EntityType:   row.EntityType,
		SourceSystem: row.SourceSystem,
		ExternalID:   row.ExternalID,
		Payload:      payload,
		HashBasic:    row.ContentHashBasic,
		HashEnriched: row.ContentHashEnriched,
		RunID:        row.RunID,
		IngestedAt:   row.IngestedAt,
		EnrichedAt:   row.EnrichedAt,
	}, nil
}

// InsertSnapshot appends a snapshot row and returns its id. Rows are never
// updated; the log only grows.
func (s *Store) InsertSnapshot(ctx context.Context, snap *ingest.Snapshot) (int64, error) {
	payload, err := json.Marshal(snap.Payload)
	if err != nil {
		return 0, fmt.Errorf("encoding payload for %s: %w", snap.ExternalID, err)
	}

	row := models.RawEntity{
		EntityType:          snap.EntityType,
		SourceSystem:        snap.SourceSystem,
		ExternalID:          snap.ExternalID,
		Payload:             string(payload),
		ContentHashBasic:    snap.HashBasic,
		ContentHashEnriched: snap.HashEnriched,
		RunID:               snap.RunID,
		IngestedAt:          snap.IngestedAt,
		EnrichedAt:          snap.EnrichedAt,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, fmt.Errorf("inserting snapshot for %s: %w", snap.ExternalID, err)
	}
	return row.ID, nil
}

// CreateRun persists a new run row in the running state and returns its id.
func (s *Store) CreateRun(ctx context.Context, entityType, sourceSystem string, meta ingest.RunMetadata) (string, error) {
	metadata, err := json.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("encoding run metadata: %w", err)
	}

	row := models.IngestionRun{
		RunID:        uuid.NewString(),
		SourceSystem: sourceSystem,
		EntityType:   entityType,
		StartedAt:    time.Now(),
		Status:       ingest.StatusRunning,
		Metadata:     string(metadata),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", fmt.Errorf("creating run row: %w", err)
	}
	return row.RunID, nil
}

// CompleteRun finalizes a run row: terminal status, completion time and the
// final counters land in a single update.
func (s *Store) CompleteRun(ctx context.Context, runID string, fin ingest.RunCompletion) error {
	updates := map[string]any{
		"status":            fin.Status,
		"completed_at":      time.Now(),
		"records_processed": fin.Processed,
		"records_created":   fin.Created,
		"records_updated":   fin.Updated,
	}
	if fin.ErrorMessage != "" {
		updates["error_message"] = fin.ErrorMessage
	}

	res := s.db.WithContext(ctx).Model(&models.IngestionRun{}).Where("run_id = ?", runID).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("finalizing run %s: %w", runID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("finalizing run %s: no such run", runID)
	}
	return nil
}

// LastCompletedRun returns the start time of the most recent successful run
// for the entity type, or (nil, nil) when there is none.
func (s *Store) LastCompletedRun(ctx context.Context, entityType, sourceSystem string) (*time.Time, error) {
	var row models.IngestionRun
	err := s.db.WithContext(ctx).
		Where("entity_type = ? AND source_system = ? AND status IN ?",
			entityType, sourceSystem,
			[]string{ingest.StatusCompleted, ingest.StatusCompletedWithErrors}).
		Order("started_at DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading last completed run: %w", err)
	}
	return &row.StartedAt, nil
}

// RecentRuns returns the newest runs across all entity types.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]models.IngestionRun, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []models.IngestionRun
	err := s.db.WithContext(ctx).Order("started_at DESC").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return rows, nil
}

// RunByID returns one run row, or (nil, nil) when the id is unknown.
func (s *Store) RunByID(ctx context.Context, runID string) (*models.IngestionRun, error) {
	var row models.IngestionRun
	err := s.db.WithContext(ctx).Where("run_id = ?", runID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading run %s: %w", runID, err)
	}
	return &row, nil
}

// Labs returns the canonical identity registry ordered by key.
func (s *Store) Labs(ctx context.Context) ([]models.Lab, error) {
	var rows []models.Lab
	if err := s.db.WithContext(ctx).Order("lab_key").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing labs: %w", err)
	}
	return rows, nil
}

// UpsertLab inserts a registry entry or updates an existing one by lab key.
func (s *Store) UpsertLab(ctx context.Context, lab *models.Lab) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "lab_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"owner_email", "display_name", "notes", "updated_at"}),
	}).Create(lab).Error
	if err != nil {
		return fmt.Errorf("upserting lab %s: %w", lab.LabKey, err)
	}
	return nil
}

// IdentityMap builds the reconciliation identity map (lab key -> expected
// owner email) from the registry.
func (s *Store) IdentityMap(ctx context.Context) (reconcile.IdentityMap, error) {
	labs, err := s.Labs(ctx)
	if err != nil {
		return nil, err
	}
	identities := make(reconcile.IdentityMap, len(labs))
	for _, lab := range labs {
		identities[lab.LabKey] = lab.OwnerEmail
	}
	return identities, nil
}
