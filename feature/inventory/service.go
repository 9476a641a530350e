package inventory

import (
	"context"
	"fmt"

	"inventory-sync/core/ingest"
	"inventory-sync/core/source"
	"inventory-sync/feature/inventory/models"

	"go.uber.org/zap"
)

// Service wires the ingestion engine to the concrete collaborators: the REST
// source endpoints, the gorm-backed store and the per-entity adapters.
type Service struct {
	store  *Store
	apis   map[string]source.API
	system string
	logger *zap.Logger
}

// NewService creates an inventory service over the given store and source
// client.
func NewService(store *Store, client *source.Client, system string, logger *zap.Logger) *Service {
	return &Service{
		store: store,
		apis: map[string]source.API{
			"user":  source.NewUsersAPI(client),
			"asset": source.NewAssetsAPI(client),
		},
		system: system,
		logger: logger,
	}
}

// EntityTypes returns the entity types this service can synchronize, in a
// stable order.
func (s *Service) EntityTypes() []string {
	return []string{"user", "asset"}
}

// Sync runs one synchronization pass for the entity type and returns its
// summary. Item-level failures are folded into the summary; a non-nil error
// means the run itself could not finish.
func (s *Service) Sync(ctx context.Context, entityType string, opts ingest.Options) (*ingest.Summary, error) {
	adapter, err := AdapterFor(entityType)
	if err != nil {
		return nil, err
	}
	api, ok := s.apis[adapter.EntityType()]
	if !ok {
		return nil, fmt.Errorf("no source endpoint for entity type %q", adapter.EntityType())
	}

	orch := ingest.NewOrchestrator(s.store, s.store, bridgeSource(api), adapter, s.system, opts, s.logger)
	return orch.Sync(ctx)
}

// SyncAll synchronizes every entity type in sequence. It stops at the first
// run that fails outright and returns the summaries collected so far.
func (s *Service) SyncAll(ctx context.Context, opts ingest.Options) ([]*ingest.Summary, error) {
	var summaries []*ingest.Summary
	for _, entityType := range s.EntityTypes() {
		summary, err := s.Sync(ctx, entityType, opts)
		if summary != nil {
			summaries = append(summaries, summary)
		}
		if err != nil {
			return summaries, fmt.Errorf("syncing %s: %w", entityType, err)
		}
	}
	return summaries, nil
}

// LatestSnapshot returns the newest stored snapshot for an entity, or
// (nil, nil) when the entity has never been ingested.
func (s *Service) LatestSnapshot(ctx context.Context, entityType, externalID string) (*ingest.Snapshot, error) {
	adapter, err := AdapterFor(entityType)
	if err != nil {
		return nil, err
	}
	return s.store.LatestSnapshot(ctx, adapter.EntityType(), s.system, externalID)
}

// API exposes the raw source endpoint for an entity type. Other features use
// it when they need the shallow list view rather than stored snapshots.
func (s *Service) API(entityType string) (source.API, error) {
	adapter, err := AdapterFor(entityType)
	if err != nil {
		return nil, err
	}
	api, ok := s.apis[adapter.EntityType()]
	if !ok {
		return nil, fmt.Errorf("no source endpoint for entity type %q", adapter.EntityType())
	}
	return api, nil
}

// Store returns the persistence layer shared with sibling features.
func (s *Service) Store() *Store {
	return s.store
}

// Runs returns the newest ingestion runs.
func (s *Service) Runs(ctx context.Context, limit int) ([]models.IngestionRun, error) {
	return s.store.RecentRuns(ctx, limit)
}
