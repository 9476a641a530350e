package labs

import (
	"context"
	"fmt"
	"time"

	"inventory-sync/core/ingest"
	"inventory-sync/core/reconcile"
	"inventory-sync/core/source"
	"inventory-sync/core/utils"
	"inventory-sync/feature/inventory"
	"inventory-sync/feature/inventory/models"

	"go.uber.org/zap"
)

// identityCacheKey names the cached registry identity map.
const identityCacheKey = "labs"

// Service runs lab reconciliation: registry identities on one side, asset
// records fetched from the source system on the other.
type Service struct {
	store    *inventory.Store
	api      source.API
	system   string
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewService creates a new labs service. The api is the asset endpoint the
// candidates are fetched from.
func NewService(store *inventory.Store, api source.API, system string, cacheTTL time.Duration, logger *zap.Logger) *Service {
	return &Service{
		store:    store,
		api:      api,
		system:   system,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Labs returns the canonical identity registry.
func (s *Service) Labs(ctx context.Context) ([]models.Lab, error) {
	return s.store.Labs(ctx)
}

// Outcome bundles a reconciliation report with its run id.
type Outcome struct {
	RunID  string            `json:"run_id"`
	Report *reconcile.Report `json:"report"`
}

// Reconcile fetches the current asset records, matches them against the
// registry and returns the report. The pass is tracked as a run of entity
// type "lab". Unmatched candidates are reported, never errored; only a
// source or store failure fails the run.
func (s *Service) Reconcile(ctx context.Context) (*Outcome, error) {
	log := s.logger.With(zap.String("entity_type", "lab"))

	identities, err := reconcile.LoadIdentityMap(ctx, identityCacheKey, s.cacheTTL, s.store.IdentityMap)
	if err != nil {
		return nil, fmt.Errorf("loading identity map: %w", err)
	}

	tracker := ingest.NewRunTracker(s.store, log, false)
	runID, err := tracker.Begin(ctx, "lab", s.system, ingest.RunMetadata{})
	if err != nil {
		return nil, fmt.Errorf("opening run: %w", err)
	}
	log = log.With(zap.String("run_id", runID))

	candidates, err := s.fetchCandidates(ctx)
	if err != nil {
		if ferr := tracker.Fail(context.WithoutCancel(ctx), ingest.Stats{}, err); ferr != nil {
			log.Error("Failed to finalize run row", zap.Error(ferr))
		}
		return nil, fmt.Errorf("fetching candidates: %w", err)
	}

	results, unmatched := reconcile.NewMatcher().Match(candidates, identities)
	report := reconcile.BuildReport(results, unmatched)

	stats := ingest.Stats{
		Processed: report.Summary.TotalCandidates,
		Updated:   len(results),
		Skipped:   len(unmatched),
	}
	if err := tracker.Complete(ctx, stats); err != nil {
		return nil, fmt.Errorf("closing run: %w", err)
	}

	log.Info("Reconciliation finished",
		zap.Int("candidates", report.Summary.TotalCandidates),
		zap.Int("verified", report.Summary.Verified),
		zap.Int("name_only", report.Summary.NameOnly),
		zap.Int("fallback", report.Summary.Fallback),
		zap.Int("unmatched", report.Summary.Unmatched),
	)
	return &Outcome{RunID: runID, Report: report}, nil
}

// fetchCandidates pages through the asset endpoint and converts every record
// into a reconciliation candidate. Label pre-filtering is left to the
// matcher.
func (s *Service) fetchCandidates(ctx context.Context) ([]reconcile.Candidate, error) {
	var candidates []reconcile.Candidate
	for page := 1; ; page++ {
		records, err := s.api.Search(ctx, source.SearchQuery{Page: page})
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return candidates, nil
		}
		for _, rec := range records {
			candidates = append(candidates, reconcile.Candidate{
				ExternalID:    rec.ExternalID,
				Label:         rec.DisplayName,
				OwnerIdentity: ownerIdentity(rec.Fields),
			})
		}
	}
}

// ownerIdentity pulls the owner recorded on an asset. Assignment comes back
// either as a plain string or as a nested object.
func ownerIdentity(fields map[string]any) string {
	v, ok := fields["assigned_to"]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	if m, ok := v.(map[string]any); ok {
		for _, key := range []string{"email", "username", "name"} {
			if val, ok := m[key]; ok {
				return utils.ToString(val)
			}
		}
	}
	return ""
}
