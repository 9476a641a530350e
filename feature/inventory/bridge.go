package inventory

import (
	"context"

	"inventory-sync/core/ingest"
	"inventory-sync/core/source"
)

// sourceBridge adapts a source endpoint to the engine's Source interface.
// The two sides share shapes but not types on purpose: the engine never
// imports the REST layer.
type sourceBridge struct {
	api source.API
}

func bridgeSource(api source.API) ingest.Source {
	return sourceBridge{api: api}
}

func (b sourceBridge) FetchDetail(ctx context.Context, externalID string) (map[string]any, error) {
	return b.api.FetchDetail(ctx, externalID)
}

func (b sourceBridge) Search(ctx context.Context, q ingest.SearchQuery) ([]ingest.SummaryRecord, error) {
	records, err := b.api.Search(ctx, source.SearchQuery{
		UpdatedSince: q.UpdatedSince,
		Page:         q.Page,
		PerPage:      q.PerPage,
	})
	if err != nil {
		return nil, err
	}
	out := make([]ingest.SummaryRecord, 0, len(records))
	for _, r := range records {
		out = append(out, ingest.SummaryRecord{
			ExternalID:  r.ExternalID,
			DisplayName: r.DisplayName,
			Fields:      r.Fields,
		})
	}
	return out, nil
}
