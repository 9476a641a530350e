package source

import (
	"context"
	"time"
)

// SearchQuery describes a list/search request against an endpoint.
type SearchQuery struct {
	// Query is a free-text filter. Empty matches everything.
	Query string

	// UpdatedSince restricts results to records updated after this time.
	UpdatedSince *time.Time

	// Page is the 1-based page number. Zero means the first page.
	Page int

	// PerPage is the page size. Zero falls back to the configured default.
	PerPage int
}

// SummaryRecord is one row of a list-style fetch. Fields carries the raw
// shallow payload as returned by the endpoint.
type SummaryRecord struct {
	ExternalID  string
	DisplayName string
	Fields      map[string]any
}

// API is the capability set every endpoint adapter provides. Callers that
// need to run one operation against several endpoints take the interface (or
// a function value over it, see EachAPI) instead of switching on a name.
type API interface {
	// Name identifies the endpoint, e.g. "users".
	Name() string
	// Search returns one page of summary records.
	Search(ctx context.Context, q SearchQuery) ([]SummaryRecord, error)
	// Count returns the total number of records matching the query.
	Count(ctx context.Context, q SearchQuery) (int, error)
	// FetchDetail returns the full payload for one record.
	// A (nil, nil) return means the server has no data for the id.
	FetchDetail(ctx context.Context, externalID string) (map[string]any, error)
}
