// Package source provides the client for the external system of record.
//
// The source system exposes a rate-limited JSON REST API. All requests go
// through a shared Client that transparently handles the "too many requests"
// signal: when the server answers 429, the client sleeps until the
// server-provided reset time (or a configured fallback) elapses and retries the
// identical request exactly once. Transient network and 5xx failures get the
// same single retry; any other failure is returned immediately.
//
// # Endpoint Adapters
//
// Each entity endpoint of the source API is wrapped by an adapter implementing
// the API interface:
//
//	type API interface {
//	    Name() string
//	    Search(ctx context.Context, q SearchQuery) ([]SummaryRecord, error)
//	    Count(ctx context.Context, q SearchQuery) (int, error)
//	    FetchDetail(ctx context.Context, externalID string) (map[string]any, error)
//	}
//
// UsersAPI and AssetsAPI share one Client. FetchDetail returns (nil, nil) when
// the server reports no data for an id; callers treat that as an item-level
// failure, not a transport error.
//
// # Running an operation against every adapter
//
// EachAPI applies the same function value to a list of adapters, which keeps
// "do this against users and assets" call sites free of per-endpoint switches.
package source
