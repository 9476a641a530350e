package source

import (
	"context"
	"fmt"
	"strings"

	"inventory-sync/core/utils"
)

// entityAPI wraps one entity endpoint of the source API. Both concrete
// adapters share the rate-limited Client; only paths and envelope keys differ.
type entityAPI struct {
	client   *Client
	name     string
	basePath string
	listKey  string
	itemKey  string
}

// NewUsersAPI returns the adapter for the user directory endpoint.
func NewUsersAPI(client *Client) API {
	return &entityAPI{
		client:   client,
		name:     "users",
		basePath: "/api/v1/users",
		listKey:  "users",
		itemKey:  "user",
	}
}

// NewAssetsAPI returns the adapter for the asset inventory endpoint.
func NewAssetsAPI(client *Client) API {
	return &entityAPI{
		client:   client,
		name:     "assets",
		basePath: "/api/v1/assets",
		listKey:  "assets",
		itemKey:  "asset",
	}
}

func (a *entityAPI) Name() string {
	return a.name
}

// Search returns one page of summary records from the list endpoint.
func (a *entityAPI) Search(ctx context.Context, q SearchQuery) ([]SummaryRecord, error) {
	body, err := a.client.getJSON(ctx, a.basePath, a.client.listQuery(q))
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, nil
	}

	rows, ok := body[a.listKey].([]any)
	if !ok {
		return nil, fmt.Errorf("source API %s list response missing %q", a.name, a.listKey)
	}

	records := make([]SummaryRecord, 0, len(rows))
	for _, row := range rows {
		fields, ok := row.(map[string]any)
		if !ok {
			continue
		}
		// Soft-deleted records still appear in list responses.
		if deleted, ok := fields["deleted"]; ok && utils.ToBool(deleted) {
			continue
		}
		records = append(records, SummaryRecord{
			ExternalID:  utils.ToString(fields["id"]),
			DisplayName: displayName(fields),
			Fields:      fields,
		})
	}
	return records, nil
}

// Count returns the total matching the query, read from the list envelope's
// total field on a single-row page.
func (a *entityAPI) Count(ctx context.Context, q SearchQuery) (int, error) {
	q.Page = 1
	q.PerPage = 1
	body, err := a.client.getJSON(ctx, a.basePath, a.client.listQuery(q))
	if err != nil {
		return 0, err
	}
	if body == nil {
		return 0, nil
	}
	total, ok := body["total"]
	if !ok {
		return 0, fmt.Errorf("source API %s list response missing total", a.name)
	}
	return utils.ToInt(total), nil
}

// FetchDetail returns the full payload for one record, or (nil, nil) when the
// server has no data for the id.
func (a *entityAPI) FetchDetail(ctx context.Context, externalID string) (map[string]any, error) {
	body, err := a.client.getJSON(ctx, a.basePath+"/"+externalID, nil)
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, nil
	}

	payload, ok := body[a.itemKey].(map[string]any)
	if !ok || len(payload) == 0 {
		// An empty envelope is the endpoint's other way of saying "no data".
		return nil, nil
	}
	return payload, nil
}

// displayName picks a human-readable label from a shallow record: the name
// field when present, otherwise first and last name joined.
func displayName(fields map[string]any) string {
	if v, ok := fields["name"]; ok {
		if name := utils.ToString(v); name != "" {
			return name
		}
	}
	var parts []string
	for _, key := range []string{"first_name", "last_name"} {
		if v, ok := fields[key]; ok {
			if s := utils.ToString(v); s != "" {
				parts = append(parts, s)
			}
		}
	}
	return strings.Join(parts, " ")
}
