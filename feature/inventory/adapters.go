package inventory

import (
	"fmt"
	"strings"

	"inventory-sync/core/ingest"
	"inventory-sync/core/utils"
)

// usersAdapter carries the field knowledge for the user entity type: which
// payload keys participate in each fingerprint and which keys only appear on
// the detailed per-item response.
type usersAdapter struct{}

func (usersAdapter) EntityType() string { return "user" }

func (usersAdapter) BasicFields() ingest.FieldSet {
	return ingest.FieldSet{"id", "name", "email", "phone", "department", "location", "active", "updated_at"}
}

func (a usersAdapter) EnrichedFields() ingest.FieldSet {
	return append(a.BasicFields(), "permissions", "groups", "custom_fields")
}

func (usersAdapter) Probe() ingest.EnrichmentProbe {
	return ingest.EnrichmentProbe{ContainerField: "permissions", CollectionField: "groups"}
}

func (usersAdapter) DisplayName(payload map[string]any) string {
	if v, ok := payload["name"]; ok {
		return utils.ToString(v)
	}
	var parts []string
	for _, key := range []string{"first_name", "last_name"} {
		if v, ok := payload[key]; ok {
			parts = append(parts, utils.ToString(v))
		}
	}
	return strings.Join(parts, " ")
}

// assetsAdapter is the asset counterpart. Assets list most of their fields on
// the shallow response; custom fields and components only arrive on detail.
type assetsAdapter struct{}

func (assetsAdapter) EntityType() string { return "asset" }

func (assetsAdapter) BasicFields() ingest.FieldSet {
	return ingest.FieldSet{"id", "name", "asset_tag", "serial", "model", "status", "location", "assigned_to", "updated_at"}
}

func (a assetsAdapter) EnrichedFields() ingest.FieldSet {
	return append(a.BasicFields(), "custom_fields", "components")
}

func (assetsAdapter) Probe() ingest.EnrichmentProbe {
	return ingest.EnrichmentProbe{ContainerField: "custom_fields", CollectionField: "components"}
}

func (assetsAdapter) DisplayName(payload map[string]any) string {
	if v, ok := payload["name"]; ok {
		return utils.ToString(v)
	}
	if v, ok := payload["asset_tag"]; ok {
		return utils.ToString(v)
	}
	return ""
}

// AdapterFor returns the ingest adapter for an entity type name.
func AdapterFor(entityType string) (ingest.Adapter, error) {
	switch entityType {
	case "user", "users":
		return usersAdapter{}, nil
	case "asset", "assets":
		return assetsAdapter{}, nil
	default:
		return nil, fmt.Errorf("unknown entity type %q", entityType)
	}
}
