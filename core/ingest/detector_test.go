package ingest

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var userBasicFields = FieldSet{"id", "name", "email", "active"}

func TestFingerprint_Stability(t *testing.T) {
	payload := map[string]any{
		"id":     float64(42),
		"name":   "Alice",
		"email":  "alice@example.com",
		"active": true,
		"extra":  "ignored",
	}

	first := Fingerprint(payload, userBasicFields)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Fingerprint(payload, userBasicFields))
	}

	// A payload rebuilt from scratch (fresh map, different insertion order)
	// must hash identically.
	rebuilt := map[string]any{}
	rebuilt["extra"] = "ignored"
	rebuilt["active"] = true
	rebuilt["email"] = "alice@example.com"
	rebuilt["id"] = float64(42)
	rebuilt["name"] = "Alice"
	assert.Equal(t, first, Fingerprint(rebuilt, userBasicFields))
}

func TestFingerprint_SurvivesJSONRoundTrip(t *testing.T) {
	payload := map[string]any{
		"id":   float64(7),
		"name": "Bob",
		"groups": []any{
			map[string]any{"id": float64(1), "name": "ops"},
			map[string]any{"id": float64(2), "name": "dev"},
		},
	}
	fields := FieldSet{"id", "name", "groups"}
	before := Fingerprint(payload, fields)

	// Simulates a snapshot being stored and reloaded from the warehouse.
	raw, err := json.Marshal(payload)
	assert.NoError(t, err)
	var reloaded map[string]any
	assert.NoError(t, json.Unmarshal(raw, &reloaded))

	assert.Equal(t, before, Fingerprint(reloaded, fields))
}

func TestFingerprint_Sensitivity(t *testing.T) {
	base := map[string]any{
		"id":     float64(1),
		"name":   "Alice",
		"email":  "alice@example.com",
		"active": true,
		"notes":  "outside the set",
	}
	baseHash := Fingerprint(base, userBasicFields)

	t.Run("Changing a designated field changes the hash", func(t *testing.T) {
		for _, field := range userBasicFields {
			changed := map[string]any{}
			for k, v := range base {
				changed[k] = v
			}
			changed[field] = "different"
			assert.NotEqual(t, baseHash, Fingerprint(changed, userBasicFields), "field %s", field)
		}
	})

	t.Run("Changing a field outside the set does not", func(t *testing.T) {
		changed := map[string]any{}
		for k, v := range base {
			changed[k] = v
		}
		changed["notes"] = "something else entirely"
		assert.Equal(t, baseHash, Fingerprint(changed, userBasicFields))
	})
}

func TestFingerprint_MissingFieldIsExplicitNull(t *testing.T) {
	// A missing field and an explicit null must hash identically; dropping
	// the field from serialization would silently change the hash domain.
	missing := map[string]any{"id": float64(1), "name": "Alice"}
	explicit := map[string]any{"id": float64(1), "name": "Alice", "email": nil, "active": nil}

	assert.Equal(t,
		Fingerprint(missing, userBasicFields),
		Fingerprint(explicit, userBasicFields),
	)

	// But a missing field is not the same as an empty string.
	empty := map[string]any{"id": float64(1), "name": "Alice", "email": "", "active": nil}
	assert.NotEqual(t,
		Fingerprint(missing, userBasicFields),
		Fingerprint(empty, userBasicFields),
	)
}

func TestNeedsEnrichment(t *testing.T) {
	probe := EnrichmentProbe{ContainerField: "permissions", CollectionField: "groups"}
	enriched := time.Now()

	full := map[string]any{
		"id":          float64(1),
		"permissions": map[string]any{"admin": false},
		"groups":      []any{},
	}

	tests := []struct {
		name       string
		payload    map[string]any
		enrichedAt *time.Time
		want       bool
	}{
		{"Fully enriched", full, &enriched, false},
		{"No enrichment timestamp", full, nil, true},
		{"Container absent", map[string]any{"id": float64(1), "groups": []any{}}, &enriched, true},
		{"Collection absent", map[string]any{"id": float64(1), "permissions": map[string]any{}}, &enriched, true},
		{"Shallow payload", map[string]any{"id": float64(1)}, &enriched, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NeedsEnrichment(tt.payload, tt.enrichedAt, probe))
		})
	}
}
