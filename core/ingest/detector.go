package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// FieldSet is a fixed, explicitly enumerated set of payload field names that
// participate in a content fingerprint. Adapters declare two sets per entity
// type: a basic set covering the fields present in a shallow list fetch, and
// an enriched superset including the nested collections only the per-item
// detail fetch returns.
type FieldSet []string

// Fingerprint computes a deterministic content hash over the designated
// fields of a payload. Field names are sorted before serialization, each
// value is rendered as canonical JSON (encoding/json sorts map keys, so
// nested objects are stable too), and a field missing from the payload is
// serialized as an explicit null rather than omitted. Omission would silently
// change the hash domain: {"a": null} and {} must hash identically only
// because both render the designated field as null.
func Fingerprint(payload map[string]any, fields FieldSet) string {
	names := make([]string, len(fields))
	copy(names, fields)
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		value, ok := payload[name]
		if !ok {
			value = nil
		}
		encoded, err := json.Marshal(value)
		if err != nil {
			// Payloads come from JSON decoding, so this branch only fires
			// for hand-built test values. Fall back to a stable rendering.
			encoded = []byte(fmt.Sprintf("%q", fmt.Sprint(value)))
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.Write(encoded)
		b.WriteByte('\n')
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// EnrichmentProbe names the payload keys whose absence marks a snapshot as
// shallow: a container of detail-only fields and a nested collection.
type EnrichmentProbe struct {
	ContainerField  string
	CollectionField string
}

// NeedsEnrichment reports whether a stored snapshot must be re-fetched via
// the detailed per-item operation. It is the worklist predicate; whether a
// freshly fetched payload is worth persisting is decided by comparing
// fingerprints instead.
func NeedsEnrichment(payload map[string]any, enrichedAt *time.Time, probe EnrichmentProbe) bool {
	if enrichedAt == nil {
		return true
	}
	if _, ok := payload[probe.ContainerField]; !ok {
		return true
	}
	if _, ok := payload[probe.CollectionField]; !ok {
		return true
	}
	return false
}
