// Command debug_fingerprint shows how a payload fingerprints for each entity
// type. Feed it a JSON payload on stdin to see which fields participate and
// what the resulting hashes are.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"inventory-sync/core/ingest"
	"inventory-sync/feature/inventory"
)

func main() {
	entityType := "user"
	if len(os.Args) > 1 {
		entityType = os.Args[1]
	}

	adapter, err := inventory.AdapterFor(entityType)
	if err != nil {
		log.Fatal(err)
	}

	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		log.Fatal(err)
	}
	payload := map[string]any{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("entity type: %s\n", adapter.EntityType())

	fmt.Println("\n=== Basic fields ===")
	for _, name := range adapter.BasicFields() {
		v, ok := payload[name]
		if !ok {
			fmt.Printf("%s = <missing, serialized as null>\n", name)
			continue
		}
		enc, _ := json.Marshal(v)
		fmt.Printf("%s = %s\n", name, enc)
	}
	fmt.Printf("basic hash:    %s\n", ingest.Fingerprint(payload, adapter.BasicFields()))
	fmt.Printf("enriched hash: %s\n", ingest.Fingerprint(payload, adapter.EnrichedFields()))

	probe := adapter.Probe()
	fmt.Printf("\nneeds enrichment (ignoring enriched_at): %v\n",
		ingest.NeedsEnrichment(payload, nil, probe))
}
