// Command debug_match runs the label matcher against the live registry.
// Useful for checking why a particular asset label does or does not match.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"inventory-sync/core/config"
	"inventory-sync/core/database"
	"inventory-sync/core/reconcile"
	"inventory-sync/feature/inventory"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: debug_match \"<label>\" [owner-identity]")
		os.Exit(1)
	}
	label := os.Args[1]
	owner := ""
	if len(os.Args) > 2 {
		owner = os.Args[2]
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal(err)
	}
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal(err)
	}

	store := inventory.NewStore(db)
	identities, err := store.IdentityMap(context.Background())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("registry has %d entries\n", len(identities))

	results, unmatched := reconcile.NewMatcher().Match([]reconcile.Candidate{
		{ExternalID: "debug", Label: label, OwnerIdentity: owner},
	}, identities)

	if len(unmatched) > 0 {
		fmt.Printf("unmatched: label %q, owner %q\n", label, owner)
		return
	}

	r := results[0]
	fmt.Printf("matched key: %s\n", r.CanonicalKey)
	fmt.Printf("strategy:    %s\n", r.Strategy)
	if r.Warning != "" {
		fmt.Printf("warning:     %s\n", r.Warning)
	}
}
