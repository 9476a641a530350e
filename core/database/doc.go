// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to properly configure
// MySQL connections based on the application's configuration. A sqlite driver is
// supported for local development and tests (":memory:" databases).
//
// # Connect
//
// The Connect function establishes a connection to the warehouse database holding
// the entity snapshot log and the run history. Callers treat the connection as
// optional and degrade gracefully when it is unavailable.
//
// # Schema Inspection
//
// The package includes tools to inspect the database schema, used by the doctor
// command to verify that the warehouse tables (raw_entities, ingestion_runs, labs)
// exist with the columns the application expects.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.VerifyTable(db, "ingestion_runs", []string{"run_id", "status"})
package database
