// Package inventory wires the ingestion engine to its concrete
// collaborators: the helpdesk REST endpoints, the MySQL snapshot warehouse
// and the per-entity-type adapters.
//
// # Storage Model
//
// Snapshots land in the raw_entities table as an append-only log. A row is
// never updated; a changed record produces a new row, and the newest row per
// (entity_type, source_system, external_id) is authoritative. Run lifecycle
// rows live in ingestion_runs, and the lab registry in labs.
//
// # Adapters
//
// Each entity type contributes a small adapter naming its fingerprint field
// sets and its enrichment probe:
//
//   - user:  shallow fields plus permissions, groups and custom_fields on
//     detail; probed via permissions/groups.
//   - asset: shallow fields plus custom_fields and components on detail;
//     probed via custom_fields/components.
//
// # Components
//
//   - Store: gorm-backed persistence implementing the engine's Store and
//     RunStore interfaces, shared with the runs and labs features.
//   - Service: builds an orchestrator per run and exposes snapshot lookups.
//   - Handler: exposes HTTP endpoints for running syncs and reading
//     snapshots.
//   - Loader: registers the feature with the application and migrates the
//     warehouse tables.
//
// # HTTP Endpoints
//
//   - POST /sync/:entityType : Run a synchronization pass ('user' or
//     'asset'; ?full=true, ?dry_run=true).
//   - GET /entities/:entityType/:externalId : Latest stored snapshot for one
//     entity.
package inventory
