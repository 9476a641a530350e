// Package runs exposes the synchronization run history: listing, per-run
// lookup, spreadsheet export and report archival to object storage.
//
// # Components
//
//   - Service: reads run rows through the shared inventory store, renders
//     XLSX reports and manages the archived copies in the report bucket.
//   - Handler: exposes the HTTP endpoints.
//   - Loader: registers the feature with the application.
//
// # HTTP Endpoints
//
//   - GET /runs : Most recent runs (?limit=).
//   - GET /runs/:runId : One run by id.
//   - GET /runs/:runId/export : XLSX report for one run.
//   - POST /runs/:runId/archive : Upload the report to object storage.
//   - POST /runs/prune : Remove archived reports (?older_than_days=).
package runs
