// Package labs manages the canonical lab registry and the cross-system
// reconciliation pass that matches asset records against it.
//
// # Matching
//
// The matching itself lives in core/reconcile; this package supplies the two
// sides: the identity map comes from the labs table (cached with a TTL and
// invalidated on import), the candidates come from the asset endpoint of the
// source system. Every pass is tracked as a run of entity type "lab", so the
// run history covers reconciliation alongside ingestion.
//
// # Registry Import
//
// The registry is populated from a spreadsheet: one row per lab with its key,
// expected owner email, display name and optional notes. Rows fail
// individually and are reported; a successful import invalidates the cached
// identity map so the next pass sees the new entries.
//
// # Components
//
//   - Service: reconciliation passes and registry reads.
//   - ImportXLSX / ExportReportXLSX: spreadsheet input and output.
//   - Handler: exposes the HTTP endpoints.
//   - Loader: registers the feature with the application.
//
// # HTTP Endpoints
//
//   - GET /labs : Registry entries.
//   - POST /labs/import : Upload a registry spreadsheet.
//   - POST /labs/reconcile : Run a pass and return the report.
//   - GET /labs/reconcile/export : Run a pass and download the XLSX report.
package labs
