// Package performance imports platform performance CSV files into the content calendar.
//
// An import loads every stored calendar entry, runs the reconcile engine over the
// uploaded text and saves only the entries it touched. Dry runs stop before saving.
// Every run, dry or not, is recorded in the import_runs table.
//
// # Archiving
//
// When import.archive is enabled the raw upload is written to
// <archive_prefix>/<run id>-<file name> and the JSON report to
// <report_prefix>/<run id>.json in the storage bucket. Archive failures are logged
// and never fail an import.
//
// # Concurrency
//
// Writing imports run one at a time. Identical uploads submitted concurrently in the
// same mode are collapsed into a single run and share its report.
//
// # HTTP Endpoints
//
//   - POST /performance/import : Imports a CSV (multipart "file" or raw body, ?dry_run=true).
//   - GET /performance/export : Downloads stored metrics as an importable CSV.
//   - GET /performance/imports : Lists recent import runs (?limit=N).
package performance
