// Package integrity provides system health checks for the content planner.
//
// It validates the infrastructure imports depend on, not the imported data itself.
//
// # Checks Provided
//
//   - Structure: Checks that the archive folders (imports/, reports/ by default) exist in the storage bucket.
//   - Server: Validates that the connected database schema matches the calendar_entries and import_runs models.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/structure : Runs structure check (supports ?fix=true).
//   - GET /integrity/server : Runs database schema check.
package integrity
