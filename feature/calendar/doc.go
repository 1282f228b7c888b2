// Package calendar stores the content calendar entries that performance imports update.
//
// Entries are persisted in the calendar_entries table through GORM. Platforms and
// analytics are JSON columns so the stored shape matches the dashboard export.
//
// # HTTP Endpoints
//
//   - GET /entries : Lists all entries.
//   - GET /entries/:id : Returns one entry.
//   - PUT /entries : Validates and upserts a JSON array of entries.
package calendar
