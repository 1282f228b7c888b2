// Package database handles database connections and schema inspection.
//
// It wraps GORM so the rest of the application opens MySQL (production) or
// SQLite (local runs and tests) the same way.
//
// # Connect
//
// Connect builds the dialector from Config, applies pool settings and pings the
// database within TimeoutSeconds. SQLite connections are limited to a single open
// connection so ":memory:" databases stay shared.
//
// # Schema Inspection
//
// GetTableColumns reads SHOW COLUMNS (MySQL) or PRAGMA table_info (SQLite). The
// server integrity check compares its output with the calendar and import models.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", zap.Error(err))
//	}
//
//	columns, err := database.GetTableColumns(db, "calendar_entries")
package database
