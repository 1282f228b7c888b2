// Package utils provides common utility functions for the content-planner application.
// It includes the key and text normalization helpers shared by the import engine,
// the export writer, and the HTTP layer.
package utils
