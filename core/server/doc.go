// Package server holds the HTTP server configuration.
//
// The main application entry point (cmd/start.go) handles the server startup; this
// package only defines the settings it reads: the listen port, the optional API key
// and the request body limit applied to CSV uploads.
package server
