// Package middleware contains HTTP middleware for the Fiber application.
//
// It provides cross-cutting concerns that sit between the request and the handler.
//
// # Components
//
//   - auth: Validates the API key (X-API-Key or Bearer token) when one is configured.
//   - rayid: Tags every request with a RayID, stored in the context and echoed in
//     the X-Ray-ID response header so import logs can be traced.
//
// Both are registered globally in cmd/start.go. RayID runs first.
package middleware
