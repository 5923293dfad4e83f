// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation (X-API-Key header or api_key query parameter).
//   - rayid: assigns every request a Request ID (RayID), stores it in the context for
//     logger.WithRayID and echoes it in the X-Ray-ID response header.
//
// RayID must be registered first so every later log line carries the id.
package middleware
