// Package compare exposes dataset comparison over HTTP.
//
// # Endpoints
//
//   - POST /compare: multipart upload of "original" and "updated" files.
//   - POST /compare/json: both datasets as JSON records.
//   - GET /compare/snapshots: stored snapshots.
//   - GET /compare/snapshots/:name: one snapshot document.
//   - GET /compare/snapshots/:name/export: CSV or XLSX report of a snapshot.
//   - DELETE /compare/snapshots/:name
//
// Both compare endpoints accept a "save" name that stores the result as a snapshot.
// Configuration and input errors return 400, unknown snapshots 404.
package compare
