// Package handlers contains the HTTP handlers served next to the static site.
//
// This package provides handlers for:
//   - Health endpoint (monitoring)
//   - The CMS editor's OAuth code exchange
//   - Shared response helper functions
//
// Errors are reported through the foundation/errors HTTP adapter so every
// endpoint answers with the same JSON error shape.
package handlers
