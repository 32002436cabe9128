// Package errors provides classified error primitives used across siteshim.
//
// Errors that cross an API boundary (configuration loading, the OAuth code
// exchange, the form relay, CLI commands) are ClassifiedError values carrying
// a category, a severity, a retry strategy and structured context. The content
// pipeline itself never returns errors to its callers; it logs and degrades.
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryNetwork, "token exchange failed").
//		WithContext("provider", "github").
//		Build()
package errors
