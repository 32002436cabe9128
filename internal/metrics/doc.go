// Package metrics provides observability hooks for the content pipeline and
// the HTTP endpoints.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so nothing needs a nil check:
//
//	loader := content.NewLoader(fetcher, cat, content.WithRecorder(metrics.NoopRecorder{}))
//
// When metrics are enabled the serve command swaps in a PrometheusRecorder
// bound to its own registry and exposes it through HTTPHandler.
package metrics
