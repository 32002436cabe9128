package httpserver

import (
	"log/slog"
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/siteshim/internal/metrics"
	"git.home.luguber.info/inful/siteshim/internal/server/handlers"
)

// Options wires the server. Inquiry and Registry are optional: without them
// /api/inquiry and /metrics are not mounted.
type Options struct {
	Addr     string
	SiteDir  string
	OAuth    handlers.OAuthConfig
	Inquiry  http.Handler
	Registry *prom.Registry
	Recorder metrics.Recorder
	Logger   *slog.Logger
}
