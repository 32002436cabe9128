package handlers

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/siteshim/internal/content"
	"git.home.luguber.info/inful/siteshim/internal/foundation/errors"
	"git.home.luguber.info/inful/siteshim/internal/server/responses"
	"git.home.luguber.info/inful/siteshim/internal/version"
)

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
	checkOK        = "ok"
	checkMissing   = "missing"
)

// siteChecks are the files whose absence degrades the site: the shell and the
// contact data every page loads first.
var siteChecks = []string{"index.html", content.ContactPath}

// MonitoringHandlers contains monitoring-related HTTP handlers.
type MonitoringHandlers struct {
	startTime    time.Time
	siteDir      string
	errorAdapter *errors.HTTPErrorAdapter
}

// NewMonitoringHandlers creates a new monitoring handlers instance.
func NewMonitoringHandlers(startTime time.Time, siteDir string) *MonitoringHandlers {
	return &MonitoringHandlers{
		startTime:    startTime,
		siteDir:      siteDir,
		errorAdapter: errors.NewHTTPErrorAdapter(slog.Default()),
	}
}

// HandleHealthCheck reports uptime and whether the site directory holds the
// shell page and contact data. A degraded site still answers 200; content
// gaps are covered by fallbacks.
func (h *MonitoringHandlers) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		err := errors.ValidationError("invalid HTTP method").
			WithContext("method", r.Method).
			Build()
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	health := &responses.HealthResponse{
		Status:    statusHealthy,
		Timestamp: time.Now().UTC(),
		Version:   version.Version,
		Uptime:    time.Since(h.startTime).Seconds(),
		SiteDir:   h.siteDir,
		Checks:    make(map[string]string, len(siteChecks)),
	}
	for _, name := range siteChecks {
		result := checkOK
		if _, err := os.Stat(filepath.Join(h.siteDir, filepath.FromSlash(name))); err != nil {
			result = checkMissing
			health.Status = statusDegraded
		}
		health.Checks[name] = result
	}

	if err := writeJSON(w, r, http.StatusOK, health); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r,
			errors.WrapError(err, errors.CategoryInternal, "failed to write health response").Build())
	}
}
