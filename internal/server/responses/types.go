// Package responses defines API response types used by the siteshim HTTP handlers.
package responses

import "time"

// HealthResponse represents the health check API response.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    float64   `json:"uptime"`
	SiteDir   string    `json:"site_dir,omitempty"`
	// Checks maps a site file to "ok" or "missing".
	Checks map[string]string `json:"checks,omitempty"`
}

// OAuthSuccessPayload is the structured message handed to the CMS editor
// window after a successful code exchange.
type OAuthSuccessPayload struct {
	Token    string `json:"token"`
	Provider string `json:"provider"`
}
