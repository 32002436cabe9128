package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"time"

	"git.home.luguber.info/inful/siteshim/internal/foundation/errors"
	"git.home.luguber.info/inful/siteshim/internal/logfields"
	"git.home.luguber.info/inful/siteshim/internal/metrics"
	"git.home.luguber.info/inful/siteshim/internal/server/responses"
)

// OAuthConfig describes the authorization server the CMS editor logs in with.
type OAuthConfig struct {
	Provider     string
	TokenURL     string
	ClientID     string
	ClientSecret string
}

const (
	defaultExchangeTimeout = 10 * time.Second
	maxTokenResponseBytes  = 64 << 10
)

// The payload reaches the script through html/template's JavaScript context
// escaping, which emits it as a JSON value with <, > and & escaped.
var oauthSuccessPage = template.Must(template.New("oauth").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Authorization Complete</title>
</head>
<body>
<script>
(function() {
  var provider = {{.Provider}};
  var message = "authorization:" + provider + ":success:" + JSON.stringify({{.}});
  function receiveMessage(e) {
    window.removeEventListener("message", receiveMessage, false);
    window.opener.postMessage(message, e.origin);
    window.close();
  }
  window.addEventListener("message", receiveMessage, false);
  window.opener.postMessage("authorizing:" + provider, "*");
})();
</script>
<p>Authorizing... You can close this window.</p>
</body>
</html>
`))

// OAuthHandler exchanges the authorization code from the provider redirect
// for an access token and hands the token to the CMS editor window.
type OAuthHandler struct {
	cfg          OAuthConfig
	client       *http.Client
	recorder     metrics.Recorder
	logger       *slog.Logger
	errorAdapter *errors.HTTPErrorAdapter
}

// NewOAuthHandler returns the handler for GET /api/auth. A nil client gets a
// 10s timeout client; a nil recorder disables metrics.
func NewOAuthHandler(cfg OAuthConfig, client *http.Client, recorder metrics.Recorder, logger *slog.Logger) *OAuthHandler {
	if client == nil {
		client = &http.Client{Timeout: defaultExchangeTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OAuthHandler{
		cfg:          cfg,
		client:       client,
		recorder:     metrics.OrNoop(recorder),
		logger:       logger,
		errorAdapter: errors.NewHTTPErrorAdapter(logger),
	}
}

// setSecurityHeaders forbids sniffing, framing and caching of auth responses.
func setSecurityHeaders(h http.Header) {
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("X-Frame-Options", "DENY")
	h.Set("Content-Security-Policy", "frame-ancestors 'none'")
	h.Set("Cache-Control", "no-store")
	h.Set("Referrer-Policy", "no-referrer")
}

func (h *OAuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	setSecurityHeaders(w.Header())

	code := r.URL.Query().Get("code")
	if code == "" {
		h.recorder.IncOAuthExchange(metrics.ResultInvalid)
		h.errorAdapter.WriteErrorResponse(w, r, errors.ValidationError("No code provided").Build())
		return
	}

	token, err := h.exchange(r.Context(), code)
	if err != nil {
		h.recorder.IncOAuthExchange(metrics.ResultFailed)
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}

	var page bytes.Buffer
	payload := responses.OAuthSuccessPayload{Token: token, Provider: h.cfg.Provider}
	if err := oauthSuccessPage.Execute(&page, payload); err != nil {
		h.recorder.IncOAuthExchange(metrics.ResultFailed)
		h.errorAdapter.WriteErrorResponse(w, r, errors.WrapError(err, errors.CategoryInternal, "failed to render authorization page").Build())
		return
	}

	h.recorder.IncOAuthExchange(metrics.ResultSuccess)
	h.logger.InfoContext(r.Context(), "OAuth code exchanged", logfields.Provider(h.cfg.Provider))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page.Bytes())
}

type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// exchange POSTs the code to the token URL. Every failure maps to a 5xx:
// provider trouble is network-class, a broken token URL is internal.
func (h *OAuthHandler) exchange(ctx context.Context, code string) (string, error) {
	body, err := json.Marshal(map[string]string{
		"client_id":     h.cfg.ClientID,
		"client_secret": h.cfg.ClientSecret,
		"code":          code,
	})
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryInternal, "failed to encode token request").Build()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.cfg.TokenURL, bytes.NewReader(body))
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryInternal, "invalid token URL").
			WithContext("provider", h.cfg.Provider).
			Build()
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryNetwork, "Failed to exchange code for token").
			WithContext("provider", h.cfg.Provider).
			Build()
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var tr tokenResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxTokenResponseBytes)).Decode(&tr); err != nil {
		return "", errors.WrapError(err, errors.CategoryNetwork, "Failed to exchange code for token").
			WithContext("provider", h.cfg.Provider).
			WithContext("status", resp.StatusCode).
			Build()
	}
	if tr.Error != "" || resp.StatusCode < 200 || resp.StatusCode > 299 || tr.AccessToken == "" {
		b := errors.NetworkError("Authorization server rejected the code").
			WithContext("provider", h.cfg.Provider).
			WithContext("status", resp.StatusCode)
		if tr.Error != "" {
			b = b.WithContext("provider_error", tr.Error)
		}
		if tr.ErrorDescription != "" {
			b = b.WithContext("description", tr.ErrorDescription)
		}
		return "", b.Build()
	}
	return tr.AccessToken, nil
}
