package relay

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"git.home.luguber.info/inful/siteshim/internal/foundation/errors"
	"git.home.luguber.info/inful/siteshim/internal/logfields"
	"git.home.luguber.info/inful/siteshim/internal/metrics"
)

const maxFormBytes = 64 << 10

// SettingsSource yields the relay settings for a request, typically from the
// current contact data.
type SettingsSource func(ctx context.Context) Settings

// StaticSettings always yields s.
func StaticSettings(s Settings) SettingsSource {
	return func(context.Context) Settings { return s }
}

// Handler serves POST /api/inquiry: it validates the form and redirects to
// the WhatsApp link carrying the formatted submission.
type Handler struct {
	form     Form
	title    string
	settings SettingsSource
	recorder metrics.Recorder
	logger   *slog.Logger
	errs     *errors.HTTPErrorAdapter
	now      func() time.Time
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

func WithTitle(title string) HandlerOption { return func(h *Handler) { h.title = title } }
func WithClock(now func() time.Time) HandlerOption {
	return func(h *Handler) { h.now = now }
}

func WithRecorder(r metrics.Recorder) HandlerOption {
	return func(h *Handler) { h.recorder = metrics.OrNoop(r) }
}

func WithLogger(l *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
			h.errs = errors.NewHTTPErrorAdapter(l)
		}
	}
}

// NewHandler returns the inquiry handler.
func NewHandler(src SettingsSource, opts ...HandlerOption) *Handler {
	h := &Handler{
		form:     ContactForm(),
		title:    DefaultTitle,
		settings: src,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
		errs:     errors.NewHTTPErrorAdapter(nil),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.settings == nil {
		h.settings = StaticSettings(Settings{Number: FallbackNumber})
	}
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, errors.HTTPErrorResponse{Error: "method not allowed"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		h.recorder.IncRelaySubmission(metrics.ResultInvalid)
		h.errs.WriteErrorResponse(w, r, errors.WrapError(err, errors.CategoryValidation, "unreadable form body").Warning().Build())
		return
	}

	if problems := h.form.Validate(r.PostForm); len(problems) > 0 {
		h.recorder.IncRelaySubmission(metrics.ResultInvalid)
		h.logger.InfoContext(r.Context(), "Inquiry rejected",
			logfields.Count(len(problems)),
			logfields.RemoteAddr(r.RemoteAddr))
		err := errors.ValidationError("invalid form submission").
			WithContext("fields", problems).
			Build()
		writeJSON(w, http.StatusUnprocessableEntity, h.errs.FormatErrorResponse(err))
		return
	}

	settings := h.settings(r.Context())
	link := settings.Link(Message(h.title, h.form, r.PostForm, h.now()))
	h.recorder.IncRelaySubmission(metrics.ResultSuccess)
	h.logger.InfoContext(r.Context(), "Inquiry relayed", slog.String("number", settings.Number))
	http.Redirect(w, r, link, http.StatusSeeOther)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
