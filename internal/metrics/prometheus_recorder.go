package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "siteshim"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	fetchDuration *prom.HistogramVec
	fetchResults  *prom.CounterVec
	fallbacks     *prom.CounterVec
	stageDuration *prom.HistogramVec
	oauth         *prom.CounterVec
	relay         *prom.CounterVec
}

// NewPrometheusRecorder constructs the metrics and registers them with reg
// (a fresh registry when reg is nil).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		fetchDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "content_fetch_duration_seconds",
			Help:      "Duration of content fetches by kind (json|text)",
			Buckets:   prom.DefBuckets,
		}, []string{"kind"}),
		fetchResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "content_fetch_results_total",
			Help:      "Content fetch outcomes by kind and result",
		}, []string{"kind", "result"}),
		fallbacks: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "fallback_substitutions_total",
			Help:      "Times a section rendered the fallback catalog",
		}, []string{"section"}),
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of page controller stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		oauth: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "oauth_exchanges_total",
			Help:      "OAuth code exchange outcomes",
		}, []string{"result"}),
		relay: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "relay_submissions_total",
			Help:      "Contact form relay outcomes",
		}, []string{"result"}),
	}
	reg.MustRegister(pr.fetchDuration, pr.fetchResults, pr.fallbacks, pr.stageDuration, pr.oauth, pr.relay)
	return pr
}

func (p *PrometheusRecorder) ObserveFetchDuration(kind string, d time.Duration) {
	if p == nil {
		return
	}
	p.fetchDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncFetchResult(kind string, result ResultLabel) {
	if p == nil {
		return
	}
	p.fetchResults.WithLabelValues(kind, string(result)).Inc()
}

func (p *PrometheusRecorder) IncFallback(section string) {
	if p == nil {
		return
	}
	p.fallbacks.WithLabelValues(section).Inc()
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncOAuthExchange(result ResultLabel) {
	if p == nil {
		return
	}
	p.oauth.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncRelaySubmission(result ResultLabel) {
	if p == nil {
		return
	}
	p.relay.WithLabelValues(string(result)).Inc()
}
