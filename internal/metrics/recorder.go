package metrics

import "time"

// ResultLabel enumerates result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailed  ResultLabel = "failed"
	ResultInvalid ResultLabel = "invalid"
)

// Recorder defines observability hooks. Implementations must be safe for
// concurrent use; parallel fetching calls them from several goroutines.
type Recorder interface {
	ObserveFetchDuration(kind string, d time.Duration)
	IncFetchResult(kind string, result ResultLabel)
	IncFallback(section string)
	ObserveStageDuration(stage string, d time.Duration)
	IncOAuthExchange(result ResultLabel)
	IncRelaySubmission(result ResultLabel)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveFetchDuration(string, time.Duration) {}
func (NoopRecorder) IncFetchResult(string, ResultLabel)         {}
func (NoopRecorder) IncFallback(string)                         {}
func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) IncOAuthExchange(ResultLabel)               {}
func (NoopRecorder) IncRelaySubmission(ResultLabel)             {}

// OrNoop returns r, or NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
