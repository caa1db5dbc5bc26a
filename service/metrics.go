package service

import "time"

// MetricsRecorder receives counters from the services. The OpenTelemetry
// provider implements it; NoopMetrics is used when metrics are off.
type MetricsRecorder interface {
	RecordPuzzleCreated()
	RecordGameSubmitted(solved bool)
	RecordNotificationEnqueued()
	RecordNotificationsProcessed(count int64)
	RecordCompositionFailure()
	RecordAggregation(duration time.Duration, payloads int)
}

// NoopMetrics discards everything
type NoopMetrics struct{}

func (NoopMetrics) RecordPuzzleCreated() {}
func (NoopMetrics) RecordGameSubmitted(bool) {}
func (NoopMetrics) RecordNotificationEnqueued() {}
func (NoopMetrics) RecordNotificationsProcessed(int64) {}
func (NoopMetrics) RecordCompositionFailure() {}
func (NoopMetrics) RecordAggregation(time.Duration, int) {}
