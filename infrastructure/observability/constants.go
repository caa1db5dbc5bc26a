package observability

// Metric name prefixes
const (
	MetricPrefix = "wordler"
)

// Metric names
const (
	// Puzzle metrics
	PuzzlesCreatedTotal = MetricPrefix + ".puzzles.created_total"

	// Game metrics
	GamesSubmittedTotal = MetricPrefix + ".games.submitted_total"

	// Notification metrics
	NotificationsEnqueuedTotal  = MetricPrefix + ".notifications.enqueued_total"
	NotificationsDeliveredTotal = MetricPrefix + ".notifications.delivered_total"
	CompositionFailuresTotal    = MetricPrefix + ".notifications.composition_failures_total"
	AggregationDuration         = MetricPrefix + ".notifications.aggregation_duration"
	AggregationPayloads         = MetricPrefix + ".notifications.aggregation_payloads"
)

// Label keys
const (
	LabelSolved = "solved"
)

// Exporter types
const (
	ExporterConsole = "console"
	ExporterOTLP    = "otlp"
	ExporterNone    = "none"
)
