package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"wordler/config"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// MetricsProvider manages OpenTelemetry metrics and implements
// service.MetricsRecorder
type MetricsProvider struct {
	config        *config.Config
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	initialized   bool
	mu            sync.RWMutex

	// Metric instruments
	puzzlesCreatedCounter         metric.Int64Counter
	gamesSubmittedCounter         metric.Int64Counter
	notificationsEnqueuedCounter  metric.Int64Counter
	notificationsDeliveredCounter metric.Int64Counter
	compositionFailuresCounter    metric.Int64Counter
	aggregationDurationHist       metric.Float64Histogram
	aggregationPayloadsHist       metric.Int64Histogram
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
	}
}

// Initialize sets up the OpenTelemetry metrics provider
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	if !mp.config.OTelEnabled {
		log.Info("OpenTelemetry metrics disabled")
		return nil
	}

	var exporter sdkmetric.Exporter
	var err error
	switch mp.config.OTelExporterType {
	case ExporterConsole:
		exporter, err = stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console exporter: %w", err)
		}
		log.Info("Using console metric exporter")

	case ExporterOTLP:
		dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		exporter, err = otlpmetricgrpc.New(dialCtx,
			otlpmetricgrpc.WithEndpoint(mp.config.OTelOTLPEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		log.WithField("endpoint", mp.config.OTelOTLPEndpoint).Info("Using OTLP metric exporter")

	case ExporterNone:
		log.Info("Metrics export disabled (exporter_type='none')")
		return nil

	default:
		return fmt.Errorf("unknown exporter type: %s", mp.config.OTelExporterType)
	}

	reader := sdkmetric.NewPeriodicReader(
		exporter,
		sdkmetric.WithInterval(time.Duration(mp.config.OTelExportIntervalMillis)*time.Millisecond),
	)
	return mp.initWithReader(reader)
}

func (mp *MetricsProvider) initWithReader(reader sdkmetric.Reader) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		log.Debug("Metrics provider already initialized")
		return nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(mp.config.OTelServiceName),
			attribute.String("environment", mp.config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	otel.SetMeterProvider(mp.meterProvider)
	mp.meter = mp.meterProvider.Meter("wordler")

	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}

	mp.initialized = true
	log.Info("Metrics provider initialized successfully")
	return nil
}

// createInstruments creates all metric instruments
func (mp *MetricsProvider) createInstruments() error {
	counters := []struct {
		target      *metric.Int64Counter
		name        string
		description string
	}{
		{&mp.puzzlesCreatedCounter, PuzzlesCreatedTotal, "Total number of daily puzzles created"},
		{&mp.gamesSubmittedCounter, GamesSubmittedTotal, "Total number of completed games submitted"},
		{&mp.notificationsEnqueuedCounter, NotificationsEnqueuedTotal, "Total number of results queued for delivery"},
		{&mp.notificationsDeliveredCounter, NotificationsDeliveredTotal, "Total number of notifications marked processed"},
		{&mp.compositionFailuresCounter, CompositionFailuresTotal, "Total number of failed image compositions"},
	}
	for _, c := range counters {
		counter, err := mp.meter.Int64Counter(c.name,
			metric.WithDescription(c.description),
			metric.WithUnit("1"),
		)
		if err != nil {
			return fmt.Errorf("failed to create %s counter: %w", c.name, err)
		}
		*c.target = counter
	}

	var err error
	mp.aggregationDurationHist, err = mp.meter.Float64Histogram(
		AggregationDuration,
		metric.WithDescription("Duration of pending notification aggregation in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0),
	)
	if err != nil {
		return fmt.Errorf("failed to create aggregation duration histogram: %w", err)
	}

	mp.aggregationPayloadsHist, err = mp.meter.Int64Histogram(
		AggregationPayloads,
		metric.WithDescription("Grouped notifications returned per aggregation"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create aggregation payloads histogram: %w", err)
	}

	return nil
}

// Shutdown flushes and stops the meter provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}

// RecordPuzzleCreated counts a newly created daily puzzle
func (mp *MetricsProvider) RecordPuzzleCreated() {
	if !mp.isEnabled() {
		return
	}
	mp.puzzlesCreatedCounter.Add(context.Background(), 1)
}

// RecordGameSubmitted counts a completed game
func (mp *MetricsProvider) RecordGameSubmitted(solved bool) {
	if !mp.isEnabled() {
		return
	}
	mp.gamesSubmittedCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.Bool(LabelSolved, solved)),
	)
}

// RecordNotificationEnqueued counts a result queued for delivery
func (mp *MetricsProvider) RecordNotificationEnqueued() {
	if !mp.isEnabled() {
		return
	}
	mp.notificationsEnqueuedCounter.Add(context.Background(), 1)
}

// RecordNotificationsProcessed counts notifications a delivery agent consumed
func (mp *MetricsProvider) RecordNotificationsProcessed(count int64) {
	if !mp.isEnabled() || count <= 0 {
		return
	}
	mp.notificationsDeliveredCounter.Add(context.Background(), count)
}

// RecordCompositionFailure counts a grouped image that fell back to a single result
func (mp *MetricsProvider) RecordCompositionFailure() {
	if !mp.isEnabled() {
		return
	}
	mp.compositionFailuresCounter.Add(context.Background(), 1)
}

// RecordAggregation records one aggregation pass
func (mp *MetricsProvider) RecordAggregation(duration time.Duration, payloads int) {
	if !mp.isEnabled() {
		return
	}
	ctx := context.Background()
	mp.aggregationDurationHist.Record(ctx, duration.Seconds())
	mp.aggregationPayloadsHist.Record(ctx, int64(payloads))
}

// isEnabled checks if metrics are enabled and initialized
func (mp *MetricsProvider) isEnabled() bool {
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.initialized
}
