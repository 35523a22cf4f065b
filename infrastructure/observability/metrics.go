package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"dinks/config"
	"dinks/events"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
)

// MetricsProvider manages OpenTelemetry metrics for the economy
type MetricsProvider struct {
	config        *config.Config
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	initialized   bool
	mu            sync.RWMutex

	// Metric instruments
	balanceTransactionsCounter metric.Int64Counter
	accountsCreatedCounter     metric.Int64Counter
	robAttemptsCounter         metric.Int64Counter
	gamblesCounter             metric.Int64Counter
	interestRunsCounter        metric.Int64Counter
	interestAccountsCounter    metric.Int64Counter
	interestDistributedCounter metric.Float64Counter
	prisonTransitionsCounter   metric.Int64Counter
	conflictRetriesCounter     metric.Int64Counter
	natsPublishedCounter       metric.Int64Counter
	natsFailuresCounter        metric.Int64Counter
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
	}
}

// Initialize sets up the OpenTelemetry metrics provider
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		log.Debug("Metrics provider already initialized")
		return nil
	}

	if !mp.config.OTelEnabled {
		log.Info("OpenTelemetry metrics disabled")
		mp.initialized = true
		return nil
	}

	var exporter sdkmetric.Exporter
	var err error
	switch mp.config.OTelExporterType {
	case "console":
		exporter, err = stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console exporter: %w", err)
		}
		log.Info("Using console metric exporter")

	case "otlp":
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

	case "none":
		log.Info("Metrics export disabled (exporter_type='none')")
		mp.initialized = true
		return nil

	default:
		return fmt.Errorf("unknown exporter type: %s", mp.config.OTelExporterType)
	}

	interval := time.Duration(mp.config.OTelExportIntervalMillis) * time.Millisecond
	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))
	if err := mp.setup(reader); err != nil {
		return err
	}

	otel.SetMeterProvider(mp.meterProvider)
	mp.initialized = true
	log.Info("Metrics provider initialized successfully")
	return nil
}

// setup builds the meter provider around reader and creates every instrument.
// Callers hold mp.mu.
func (mp *MetricsProvider) setup(reader sdkmetric.Reader) error {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
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
	mp.meter = mp.meterProvider.Meter("dinks")

	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}
	return nil
}

func (mp *MetricsProvider) createInstruments() error {
	var err error

	counters := []struct {
		target      *metric.Int64Counter
		name        string
		description string
	}{
		{&mp.balanceTransactionsCounter, BalanceTransactionsTotal, "Total number of committed balance changes"},
		{&mp.accountsCreatedCounter, AccountsCreatedTotal, "Total number of accounts opened"},
		{&mp.robAttemptsCounter, RobAttemptsTotal, "Total number of rob attempts by outcome"},
		{&mp.gamblesCounter, GamblesTotal, "Total number of settled wagers"},
		{&mp.interestRunsCounter, InterestRunsTotal, "Total number of daily interest runs"},
		{&mp.interestAccountsCounter, InterestAccountsTotal, "Total number of account accruals"},
		{&mp.prisonTransitionsCounter, PrisonTransitionsTotal, "Total number of jailings and releases"},
		{&mp.conflictRetriesCounter, ConcurrencyRetries, "Total number of units of work retried after a version conflict"},
		{&mp.natsPublishedCounter, NATSMessagesPublished, "Total number of events forwarded to NATS"},
		{&mp.natsFailuresCounter, NATSPublishFailures, "Total number of events that failed to forward"},
	}
	for _, c := range counters {
		*c.target, err = mp.meter.Int64Counter(
			c.name,
			metric.WithDescription(c.description),
			metric.WithUnit("1"),
		)
		if err != nil {
			return fmt.Errorf("failed to create %s counter: %w", c.name, err)
		}
	}

	mp.interestDistributedCounter, err = mp.meter.Float64Counter(
		InterestDistributed,
		metric.WithDescription("Dinks of profit distributed by interest runs"),
		metric.WithUnit("{dinks}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create interest distributed counter: %w", err)
	}

	return nil
}

// Shutdown flushes and shuts down the metrics provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}

// Subscribe records a metric for every committed event on the bus
func (mp *MetricsProvider) Subscribe(bus *events.Bus) {
	bus.Subscribe(events.EventTypeBalanceChange, func(ctx context.Context, e events.Event) {
		if ev, ok := e.(events.BalanceChangeEvent); ok {
			mp.RecordBalanceTransaction(string(ev.TransactionType))
		}
	})
	bus.Subscribe(events.EventTypeAccountCreated, func(ctx context.Context, e events.Event) {
		mp.RecordAccountCreated()
	})
	bus.Subscribe(events.EventTypeRobAttempted, func(ctx context.Context, e events.Event) {
		if ev, ok := e.(events.RobAttemptedEvent); ok {
			mp.RecordRobAttempt(string(ev.Outcome))
		}
	})
	bus.Subscribe(events.EventTypeGamblePlayed, func(ctx context.Context, e events.Event) {
		if ev, ok := e.(events.GamblePlayedEvent); ok {
			mp.RecordGamble(ev.Game, ev.Won)
		}
	})
	bus.Subscribe(events.EventTypeInterestAccrued, func(ctx context.Context, e events.Event) {
		if ev, ok := e.(events.InterestAccruedEvent); ok {
			mp.RecordInterestRun(ev.AccountsAccrued, ev.TotalInterest.InexactFloat64())
		}
	})
	bus.Subscribe(events.EventTypePrisonStateChange, func(ctx context.Context, e events.Event) {
		if ev, ok := e.(events.PrisonStateChangeEvent); ok {
			mp.RecordPrisonTransition(ev.Jailed, string(ev.Reason))
		}
	})
}

// RecordBalanceTransaction records a committed balance change
func (mp *MetricsProvider) RecordBalanceTransaction(transactionType string) {
	if !mp.isEnabled() {
		return
	}

	mp.balanceTransactionsCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelType, transactionType),
		),
	)
}

// RecordAccountCreated records a newly opened account
func (mp *MetricsProvider) RecordAccountCreated() {
	if !mp.isEnabled() {
		return
	}
	mp.accountsCreatedCounter.Add(context.Background(), 1)
}

// RecordRobAttempt records a rob attempt by outcome
func (mp *MetricsProvider) RecordRobAttempt(outcome string) {
	if !mp.isEnabled() {
		return
	}

	mp.robAttemptsCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelOutcome, outcome),
		),
	)
}

// RecordGamble records a settled wager
func (mp *MetricsProvider) RecordGamble(game string, won bool) {
	if !mp.isEnabled() {
		return
	}

	mp.gamblesCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelGame, game),
			attribute.Bool(LabelWon, won),
		),
	)
}

// RecordInterestRun records one daily accrual
func (mp *MetricsProvider) RecordInterestRun(accounts int, distributed float64) {
	if !mp.isEnabled() {
		return
	}

	ctx := context.Background()
	mp.interestRunsCounter.Add(ctx, 1)
	mp.interestAccountsCounter.Add(ctx, int64(accounts))
	if distributed > 0 {
		mp.interestDistributedCounter.Add(ctx, distributed)
	}
}

// RecordPrisonTransition records a user entering or leaving prison
func (mp *MetricsProvider) RecordPrisonTransition(jailed bool, reason string) {
	if !mp.isEnabled() {
		return
	}

	mp.prisonTransitionsCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.Bool(LabelJailed, jailed),
			attribute.String(LabelReason, reason),
		),
	)
}

// RecordConflictRetry records a unit of work rerun after a version conflict
func (mp *MetricsProvider) RecordConflictRetry() {
	if !mp.isEnabled() {
		return
	}
	mp.conflictRetriesCounter.Add(context.Background(), 1)
}

// RecordNATSPublish records the result of forwarding one event
func (mp *MetricsProvider) RecordNATSPublish(eventType events.EventType, err error) {
	if !mp.isEnabled() {
		return
	}

	attrs := metric.WithAttributes(attribute.String(LabelEventType, string(eventType)))
	if err != nil {
		mp.natsFailuresCounter.Add(context.Background(), 1, attrs)
		return
	}
	mp.natsPublishedCounter.Add(context.Background(), 1, attrs)
}

// isEnabled checks that instruments exist. Disabled or export-less providers
// never create them.
func (mp *MetricsProvider) isEnabled() bool {
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.initialized && mp.meter != nil
}

// Global metrics provider instance
var (
	globalMetrics *MetricsProvider
	metricsOnce   sync.Once
)

// InitializeGlobalMetrics initializes the global metrics provider
func InitializeGlobalMetrics(ctx context.Context, cfg *config.Config) error {
	var err error
	metricsOnce.Do(func() {
		globalMetrics = NewMetricsProvider(cfg)
		err = globalMetrics.Initialize(ctx)
	})
	return err
}

// GetMetrics returns the global metrics provider
func GetMetrics() *MetricsProvider {
	return globalMetrics
}

// ShutdownGlobalMetrics shuts down the global metrics provider
func ShutdownGlobalMetrics(ctx context.Context) error {
	if globalMetrics != nil {
		return globalMetrics.Shutdown(ctx)
	}
	return nil
}
