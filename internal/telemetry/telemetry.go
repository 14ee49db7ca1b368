package telemetry

import (
	"log"
	"sync"
	"time"

	"github.com/mohammad-safakhou/contentagent/config"
	"github.com/prometheus/client_golang/prometheus"
)

// Telemetry provides run monitoring for the content pipeline. Counters are
// exported through prometheus; aggregate numbers are also kept locally for
// the periodic log reporter.
type Telemetry struct {
	config config.TelemetryConfig
	logger *log.Logger

	runsTotal        *prometheus.CounterVec
	runDuration      prometheus.Histogram
	stageDuration    *prometheus.HistogramVec
	providerRequests *prometheus.CounterVec
	itemsDropped     *prometheus.CounterVec

	mu      sync.Mutex
	metrics Metrics
}

// Metrics holds aggregate pipeline metrics
type Metrics struct {
	TotalRuns       int64
	SuccessfulRuns  int64
	FailedRuns      int64
	SourcesFetched  int64
	InsightsServed  int64
	ExtractionFails int64
}

// RunEvent represents a single pipeline run
type RunEvent struct {
	ID        string
	Topic     string
	StartTime time.Time
	EndTime   time.Time
	Success   bool
	Error     string
	Sources   int
	Insights  int
}

// New creates a telemetry instance and registers its collectors.
func New(cfg config.TelemetryConfig) *Telemetry {
	t := &Telemetry{
		config: cfg,
		logger: log.New(log.Writer(), "[TELEMETRY] ", log.LstdFlags),
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contentagent_runs_total",
			Help: "Pipeline runs by outcome.",
		}, []string{"outcome"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "contentagent_run_duration_seconds",
			Help:    "End-to-end pipeline run duration.",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "contentagent_stage_duration_seconds",
			Help:    "Per-stage pipeline duration.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"stage"}),
		providerRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contentagent_provider_requests_total",
			Help: "Source provider requests by provider and outcome.",
		}, []string{"provider", "outcome"}),
		itemsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "contentagent_items_dropped_total",
			Help: "Source items dropped before synthesis, by reason.",
		}, []string{"reason"}),
	}

	if cfg.Enabled {
		for _, c := range []prometheus.Collector{t.runsTotal, t.runDuration, t.stageDuration, t.providerRequests, t.itemsDropped} {
			if err := prometheus.Register(c); err != nil {
				// duplicate registration happens in tests; keep going
				t.logger.Printf("metric registration: %v", err)
			}
		}
	}

	if cfg.Enabled && cfg.PeriodicLogs {
		go t.startReporting()
	}

	return t
}

// RecordRun records a completed (or failed) pipeline run.
func (t *Telemetry) RecordRun(event RunEvent) {
	if !t.config.Enabled {
		return
	}

	outcome := "success"
	if !event.Success {
		outcome = "failure"
	}
	t.runsTotal.WithLabelValues(outcome).Inc()
	if !event.EndTime.IsZero() && event.EndTime.After(event.StartTime) {
		t.runDuration.Observe(event.EndTime.Sub(event.StartTime).Seconds())
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.metrics.TotalRuns++
	if event.Success {
		t.metrics.SuccessfulRuns++
	} else {
		t.metrics.FailedRuns++
	}
	t.metrics.SourcesFetched += int64(event.Sources)
	t.metrics.InsightsServed += int64(event.Insights)
}

// ObserveStage records the duration of one pipeline stage.
func (t *Telemetry) ObserveStage(stage string, d time.Duration) {
	if !t.config.Enabled {
		return
	}
	t.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordProviderRequest records the outcome of one source provider call.
func (t *Telemetry) RecordProviderRequest(provider string, err error) {
	if !t.config.Enabled {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	t.providerRequests.WithLabelValues(provider, outcome).Inc()
}

// RecordDrop records a source item dropped before synthesis.
func (t *Telemetry) RecordDrop(reason string) {
	if !t.config.Enabled {
		return
	}
	t.itemsDropped.WithLabelValues(reason).Inc()
	if reason == "extraction_failed" {
		t.mu.Lock()
		t.metrics.ExtractionFails++
		t.mu.Unlock()
	}
}

// GetMetrics returns a snapshot of the aggregate metrics.
func (t *Telemetry) GetMetrics() Metrics {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.metrics
}

func (t *Telemetry) startReporting() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		m := t.GetMetrics()
		t.logger.Printf("runs=%d ok=%d failed=%d sources=%d insights=%d extraction_fails=%d",
			m.TotalRuns, m.SuccessfulRuns, m.FailedRuns, m.SourcesFetched, m.InsightsServed, m.ExtractionFails)
	}
}
