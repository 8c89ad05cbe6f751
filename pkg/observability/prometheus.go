package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusHooks records pipeline and cache events as Prometheus metrics on
// a private registry. A batch run has no scrape endpoint, so the registry is
// flushed with [PrometheusHooks.WriteTextfile] for the node_exporter
// textfile collector.
type PrometheusHooks struct {
	registry *prometheus.Registry

	StageDuration *prometheus.HistogramVec
	StageItems    *prometheus.GaugeVec
	StageErrors   *prometheus.CounterVec
	DroppedASes   prometheus.Gauge
	CacheEvents   *prometheus.CounterVec
	CacheBytes    prometheus.Counter
	LastRun       prometheus.Gauge
}

// NewPrometheusHooks creates hooks with all metrics registered.
func NewPrometheusHooks() *PrometheusHooks {
	p := &PrometheusHooks{
		registry: prometheus.NewRegistry(),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "asgraph_stage_duration_seconds",
			Help:    "Duration of each pipeline stage.",
			Buckets: []float64{.001, .01, .1, .5, 1, 5, 15, 60},
		}, []string{"stage"}),
		StageItems: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "asgraph_stage_items",
			Help: "Items produced by the last run of each stage.",
		}, []string{"stage"}),
		StageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "asgraph_stage_errors_total",
			Help: "Pipeline stages that failed.",
		}, []string{"stage"}),
		DroppedASes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "asgraph_dropped_ases",
			Help: "ASes left out of the layering by the last run.",
		}),
		CacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "asgraph_cache_events_total",
			Help: "Cache lookups and writes by key type and result.",
		}, []string{"key_type", "result"}),
		CacheBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "asgraph_cache_written_bytes_total",
			Help: "Bytes written to the cache.",
		}),
		LastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "asgraph_last_run_timestamp_seconds",
			Help: "Unix time at which the last stage completed.",
		}),
	}
	p.registry.MustRegister(
		p.StageDuration, p.StageItems, p.StageErrors, p.DroppedASes,
		p.CacheEvents, p.CacheBytes, p.LastRun,
	)
	return p
}

// Registry returns the underlying registry.
func (p *PrometheusHooks) Registry() *prometheus.Registry { return p.registry }

// WriteTextfile writes all metrics in the Prometheus text format. The file
// is written to a temporary name and renamed into place.
func (p *PrometheusHooks) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, p.registry)
}

func (p *PrometheusHooks) OnStageStart(context.Context, string) {}

func (p *PrometheusHooks) OnStageComplete(_ context.Context, stage string, count int, duration time.Duration, err error) {
	p.StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
	if err != nil {
		p.StageErrors.WithLabelValues(stage).Inc()
		return
	}
	p.StageItems.WithLabelValues(stage).Set(float64(count))
	p.LastRun.SetToCurrentTime()
}

func (p *PrometheusHooks) OnDropped(_ context.Context, count int) {
	p.DroppedASes.Set(float64(count))
}

func (p *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	p.CacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (p *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	p.CacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (p *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	p.CacheEvents.WithLabelValues(keyType, "set").Inc()
	p.CacheBytes.Add(float64(size))
}

var (
	_ PipelineHooks = (*PrometheusHooks)(nil)
	_ CacheHooks    = (*PrometheusHooks)(nil)
)
