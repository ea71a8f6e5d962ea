// Package metrics records build timings as Prometheus metrics and writes
// them in the textfile format read by node_exporter's textfile collector.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// now is injectable for testing.
var now = time.Now

// Collector holds the metrics of one sid invocation.
type Collector struct {
	reg *prometheus.Registry

	// Stage metrics
	StageDuration *prometheus.GaugeVec
	StageFailures *prometheus.CounterVec

	// Build metrics
	Chapters     *prometheus.GaugeVec
	Verses       *prometheus.GaugeVec
	ArchiveBytes *prometheus.GaugeVec
	LastSuccess  *prometheus.GaugeVec
}

// New creates a collector with its own registry.
func New() *Collector {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Collector{
		reg: reg,
		StageDuration: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "sid",
				Name:      "build_stage_duration_seconds",
				Help:      "Duration of the last run of each build stage",
			},
			[]string{"module", "stage"},
		),
		StageFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sid",
				Name:      "build_stage_failures_total",
				Help:      "Build stages that returned an error",
			},
			[]string{"module", "stage"},
		),
		Chapters: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "sid",
				Name:      "module_chapters",
				Help:      "Chapters in the last successful build",
			},
			[]string{"module"},
		),
		Verses: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "sid",
				Name:      "module_verses",
				Help:      "Verses in the last successful build",
			},
			[]string{"module"},
		),
		ArchiveBytes: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "sid",
				Name:      "module_archive_bytes",
				Help:      "Size of the packaged module archive",
			},
			[]string{"module", "format"},
		),
		LastSuccess: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "sid",
				Name:      "build_last_success_timestamp_seconds",
				Help:      "Unix time of the last successful build",
			},
			[]string{"module"},
		),
	}
}

// ObserveStage records one finished build stage.
func (c *Collector) ObserveStage(module, stage string, d time.Duration, err error) {
	c.StageDuration.WithLabelValues(module, stage).Set(d.Seconds())
	if err != nil {
		c.StageFailures.WithLabelValues(module, stage).Inc()
	}
}

// ObserveBuild records a successful build.
func (c *Collector) ObserveBuild(module, format string, chapters, verses int, archiveBytes int64) {
	c.Chapters.WithLabelValues(module).Set(float64(chapters))
	c.Verses.WithLabelValues(module).Set(float64(verses))
	c.ArchiveBytes.WithLabelValues(module, format).Set(float64(archiveBytes))
	c.LastSuccess.WithLabelValues(module).Set(float64(now().Unix()))
}

// Gatherer exposes the collector's registry.
func (c *Collector) Gatherer() prometheus.Gatherer {
	return c.reg
}

// WriteFile writes the metrics to path in the text exposition format. The
// file is replaced atomically.
func (c *Collector) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, c.reg)
}
