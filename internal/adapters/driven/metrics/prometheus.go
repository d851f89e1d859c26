package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/custodia-labs/booksynth/internal/core/domain"
	"github.com/custodia-labs/booksynth/internal/core/ports/driven"
)

// Ensure Recorder implements the interface.
var _ driven.MetricsRecorder = (*Recorder)(nil)

// Recorder counts generation outcomes in a Prometheus registry.
type Recorder struct {
	registry *prometheus.Registry
	path     string

	Generated  *prometheus.CounterVec
	Failures   prometheus.Counter
	Shortfalls *prometheus.CounterVec
	TotalBooks prometheus.Histogram
}

// New creates a recorder with all generation metrics registered.
// A non-empty textfilePath enables Flush.
func New(textfilePath string) *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		path:     textfilePath,

		Generated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "booksynth_instances_generated_total",
			Help: "Instances generated by the strategy branch actually taken",
		}, []string{"strategy"}),

		Failures: factory.NewCounter(prometheus.CounterOpts{
			Name: "booksynth_generation_failures_total",
			Help: "Generation calls that returned an error",
		}),

		Shortfalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "booksynth_shortfalls_total",
			Help: "Realised statistics that fell short of their target, by kind",
		}, []string{"kind"}), // kind: "duplication", "library_size"

		TotalBooks: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "booksynth_instance_total_books",
			Help:    "Sum of library sizes per generated instance",
			Buckets: prometheus.ExponentialBuckets(10, 10, 6), // 10 .. 1e6
		}),
	}
}

// Registry returns the registry holding the recorder's metrics.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// RecordGenerated counts a successful generation call.
func (r *Recorder) RecordGenerated(strategy domain.Strategy, totalBooks int) {
	if r == nil {
		return
	}
	r.Generated.WithLabelValues(strategy.String()).Inc()
	r.TotalBooks.Observe(float64(totalBooks))
}

// RecordFailure counts a failed generation call.
func (r *Recorder) RecordFailure() {
	if r != nil {
		r.Failures.Inc()
	}
}

// RecordShortfalls counts shortfalls by kind.
func (r *Recorder) RecordShortfalls(shortfalls []domain.Shortfall) {
	if r == nil {
		return
	}
	for kind, n := range domain.CountShortfalls(shortfalls) {
		r.Shortfalls.WithLabelValues(kind.String()).Add(float64(n))
	}
}

// Flush writes the registry to the textfile path, if one is set.
func (r *Recorder) Flush() error {
	if r == nil || r.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return fmt.Errorf("creating metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(r.path, r.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}

// Nop returns a recorder-shaped sink that discards everything.
func Nop() driven.MetricsRecorder {
	return nopRecorder{}
}

type nopRecorder struct{}

func (nopRecorder) RecordGenerated(domain.Strategy, int) {}
func (nopRecorder) RecordFailure() {}
func (nopRecorder) RecordShortfalls([]domain.Shortfall) {}
func (nopRecorder) Flush() error { return nil }
