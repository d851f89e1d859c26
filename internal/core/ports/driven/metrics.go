package driven

import "github.com/custodia-labs/booksynth/internal/core/domain"

// MetricsRecorder counts generation outcomes.
type MetricsRecorder interface {
	// RecordGenerated counts a successful generation call.
	RecordGenerated(strategy domain.Strategy, totalBooks int)

	// RecordFailure counts a failed generation call.
	RecordFailure()

	// RecordShortfalls counts shortfalls by kind.
	RecordShortfalls(shortfalls []domain.Shortfall)

	// Flush exports the current values. Implementations without a sink return nil.
	Flush() error
}
