package services

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/booksynth/internal/adapters/driven/metrics"
	"github.com/custodia-labs/booksynth/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/booksynth/internal/core/domain"
	"github.com/custodia-labs/booksynth/internal/core/ports/driving"
)

// recordingWriter captures written instances and fails for names in failOn.
type recordingWriter struct {
	mu      sync.Mutex
	written map[string]*domain.Instance
	failOn  map[string]bool
}

func newRecordingWriter(failOn ...string) *recordingWriter {
	w := &recordingWriter{
		written: make(map[string]*domain.Instance),
		failOn:  make(map[string]bool),
	}
	for _, name := range failOn {
		w.failOn[name] = true
	}
	return w
}

func (w *recordingWriter) Write(io.Writer, *domain.Instance) error {
	return nil
}

func (w *recordingWriter) WriteFile(path string, inst *domain.Instance) error {
	if w.failOn[filepath.Base(path)] {
		return errors.New("disk full")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.written[path] = inst
	return nil
}

func newTestBatchService(writer *recordingWriter) (*BatchService, *memory.CatalogStore, *metrics.Recorder) {
	catalog := memory.NewCatalogStore()
	recorder := metrics.New("")
	svc := NewBatchService(NewGenerator(domain.DefaultSynthesisConfig()), writer, catalog, recorder)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	return svc, catalog, recorder
}

func poolRequest(count, workers int) driving.BatchRequest {
	return driving.BatchRequest{
		Pool:      testPool()[:4],
		Count:     count,
		Seed:      100,
		Prefix:    "synthetic",
		Source:    "test",
		OutputDir: "out",
		Workers:   workers,
	}
}

func TestBatchService_Run(t *testing.T) {
	writer := newRecordingWriter()
	svc, catalog, recorder := newTestBatchService(writer)

	report, err := svc.Run(context.Background(), poolRequest(5, 3))

	require.NoError(t, err)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 5, report.Generated)
	assert.Equal(t, 0, report.Failed)
	assert.Empty(t, report.Errors)
	require.Len(t, report.Entries, 5)
	for i, entry := range report.Entries {
		name := InstanceName("synthetic", i)
		assert.Equal(t, name, entry.Name)
		assert.Equal(t, report.RunID, entry.RunID)
		assert.Equal(t, "test", entry.Source)
		assert.Equal(t, filepath.Join("out", name), entry.Path)
		assert.Contains(t, writer.written, entry.Path)
	}

	stored, err := catalog.ListByRun(context.Background(), report.RunID)
	require.NoError(t, err)
	assert.Len(t, stored, 5)

	total := testutil.ToFloat64(recorder.Generated.WithLabelValues("crossover")) +
		testutil.ToFloat64(recorder.Generated.WithLabelValues("mutation"))
	assert.Equal(t, 5.0, total)
	assert.Equal(t, 0.0, testutil.ToFloat64(recorder.Failures))
}

func TestBatchService_Run_IndependentOfWorkers(t *testing.T) {
	serial, _, _ := newTestBatchService(newRecordingWriter())
	parallel, _, _ := newTestBatchService(newRecordingWriter())

	a, err := serial.Run(context.Background(), poolRequest(12, 1))
	require.NoError(t, err)
	b, err := parallel.Run(context.Background(), poolRequest(12, 8))
	require.NoError(t, err)

	require.Len(t, b.Entries, len(a.Entries))
	for i := range a.Entries {
		assert.Equal(t, a.Entries[i].Name, b.Entries[i].Name)
		assert.Equal(t, a.Entries[i].Strategy, b.Entries[i].Strategy)
		assert.Equal(t, a.Entries[i].Features, b.Entries[i].Features)
		assert.Equal(t, a.Entries[i].Shortfalls, b.Entries[i].Shortfalls)
	}
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestBatchService_Run_ItemUsesSeedPlusIndex(t *testing.T) {
	writer := newRecordingWriter()
	svc, _, _ := newTestBatchService(writer)
	g := NewGenerator(domain.DefaultSynthesisConfig())
	req := poolRequest(4, 2)

	report, err := svc.Run(context.Background(), req)
	require.NoError(t, err)

	for i, entry := range report.Entries {
		want, err := g.Generate(req.Pool, newRand(req.Seed+int64(i)))
		require.NoError(t, err)
		assert.Equal(t, want.Features, entry.Features)
		assert.Equal(t, want.Instance, writer.written[entry.Path])
	}
}

func TestBatchService_Run_PerItemFailure(t *testing.T) {
	writer := newRecordingWriter("synthetic_0001.txt")
	svc, catalog, recorder := newTestBatchService(writer)

	report, err := svc.Run(context.Background(), poolRequest(3, 2))

	require.NoError(t, err)
	assert.Equal(t, 2, report.Generated)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0].Error(), "synthetic_0001.txt")
	assert.Contains(t, report.Errors[0].Error(), "disk full")
	assert.Equal(t, "synthetic_0000.txt", report.Entries[0].Name)
	assert.Equal(t, "synthetic_0002.txt", report.Entries[1].Name)
	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.Failures))

	_, err = catalog.Get(context.Background(), report.RunID, "synthetic_0001.txt")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBatchService_Run_EmptyPoolFailsEveryItem(t *testing.T) {
	svc, _, recorder := newTestBatchService(newRecordingWriter())
	req := poolRequest(3, 2)
	req.Pool = nil

	report, err := svc.Run(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 0, report.Generated)
	assert.Equal(t, 3, report.Failed)
	for _, e := range report.Errors {
		assert.ErrorIs(t, e, domain.ErrEmptyPool)
	}
	assert.Equal(t, 3.0, testutil.ToFloat64(recorder.Failures))
}

func TestBatchService_Run_Targets(t *testing.T) {
	writer := newRecordingWriter()
	svc, _, _ := newTestBatchService(writer)
	req := poolRequest(99, 2)
	req.Pool = nil
	req.Targets = []domain.FeatureRow{
		{Name: "a", Source: "corpus", Features: vector(10, 4, 1, 10, 1, 5, 1, 1, 0)},
		{Name: "b.txt", Features: vector(10, 4, 1, 10, 1, 5, 1, 1, 0)},
	}

	report, err := svc.Run(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 2, report.Generated)
	for _, entry := range report.Entries {
		assert.Equal(t, domain.OriginTarget, entry.Strategy)
	}
	assert.Equal(t, 4, report.Shortfalls[domain.ShortfallLibrarySize])

	require.Len(t, report.Entries, 2)
	assert.Equal(t, "a.txt", report.Entries[0].Name)
	assert.Equal(t, "corpus", report.Entries[0].Source)
	assert.Equal(t, filepath.Join("out", "a.txt"), report.Entries[0].Path)
	assert.Equal(t, "b.txt", report.Entries[1].Name)
	assert.Equal(t, "test", report.Entries[1].Source)
	assert.Contains(t, writer.written, filepath.Join("out", "a.txt"))
	assert.Contains(t, writer.written, filepath.Join("out", "b.txt"))
}

func TestBatchService_Run_TargetNames(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"plain name gets suffix", "d_tough", "d_tough.txt"},
		{"suffix kept", "e_so_many_books.txt", "e_so_many_books.txt"},
		{"directory stripped", "../corpus/f.txt", "f.txt"},
		{"empty falls back to prefix", "", "synthetic_0000.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestBatchService(newRecordingWriter())
			req := poolRequest(1, 1)
			req.Targets = []domain.FeatureRow{{Name: tt.target, Features: vector(10, 4, 1, 10, 1, 5, 1, 1, 0)}}

			report, err := svc.Run(context.Background(), req)

			require.NoError(t, err)
			require.Len(t, report.Entries, 1)
			assert.Equal(t, tt.want, report.Entries[0].Name)
			assert.Equal(t, filepath.Join("out", tt.want), report.Entries[0].Path)
		})
	}
}

func TestBatchService_Run_NegativeCount(t *testing.T) {
	svc, _, _ := newTestBatchService(newRecordingWriter())

	report, err := svc.Run(context.Background(), poolRequest(-1, 1))

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, report)
}

func TestBatchService_Run_ZeroCount(t *testing.T) {
	svc, _, _ := newTestBatchService(newRecordingWriter())

	report, err := svc.Run(context.Background(), poolRequest(0, 4))

	require.NoError(t, err)
	assert.Equal(t, 0, report.Generated)
	assert.Empty(t, report.Entries)
}

func TestBatchService_Run_Cancelled(t *testing.T) {
	svc, _, _ := newTestBatchService(newRecordingWriter())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := svc.Run(ctx, poolRequest(10, 2))

	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Equal(t, 0, report.Generated)
}

func TestBatchService_Run_DefaultPrefix(t *testing.T) {
	svc, _, _ := newTestBatchService(newRecordingWriter())
	req := poolRequest(1, 1)
	req.Prefix = ""

	report, err := svc.Run(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, InstanceName(domain.DefaultAppSettings().Batch.Prefix, 0), report.Entries[0].Name)
}

func TestBatchService_Run_WithoutOptionalDependencies(t *testing.T) {
	svc := NewBatchService(NewGenerator(domain.DefaultSynthesisConfig()), nil, nil, nil)

	report, err := svc.Run(context.Background(), poolRequest(2, 2))

	require.NoError(t, err)
	assert.Equal(t, 2, report.Generated)
	assert.Empty(t, report.Entries[0].Path)
}

func TestBatchService_Run_FlushesMetrics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "textfile", "booksynth.prom")
	svc := NewBatchService(NewGenerator(domain.DefaultSynthesisConfig()), nil, nil, metrics.New(path))

	_, err := svc.Run(context.Background(), poolRequest(2, 1))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "booksynth_instances_generated_total")
}

func TestBatchService_SynthesizeRows(t *testing.T) {
	svc, _, _ := newTestBatchService(newRecordingWriter())
	req := poolRequest(6, 3)

	rows, err := svc.SynthesizeRows(context.Background(), req.Pool, 6, req.Seed, "synthetic", "test")
	require.NoError(t, err)
	report, err := svc.Run(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, rows, 6)
	for i, row := range rows {
		assert.Equal(t, InstanceName("synthetic", i), row.Name)
		assert.Equal(t, "test", row.Source)
		assert.Equal(t, report.Entries[i].Features, row.Features)
		assertWithinConstraints(t, row.Features)
	}
}

func TestBatchService_SynthesizeRows_Errors(t *testing.T) {
	svc, _, _ := newTestBatchService(newRecordingWriter())

	_, err := svc.SynthesizeRows(context.Background(), testPool(), -1, 1, "p", "s")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.SynthesizeRows(context.Background(), nil, 2, 1, "p", "s")
	assert.ErrorIs(t, err, domain.ErrEmptyPool)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.SynthesizeRows(ctx, testPool(), 2, 1, "p", "s")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInstanceName(t *testing.T) {
	assert.Equal(t, "synthetic_0000.txt", InstanceName("synthetic", 0))
	assert.Equal(t, "exam_0042.txt", InstanceName("exam", 42))
	assert.Equal(t, "exam_12345.txt", InstanceName("exam", 12345))
}
