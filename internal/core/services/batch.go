package services

import (
	"context"
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/booksynth/internal/core/domain"
	"github.com/custodia-labs/booksynth/internal/core/ports/driven"
	"github.com/custodia-labs/booksynth/internal/core/ports/driving"
	"github.com/custodia-labs/booksynth/internal/logger"
)

// Ensure BatchService implements the interface.
var _ driving.BatchService = (*BatchService)(nil)

// BatchService runs many independent generation calls over a bounded worker pool.
type BatchService struct {
	generator driving.Generator
	writer    driven.InstanceWriter
	catalog   driven.CatalogStore
	metrics   driven.MetricsRecorder

	now func() time.Time
}

// NewBatchService creates a batch service. writer, catalog and metrics may
// be nil; the corresponding step is then skipped.
func NewBatchService(
	generator driving.Generator,
	writer driven.InstanceWriter,
	catalog driven.CatalogStore,
	metrics driven.MetricsRecorder,
) *BatchService {
	return &BatchService{
		generator: generator,
		writer:    writer,
		catalog:   catalog,
		metrics:   metrics,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// itemResult is the outcome of one batch item.
type itemResult struct {
	entry *domain.CatalogEntry
	err   error
}

// Run generates every item of req. Item i draws from its own source seeded
// with req.Seed+i, so output does not depend on worker scheduling.
// Cancelling ctx stops scheduling new items; the partial report is returned
// together with the context error.
func (s *BatchService) Run(ctx context.Context, req driving.BatchRequest) (*domain.BatchReport, error) {
	count := req.Count
	if len(req.Targets) > 0 {
		count = len(req.Targets)
	}
	if count < 0 {
		return nil, fmt.Errorf("batch count %d is negative: %w", count, domain.ErrInvalidInput)
	}
	prefix := req.Prefix
	if prefix == "" {
		prefix = domain.DefaultAppSettings().Batch.Prefix
	}

	report := &domain.BatchReport{
		RunID:      uuid.NewString(),
		Shortfalls: make(map[domain.ShortfallKind]int),
	}

	logger.Section("Batch Generation")
	logger.Info("Run %s: %d instances, %d workers, seed %d", report.RunID, count, max(1, req.Workers), req.Seed)

	results := make([]itemResult, count)

	var g errgroup.Group
	g.SetLimit(max(1, req.Workers))

	for i := 0; i < count; i++ {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			entry, err := s.runItem(ctx, req, report.RunID, itemName(req, prefix, i), i)
			results[i] = itemResult{entry: entry, err: err}
			return nil
		})
	}
	// Items never return an error to the group; failures live in results.
	_ = g.Wait()

	for i := range results {
		r := results[i]
		switch {
		case r.err != nil:
			report.Failed++
			report.Errors = append(report.Errors, r.err)
		case r.entry != nil:
			report.Generated++
			report.Entries = append(report.Entries, *r.entry)
			for kind, n := range domain.CountShortfalls(r.entry.Shortfalls) {
				report.Shortfalls[kind] += n
			}
		}
	}

	logger.Info("Run %s: %d generated, %d failed", report.RunID, report.Generated, report.Failed)

	if s.metrics != nil {
		if err := s.metrics.Flush(); err != nil {
			logger.Warn("Metrics export failed: %v", err)
		}
	}

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

// runItem generates, writes and records item i.
func (s *BatchService) runItem(
	ctx context.Context,
	req driving.BatchRequest,
	runID, name string,
	i int,
) (*domain.CatalogEntry, error) {
	rng := rand.New(rand.NewSource(req.Seed + int64(i))) //nolint:gosec // reproducible synthesis, not crypto

	var result *domain.GenerationResult
	var err error
	if len(req.Targets) > 0 {
		result, err = s.generator.FromFeatures(req.Targets[i].Features, rng)
	} else {
		result, err = s.generator.Generate(req.Pool, rng)
	}
	if err != nil {
		return nil, s.fail(name, err)
	}

	source := req.Source
	if len(req.Targets) > 0 && req.Targets[i].Source != "" {
		source = req.Targets[i].Source
	}

	entry := &domain.CatalogEntry{
		RunID:      runID,
		Name:       name,
		Source:     source,
		Strategy:   result.Origin.Strategy,
		Features:   result.Features,
		Shortfalls: result.Shortfalls,
		CreatedAt:  s.now(),
	}

	if req.OutputDir != "" && s.writer != nil {
		entry.Path = filepath.Join(req.OutputDir, name)
		if err := s.writer.WriteFile(entry.Path, result.Instance); err != nil {
			return nil, s.fail(name, fmt.Errorf("writing instance: %w", err))
		}
	}

	if s.catalog != nil {
		if err := s.catalog.Save(ctx, *entry); err != nil {
			return nil, s.fail(name, fmt.Errorf("recording in catalog: %w", err))
		}
	}

	if s.metrics != nil {
		s.metrics.RecordGenerated(result.Origin.Strategy, result.Instance.TotalBookSlots())
		s.metrics.RecordShortfalls(result.Shortfalls)
	}
	logger.Debug("Generated %s (%s, %d books, %d libraries)", name, result.Origin.Strategy,
		result.Instance.NumBooks, result.Instance.NumLibraries)

	return entry, nil
}

func (s *BatchService) fail(name string, err error) error {
	if s.metrics != nil {
		s.metrics.RecordFailure()
	}
	logger.Warn("%s failed: %v", name, err)
	return fmt.Errorf("%s: %w", name, err)
}

// SynthesizeRows derives count feature rows without materializing
// instances. Row i uses seed+i, matching the instance Run would produce.
func (s *BatchService) SynthesizeRows(
	ctx context.Context,
	pool []domain.FeatureVector,
	count int,
	seed int64,
	prefix, source string,
) ([]domain.FeatureRow, error) {
	if count < 0 {
		return nil, fmt.Errorf("row count %d is negative: %w", count, domain.ErrInvalidInput)
	}

	rows := make([]domain.FeatureRow, 0, count)
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rng := rand.New(rand.NewSource(seed + int64(i))) //nolint:gosec // reproducible synthesis, not crypto
		fv, origin, err := s.generator.SynthesizeFeatures(pool, rng)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		logger.Debug("Row %d via %s from parents %v", i, origin.Strategy, origin.Parents)
		rows = append(rows, domain.FeatureRow{
			Name:     InstanceName(prefix, i),
			Source:   source,
			Features: fv,
		})
	}
	return rows, nil
}

// InstanceName returns the file name of batch item i.
func InstanceName(prefix string, i int) string {
	return fmt.Sprintf("%s_%04d.txt", prefix, i)
}

// itemName keeps a target row's own name, with a .txt suffix and no
// directory part, so regenerated files line up with their CSV rows.
func itemName(req driving.BatchRequest, prefix string, i int) string {
	if len(req.Targets) == 0 {
		return InstanceName(prefix, i)
	}
	name := filepath.Base(req.Targets[i].Name)
	if name == "." || name == string(filepath.Separator) || req.Targets[i].Name == "" {
		return InstanceName(prefix, i)
	}
	if !strings.HasSuffix(name, ".txt") {
		name += ".txt"
	}
	return name
}
