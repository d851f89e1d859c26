package featurecsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/custodia-labs/booksynth/internal/core/domain"
	"github.com/custodia-labs/booksynth/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.FeatureStore = (*Store)(nil)

// Column names besides the feature names.
const (
	ColumnName   = "instance_name"
	ColumnSource = "source"
)

// Store reads and writes feature CSV files.
type Store struct{}

// NewStore creates a feature CSV store.
func NewStore() *Store {
	return &Store{}
}

// ReadFile parses the feature rows stored at path.
func (s *Store) ReadFile(path string) ([]domain.FeatureRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	rows, err := s.ReadRows(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

// ReadRows parses feature rows. Every feature column must be present in the
// header; instance_name and source are optional.
func (s *Store) ReadRows(r io.Reader) ([]domain.FeatureRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no header row: %w", domain.ErrInvalidInput)
	}

	columns := make(map[string]int, len(records[0]))
	for i, cell := range records[0] {
		columns[strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff"))] = i
	}
	for _, name := range domain.FeatureNames {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("%w: column %s", domain.ErrMissingFeature, name)
		}
	}

	rows := make([]domain.FeatureRow, 0, len(records)-1)
	for n, record := range records[1:] {
		if isBlank(record) {
			continue
		}
		line := n + 2
		row := domain.FeatureRow{
			Name:     cell(record, columns, ColumnName),
			Source:   cell(record, columns, ColumnSource),
			Features: make(domain.FeatureVector, len(domain.FeatureNames)),
		}
		for _, name := range domain.FeatureNames {
			raw := cell(record, columns, name)
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %s = %q: %w", line, name, raw, domain.ErrInvalidInput)
			}
			row.Features[name] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteFile renders rows to path, creating parent directories.
func (s *Store) WriteFile(path string, rows []domain.FeatureRow) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := s.WriteRows(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteRows renders rows with a header line in canonical column order.
func (s *Store) WriteRows(w io.Writer, rows []domain.FeatureRow) error {
	writer := csv.NewWriter(w)
	header := append([]string{ColumnName, ColumnSource}, domain.FeatureNames...)
	if err := writer.Write(header); err != nil {
		return err
	}

	record := make([]string, len(header))
	for i := range rows {
		record[0] = rows[i].Name
		record[1] = rows[i].Source
		for j, name := range domain.FeatureNames {
			record[j+2] = strconv.FormatFloat(rows[i].Features[name], 'f', -1, 64)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func cell(record []string, columns map[string]int, name string) string {
	i, ok := columns[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func isBlank(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
