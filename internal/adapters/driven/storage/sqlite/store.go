package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/booksynth/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/booksynth/internal/core/domain"
	"github.com/custodia-labs/booksynth/internal/core/ports/driven"
)

// dbFileName is the catalog database file inside the data directory.
const dbFileName = "catalog.db"

// Store is a SQLite-based storage for the instance catalog.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.booksynth/data/catalog.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".booksynth", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFileName)

	// WAL mode lets readers run while batch workers write.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// CatalogStore returns a CatalogStore interface backed by this store.
func (s *Store) CatalogStore() driven.CatalogStore {
	return &catalogStore{store: s}
}

// migrate runs all pending migrations and records each applied version.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_catalog.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Catalog Store ====================

// catalogStore implements driven.CatalogStore.
type catalogStore struct {
	store *Store
}

var _ driven.CatalogStore = (*catalogStore)(nil)

const catalogColumns = `run_id, name, source, strategy, features, shortfalls, path, created_at`

// Save stores or updates a catalog entry.
func (s *catalogStore) Save(ctx context.Context, entry domain.CatalogEntry) error {
	if entry.RunID == "" || entry.Name == "" {
		return fmt.Errorf("catalog entry needs run id and name: %w", domain.ErrInvalidInput)
	}

	featuresJSON, err := json.Marshal(entry.Features)
	if err != nil {
		return fmt.Errorf("marshalling features: %w", err)
	}
	shortfalls := entry.Shortfalls
	if shortfalls == nil {
		shortfalls = []domain.Shortfall{}
	}
	shortfallsJSON, err := json.Marshal(shortfalls)
	if err != nil {
		return fmt.Errorf("marshalling shortfalls: %w", err)
	}

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO catalog_entries (`+catalogColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, name) DO UPDATE SET
			source = excluded.source,
			strategy = excluded.strategy,
			features = excluded.features,
			shortfalls = excluded.shortfalls,
			path = excluded.path
	`, entry.RunID, entry.Name, entry.Source, entry.Strategy.String(),
		string(featuresJSON), string(shortfallsJSON), nullString(entry.Path), entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving catalog entry: %w", err)
	}
	return nil
}

// Get retrieves an entry by run and name.
func (s *catalogStore) Get(ctx context.Context, runID, name string) (*domain.CatalogEntry, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT `+catalogColumns+`
		FROM catalog_entries WHERE run_id = ? AND name = ?
	`, runID, name)

	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return entry, nil
}

// ListRuns returns run ids, most recently started first.
func (s *catalogStore) ListRuns(ctx context.Context) ([]string, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT run_id FROM catalog_entries
		GROUP BY run_id
		ORDER BY MIN(id) DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []string //nolint:prealloc // size unknown from query
	for rows.Next() {
		var runID string
		if err := rows.Scan(&runID); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, runID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

// ListByRun returns the entries of one run ordered by name.
func (s *catalogStore) ListByRun(ctx context.Context, runID string) ([]domain.CatalogEntry, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+catalogColumns+`
		FROM catalog_entries WHERE run_id = ?
		ORDER BY name
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying catalog entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.CatalogEntry //nolint:prealloc // size unknown from query
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating catalog entries: %w", err)
	}
	return entries, nil
}

// DeleteRun removes every entry of a run.
func (s *catalogStore) DeleteRun(ctx context.Context, runID string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM catalog_entries WHERE run_id = ?", runID)
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*domain.CatalogEntry, error) {
	var entry domain.CatalogEntry
	var strategy, featuresJSON, shortfallsJSON string
	var path sql.NullString
	var createdAt sql.NullTime
	if err := row.Scan(&entry.RunID, &entry.Name, &entry.Source, &strategy,
		&featuresJSON, &shortfallsJSON, &path, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning catalog entry: %w", err)
	}

	if err := json.Unmarshal([]byte(featuresJSON), &entry.Features); err != nil {
		return nil, fmt.Errorf("unmarshaling features: %w", err)
	}
	if err := json.Unmarshal([]byte(shortfallsJSON), &entry.Shortfalls); err != nil {
		return nil, fmt.Errorf("unmarshaling shortfalls: %w", err)
	}

	entry.Strategy = domain.Strategy(strategy)
	entry.Path = path.String
	if createdAt.Valid {
		entry.CreatedAt = createdAt.Time
	}
	return &entry, nil
}

// nullString returns nil for empty strings, otherwise the string.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
