package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"stf-simulator/internal/errors"
	"stf-simulator/internal/models"
)

// SQLiteStore implements PresetStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based preset store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	// Configure connection pool for concurrent access
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to initialize schema")
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Named contract and scenario inputs
	CREATE TABLE IF NOT EXISTS presets (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		description TEXT,
		kind TEXT NOT NULL,
		terms TEXT NOT NULL,
		scenario TEXT NOT NULL,
		built_in INTEGER DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_presets_kind ON presets(kind);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SavePreset inserts a preset or updates the one with the same name. The
// original ID and creation time of an existing preset are kept.
func (s *SQLiteStore) SavePreset(ctx context.Context, preset *models.Preset) error {
	terms, err := json.Marshal(preset.Terms)
	if err != nil {
		return errors.NewStoreError("save", preset.Name, err)
	}
	scenario, err := json.Marshal(preset.Scenario)
	if err != nil {
		return errors.NewStoreError("save", preset.Name, err)
	}

	now := time.Now().UTC()
	if preset.ID == "" {
		preset.ID = uuid.NewString()
	}
	if preset.CreatedAt.IsZero() {
		preset.CreatedAt = now
	}
	preset.UpdatedAt = now

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO presets (id, name, description, kind, terms, scenario, built_in, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			description = excluded.description,
			kind = excluded.kind,
			terms = excluded.terms,
			scenario = excluded.scenario,
			built_in = excluded.built_in,
			updated_at = excluded.updated_at
	`, preset.ID, preset.Name, preset.Description, string(preset.Scenario.Kind),
		string(terms), string(scenario), boolToInt(preset.BuiltIn), preset.CreatedAt, preset.UpdatedAt)
	if err != nil {
		return errors.NewStoreError("save", preset.Name, fmt.Errorf("%w: failed to save preset: %v", errors.ErrDatabaseError, err))
	}

	// An update keeps the stored identity; reflect it back to the caller.
	err = s.db.QueryRowContext(ctx, `SELECT id, created_at FROM presets WHERE name = ?`, preset.Name).
		Scan(&preset.ID, &preset.CreatedAt)
	if err != nil {
		return errors.NewStoreError("save", preset.Name, fmt.Errorf("%w: failed to read back preset: %v", errors.ErrDatabaseError, err))
	}
	return nil
}

// GetPreset retrieves a preset by name.
func (s *SQLiteStore) GetPreset(ctx context.Context, name string) (*models.Preset, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, terms, scenario, built_in, created_at, updated_at
		FROM presets WHERE name = ?
	`, name)

	preset, err := scanPreset(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewStoreError("get", name, errors.ErrPresetNotFound)
	}
	if err != nil {
		return nil, errors.NewStoreError("get", name, fmt.Errorf("%w: failed to get preset: %v", errors.ErrDatabaseError, err))
	}
	return preset, nil
}

// ListPresets lists presets ordered by name.
func (s *SQLiteStore) ListPresets(ctx context.Context, filter PresetFilter) ([]models.Preset, error) {
	query := `
		SELECT id, name, description, terms, scenario, built_in, created_at, updated_at
		FROM presets WHERE 1=1
	`
	var args []interface{}

	if filter.Kind != "" {
		query += " AND kind = ?"
		args = append(args, string(filter.Kind))
	}
	if filter.BuiltIn != nil {
		query += " AND built_in = ?"
		args = append(args, boolToInt(*filter.BuiltIn))
	}
	if filter.NameLike != "" {
		query += " AND name LIKE ?"
		args = append(args, "%"+strings.TrimSpace(filter.NameLike)+"%")
	}

	query += " ORDER BY name ASC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewStoreError("list", "", fmt.Errorf("%w: failed to list presets: %v", errors.ErrDatabaseError, err))
	}
	defer rows.Close()

	var presets []models.Preset
	for rows.Next() {
		preset, err := scanPreset(rows)
		if err != nil {
			return nil, errors.NewStoreError("list", "", fmt.Errorf("%w: failed to scan preset: %v", errors.ErrDatabaseError, err))
		}
		presets = append(presets, *preset)
	}

	return presets, rows.Err()
}

// DeletePreset removes a preset by name.
func (s *SQLiteStore) DeletePreset(ctx context.Context, name string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM presets WHERE name = ?`, name)
	if err != nil {
		return errors.NewStoreError("delete", name, fmt.Errorf("%w: failed to delete preset: %v", errors.ErrDatabaseError, err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.NewStoreError("delete", name, fmt.Errorf("%w: %v", errors.ErrDatabaseError, err))
	}
	if affected == 0 {
		return errors.NewStoreError("delete", name, errors.ErrPresetNotFound)
	}
	return nil
}

// SeedDefaults installs every built-in preset whose name is not taken and
// returns how many were added.
func (s *SQLiteStore) SeedDefaults(ctx context.Context) (int, error) {
	added := 0
	for _, preset := range BuiltInPresets() {
		_, err := s.GetPreset(ctx, preset.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, errors.ErrPresetNotFound) {
			return added, err
		}

		p := preset
		if err := s.SavePreset(ctx, &p); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPreset(row rowScanner) (*models.Preset, error) {
	var (
		p            models.Preset
		description  sql.NullString
		termsJSON    string
		scenarioJSON string
		builtIn      int
	)
	if err := row.Scan(&p.ID, &p.Name, &description, &termsJSON, &scenarioJSON, &builtIn, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(termsJSON), &p.Terms); err != nil {
		return nil, errors.Wrapf(err, "decoding terms of preset %q", p.Name)
	}
	if err := json.Unmarshal([]byte(scenarioJSON), &p.Scenario); err != nil {
		return nil, errors.Wrapf(err, "decoding scenario of preset %q", p.Name)
	}
	p.Description = description.String
	p.BuiltIn = builtIn == 1
	return &p, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
