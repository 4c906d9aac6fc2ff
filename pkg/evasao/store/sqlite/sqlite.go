package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/evasao/pkg/evasao/internalerr"
	"github.com/cognicore/evasao/pkg/evasao/store"
)

// sqliteStore implements store.Store on a single SQLite file.
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the cache database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %v: %w", path, err, internalerr.ErrStoreUnavailable)
	}
	// one writer; enricher workers share the handle
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL on %s: %v: %w", path, err, internalerr.ErrStoreUnavailable)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS distance_cache (
	neighborhood TEXT NOT NULL,
	city TEXT NOT NULL,
	state TEXT NOT NULL,
	travel_mode TEXT NOT NULL,
	distance_km REAL,
	duration_text TEXT,
	departure_time TEXT,
	run_id TEXT,
	resolved_at TEXT,
	PRIMARY KEY(neighborhood, city, state, travel_mode)
);
`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

const upsertEntry = `
INSERT INTO distance_cache
	(neighborhood, city, state, travel_mode, distance_km, duration_text, departure_time, run_id, resolved_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(neighborhood, city, state, travel_mode) DO UPDATE SET
	distance_km = excluded.distance_km,
	duration_text = excluded.duration_text,
	departure_time = excluded.departure_time,
	run_id = excluded.run_id,
	resolved_at = excluded.resolved_at`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func putEntry(ctx context.Context, ex execer, k store.Key, e store.Entry) error {
	_, err := ex.ExecContext(ctx, upsertEntry,
		k.Neighborhood, k.City, k.State, k.Mode,
		nullFloat(e.DistanceKm), nullString(e.Duration), nullString(e.Departure),
		nullString(e.RunID), formatTime(e.ResolvedAt),
	)
	if err != nil {
		return fmt.Errorf("put %s: %w", k, err)
	}
	return nil
}

// Put inserts or updates one entry.
func (s *sqliteStore) Put(ctx context.Context, k store.Key, e store.Entry) error {
	return putEntry(ctx, s.db, k, e)
}

// ReplaceAll overwrites the cache in a single transaction.
func (s *sqliteStore) ReplaceAll(ctx context.Context, entries map[store.Key]store.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM distance_cache"); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	for _, rec := range store.Sorted(entries) {
		if err := putEntry(ctx, tx, rec.Key, rec.Entry); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Load reads the whole cache.
func (s *sqliteStore) Load(ctx context.Context) (map[store.Key]store.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT neighborhood, city, state, travel_mode, distance_km, duration_text, departure_time, run_id, resolved_at
FROM distance_cache`)
	if err != nil {
		return nil, fmt.Errorf("load cache: %w", err)
	}
	defer rows.Close()

	out := make(map[store.Key]store.Entry)
	for rows.Next() {
		k, e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out[k] = e
	}
	return out, rows.Err()
}

// Get reads one entry.
func (s *sqliteStore) Get(ctx context.Context, k store.Key) (store.Entry, bool, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT neighborhood, city, state, travel_mode, distance_km, duration_text, departure_time, run_id, resolved_at
FROM distance_cache
WHERE neighborhood = ? AND city = ? AND state = ? AND travel_mode = ?`,
		k.Neighborhood, k.City, k.State, k.Mode)
	_, e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return store.Entry{}, false, nil
	}
	if err != nil {
		return store.Entry{}, false, err
	}
	return e, true, nil
}

// Delete removes the given keys.
func (s *sqliteStore) Delete(ctx context.Context, keys ...store.Key) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	removed := 0
	for _, k := range keys {
		res, err := tx.ExecContext(ctx, `
DELETE FROM distance_cache
WHERE neighborhood = ? AND city = ? AND state = ? AND travel_mode = ?`,
			k.Neighborhood, k.City, k.State, k.Mode)
		if err != nil {
			return 0, fmt.Errorf("delete %s: %w", k, err)
		}
		n, _ := res.RowsAffected()
		removed += int(n)
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return removed, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (store.Key, store.Entry, error) {
	var (
		k          store.Key
		dist       sql.NullFloat64
		duration   sql.NullString
		departure  sql.NullString
		runID      sql.NullString
		resolvedAt sql.NullString
	)
	if err := sc.Scan(&k.Neighborhood, &k.City, &k.State, &k.Mode,
		&dist, &duration, &departure, &runID, &resolvedAt); err != nil {
		return k, store.Entry{}, err
	}
	e := store.Entry{
		DistanceKm: math.NaN(),
		Duration:   duration.String,
		Departure:  departure.String,
		RunID:      runID.String,
	}
	if dist.Valid {
		e.DistanceKm = dist.Float64
	}
	if resolvedAt.Valid {
		if t, err := time.Parse(time.RFC3339Nano, resolvedAt.String); err == nil {
			e.ResolvedAt = t
		}
	}
	return k, e, nil
}

func nullFloat(f float64) sql.NullFloat64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func formatTime(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339Nano), Valid: true}
}
