package recorder

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists signals and snapshots to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the engine writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS signals (
			id        TEXT PRIMARY KEY,
			timestamp INTEGER NOT NULL,
			symbol    TEXT NOT NULL,
			kind      TEXT NOT NULL,
			direction TEXT,
			price     REAL,
			level     REAL,
			zscore    REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_ts ON signals(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_symbol ON signals(symbol)`,

		`CREATE TABLE IF NOT EXISTS profile_snapshots (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp    INTEGER NOT NULL,
			symbol       TEXT NOT NULL,
			poc_price    REAL,
			va_low       REAL,
			va_high      REAL,
			total_volume REAL,
			hvn_count    INTEGER,
			lvn_count    INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_profile_ts ON profile_snapshots(timestamp)`,

		`CREATE TABLE IF NOT EXISTS pair_snapshots (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			pair        TEXT NOT NULL,
			correlation REAL,
			beta        REAL,
			spread      REAL,
			zscore      REAL,
			linked      INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pair_ts ON pair_snapshots(timestamp)`,
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:30], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordSignal(s *SignalRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	_, err := r.db.Exec(
		`INSERT INTO signals (id, timestamp, symbol, kind, direction, price, level, zscore)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Timestamp.Unix(), s.Symbol, s.Kind, s.Direction, s.Price, s.Level, s.ZScore,
	)
	if err != nil {
		return fmt.Errorf("record signal: %w", err)
	}
	return nil
}

func (r *SQLiteRecorder) RecordProfile(p *ProfileSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := r.db.Exec(
		`INSERT INTO profile_snapshots (timestamp, symbol, poc_price, va_low, va_high, total_volume, hvn_count, lvn_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Timestamp.Unix(), p.Symbol, p.POCPrice, p.VALow, p.VAHigh, p.TotalVolume, p.HVNCount, p.LVNCount,
	)
	if err != nil {
		return fmt.Errorf("record profile: %w", err)
	}
	return nil
}

func (r *SQLiteRecorder) RecordPair(p *PairSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	linked := 0
	if p.Linked {
		linked = 1
	}
	_, err := r.db.Exec(
		`INSERT INTO pair_snapshots (timestamp, pair, correlation, beta, spread, zscore, linked)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Timestamp.Unix(), p.Pair, p.Correlation, p.Beta, p.Spread, p.ZScore, linked,
	)
	if err != nil {
		return fmt.Errorf("record pair: %w", err)
	}
	return nil
}

func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
