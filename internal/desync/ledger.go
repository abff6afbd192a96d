package desync

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"
)

const ledgerBuffer = 4096

// Ledger persists desync records to sqlite from a single writer goroutine.
type Ledger struct {
	db *sql.DB

	ch     chan Record
	wg     sync.WaitGroup
	once   sync.Once
	closed atomic.Bool
}

func OpenLedger(path string) (*Ledger, error) {
	if path == "" {
		return nil, fmt.Errorf("empty ledger path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	db.SetMaxOpenConns(1)

	stmts := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		`CREATE TABLE IF NOT EXISTS desync (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			at TEXT NOT NULL,
			session TEXT NOT NULL,
			kind TEXT NOT NULL,
			detail TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_desync_session ON desync(session, at);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("initializing ledger: %w", err)
		}
	}

	l := &Ledger{
		db: db,
		ch: make(chan Record, ledgerBuffer),
	}
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		l.loop()
	}()
	return l, nil
}

// Record enqueues r. Records are dropped when the writer falls behind.
func (l *Ledger) Record(r Record) {
	if l == nil || l.closed.Load() {
		return
	}
	select {
	case l.ch <- r:
	default:
	}
}

func (l *Ledger) loop() {
	for r := range l.ch {
		_, err := l.db.Exec(
			`INSERT INTO desync (at, session, kind, detail) VALUES (?, ?, ?, ?)`,
			r.At.UTC().Format(time.RFC3339Nano), r.Session, string(r.Kind), r.Detail,
		)
		if err != nil {
			slog.Warn("writing desync record", "error", err)
		}
	}
}

// Start satisfies service.Worker; the ledger is flushed and closed on shutdown.
func (l *Ledger) Start(ctx context.Context) error {
	<-ctx.Done()
	return l.Close()
}

// Close flushes pending records and closes the database.
func (l *Ledger) Close() error {
	var err error
	l.once.Do(func() {
		l.closed.Store(true)
		close(l.ch)
		l.wg.Wait()
		err = l.db.Close()
	})
	return err
}

// Recent returns up to n records, newest first.
func (l *Ledger) Recent(ctx context.Context, n int) ([]Record, error) {
	return queryRecent(ctx, l.db, n)
}

// ReadLedger opens an existing ledger and returns up to n records.
func ReadLedger(ctx context.Context, path string, n int) ([]Record, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	defer func() { _ = db.Close() }()
	return queryRecent(ctx, db, n)
}

func queryRecent(ctx context.Context, db *sql.DB, n int) ([]Record, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT at, session, kind, detail FROM desync ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("querying ledger: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Record
	for rows.Next() {
		var at, kind string
		var r Record
		if err := rows.Scan(&at, &r.Session, &kind, &r.Detail); err != nil {
			return nil, fmt.Errorf("scanning ledger row: %w", err)
		}
		r.Kind = Kind(kind)
		r.At, _ = time.Parse(time.RFC3339Nano, at)
		out = append(out, r)
	}
	return out, rows.Err()
}
