// Package ledger maintains a sqlite read model of the game's history: every
// plant/harvest/level-up event and the metadata of every save. It is written
// by a single goroutine and never read back into game state, so losing a row
// under pressure costs an audit line, not correctness.
package ledger

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"farmstead.gg/internal/sim/farm"
)

type Ledger struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool
}

type reqKind int

const (
	reqEvent reqKind = iota + 1
	reqSave
	reqFlush
)

type req struct {
	kind  reqKind
	event farm.Event
	save  SaveMeta
	done  chan struct{}
}

// SaveMeta is one persisted-save record.
type SaveMeta struct {
	LastSave int64
	Path     string
	Plots    int
	Coins    int64
	Level    int
}

func Open(path string) (*Ledger, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	l := &Ledger{
		db: db,
		ch: make(chan req, 1024),
	}
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		l.loop()
	}()
	return l, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			at INTEGER NOT NULL,
			kind TEXT NOT NULL,
			crop TEXT,
			x INTEGER,
			y INTEGER,
			coins INTEGER NOT NULL DEFAULT 0,
			xp INTEGER NOT NULL DEFAULT 0,
			level INTEGER NOT NULL DEFAULT 0,
			recorded_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_kind_at ON events(kind, at);`,
		`CREATE TABLE IF NOT EXISTS saves (
			last_save INTEGER PRIMARY KEY,
			path TEXT NOT NULL,
			plots INTEGER NOT NULL,
			coins INTEGER NOT NULL,
			level INTEGER NOT NULL,
			recorded_at TEXT NOT NULL
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

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

// RecordEvent enqueues an event row. Drops silently if the writer is behind;
// the JSONL event log remains the source of truth.
func (l *Ledger) RecordEvent(ev farm.Event) {
	if l == nil || l.closed.Load() {
		return
	}
	select {
	case l.ch <- req{kind: reqEvent, event: ev}:
	default:
	}
}

// RecordSave enqueues a save-metadata row.
func (l *Ledger) RecordSave(m SaveMeta) {
	if l == nil || l.closed.Load() {
		return
	}
	select {
	case l.ch <- req{kind: reqSave, save: m}:
	default:
	}
}

// Flush blocks until every previously enqueued row has been applied.
func (l *Ledger) Flush() {
	if l == nil || l.closed.Load() {
		return
	}
	done := make(chan struct{})
	l.ch <- req{kind: reqFlush, done: done}
	<-done
}

func (l *Ledger) loop() {
	for r := range l.ch {
		switch r.kind {
		case reqEvent:
			ev := r.event
			_, _ = l.db.Exec(
				`INSERT INTO events(at,kind,crop,x,y,coins,xp,level,recorded_at) VALUES(?,?,?,?,?,?,?,?,?)`,
				ev.At, ev.Kind, ev.Crop, ev.X, ev.Y, ev.Coins, ev.XP, ev.Level,
				time.Now().UTC().Format(time.RFC3339Nano),
			)
		case reqSave:
			m := r.save
			_, _ = l.db.Exec(
				`INSERT OR REPLACE INTO saves(last_save,path,plots,coins,level,recorded_at) VALUES(?,?,?,?,?,?)`,
				m.LastSave, m.Path, m.Plots, m.Coins, m.Level,
				time.Now().UTC().Format(time.RFC3339Nano),
			)
		case reqFlush:
			close(r.done)
		}
	}
}

// CountEvents reports how many events of one kind have been recorded.
func (l *Ledger) CountEvents(kind string) (int, error) {
	var n int
	err := l.db.QueryRow(`SELECT COUNT(*) FROM events WHERE kind = ?`, kind).Scan(&n)
	return n, err
}

// LastSaves returns up to n save records, newest first.
func (l *Ledger) LastSaves(n int) ([]SaveMeta, error) {
	rows, err := l.db.Query(
		`SELECT last_save, path, plots, coins, level FROM saves ORDER BY last_save DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SaveMeta
	for rows.Next() {
		var m SaveMeta
		if err := rows.Scan(&m.LastSave, &m.Path, &m.Plots, &m.Coins, &m.Level); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
