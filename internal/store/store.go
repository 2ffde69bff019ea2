// Package store persists page corpora in SQLite so that extraction runs can
// be indexed and queried later.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/tsawler/fractionator/corpus"
)

// ErrNotFound is returned when no corpus is stored for a run and page.
var ErrNotFound = errors.New("corpus not found")

const schema = `
CREATE TABLE IF NOT EXISTS corpora (
	run_id     TEXT    NOT NULL,
	source     TEXT    NOT NULL,
	page       INTEGER NOT NULL,
	flags      TEXT    NOT NULL,
	body       TEXT    NOT NULL,
	created_at TEXT    NOT NULL,
	PRIMARY KEY (run_id, page)
);
CREATE TABLE IF NOT EXISTS items (
	run_id TEXT    NOT NULL,
	page   INTEGER NOT NULL,
	seq    INTEGER NOT NULL,
	type   TEXT    NOT NULL,
	text   TEXT    NOT NULL,
	PRIMARY KEY (run_id, page, seq)
);
CREATE INDEX IF NOT EXISTS items_text ON items (text);
`

// Store is a SQLite corpus database.
type Store struct {
	db *sql.DB
}

// Hit is one stored item matching a search.
type Hit struct {
	RunID  string
	Source string
	Page   int
	Seq    int
	Type   corpus.ItemType
	Text   string
}

// Open opens the database at dsn, creating the schema if needed. Use
// ":memory:" for a private in-memory database.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection keeps an in-memory database alive and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

func checkRunID(runID string) error {
	if _, err := uuid.Parse(runID); err != nil {
		return fmt.Errorf("invalid run id %q: %w", runID, err)
	}
	return nil
}

// SaveCorpus stores the corpus of one page, replacing any earlier corpus for
// the same run and page.
func (s *Store) SaveCorpus(ctx context.Context, runID, source string, page int, c *corpus.TextCorpus) error {
	if err := checkRunID(runID); err != nil {
		return err
	}

	body, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode corpus: %w", err)
	}
	flags, err := json.Marshal(c.Flags())
	if err != nil {
		return fmt.Errorf("encode flags: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO corpora (run_id, source, page, flags, body, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, source, page, string(flags), string(body), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert corpus: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE run_id = ? AND page = ?`, runID, page); err != nil {
		return fmt.Errorf("delete items: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO items (run_id, page, seq, type, text) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare items: %w", err)
	}
	defer stmt.Close()

	for i, item := range c.Items() {
		if item.IsDelimiter() {
			continue
		}
		if _, err := stmt.ExecContext(ctx, runID, page, i, item.Type().String(), item.Text()); err != nil {
			return fmt.Errorf("insert item %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// LoadCorpus returns the corpus stored for a run and page.
func (s *Store) LoadCorpus(ctx context.Context, runID string, page int) (*corpus.TextCorpus, error) {
	if err := checkRunID(runID); err != nil {
		return nil, err
	}

	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM corpora WHERE run_id = ? AND page = ?`, runID, page).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: run %s page %d", ErrNotFound, runID, page)
	}
	if err != nil {
		return nil, fmt.Errorf("query corpus: %w", err)
	}

	c := corpus.New(corpus.Flags{})
	if err := json.Unmarshal([]byte(body), c); err != nil {
		return nil, fmt.Errorf("decode corpus: %w", err)
	}
	return c, nil
}

// Pages returns the stored page numbers of a run in ascending order.
func (s *Store) Pages(ctx context.Context, runID string) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT page FROM corpora WHERE run_id = ? ORDER BY page`, runID)
	if err != nil {
		return nil, fmt.Errorf("query pages: %w", err)
	}
	defer rows.Close()

	var pages []int
	for rows.Next() {
		var p int
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// Search returns up to limit items whose text contains term, in run, page
// and item order.
func (s *Store) Search(ctx context.Context, term string, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.run_id, c.source, i.page, i.seq, i.type, i.text
		FROM items i JOIN corpora c ON c.run_id = i.run_id AND c.page = i.page
		WHERE instr(i.text, ?) > 0
		ORDER BY i.run_id, i.page, i.seq
		LIMIT ?`, term, limit)
	if err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var h Hit
		var typ string
		if err := rows.Scan(&h.RunID, &h.Source, &h.Page, &h.Seq, &typ, &h.Text); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		if err := h.Type.UnmarshalText([]byte(typ)); err != nil {
			return nil, err
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}
