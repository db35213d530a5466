// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store indexes converted question sets in a local SQLite database
// with FTS4 full-text search over question and answer text.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/qaparse/internal/convert"
	"github.com/pdiddy/qaparse/pkg/types"
)

const (
	dbFile            = "qaparse.db"
	defaultMaxResults = 20
)

// Store manages the question-set SQLite database.
type Store struct {
	db         *sql.DB
	indexDir   string
	maxResults int
}

// NewStore opens or creates the database at cfg.IndexDir/qaparse.db and
// creates the schema if it does not exist.
func NewStore(cfg types.IndexConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.IndexDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(cfg.IndexDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{
		db:         db,
		indexDir:   cfg.IndexDir,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS datasets (
			name TEXT PRIMARY KEY,
			source_path TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sections (
			dataset TEXT NOT NULL REFERENCES datasets(name) ON DELETE CASCADE,
			id TEXT NOT NULL,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			PRIMARY KEY (dataset, position)
		)`,
		`CREATE TABLE IF NOT EXISTS tests (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			dataset TEXT NOT NULL REFERENCES datasets(name) ON DELETE CASCADE,
			section_position INTEGER NOT NULL,
			section_id TEXT NOT NULL,
			id TEXT NOT NULL,
			position INTEGER NOT NULL,
			question TEXT NOT NULL,
			answer_text TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tests_dataset ON tests(dataset, section_position)`,
		`CREATE TABLE IF NOT EXISTS indexing_status (
			dataset TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='tests_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE tests_fts USING fts4(content="tests", question, answer_text)`,
			`CREATE TRIGGER tests_ai AFTER INSERT ON tests BEGIN
				INSERT INTO tests_fts(docid, question, answer_text) VALUES (new.rowid, new.question, new.answer_text);
			END`,
			`CREATE TRIGGER tests_bd BEFORE DELETE ON tests BEGIN
				DELETE FROM tests_fts WHERE docid = old.rowid;
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// IngestSummary holds counts from an indexing run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of datasets processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// isDatasetFile reports whether name looks like a converted question set.
func isDatasetFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return !strings.HasPrefix(name, "export.")
	}
	return false
}

// Ingest reads every converted question set in dir and indexes it under a
// dataset named after the file. Files unchanged since the last run are
// skipped; changed files replace their previous contents.
func (s *Store) Ingest(ctx context.Context, dir string, w io.Writer) (IngestSummary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("reading dataset directory %s: %w", dir, err)
	}

	var summary IngestSummary

	for _, entry := range entries {
		if entry.IsDir() || !isDatasetFile(entry.Name()) {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		path := filepath.Join(dir, entry.Name())

		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM indexing_status WHERE dataset = ?`, name,
		).Scan(&storedModTime)

		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", name)
			summary.Skipped++
			continue
		}

		isUpdate := err == nil

		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}

		sections, err := convert.Decode(path, data)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}

		if err := s.ingestDataset(ctx, name, path, sections, modTime); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}

		tests := countTests(sections)
		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d sections, %d tests)\n", name, len(sections), tests)
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s (%d sections, %d tests)\n", name, len(sections), tests)
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	return summary, nil
}

func (s *Store) ingestDataset(ctx context.Context, name, path string, sections []types.Section, modTime string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM tests WHERE dataset = ?`,
		`DELETE FROM sections WHERE dataset = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, name); err != nil {
			return fmt.Errorf("deleting old rows: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO datasets (name, source_path) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET source_path=excluded.source_path`,
		name, path,
	)
	if err != nil {
		return fmt.Errorf("upserting dataset: %w", err)
	}

	// Section ids may repeat within a dataset, so rows are keyed by position.
	secStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO sections (dataset, id, position, title) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing section insert: %w", err)
	}
	defer secStmt.Close()

	testStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO tests (dataset, section_position, section_id, id, position, question, answer_text)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing test insert: %w", err)
	}
	defer testStmt.Close()

	for i, sec := range sections {
		if _, err := secStmt.ExecContext(ctx, name, sec.ID, i, sec.Title); err != nil {
			return fmt.Errorf("inserting section %s: %w", sec.ID, err)
		}
		for j, tt := range sec.Tests {
			if _, err := testStmt.ExecContext(ctx, name, i, sec.ID, tt.ID, j, tt.Question, tt.AnswerText); err != nil {
				return fmt.Errorf("inserting test %s: %w", tt.ID, err)
			}
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO indexing_status (dataset, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(dataset) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		name, modTime,
	)
	if err != nil {
		return fmt.Errorf("updating indexing status: %w", err)
	}

	return tx.Commit()
}

func countTests(sections []types.Section) int {
	n := 0
	for _, s := range sections {
		n += len(s.Tests)
	}
	return n
}
