// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"strings"
)

// QueryOptions holds parameters for question-set queries.
type QueryOptions struct {
	// Query is the FTS4 MATCH expression over question and answer text.
	Query string

	// Dataset filters by dataset name.
	Dataset string

	// Section filters by exact section title.
	Section string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Dataset == "" && q.Section == ""
}

// QueryResult is one indexed test with its section and dataset.
type QueryResult struct {
	Dataset      string `json:"dataset" yaml:"dataset"`
	SectionID    string `json:"section_id" yaml:"section_id"`
	SectionTitle string `json:"section_title" yaml:"section_title"`
	ID           string `json:"id" yaml:"id"`
	Question     string `json:"question" yaml:"question"`
	AnswerText   string `json:"answer_text" yaml:"answer_text"`
}

// Retrieve queries the index with optional full-text search and filters.
// Results keep dataset, section, and test order.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT t.dataset, t.section_id, sec.title, t.id, t.question, t.answer_text
			FROM tests_fts
			JOIN tests t ON t.rowid = tests_fts.docid
			JOIN sections sec ON sec.dataset = t.dataset AND sec.position = t.section_position
			WHERE tests_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT t.dataset, t.section_id, sec.title, t.id, t.question, t.answer_text
			FROM tests t
			JOIN sections sec ON sec.dataset = t.dataset AND sec.position = t.section_position
			WHERE 1=1`)
	}

	if opts.Dataset != "" {
		qb.WriteString(` AND t.dataset = ?`)
		args = append(args, opts.Dataset)
	}

	if opts.Section != "" {
		qb.WriteString(` AND sec.title = ?`)
		args = append(args, opts.Section)
	}

	qb.WriteString(` ORDER BY t.dataset, sec.position, t.position`)

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var r QueryResult
		if err := rows.Scan(&r.Dataset, &r.SectionID, &r.SectionTitle, &r.ID, &r.Question, &r.AnswerText); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		results = append(results, r)
	}

	return results, rows.Err()
}
