// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parse turns delimited question/answer text into Sections.
// It performs no I/O: text goes in, structured sections come out, and
// diagnostics go to the injected logger.
package parse

import (
	"log/slog"
	"strings"
	"unicode"

	"github.com/pdiddy/qaparse/internal/ident"
	"github.com/pdiddy/qaparse/pkg/types"
)

// Parser splits input text into sections and extracts question/answer pairs.
type Parser struct {
	cfg    types.ParseConfig
	ids    ident.Generator
	logger *slog.Logger
}

// New returns a Parser. Empty config fields take their defaults. A nil
// logger discards diagnostics.
func New(cfg types.ParseConfig, ids ident.Generator, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Parser{
		cfg:    cfg.WithDefaults(),
		ids:    ids,
		logger: logger,
	}
}

// SplitSections splits content on the literal delimiter. Empty blocks at
// either end are returned as-is; ParseBlock drops them.
func SplitSections(content, delimiter string) []string {
	return strings.Split(content, delimiter)
}

// Parse splits content into blocks and parses each one, preserving input
// order. Blocks that are empty after trimming produce no Section.
func (p *Parser) Parse(content string) []types.Section {
	blocks := SplitSections(content, p.cfg.Delimiter)
	sections := make([]types.Section, 0, len(blocks))
	for _, block := range blocks {
		sec, ok := p.ParseBlock(block)
		if !ok {
			continue
		}
		sections = append(sections, sec)
	}
	p.logger.Debug("parsed sections",
		slog.Int("blocks", len(blocks)),
		slog.Int("sections", len(sections)))
	return sections
}

// ParseBlock parses a single raw block. It reports false when the block has
// no content after trimming.
//
// The first line is the title. A question is one line; an answer starts at a
// line beginning with the answer marker and runs until a blank line, which
// closes the pair. A pair still open at the end of the block is dropped.
func (p *Parser) ParseBlock(block string) (types.Section, bool) {
	if strings.TrimSpace(block) == "" {
		return types.Section{}, false
	}

	// Only leading whitespace is dropped: trailing blank lines still close
	// the last pair of the block.
	lines := strings.Split(strings.TrimLeftFunc(block, unicode.IsSpace), "\n")
	sec := types.Section{
		ID:    p.ids.NewID(),
		Title: strings.TrimSpace(lines[0]),
		Tests: []types.Test{},
	}

	m := newMachine(p.cfg.AnswerMarker)
	for _, line := range lines[1:] {
		before := m.State()
		closed, ok := m.Step(line)
		if ok {
			sec.Tests = append(sec.Tests, types.Test{
				ID:            p.ids.NewID(),
				Question:      closed.question,
				CorrectChunks: []string{},
				AnswerText:    closed.answer,
			})
			p.logger.Debug("test closed",
				slog.String("section", sec.Title),
				slog.String("question", closed.question))
			continue
		}
		if after := m.State(); after != before || after == AwaitingAnswerClose {
			p.logger.Debug("line",
				slog.String("from", before.String()),
				slog.String("to", after.String()),
				slog.String("text", strings.TrimSpace(line)))
		}
	}

	if m.State() != AwaitingQuestion {
		p.logger.Debug("dropping unterminated pair",
			slog.String("section", sec.Title),
			slog.String("state", m.State().String()))
	}

	return sec, true
}
