// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/qaparse/internal/ident"
	"github.com/pdiddy/qaparse/pkg/types"
)

// seqIDs hands out id-1, id-2, ... so tests can assert exact output.
type seqIDs struct {
	n int
}

func (s *seqIDs) NewID() string {
	s.n++
	return fmt.Sprintf("id-%d", s.n)
}

func newTestParser() *Parser {
	return New(types.ParseConfig{}, &seqIDs{}, nil)
}

// qa strips ids so sections can be compared by content.
type qa struct {
	Question string
	Answer   string
}

func pairsOf(sec types.Section) []qa {
	out := make([]qa, 0, len(sec.Tests))
	for _, tt := range sec.Tests {
		out = append(out, qa{Question: tt.Question, Answer: tt.AnswerText})
	}
	return out
}

func TestParseBlock(t *testing.T) {
	tests := []struct {
		name      string
		block     string
		wantOK    bool
		wantTitle string
		want      []qa
	}{
		{
			name:      "single pair closed by blank line",
			block:     "Title A\nWhat is 2+2?\nAnswer: 4\n\n",
			wantOK:    true,
			wantTitle: "Title A",
			want:      []qa{{"What is 2+2?", "4"}},
		},
		{
			name:      "multi-line answer",
			block:     "Title B\nExplain X.\nAnswer: Because\nof Y.\n\n",
			wantOK:    true,
			wantTitle: "Title B",
			want:      []qa{{"Explain X.", "Because\nof Y."}},
		},
		{
			name:      "trailing pair without blank line is dropped",
			block:     "Title C\nQ1\nAnswer: A1\n\nQ2\nAnswer: A2",
			wantOK:    true,
			wantTitle: "Title C",
			want:      []qa{{"Q1", "A1"}},
		},
		{
			name:   "empty block",
			block:  "",
			wantOK: false,
		},
		{
			name:   "whitespace-only block",
			block:  "  \n\t\n  ",
			wantOK: false,
		},
		{
			name:      "title only",
			block:     "\n  Lonely Title  \n",
			wantOK:    true,
			wantTitle: "Lonely Title",
			want:      []qa{},
		},
		{
			name:      "answer lines are trimmed individually",
			block:     "T\n  Why?  \nAnswer:   first  \n   second\t\n\n",
			wantOK:    true,
			wantTitle: "T",
			want:      []qa{{"Why?", "first\nsecond"}},
		},
		{
			name:      "answer without question absorbs the following lines",
			block:     "T\nAnswer: orphan\n\nQ\nAnswer: A\n\n",
			wantOK:    true,
			wantTitle: "T",
			want:      []qa{},
		},
		{
			name:      "orphan answer lines continue across blank lines",
			block:     "T\nAnswer: orphan\n\nmore orphan\n\n",
			wantOK:    true,
			wantTitle: "T",
			want:      []qa{},
		},
		{
			name:      "second answer marker restarts the answer",
			block:     "T\nQ\nAnswer: old\nAnswer: new\n\n",
			wantOK:    true,
			wantTitle: "T",
			want:      []qa{{"Q", "new"}},
		},
		{
			name:      "extra text before the answer is ignored",
			block:     "T\nQ\nnot the answer\nAnswer: A\n\n",
			wantOK:    true,
			wantTitle: "T",
			want:      []qa{{"Q", "A"}},
		},
		{
			name:      "blank line between question and answer is ignored",
			block:     "T\nQ\n\n\nAnswer: A\n\n",
			wantOK:    true,
			wantTitle: "T",
			want:      []qa{{"Q", "A"}},
		},
		{
			name:      "indented marker is plain text",
			block:     "T\nQ\n  Answer: A\n\n",
			wantOK:    true,
			wantTitle: "T",
			want:      []qa{},
		},
		{
			name:      "marker is case-sensitive",
			block:     "T\nQ\nanswer: A\nAnswer: B\n\n",
			wantOK:    true,
			wantTitle: "T",
			want:      []qa{{"Q", "B"}},
		},
		{
			name:      "empty answer after marker",
			block:     "T\nQ\nAnswer:\n\n",
			wantOK:    true,
			wantTitle: "T",
			want:      []qa{{"Q", ""}},
		},
		{
			name:      "crlf line endings",
			block:     "T\r\nQ\r\nAnswer: A\r\n\r\nQ2\r\nAnswer: B\r\n\r\n",
			wantOK:    true,
			wantTitle: "T",
			want:      []qa{{"Q", "A"}, {"Q2", "B"}},
		},
		{
			name:      "several pairs in order",
			block:     "T\nQ1\nAnswer: A1\n\nQ2\nAnswer: A2\nmore\n\nQ3\nAnswer: A3\n\n",
			wantOK:    true,
			wantTitle: "T",
			want:      []qa{{"Q1", "A1"}, {"Q2", "A2\nmore"}, {"Q3", "A3"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sec, ok := newTestParser().ParseBlock(tt.block)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.wantTitle, sec.Title)
			assert.Equal(t, tt.want, pairsOf(sec))
		})
	}
}

func TestParseBlockExactOutput(t *testing.T) {
	sec, ok := newTestParser().ParseBlock("Title A\nWhat is 2+2?\nAnswer: 4\n\n")
	require.True(t, ok)

	want := types.Section{
		ID:    "id-1",
		Title: "Title A",
		Tests: []types.Test{{
			ID:            "id-2",
			Question:      "What is 2+2?",
			CorrectChunks: []string{},
			AnswerText:    "4",
		}},
	}
	assert.Equal(t, want, sec)
}

func TestParseBlockTestsNeverNil(t *testing.T) {
	sec, ok := newTestParser().ParseBlock("Just a title")
	require.True(t, ok)
	assert.NotNil(t, sec.Tests)
	assert.Empty(t, sec.Tests)
}

func TestSplitSections(t *testing.T) {
	content := "A\n" + types.DefaultDelimiter + "\nB\n" + types.DefaultDelimiter
	got := SplitSections(content, types.DefaultDelimiter)
	assert.Equal(t, []string{"A\n", "\nB\n", ""}, got)
}

func TestSplitSectionsIsLiteral(t *testing.T) {
	// A shorter run of underscores is not a delimiter.
	got := SplitSections("A\n____\nB", types.DefaultDelimiter)
	assert.Len(t, got, 1)

	got = SplitSections("A.*B.*C", ".*")
	assert.Equal(t, []string{"A", "B", "C"}, got)
}

func TestParse(t *testing.T) {
	d := types.DefaultDelimiter
	content := d + "\n" +
		"Title A\nWhat is 2+2?\nAnswer: 4\n\n" + d + "\n" +
		"   \n\n" + d + "\n" +
		"Title B\nExplain X.\nAnswer: Because\nof Y.\n\n" + d + "\n"

	sections := newTestParser().Parse(content)
	require.Len(t, sections, 2)
	assert.Equal(t, "Title A", sections[0].Title)
	assert.Equal(t, []qa{{"What is 2+2?", "4"}}, pairsOf(sections[0]))
	assert.Equal(t, "Title B", sections[1].Title)
	assert.Equal(t, []qa{{"Explain X.", "Because\nof Y."}}, pairsOf(sections[1]))
}

func TestParseSectionCountMatchesNonEmptyBlocks(t *testing.T) {
	d := types.DefaultDelimiter
	blocks := []string{"", "One", " \t ", "Two\nQ\nAnswer: A", "\n\n", "Three\n"}
	sections := newTestParser().Parse(strings.Join(blocks, d))

	nonEmpty := 0
	for _, b := range blocks {
		if strings.TrimSpace(b) != "" {
			nonEmpty++
		}
	}
	assert.Len(t, sections, nonEmpty)
}

func TestParseIgnoringIDsIsIdempotent(t *testing.T) {
	d := types.DefaultDelimiter
	content := "S1\nQ1\nAnswer: A1\n\n" + d + "\nS2\nQ2\nAnswer: A2\nline\n\nQ3\nAnswer: A3\n\n"

	first := New(types.ParseConfig{}, ident.NewHex(), nil).Parse(content)
	second := New(types.ParseConfig{}, ident.NewHex(), nil).Parse(content)

	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Title, second[i].Title)
		assert.Equal(t, pairsOf(first[i]), pairsOf(second[i]))
	}
}

func TestParseSeededIDsAreReproducible(t *testing.T) {
	content := "S\nQ\nAnswer: A\n\n"
	first := New(types.ParseConfig{}, ident.NewSeededHex(11), nil).Parse(content)
	second := New(types.ParseConfig{}, ident.NewSeededHex(11), nil).Parse(content)
	assert.Equal(t, first, second)
}

func TestParseCustomConfig(t *testing.T) {
	cfg := types.ParseConfig{Delimiter: "===", AnswerMarker: "A:"}
	sections := New(cfg, &seqIDs{}, nil).Parse("S1\nQ\nA: yes\n\n===S2\nQ2\nAnswer: no\nA: maybe\n\n")

	require.Len(t, sections, 2)
	assert.Equal(t, []qa{{"Q", "yes"}}, pairsOf(sections[0]))
	assert.Equal(t, []qa{{"Q2", "maybe"}}, pairsOf(sections[1]))
}

func TestParseLogsDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	New(types.ParseConfig{}, &seqIDs{}, logger).Parse("T\nQ1\nAnswer: A1\n\nQ2\nAnswer: A2")

	out := buf.String()
	assert.Contains(t, out, "test closed")
	assert.Contains(t, out, "dropping unterminated pair")
	assert.Contains(t, out, "parsed sections")
}
