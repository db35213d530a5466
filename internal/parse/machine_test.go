// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/qaparse/pkg/types"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		line string
		want LineKind
	}{
		{"", Blank},
		{"   \t", Blank},
		{"\r", Blank},
		{"Answer: yes", AnswerMarker},
		{"Answer:", AnswerMarker},
		{" Answer: indented", Text},
		{"answer: lower", Text},
		{"What is it?", Text},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.line, types.DefaultAnswerMarker), "line %q", tt.line)
	}
}

// machineAt drives a fresh machine through setup lines.
func machineAt(setup ...string) *machine {
	m := newMachine(types.DefaultAnswerMarker)
	for _, l := range setup {
		m.Step(l)
	}
	return m
}

func TestTransitions(t *testing.T) {
	tests := []struct {
		name      string
		setup     []string
		line      string
		wantState State
		wantPair  *pair
		wantQ     string
		wantA     []string
	}{
		{
			name:      "awaiting question, blank is ignored",
			line:      "",
			wantState: AwaitingQuestion,
		},
		{
			name:      "awaiting question, text records question",
			line:      "  Q?  ",
			wantState: AwaitingAnswer,
			wantQ:     "Q?",
		},
		{
			name:      "awaiting question, marker starts answer without question",
			line:      "Answer: a",
			wantState: AwaitingAnswerClose,
			wantA:     []string{"a"},
		},
		{
			name:      "awaiting answer, blank is ignored",
			setup:     []string{"Q"},
			line:      " ",
			wantState: AwaitingAnswer,
			wantQ:     "Q",
		},
		{
			name:      "awaiting answer, text is ignored",
			setup:     []string{"Q"},
			line:      "another question",
			wantState: AwaitingAnswer,
			wantQ:     "Q",
		},
		{
			name:      "awaiting answer, marker starts answer",
			setup:     []string{"Q"},
			line:      "Answer:  a ",
			wantState: AwaitingAnswerClose,
			wantQ:     "Q",
			wantA:     []string{"a"},
		},
		{
			name:      "answer open with question, blank closes pair",
			setup:     []string{"Q", "Answer: a", "b"},
			line:      "",
			wantState: AwaitingQuestion,
			wantPair:  &pair{question: "Q", answer: "a\nb"},
		},
		{
			name:      "answer open with question, text appends",
			setup:     []string{"Q", "Answer: a"},
			line:      "  b ",
			wantState: AwaitingAnswerClose,
			wantQ:     "Q",
			wantA:     []string{"a", "b"},
		},
		{
			name:      "answer open with question, marker restarts",
			setup:     []string{"Q", "Answer: a", "b"},
			line:      "Answer: c",
			wantState: AwaitingAnswerClose,
			wantQ:     "Q",
			wantA:     []string{"c"},
		},
		{
			name:      "answer open without question, blank is ignored",
			setup:     []string{"Answer: a"},
			line:      "",
			wantState: AwaitingAnswerClose,
			wantA:     []string{"a"},
		},
		{
			name:      "answer open without question, text appends",
			setup:     []string{"Answer: a"},
			line:      "Q",
			wantState: AwaitingAnswerClose,
			wantA:     []string{"a", "Q"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := machineAt(tt.setup...)
			got, closed := m.Step(tt.line)

			assert.Equal(t, tt.wantState, m.State())
			if tt.wantPair != nil {
				assert.True(t, closed)
				assert.Equal(t, *tt.wantPair, got)
				assert.False(t, m.hasQ)
				assert.Nil(t, m.answer)
				return
			}
			assert.False(t, closed)
			assert.Equal(t, tt.wantQ, m.question)
			assert.Equal(t, tt.wantQ != "", m.hasQ)
			assert.Equal(t, tt.wantA, m.answer)
		})
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "awaiting-question", AwaitingQuestion.String())
	assert.Equal(t, "awaiting-answer", AwaitingAnswer.String())
	assert.Equal(t, "awaiting-answer-close", AwaitingAnswerClose.String())
	assert.Equal(t, "unknown", State(99).String())
}
