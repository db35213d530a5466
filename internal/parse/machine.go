// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"strings"
)

// State is the position of the block scanner within a question/answer pair.
type State int

const (
	// AwaitingQuestion means no question or answer has been recorded.
	AwaitingQuestion State = iota
	// AwaitingAnswer means a question is recorded and no answer has started.
	AwaitingAnswer
	// AwaitingAnswerClose means an answer is in progress. A blank line closes
	// the pair when a question was also recorded.
	AwaitingAnswerClose
)

func (s State) String() string {
	switch s {
	case AwaitingQuestion:
		return "awaiting-question"
	case AwaitingAnswer:
		return "awaiting-answer"
	case AwaitingAnswerClose:
		return "awaiting-answer-close"
	default:
		return "unknown"
	}
}

// LineKind classifies an input line for the transition table.
type LineKind int

const (
	// Blank lines are empty after trimming.
	Blank LineKind = iota
	// AnswerMarker lines start with the answer marker.
	AnswerMarker
	// Text is any other line.
	Text
)

// Classify returns the kind of line. The marker is matched against the
// untrimmed line, so an indented marker is plain text.
func Classify(line, marker string) LineKind {
	switch {
	case strings.TrimSpace(line) == "":
		return Blank
	case strings.HasPrefix(line, marker):
		return AnswerMarker
	default:
		return Text
	}
}

// machine holds the working state of one block scan.
type machine struct {
	marker   string
	state    State
	question string
	hasQ     bool
	answer   []string
}

func newMachine(marker string) *machine {
	return &machine{marker: marker}
}

// pair is a closed question/answer pair ready to become a Test.
type pair struct {
	question string
	answer   string
}

// Step feeds one line to the machine. It returns the closed pair, if the
// line closed one.
func (m *machine) Step(line string) (pair, bool) {
	kind := Classify(line, m.marker)

	switch m.state {
	case AwaitingQuestion:
		switch kind {
		case AnswerMarker:
			m.startAnswer(line)
		case Text:
			m.question = strings.TrimSpace(line)
			m.hasQ = true
			m.state = AwaitingAnswer
		}

	case AwaitingAnswer:
		if kind == AnswerMarker {
			m.startAnswer(line)
		}

	case AwaitingAnswerClose:
		switch kind {
		case Blank:
			if !m.hasQ {
				return pair{}, false
			}
			p := pair{question: m.question, answer: strings.Join(m.answer, "\n")}
			m.reset()
			return p, true
		case AnswerMarker:
			m.startAnswer(line)
		case Text:
			m.answer = append(m.answer, strings.TrimSpace(line))
		}
	}

	return pair{}, false
}

// State returns the current state.
func (m *machine) State() State {
	return m.state
}

func (m *machine) startAnswer(line string) {
	m.answer = []string{strings.TrimSpace(strings.TrimPrefix(line, m.marker))}
	m.state = AwaitingAnswerClose
}

func (m *machine) reset() {
	m.state = AwaitingQuestion
	m.question = ""
	m.hasQ = false
	m.answer = nil
}
