// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the data shared across qaparse stages: the parsed
// question sets and the stage configuration.
package types

// Section is one delimiter-bounded block of the input, holding a title and
// the question/answer pairs found beneath it.
type Section struct {
	// ID is a generated identifier with no meaning beyond uniqueness in practice.
	ID string `json:"id" yaml:"id"`

	// Title is the first line of the block, trimmed.
	Title string `json:"title" yaml:"title"`

	// Tests lists the question/answer pairs in input order. Never nil after
	// parsing so that it encodes as an empty array.
	Tests []Test `json:"tests" yaml:"tests"`
}

// Test is a single question/answer pair extracted from a section.
type Test struct {
	ID string `json:"id" yaml:"id"`

	// Question is the single prompt line, trimmed.
	Question string `json:"question" yaml:"question"`

	// CorrectChunks is a reserved placeholder. The converter always emits an
	// empty list.
	CorrectChunks []string `json:"correct_chunks" yaml:"correct_chunks"`

	// AnswerText holds the answer lines, each trimmed, joined by "\n".
	AnswerText string `json:"answer_text" yaml:"answer_text"`
}
