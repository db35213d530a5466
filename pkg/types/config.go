// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// DefaultDelimiter separates sections in the input text. The source
// material uses a run of sixteen underscores.
const DefaultDelimiter = "________________"

// DefaultAnswerMarker is the case-sensitive prefix that opens an answer.
const DefaultAnswerMarker = "Answer:"

// ParseConfig holds the settings that shape how input text is split and parsed.
type ParseConfig struct {
	// Delimiter is the literal string separating sections (default DefaultDelimiter).
	Delimiter string `json:"delimiter" yaml:"delimiter"`

	// AnswerMarker is the literal line prefix that starts an answer (default DefaultAnswerMarker).
	AnswerMarker string `json:"answer_marker" yaml:"answer_marker"`
}

// WithDefaults returns a copy of c with empty fields filled in.
func (c ParseConfig) WithDefaults() ParseConfig {
	if c.Delimiter == "" {
		c.Delimiter = DefaultDelimiter
	}
	if c.AnswerMarker == "" {
		c.AnswerMarker = DefaultAnswerMarker
	}
	return c
}

// OutputFormat selects the encoding of converted question sets.
type OutputFormat string

const (
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
)

// Ext returns the file extension for the format, without a dot.
func (f OutputFormat) Ext() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

// IDStyle selects how section and test identifiers are generated.
type IDStyle string

const (
	// IDHex produces 8-character hexadecimal tokens.
	IDHex IDStyle = "hex"
	// IDUUID produces random RFC 4122 UUIDs.
	IDUUID IDStyle = "uuid"
)

// ConversionConfig holds settings for the convert stage.
type ConversionConfig struct {
	ParseConfig `yaml:",inline"`

	// InputPath is the text file read in single-file mode (default "input.txt").
	InputPath string `json:"input" yaml:"input"`

	// OutputPath is the file written in single-file mode (default "parsedOutput.json").
	OutputPath string `json:"output" yaml:"output"`

	// OutputDir receives one output file per input in batch mode.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Format selects the output encoding: json or yaml.
	Format OutputFormat `json:"format" yaml:"format"`

	// IDStyle selects the identifier generator: hex or uuid.
	IDStyle IDStyle `json:"id_style" yaml:"id_style"`

	// Seed makes hex identifiers reproducible when non-zero.
	Seed uint64 `json:"seed,omitempty" yaml:"seed,omitempty"`

	// Force overwrites existing outputs in batch mode.
	Force bool `json:"force" yaml:"force"`
}

// IndexConfig holds settings for the question-set index.
type IndexConfig struct {
	// IndexDir is the directory holding the SQLite database.
	IndexDir string `json:"index_dir" yaml:"index_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
