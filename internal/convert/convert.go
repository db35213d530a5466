// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert drives the text-to-question-set pipeline: read the input
// file, parse it, encode the sections, and write the output file.
package convert

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/qaparse/internal/parse"
	"github.com/pdiddy/qaparse/pkg/types"
)

const (
	// DefaultInput is the text file read when no input is given.
	DefaultInput = "input.txt"
	// DefaultOutput is the file written when no output is given.
	DefaultOutput = "parsedOutput.json"
)

var (
	// ErrRead marks a failure to read the input file.
	ErrRead = errors.New("reading input")
	// ErrWrite marks a failure to encode or write the output file.
	ErrWrite = errors.New("writing output")
)

// Pipeline converts question/answer text files into encoded question sets.
type Pipeline struct {
	parser *parse.Parser
	format types.OutputFormat
	logger *slog.Logger
}

// NewPipeline returns a Pipeline. An empty format means JSON; a nil logger
// discards diagnostics.
func NewPipeline(parser *parse.Parser, format types.OutputFormat, logger *slog.Logger) (*Pipeline, error) {
	switch format {
	case "":
		format = types.FormatJSON
	case types.FormatJSON, types.FormatYAML:
	default:
		return nil, fmt.Errorf("unsupported format %q: use json or yaml", format)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{parser: parser, format: format, logger: logger}, nil
}

// Format returns the output encoding.
func (p *Pipeline) Format() types.OutputFormat {
	return p.format
}

// ConvertFile reads inPath, parses it, and writes the encoded sections to
// outPath. Read failures wrap ErrRead and write failures wrap ErrWrite;
// either aborts the run without touching the output.
func (p *Pipeline) ConvertFile(inPath, outPath string) ([]types.Section, error) {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrRead, inPath, err)
	}

	sections := p.parser.Parse(string(data))
	p.logSections(inPath, sections)

	out, err := Encode(sections, p.format)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrWrite, outPath, err)
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrWrite, outPath, err)
	}

	p.logger.Info("output saved", slog.String("path", outPath), slog.Int("sections", len(sections)))
	return sections, nil
}

func (p *Pipeline) logSections(inPath string, sections []types.Section) {
	tests := 0
	for _, s := range sections {
		tests += len(s.Tests)
		p.logger.Debug("section",
			slog.String("id", s.ID),
			slog.String("title", s.Title),
			slog.Int("tests", len(s.Tests)))
	}
	p.logger.Info("parsed input",
		slog.String("path", inPath),
		slog.Int("sections", len(sections)),
		slog.Int("tests", tests))
}

// Encode serializes sections in the given format. JSON is indented with two
// spaces and leaves HTML characters unescaped.
func Encode(sections []types.Section, format types.OutputFormat) ([]byte, error) {
	if sections == nil {
		sections = []types.Section{}
	}

	var buf bytes.Buffer
	switch format {
	case types.FormatJSON, "":
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(sections); err != nil {
			return nil, fmt.Errorf("marshaling JSON: %w", err)
		}
	case types.FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(sections); err != nil {
			return nil, fmt.Errorf("marshaling YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("marshaling YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	return buf.Bytes(), nil
}

// Decode parses a previously encoded question set. The format is chosen by
// the file extension of name: .yaml and .yml decode as YAML, anything else
// as JSON.
func Decode(name string, data []byte) ([]types.Section, error) {
	var sections []types.Section
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &sections); err != nil {
			return nil, fmt.Errorf("parsing YAML %s: %w", name, err)
		}
	default:
		if err := json.Unmarshal(data, &sections); err != nil {
			return nil, fmt.Errorf("parsing JSON %s: %w", name, err)
		}
	}
	return sections, nil
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
}

// Total returns the total number of inputs processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any input failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// OutputPath returns the batch output path for inPath under outDir.
func (p *Pipeline) OutputPath(inPath, outDir string) string {
	base := strings.TrimSuffix(filepath.Base(inPath), filepath.Ext(inPath))
	return filepath.Join(outDir, base+"."+p.format.Ext())
}

// ConvertBatch converts each input into outDir, printing per-file status to
// w and returning a summary. Inputs whose output already exists are skipped
// unless force is set. An input whose output path was already claimed by an
// earlier input in the same batch fails. A failed input does not stop the
// batch.
func (p *Pipeline) ConvertBatch(inputs []string, outDir string, force bool, w io.Writer) BatchResult {
	var result BatchResult
	claimed := make(map[string]string, len(inputs))

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		for _, in := range inputs {
			fmt.Fprintf(w, "failed:  %s (%v)\n", in, err)
		}
		result.Failed = len(inputs)
		return result
	}

	for _, in := range inputs {
		outPath := p.OutputPath(in, outDir)

		if prev, ok := claimed[outPath]; ok {
			fmt.Fprintf(w, "failed:  %s (output %s collides with %s)\n", in, outPath, prev)
			result.Failed++
			continue
		}
		claimed[outPath] = in

		if !force {
			if _, err := os.Stat(outPath); err == nil {
				fmt.Fprintf(w, "skipped: %s (already exists)\n", in)
				result.Skipped++
				continue
			}
		}

		sections, err := p.ConvertFile(in, outPath)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", in, err)
			result.Failed++
			continue
		}
		fmt.Fprintf(w, "converted: %s -> %s (%d sections)\n", in, outPath, len(sections))
		result.Converted++
	}

	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result
}
