// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/qaparse/internal/convert"
	"github.com/pdiddy/qaparse/internal/ident"
	"github.com/pdiddy/qaparse/internal/parse"
	"github.com/pdiddy/qaparse/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [inputs...]",
	Short: "Convert question/answer text files into JSON or YAML question sets",
	Long: `Convert splits each input into sections on the delimiter, takes the first
line of a section as its title, and collects every question line followed by
an "Answer:" block that is closed by a blank line. An answer still open when
its section ends is dropped.

Without arguments, convert reads --input and writes --output. With arguments,
each input is written to --output-dir under its own base name; existing
outputs are skipped unless --force is given.`,
	RunE: runConvert,
}

// conversionConfig assembles the convert settings from flags, environment,
// and config file.
func conversionConfig() types.ConversionConfig {
	return types.ConversionConfig{
		ParseConfig: types.ParseConfig{
			Delimiter:    viper.GetString("delimiter"),
			AnswerMarker: viper.GetString("answer_marker"),
		},
		InputPath:  viper.GetString("input"),
		OutputPath: viper.GetString("output"),
		OutputDir:  viper.GetString("output_dir"),
		Format:     types.OutputFormat(viper.GetString("format")),
		IDStyle:    types.IDStyle(viper.GetString("id_style")),
		Seed:       viper.GetUint64("seed"),
		Force:      viper.GetBool("force"),
	}
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := conversionConfig()

	ids, err := ident.ForStyle(cfg.IDStyle, cfg.Seed)
	if err != nil {
		return err
	}
	parser := parse.New(cfg.ParseConfig, ids, logger)
	pipeline, err := convert.NewPipeline(parser, cfg.Format, logger)
	if err != nil {
		return err
	}

	if len(args) > 0 {
		result := pipeline.ConvertBatch(args, cfg.OutputDir, cfg.Force, cmd.OutOrStdout())
		if result.HasFailures() {
			return fmt.Errorf("%d input(s) failed conversion", result.Failed)
		}
		return nil
	}

	sections, err := pipeline.ConvertFile(cfg.InputPath, cfg.OutputPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Output saved: %s (%d sections)\n", cfg.OutputPath, len(sections))
	return nil
}

func init() {
	f := convertCmd.Flags()
	f.String("input", convert.DefaultInput, "text file to convert")
	f.String("output", convert.DefaultOutput, "output file")
	f.String("output-dir", "json", "output directory when converting several inputs")
	f.String("format", string(types.FormatJSON), "output format: json or yaml")
	f.String("delimiter", types.DefaultDelimiter, "literal string separating sections")
	f.String("answer-marker", types.DefaultAnswerMarker, "line prefix that starts an answer")
	f.String("id-style", string(types.IDHex), "identifier style: hex or uuid")
	f.Uint64("seed", 0, "seed for reproducible hex identifiers (0 = random)")
	f.Bool("force", false, "overwrite existing outputs when converting several inputs")

	for key, flag := range map[string]string{
		"input":         "input",
		"output":        "output",
		"output_dir":    "output-dir",
		"format":        "format",
		"delimiter":     "delimiter",
		"answer_marker": "answer-marker",
		"id_style":      "id-style",
		"seed":          "seed",
		"force":         "force",
	} {
		viper.BindPFlag(key, f.Lookup(flag))
	}

	rootCmd.AddCommand(convertCmd)
}
