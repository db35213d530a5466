// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/qaparse/internal/store"
	"github.com/pdiddy/qaparse/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the question-set index (store, retrieve, export)",
	Long: `Index manages a local SQLite database built from converted question sets.
Use subcommands to ingest converted files, search questions and answers, or
export the indexed tests.`,
}

// --- store subcommand ---

var indexStoreCmd = &cobra.Command{
	Use:   "store [dir]",
	Short: "Ingest converted question sets into the index",
	Long: `Store reads every .json and .yaml question set in dir (default: the
convert output directory) and indexes it under a dataset named after the
file. Unchanged files are skipped on subsequent runs.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIndexStore,
}

func runIndexStore(cmd *cobra.Command, args []string) error {
	dir := viper.GetString("output_dir")
	if len(args) > 0 {
		dir = args[0]
	}

	s, err := store.NewStore(indexConfig())
	if err != nil {
		return err
	}
	defer s.Close()

	summary, err := s.Ingest(context.Background(), dir, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d dataset(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- retrieve subcommand ---

var indexRetrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Search indexed questions and answers",
	Long: `Retrieve searches the index using full-text search over question
and answer text, structured filters (dataset, section title), or both.`,
	RunE: runIndexRetrieve,
}

func runIndexRetrieve(cmd *cobra.Command, args []string) error {
	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --dataset, or --section")
	}

	s, err := store.NewStore(indexConfig())
	if err != nil {
		return err
	}
	defer s.Close()

	results, err := s.Retrieve(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatRetrieveOutput(cmd.OutOrStdout(), results, jsonOutput)
}

func formatRetrieveOutput(w io.Writer, results []store.QueryResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-4s  %-12s  %-20s  %-40s  %s\n",
		"Rank", "Dataset", "Section", "Question", "Answer")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for i, r := range results {
		answer := strings.ReplaceAll(r.AnswerText, "\n", " ")
		fmt.Fprintf(w, "%-4d  %-12s  %-20s  %-40s  %s\n",
			i+1, truncate(r.Dataset, 12), truncate(r.SectionTitle, 20),
			truncate(r.Question, 40), truncate(answer, 30))
	}

	fmt.Fprintf(w, "\n%d results\n", len(results))
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// --- export subcommand ---

var indexExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export indexed tests to YAML or JSON",
	Long: `Export writes the indexed tests (or a filtered subset) to export.json or
export.yaml in the index directory. Supports the same filter flags as
retrieve.`,
	RunE: runIndexExport,
}

func runIndexExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	s, err := store.NewStore(indexConfig())
	if err != nil {
		return err
	}
	defer s.Close()

	path, err := s.Export(context.Background(), queryOptsFromFlags(cmd, args), types.OutputFormat(format))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
	return nil
}

// --- shared helpers ---

func indexConfig() types.IndexConfig {
	dir := viper.GetString("index_dir")
	if dir == "" {
		dir = "index"
	}
	return types.IndexConfig{
		IndexDir:   dir,
		MaxResults: viper.GetInt("max_results"),
	}
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) store.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}
	dataset, _ := cmd.Flags().GetString("dataset")
	section, _ := cmd.Flags().GetString("section")
	limit, _ := cmd.Flags().GetInt("limit")

	return store.QueryOptions{
		Query:      queryText,
		Dataset:    dataset,
		Section:    section,
		MaxResults: limit,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	indexCmd.PersistentFlags().String("index-dir", "index", "directory holding the question-set database")
	indexCmd.PersistentFlags().Int("max-results", 20, "default maximum number of query results")
	viper.BindPFlag("index_dir", indexCmd.PersistentFlags().Lookup("index-dir"))
	viper.BindPFlag("max_results", indexCmd.PersistentFlags().Lookup("max-results"))

	for _, c := range []*cobra.Command{indexRetrieveCmd, indexExportCmd} {
		c.Flags().String("query", "", "full-text search over questions and answers")
		c.Flags().String("dataset", "", "filter by dataset name")
		c.Flags().String("section", "", "filter by exact section title")
	}
	indexRetrieveCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	indexExportCmd.Flags().Int("limit", 0, "maximum tests to export (0 = all)")
	indexRetrieveCmd.Flags().Bool("json", false, "output results as JSON")
	indexExportCmd.Flags().String("format", "json", "export format: json or yaml")

	indexCmd.AddCommand(indexStoreCmd)
	indexCmd.AddCommand(indexRetrieveCmd)
	indexCmd.AddCommand(indexExportCmd)

	rootCmd.AddCommand(indexCmd)
}
