// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the qaparse CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is configured in the root command's PersistentPreRunE.
var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

// rootCmd is the base command for the qaparse CLI.
var rootCmd = &cobra.Command{
	Use:   "qaparse",
	Short: "Convert delimited question/answer text into structured question sets",
	Long: `qaparse reads plain-text files made of sections separated by a line of
underscores. Each section starts with a title followed by question lines and
"Answer:" blocks. The converter writes the sections and their question/answer
pairs as JSON (or YAML), and the index subcommands make converted sets
searchable.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if viper.GetBool("verbose") {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		if f := viper.ConfigFileUsed(); f != "" {
			logger.Debug("using config file", slog.String("path", f))
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./qaparse.yaml or ~/.config/qaparse/qaparse.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log per-line parsing diagnostics")
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("qaparse")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "qaparse"))
		}
	}

	viper.SetEnvPrefix("QAPARSE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			fmt.Fprintf(os.Stderr, "warning: reading config %s: %v\n", cfgFile, err)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
