package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Version is set by build flags.
var Version = "0.1.0"

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "resumelang",
	Short: "Parse and format resume language documents",
	Long: `resumelang compiles resume language documents into a typed tree.

A document is built from section, label and text blocks, and may pull in
other documents with @import. The tree can be printed as JSON or YAML, or
rendered back to canonical source.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// newLogger writes human readable logs to stderr so stdout stays parseable.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
