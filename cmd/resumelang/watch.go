package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dgallion1/resumelang/internal/ast"
	"github.com/dgallion1/resumelang/internal/watch"
)

var watchFlags struct {
	docFlags
	format string
}

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-parse a document whenever it changes",
	Long: `Parse a document, print its tree, then print it again after every change
to the document or to any .resume file in the directory imports resolve from.

Parse errors are logged and watching continues. Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runWatch(ctx, cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addDocFlags(watchCmd, &watchFlags.docFlags)
	watchCmd.Flags().StringVarP(&watchFlags.format, "format", "f", "json", "output format: json, yaml")
}

func runWatch(ctx context.Context, w io.Writer, path string) error {
	format, err := ast.ParseFormat(watchFlags.format)
	if err != nil {
		return err
	}
	log := newLogger()

	render := func() error {
		tree, err := watchFlags.load(path, log)
		if err != nil {
			return err
		}
		return ast.Encode(w, tree, format)
	}
	if err := render(); err != nil {
		log.Error("initial parse failed", "error", err)
	}

	dir := watchFlags.root
	if dir == "" {
		dir = path
	}
	watcher, err := watch.New(watch.DefaultConfig(dir), log)
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	return watcher.Run(ctx, render)
}
