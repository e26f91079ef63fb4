package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/resumelang/internal/printer"
)

var fmtFlags struct {
	docFlags
	write bool
}

var fmtCmd = &cobra.Command{
	Use:   "fmt <file>",
	Short: "Print a document in canonical form",
	Long: `Parse a document and print it back as canonical source.

Imports are resolved and inlined, so the output is self-contained.

Examples:
  # Print to stdout
  resumelang fmt cv.resume

  # Rewrite the file in place
  resumelang fmt -w cv.resume`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFmt(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(fmtCmd)
	addDocFlags(fmtCmd, &fmtFlags.docFlags)
	fmtCmd.Flags().BoolVarP(&fmtFlags.write, "write", "w", false, "write the result back to the file")
}

func runFmt(w io.Writer, path string) error {
	tree, err := fmtFlags.load(path, newLogger())
	if err != nil {
		return err
	}
	out, err := printer.Sprint(tree)
	if err != nil {
		return err
	}
	if !fmtFlags.write {
		_, err = io.WriteString(w, out)
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
