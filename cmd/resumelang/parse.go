package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/dgallion1/resumelang/internal/ast"
	"github.com/dgallion1/resumelang/internal/parser"
)

var parseFlags struct {
	docFlags
	format string
}

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Print the syntax tree of a document",
	Long: `Parse a document, resolve its imports and print the resulting tree.

Examples:
  # JSON on stdout
  resumelang parse cv.resume

  # YAML, skipping past a broken import
  resumelang parse cv.resume --format yaml --best-effort`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runParse(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
	addDocFlags(parseCmd, &parseFlags.docFlags)
	parseCmd.Flags().StringVarP(&parseFlags.format, "format", "f", "json", "output format: json, yaml")
}

func addDocFlags(cmd *cobra.Command, f *docFlags) {
	cmd.Flags().StringVar(&f.root, "root", "", "directory imports resolve against (default: the document's directory)")
	cmd.Flags().BoolVar(&f.bestEffort, "best-effort", false, "return the partial tree instead of failing on errors")
	cmd.Flags().IntVar(&f.maxDepth, "max-import-depth", parser.DefaultMaxImportDepth, "maximum nesting of @import")
}

func runParse(w io.Writer, path string) error {
	format, err := ast.ParseFormat(parseFlags.format)
	if err != nil {
		return err
	}
	tree, err := parseFlags.load(path, newLogger())
	if err != nil {
		return err
	}
	return ast.Encode(w, tree, format)
}
