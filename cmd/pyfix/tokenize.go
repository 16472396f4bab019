package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pyfix/internal/diag"
	"pyfix/internal/diagfmt"
	"pyfix/internal/driver"
	"pyfix/internal/source"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.py",
	Short: "Tokenize a Python source file",
	Long:  `Tokenize prints the tokens of a Python file together with the whitespace and comments attached to each.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	result, err := driver.Tokenize(args[0], maxDiagnostics)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// Выводим диагностику в stderr, если есть
	printDiagnostics(cmd, result.Bag, result.FileSet)

	switch format {
	case "pretty":
		return diagfmt.FormatTokensPretty(os.Stdout, result.Tokens, result.File)
	case "json":
		return diagfmt.FormatTokensJSON(os.Stdout, result.Tokens, result.File)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// printDiagnostics writes warnings and errors from bag to stderr.
func printDiagnostics(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet) {
	if bag == nil || !bag.HasWarnings() {
		return
	}
	bag.Sort()
	_ = diagfmt.Pretty(os.Stderr, bag, fs, diagfmt.PrettyOpts{
		Color:      useColor(cmd, os.Stderr),
		PathMode:   diagfmt.PathModeRelative,
		ShowNotes:  true,
		ShowSource: true,
	})
}
