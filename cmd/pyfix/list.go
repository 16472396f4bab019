package main

import (
	"github.com/spf13/cobra"

	"pyfix/internal/config"
	"pyfix/internal/diag"
	"pyfix/internal/source"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available fixers",
	Long:  "List prints every registered fixer, built-in and from rule files, in the order they run.",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringSlice("rules", nil, "extra YAML rule files")
}

func runList(cmd *cobra.Command, args []string) error {
	extra, err := cmd.Flags().GetStringSlice("rules")
	if err != nil {
		return err
	}
	cfg, err := config.Load(".")
	if err != nil {
		return err
	}
	maxDiagnostics, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	bag := diag.NewBag(maxDiagnostics)
	reg := buildRegistry(cfg, extra, bag)
	printDiagnostics(cmd, bag, source.NewFileSet())
	return printFixerList(cmd, reg.Fixers())
}
