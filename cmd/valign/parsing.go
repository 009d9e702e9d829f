package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"valign/internal/diagfmt"
	"valign/internal/driver"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] file.js",
		Short: "Parse a JavaScript file and dump its syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE:  runParse,
	}
	cmd.Flags().String("format", "tree", "output format (tree|json)")
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	g, err := readGlobals(cmd)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	result, err := driver.Parse(args[0], g.maxDiagnostics)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	if result.Bag.Len() > 0 {
		errOut := cmd.ErrOrStderr()
		diagfmt.Pretty(errOut, result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:   useColor(g.color, errOut),
			Context: 2,
		})
	}

	out := cmd.OutOrStdout()
	switch format {
	case "tree", "pretty":
		err = diagfmt.FormatASTPretty(out, result.Tree, result.FileSet)
	case "json":
		err = diagfmt.FormatASTJSON(out, result.Tree)
	default:
		return usageError(fmt.Errorf("unknown format: %s", format))
	}
	if err != nil {
		return err
	}
	if result.Bag.HasErrors() {
		return &exitError{code: exitFindings}
	}
	return nil
}
