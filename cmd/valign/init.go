package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"valign/internal/config"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default " + config.DefaultFileName,
		Long:  `Init writes a commented default configuration file into dir, or the current directory when dir is omitted.`,
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInit,
	}
	cmd.Flags().Bool("force", false, "overwrite an existing configuration file")
	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	path, err := config.WriteDefault(dir, force)
	if err != nil {
		if errors.Is(err, config.ErrConfigExists) {
			return usageError(fmt.Errorf("%w (use --force to overwrite)", err))
		}
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
	return nil
}
