package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	_ "valign/internal/align" // registers vertical-align
	"valign/internal/version"
)

// Exit statuses.
const (
	exitOK       = 0
	exitFindings = 1
	exitUsage    = 2
)

// exitError carries a process exit status out of a command. A nil err
// means the command already reported everything it had to say.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func usageError(err error) error { return &exitError{code: exitUsage, err: err} }

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "valign",
		Short:         "Vertical alignment checker and fixer for JavaScript",
		Long:          `valign checks that runs of destructuring defaults, object properties and assignments line up their "=" and ":" columns, and rewrites the padding when they do not.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupGlobals(cmd)
		},
	}

	root.PersistentFlags().String("config", "", "path to a .valign.toml or .valign.yaml file")
	root.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	root.PersistentFlags().Bool("quiet", false, "report errors only and suppress non-essential output")
	root.PersistentFlags().Bool("timings", false, "show timing information")
	root.PersistentFlags().Int("max-diagnostics", 0, "maximum number of diagnostics to collect (0 = from config)")
	root.PersistentFlags().String("log-level", "warn", "log level (debug|info|warn|error)")
	root.PersistentFlags().String("log-format", "text", "log format (text|json)")
	root.PersistentFlags().String("cpu-profile", "", "write a CPU profile to this file")
	root.PersistentFlags().String("mem-profile", "", "write a heap profile to this file on exit")
	root.PersistentFlags().String("runtime-trace", "", "write a runtime trace to this file")

	root.AddCommand(
		newCheckCmd(),
		newFixCmd(),
		newRulesCmd(),
		newTokenizeCmd(),
		newParseCmd(),
		newInitCmd(),
		newCacheCmd(),
		newVersionCmd(),
	)
	return root
}

// run executes the CLI and returns the process exit status.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	ctx, profiling := withProfiler(ctx)
	err := root.ExecuteContext(ctx)
	if perr := profiling.stop(); perr != nil {
		fmt.Fprintf(stderr, "valign: %v\n", perr)
	}
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintf(stderr, "valign: %v\n", ee.err)
		}
		return ee.code
	}
	fmt.Fprintf(stderr, "valign: %v\n", err)
	return exitUsage
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
