package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"valign/internal/prof"
)

type profilerKey struct{}

// profiler holds the session started for one CLI invocation so that run
// can stop it whether the command failed or not.
type profiler struct {
	session *prof.Session
}

func withProfiler(ctx context.Context) (context.Context, *profiler) {
	p := &profiler{}
	return context.WithValue(ctx, profilerKey{}, p), p
}

func (p *profiler) stop() error {
	if p == nil {
		return nil
	}
	return p.session.Stop()
}

// setupProfiling starts the profiles requested by the persistent flags.
func setupProfiling(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	var (
		opts prof.Options
		err  error
	)
	if opts.CPU, err = flags.GetString("cpu-profile"); err != nil {
		return fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if opts.Mem, err = flags.GetString("mem-profile"); err != nil {
		return fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if opts.Trace, err = flags.GetString("runtime-trace"); err != nil {
		return fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if !opts.Enabled() {
		return nil
	}
	p, ok := cmd.Context().Value(profilerKey{}).(*profiler)
	if !ok {
		return nil
	}
	session, err := prof.Start(opts)
	if err != nil {
		return usageError(err)
	}
	p.session = session
	return nil
}
