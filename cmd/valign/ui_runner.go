package main

import (
	"context"
	"io"

	"valign/internal/driver"
	"valign/internal/source"
	"valign/internal/ui"
)

type lintOutcome struct {
	result *driver.Result
	err    error
}

// runLintWithUI runs the lint pass while the progress view renders on out.
func runLintWithUI(ctx context.Context, out io.Writer, title string, fs *source.FileSet, files []string, opts driver.LintOptions) (*driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan lintOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.LintPaths(ctx, fs, files, opts)
		outcomeCh <- lintOutcome{result: res, err: err}
		close(events)
	}()

	uiErr := ui.Run(out, title, files, events)
	for range events {
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
