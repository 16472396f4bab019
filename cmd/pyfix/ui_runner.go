package main

import (
	"context"
	"os"

	"pyfix/internal/driver"
	"pyfix/internal/fixer"
	"pyfix/internal/ui"
)

type refactorOutcome struct {
	summary *driver.Summary
	err     error
}

// refactorWithUI runs the file pipeline in the background and renders its
// progress events until the pipeline closes the channel.
func refactorWithUI(ctx context.Context, title string, files []string, fixers []*fixer.Fixer, opts driver.Options) (*driver.Summary, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan refactorOutcome, 1)

	go func() {
		opts.Progress = driver.ChanSink(events)
		sum, err := driver.RefactorFiles(ctx, files, fixers, opts)
		outcomeCh <- refactorOutcome{summary: sum, err: err}
		close(events)
	}()

	uiErr := ui.Run(os.Stderr, title, files, events)
	if uiErr != nil {
		// UI упал раньше времени: не блокируем воркеры
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.summary, uiErr
	}
	return outcome.summary, outcome.err
}
