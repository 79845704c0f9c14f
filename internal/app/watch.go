package app

import (
	"context"

	"go.trai.ch/weave/internal/adapters/watcher" //nolint:depguard // Debouncer is shared with the watch loop
	"go.trai.ch/zerr"
)

// Watch reloads the configuration whenever its file changes, until ctx is done.
// onReload is called after every reload attempt with its outcome.
func (a *App) Watch(ctx context.Context, onReload func(error)) error {
	if _, err := a.current(); err != nil {
		return err
	}
	a.mu.RLock()
	path := a.configPath
	a.mu.RUnlock()

	if err := a.watcher.Start(ctx, path); err != nil {
		return zerr.Wrap(err, "failed to start watching configuration")
	}
	defer func() {
		_ = a.watcher.Stop()
	}()

	debouncer := watcher.NewDebouncer(watcher.DefaultDebounceWindow, func([]string) {
		err := a.LoadConfig(path)
		if onReload != nil {
			onReload(err)
		}
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range a.watcher.Events() {
			debouncer.Add(event.Path)
		}
	}()

	select {
	case <-ctx.Done():
	case <-done:
	}
	debouncer.Flush()
	return nil
}
