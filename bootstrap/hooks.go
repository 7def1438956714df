package bootstrap

import (
	"context"
	"fmt"
)

// Hook is a lifecycle callback run on startup or shutdown.
type Hook func(ctx context.Context) error

// OnReady registers hooks run by Run once the server is listening.
func (a *App) OnReady(hooks ...Hook) {
	a.onReady = append(a.onReady, hooks...)
}

// OnStop registers hooks run at the start of Shutdown, before the server and
// services are stopped.
func (a *App) OnStop(hooks ...Hook) {
	a.onStop = append(a.onStop, hooks...)
}

// runHooks executes hooks sequentially, returning the first error.
func runHooks(ctx context.Context, hooks []Hook) error {
	for i, h := range hooks {
		if err := h(ctx); err != nil {
			return fmt.Errorf("hook %d failed: %w", i, err)
		}
	}
	return nil
}
