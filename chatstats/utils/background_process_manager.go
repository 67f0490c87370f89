package utils

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// BackgroundProcessManager owns the long-lived goroutines (the reset
// scheduler) and gives shutdown a single place to stop them and wait.
type BackgroundProcessManager struct {
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	processes map[string]context.CancelFunc
}

func NewBackgroundProcessManager() *BackgroundProcessManager {
	ctx, cancel := context.WithCancel(context.Background())
	return &BackgroundProcessManager{
		ctx:       ctx,
		cancel:    cancel,
		processes: make(map[string]context.CancelFunc),
	}
}

// StartProcess runs fn on its own goroutine until fn returns or the manager
// shuts down. Starting a second process under the same name stops the first.
func (bpm *BackgroundProcessManager) StartProcess(name string, fn func(ctx context.Context)) {
	bpm.mu.Lock()
	if cancel, exists := bpm.processes[name]; exists {
		slog.Warn("Process already exists, replacing it", slog.String("process", name))
		cancel()
	}
	processCtx, processCancel := context.WithCancel(bpm.ctx)
	bpm.processes[name] = processCancel
	bpm.mu.Unlock()

	bpm.wg.Add(1)
	go func() {
		defer bpm.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				slog.Error("Background process panic",
					slog.String("process", name),
					slog.Any("panic", r))
			}
		}()

		slog.Info("Starting background process", slog.String("process", name))
		fn(processCtx)
		slog.Info("Background process ended", slog.String("process", name))
	}()
}

// Shutdown cancels every process and waits up to timeout for them to drain.
func (bpm *BackgroundProcessManager) Shutdown(timeout time.Duration) error {
	bpm.cancel()

	done := make(chan struct{})
	go func() {
		bpm.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("All background processes stopped")
		return nil
	case <-time.After(timeout):
		slog.Warn("Timeout waiting for background processes",
			slog.Duration("timeout", timeout))
		return context.DeadlineExceeded
	}
}
