package devices

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/halwen/patchbay/internal/config"
	"github.com/halwen/patchbay/pkg/util"
)

// kickDebounce coalesces bursts of Kick calls (a hub being plugged in
// surfaces several device events back to back) into one rescan.
const kickDebounce = 250 * time.Millisecond

// Watcher re-enumerates devices in the background: on a fixed interval, and
// on demand through Kick. Each scan is bounded by the configured timeout.
type Watcher struct {
	logger   *zap.Logger
	catalog  *Catalog
	interval time.Duration
	timeout  time.Duration

	kick chan struct{}
	quit chan struct{}
	done chan struct{}

	mu      sync.Mutex
	started bool
	stopped bool
}

// NewWatcher creates a watcher over the catalog. Start launches it.
func NewWatcher(logger *zap.Logger, cfg *config.Config, catalog *Catalog) *Watcher {
	return &Watcher{
		logger:   logger,
		catalog:  catalog,
		interval: cfg.ScanInterval(),
		timeout:  cfg.ScanTimeout(),
		kick:     make(chan struct{}, 1),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the rescan loop. The watcher runs at most once; calling
// Start again, or after Stop, does nothing.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started || w.stopped {
		return
	}
	w.started = true

	w.logger.Info("device watcher starting",
		zap.Duration("interval", w.interval),
		zap.Duration("scanTimeout", w.timeout))
	go w.run()
}

// Stop terminates the loop and waits for it to wind down. Stopping a watcher
// that never started, or stopping twice, is a no-op.
func (w *Watcher) Stop(ctx context.Context) error {
	w.mu.Lock()
	running := w.started && !w.stopped
	w.stopped = true
	w.mu.Unlock()

	if !running {
		return nil
	}

	close(w.quit)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Kick requests a rescan soon. It never blocks; kicks landing inside the
// debounce window coalesce into a single scan.
func (w *Watcher) Kick() {
	select {
	case w.kick <- struct{}{}:
	default:
	}
}

func (w *Watcher) run() {
	defer close(w.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// The debouncer's initial firing doubles as the startup scan.
	debouncer := util.NewDebouncer(kickDebounce)
	defer debouncer.Stop()

	for {
		select {
		case <-w.quit:
			return
		case <-w.kick:
			debouncer.Reset()
		case <-debouncer.C():
			w.scan()
		case <-ticker.C:
			w.scan()
		}
	}
}

func (w *Watcher) scan() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	if _, err := w.catalog.DetectInterfaces(ctx); err != nil {
		w.logger.Warn("device rescan failed", zap.Error(err))
	}
}
