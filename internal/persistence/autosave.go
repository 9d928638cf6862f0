package persistence

import (
	"context"
	"sync"
	"time"

	"github.com/pscue/pscue/internal/history"
	"github.com/pscue/pscue/internal/knowledge"
	"github.com/pscue/pscue/internal/silog"
	"github.com/pscue/pscue/internal/workflow"
)

// DefaultInterval is the default auto-save period (§5 "Timeouts").
const DefaultInterval = 5 * time.Minute

// DeltaSource supplies the accumulated-since-last-save delta to flush,
// and is told to clear its buffer once the flush succeeds (§4.8
// "Lifecycle").
type DeltaSource interface {
	Delta() (knowledge.Snapshot, workflow.Snapshot, []history.Entry)
	ClearDelta()
}

// AutoSaver periodically flushes a DeltaSource's accumulated delta to a
// Store.
type AutoSaver struct {
	store    *Store
	source   DeltaSource
	interval time.Duration
	log      *silog.Logger

	mu      sync.Mutex
	stopped bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewAutoSaver builds an AutoSaver; interval <= 0 uses DefaultInterval.
func NewAutoSaver(store *Store, source DeltaSource, interval time.Duration, log *silog.Logger) *AutoSaver {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = silog.Nop()
	}
	return &AutoSaver{
		store:    store,
		source:   source,
		interval: interval,
		log:      log,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the timer loop until the context is cancelled or Stop is
// called. Meant to be run in its own goroutine.
func (a *AutoSaver) Start(ctx context.Context) {
	defer close(a.doneCh)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-a.stopCh:
			return
		case <-ticker.C:
			a.Flush(ctx)
		}
	}
}

// Flush performs one immediate save of the accumulated delta (§6
// "force immediate save" management operation). Persistence transient
// errors are logged and the delta buffer is preserved for the next
// attempt (§7); only a successful save clears it.
func (a *AutoSaver) Flush(ctx context.Context) {
	ks, ws, hist := a.source.Delta()
	if len(ks.Commands) == 0 && len(ws.Transitions) == 0 && len(hist) == 0 {
		return
	}

	if err := a.store.SaveDelta(ctx, ks, ws, hist); err != nil {
		a.log.Error("auto-save flush failed, retrying next tick", "error", err)
		return
	}
	a.source.ClearDelta()
}

// Stop halts the timer loop and waits for it to exit.
func (a *AutoSaver) Stop() {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return
	}
	a.stopped = true
	close(a.stopCh)
	a.mu.Unlock()

	<-a.doneCh
}
