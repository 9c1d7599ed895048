package application

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/custodex/reconcilerd/internal/core/domain"
)

const defaultWatchInterval = 10 * time.Second

// WatcherOpts defines the parameters needed for creating a Watcher with
// NewWatcher.
type WatcherOpts struct {
	Interval time.Duration
	// ErrorHandler is invoked with recoverable scan errors, the failed height
	// is retried on the next tick. Fatal consistency errors stop the watcher
	// regardless.
	ErrorHandler func(err error)
}

// Watcher periodically walks the chain from the persisted cursor to the tip,
// feeding each height to the reconciler. Use Start and Stop to manage it.
type Watcher struct {
	svc          ReconcilerService
	interval     time.Duration
	errorHandler func(err error)
	quitChan     chan struct{}
	doneChan     chan struct{}
}

func NewWatcher(svc ReconcilerService, opts WatcherOpts) *Watcher {
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultWatchInterval
	}
	errorHandler := opts.ErrorHandler
	if errorHandler == nil {
		chainKey := svc.Chain().Key
		errorHandler = func(err error) {
			log.Warnf("chain %s: scan error: %s", chainKey, err)
		}
	}

	return &Watcher{
		svc:          svc,
		interval:     interval,
		errorHandler: errorHandler,
		quitChan:     make(chan struct{}),
		doneChan:     make(chan struct{}),
	}
}

// Start blocks until Stop is called or a fatal consistency error occurs, run
// it in a dedicated goroutine.
func (w *Watcher) Start() {
	defer close(w.doneChan)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.quitChan:
			return
		case <-ticker.C:
			if err := w.scan(context.Background()); err != nil {
				if errors.Is(err, domain.ErrChainHeightConflict) {
					log.Errorf(
						"chain %s: %s, another writer owns the cursor, stopping",
						w.svc.Chain().Key, err,
					)
					return
				}
				w.errorHandler(err)
			}
		}
	}
}

// Stop terminates the watch loop and waits for it to drain.
func (w *Watcher) Stop() {
	close(w.quitChan)
	<-w.doneChan
}

func (w *Watcher) scan(ctx context.Context) error {
	w.svc.ResetHeight()

	latest, err := w.svc.LatestBlockNumber(ctx)
	if err != nil {
		return err
	}

	// The walk always restarts from the persisted cursor. Heights within the
	// confirmation margin of the tip are not persisted by UpdateHeight, so
	// they get re-processed on every tick until submitted deposits and
	// confirming withdrawals there can settle. Replays are idempotent.
	for height := w.svc.Chain().Height + 1; height <= latest; height++ {
		if _, err := w.svc.ProcessBlock(ctx, height); err != nil {
			// retried at the same height on the next tick
			return err
		}
		if err := w.svc.UpdateHeight(ctx, height); err != nil {
			return err
		}
	}
	return nil
}
