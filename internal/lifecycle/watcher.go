// Package lifecycle turns terminal and process events into the vault's
// "app is active" signal: a backgrounded terminal, an external lock request
// or a stretch of idle time all mean inactive.
package lifecycle

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/dmitrijs2005/kasa/internal/logging"
)

// Sink receives activity changes. session.Gate.SetActive satisfies it.
type Sink func(ctx context.Context, active bool)

type Watcher struct {
	idle    time.Duration
	log     logging.Logger
	signals chan os.Signal
	touch   chan struct{}
	suspend func()
	stop    func()
}

// NewWatcher subscribes to the platform's lifecycle signals. idle <= 0
// disables the idle timer.
func NewWatcher(idle time.Duration, log logging.Logger) *Watcher {
	sigs := make(chan os.Signal, 1)
	// Notify with no signals would relay all of them.
	if len(watchedSignals) > 0 {
		signal.Notify(sigs, watchedSignals...)
	}

	w := newWatcher(idle, log, sigs)
	w.suspend = suspendSelf
	w.stop = func() { signal.Stop(sigs) }
	return w
}

func newWatcher(idle time.Duration, log logging.Logger, sigs chan os.Signal) *Watcher {
	return &Watcher{
		idle:    idle,
		log:     log.With("component", "lifecycle"),
		signals: sigs,
		touch:   make(chan struct{}, 1),
		suspend: func() {},
		stop:    func() {},
	}
}

// Touch records user activity and restarts the idle timer. Never blocks.
func (w *Watcher) Touch() {
	select {
	case w.touch <- struct{}{}:
	default:
	}
}

// Run delivers events to sink until ctx is done. The idle timer fires at
// most once per idle period; the next Touch rearms it.
func (w *Watcher) Run(ctx context.Context, sink Sink) {
	defer w.stop()

	var idleC <-chan time.Time
	var timer *time.Timer
	if w.idle > 0 {
		timer = time.NewTimer(w.idle)
		defer timer.Stop()
		idleC = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.touch:
			if timer != nil {
				timer.Reset(w.idle)
			}

		case <-idleC:
			w.log.Debug(ctx, "idle timeout", "after", w.idle)
			sink(ctx, false)

		case sig := <-w.signals:
			ev := classify(sig)
			w.log.Debug(ctx, "lifecycle signal", "signal", sig.String())
			switch ev {
			case eventBackground:
				sink(ctx, false)
				w.suspend()
			case eventLock:
				sink(ctx, false)
			case eventResume:
				sink(ctx, true)
				if timer != nil {
					timer.Reset(w.idle)
				}
			}
		}
	}
}

type event int

const (
	eventIgnore event = iota
	// terminal stop request: lock, then actually stop
	eventBackground
	// external lock request, process keeps running
	eventLock
	eventResume
)
