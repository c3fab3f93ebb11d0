// Package watcher drives the configuration reload pipeline from
// filesystem change events.
//
// Events pass through a bounded queue into a single loop that
// debounces bursts (multi-write saves, editor rename dances) and runs
// at most one reload at a time. Events arriving while a reload is in
// flight stay queued and coalesce into one follow-up pass. The loop is
// the only writer to the config store.
package watcher

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// Event signals that a monitored file changed.
type Event struct {
	// Path is the file the event refers to.
	Path string
}

// EventSource delivers change events for a monitored file set. The
// production source is backed by fsnotify; tests inject synthetic
// sources to make timing deterministic.
type EventSource interface {
	// Events returns the bounded event queue. The channel is closed
	// when the source shuts down.
	Events() <-chan Event

	// SetFiles replaces the monitored file set.
	SetFiles(paths []string) error

	// Close releases the source's resources.
	Close() error
}

// ReloadFunc runs one pass of the reload pipeline. On success it
// returns the new transitive file set to monitor.
type ReloadFunc func() ([]string, error)

// DefaultDebounce is the event coalescing window.
const DefaultDebounce = 100 * time.Millisecond

// Watcher owns the reload loop.
type Watcher struct {
	source   EventSource
	reload   ReloadFunc
	debounce time.Duration
	requests chan chan error
	logger   *log.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides the event coalescing window.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the watcher's logger.
func WithLogger(logger *log.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// New creates a watcher that feeds source events into reload.
func New(source EventSource, reload ReloadFunc, opts ...Option) *Watcher {
	w := &Watcher{
		source:   source,
		reload:   reload,
		debounce: DefaultDebounce,
		requests: make(chan chan error),
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run consumes events until ctx is cancelled or the source closes.
// It must run in its own goroutine; all reloads execute inside it.
func (w *Watcher) Run(ctx context.Context) {
	var timer *time.Timer
	var timerC <-chan time.Time

	stopTimer := func() {
		if timer != nil {
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer = nil
			timerC = nil
		}
	}
	defer stopTimer()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.source.Events():
			if !ok {
				return
			}
			w.logger.Debug("config file changed", "path", ev.Path)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			w.runReload(nil)

		case done := <-w.requests:
			stopTimer()
			w.runReload(done)
		}
	}
}

// Reload requests a synchronous pass through the reload pipeline and
// waits for its outcome. Mutation calls use it so their writes are
// validated by the same single-writer loop as external file edits.
func (w *Watcher) Reload(ctx context.Context) error {
	done := make(chan error, 1)
	select {
	case w.requests <- done:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runReload executes one pipeline pass. Failures keep the previous
// snapshot; the new file set is monitored only after success.
func (w *Watcher) runReload(done chan error) {
	files, err := w.reload()
	if err != nil {
		w.logger.Error("config reload failed", "err", err)
	} else if serr := w.source.SetFiles(files); serr != nil {
		w.logger.Error("updating watched file set failed", "err", serr)
	}
	if done != nil {
		done <- err
	}
}
