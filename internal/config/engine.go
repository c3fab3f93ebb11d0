package config

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lumeshell/lume/internal/config/document"
	"github.com/lumeshell/lume/internal/config/merge"
	"github.com/lumeshell/lume/internal/config/notify"
	"github.com/lumeshell/lume/internal/config/paths"
	"github.com/lumeshell/lume/internal/config/schema"
	"github.com/lumeshell/lume/internal/config/store"
	"github.com/lumeshell/lume/internal/config/watcher"
)

// DefaultMutateTimeout bounds how long Set and Reset wait for their
// triggered reload to complete.
const DefaultMutateTimeout = 2 * time.Second

// Engine wires the configuration pipeline together and owns its
// lifecycle. Readers access snapshots lock-free; the watcher loop is
// the sole writer.
type Engine struct {
	rootPath string
	schema   *schema.Node

	store    *store.Store
	notifier *notify.Notifier
	source   watcher.EventSource
	watcher  *watcher.Watcher
	logger   *log.Logger

	mutateTimeout time.Duration
	debounce      time.Duration

	// version is touched only by the reload pipeline.
	version uint64

	errs   chan ErrorEvent
	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithEventSource replaces the filesystem event source. Tests inject
// synthetic sources so reload timing is deterministic.
func WithEventSource(source watcher.EventSource) Option {
	return func(e *Engine) {
		e.source = source
	}
}

// WithDebounce overrides the reload debounce window.
func WithDebounce(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.debounce = d
		}
	}
}

// WithMutateTimeout overrides how long Set and Reset wait for their
// reload.
func WithMutateTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.mutateTimeout = d
		}
	}
}

// New creates an engine rooted at rootPath, validating against root.
// A starter root file is written when none exists. The initial load
// must succeed; there is no prior snapshot to fall back to.
func New(rootPath string, root *schema.Node, opts ...Option) (*Engine, error) {
	e := &Engine{
		rootPath:      rootPath,
		schema:        root,
		notifier:      notify.New(16),
		logger:        log.Default(),
		mutateTimeout: DefaultMutateTimeout,
		debounce:      watcher.DefaultDebounce,
		errs:          make(chan ErrorEvent, 16),
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := document.EnsureExists(rootPath); err != nil {
		return nil, err
	}

	files, err := e.reloadPass()
	if err != nil {
		return nil, err
	}

	if e.source == nil {
		src, err := watcher.NewFSSource()
		if err != nil {
			return nil, err
		}
		e.source = src
	}
	if err := e.source.SetFiles(files); err != nil {
		return nil, err
	}

	e.watcher = watcher.New(e.source, e.reloadPass,
		watcher.WithDebounce(e.debounce),
		watcher.WithLogger(e.logger),
	)
	return e, nil
}

// Start launches the reload loop.
func (e *Engine) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	go func() {
		defer close(e.done)
		e.watcher.Run(ctx)
	}()
}

// Close stops the reload loop and releases the event source.
func (e *Engine) Close() error {
	if e.cancel != nil {
		e.cancel()
		<-e.done
	}
	return e.source.Close()
}

// Current returns the latest published snapshot.
func (e *Engine) Current() *store.Snapshot {
	return e.store.Current()
}

// Schema returns the engine's schema root.
func (e *Engine) Schema() *schema.Node {
	return e.schema
}

// Errors returns the stream of failed-reload events.
func (e *Engine) Errors() <-chan ErrorEvent {
	return e.errs
}

// Get returns the value at a dotted path in the current snapshot. A
// path with no schema node yields a NotFoundError; a mapped path whose
// leaf carries no value (no document, no default) yields nil.
func (e *Engine) Get(path string) (any, error) {
	segs, _, err := e.resolve(path)
	if err != nil {
		return nil, err
	}
	leaf, ok := paths.Lookup(e.store.Current().Root(), segs)
	if !ok {
		return nil, nil
	}
	return leaf.Interface(), nil
}

// Subscribe registers for change events on the subtree at prefix. The
// empty prefix subscribes to the whole tree.
func (e *Engine) Subscribe(prefix string) (*notify.Subscription, error) {
	if prefix != "" {
		if _, _, err := e.resolve(prefix); err != nil {
			return nil, err
		}
	}
	return e.notifier.Subscribe(prefix), nil
}

// Set validates literal against the schema node at path, rewrites the
// key in its owning document and waits for the triggered reload.
// Nothing is written when parsing or constraint checks fail.
func (e *Engine) Set(ctx context.Context, path, literal string) error {
	segs, node, err := e.resolve(path)
	if err != nil {
		return err
	}
	if !node.IsLeaf() {
		return ErrNotLeaf
	}

	value, err := paths.ParseLiteral(node, literal)
	if err != nil {
		return err
	}
	if errs := schema.CheckValue(path, value, node); len(errs) > 0 {
		return errs[0]
	}

	// A leaf without provenance is a schema default; overrides for
	// those land in the root document.
	target := e.rootPath
	if leaf, ok := paths.Lookup(e.store.Current().Root(), segs); ok && leaf.Source != "" {
		target = leaf.Source
	}

	if err := writeKey(target, segs, value, false); err != nil {
		return err
	}
	return e.syncReload(ctx)
}

// Reset removes the override at path from its owning document. A leaf
// that is already a schema default is left alone.
func (e *Engine) Reset(ctx context.Context, path string) error {
	segs, node, err := e.resolve(path)
	if err != nil {
		return err
	}
	if !node.IsLeaf() {
		return ErrNotLeaf
	}

	leaf, ok := paths.Lookup(e.store.Current().Root(), segs)
	if !ok || leaf.Source == "" {
		return nil
	}

	if err := writeKey(leaf.Source, segs, nil, true); err != nil {
		return err
	}
	return e.syncReload(ctx)
}

// resolve parses a path and maps it to its schema node.
func (e *Engine) resolve(path string) ([]paths.Segment, *schema.Node, error) {
	segs, err := paths.Parse(path)
	if err != nil {
		return nil, nil, err
	}
	node, err := paths.ResolveSchema(e.schema, segs)
	if err != nil {
		return nil, nil, err
	}
	return segs, node, nil
}

// syncReload pushes a pass through the single-writer loop and waits,
// bounded by the mutation timeout.
func (e *Engine) syncReload(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, e.mutateTimeout)
	defer cancel()
	err := e.watcher.Reload(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrReloadTimeout
	}
	return err
}

// reloadPass runs Load → Resolve → Merge → Validate and publishes the
// result. On failure the previous snapshot stays authoritative and an
// error event is emitted. Only the watcher loop (and New, before the
// loop starts) calls it.
func (e *Engine) reloadPass() ([]string, error) {
	res, err := document.Resolve(e.rootPath)
	if err != nil {
		e.emitError(err)
		return nil, err
	}

	merged := merge.Merge(res.Documents)
	validated, err := schema.Validate(merged, e.schema)
	if err != nil {
		e.emitError(err)
		return nil, err
	}

	e.version++
	snap, err := store.NewSnapshot(e.version, validated)
	if err != nil {
		e.emitError(err)
		return nil, err
	}

	if e.store == nil {
		e.store = store.New(snap)
		e.logger.Info("configuration loaded", "version", snap.Version(), "files", len(res.Files))
		return res.Files, nil
	}

	old := e.store.Current()
	e.store.Swap(snap)
	e.notifier.Publish(old, snap)
	e.logger.Info("configuration reloaded", "version", snap.Version(), "files", len(res.Files))
	return res.Files, nil
}

// emitError surfaces a reload failure without ever blocking the loop.
func (e *Engine) emitError(err error) {
	select {
	case e.errs <- ErrorEvent{Time: time.Now(), Err: err}:
	default:
	}
}
