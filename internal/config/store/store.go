// Package store holds the current validated configuration snapshot.
//
// Snapshots are immutable once published; the store's only mutation is
// an atomic swap of the current pointer, performed by the single reload
// pipeline. Readers hold point-in-time snapshots and never block.
package store

import (
	"encoding/json"
	"sync/atomic"

	"github.com/tidwall/gjson"

	"github.com/lumeshell/lume/internal/config/merge"
)

// Snapshot is an immutable, versioned, fully validated configuration tree.
type Snapshot struct {
	version uint64
	root    *merge.Node
	raw     []byte // canonical JSON rendering, sorted keys
}

// NewSnapshot builds a snapshot around a validated tree. The tree must
// not be mutated afterwards.
func NewSnapshot(version uint64, root *merge.Node) (*Snapshot, error) {
	raw, err := json.Marshal(root.Interface())
	if err != nil {
		return nil, err
	}
	return &Snapshot{version: version, root: root, raw: raw}, nil
}

// Version returns the snapshot's monotonic version number.
func (s *Snapshot) Version() uint64 {
	return s.version
}

// Root returns the snapshot's tree. Callers must treat it as read-only.
func (s *Snapshot) Root() *merge.Node {
	return s.root
}

// JSON returns the canonical JSON rendering of the whole tree.
func (s *Snapshot) JSON() []byte {
	return s.raw
}

// Subtree returns the canonical JSON of the subtree at a dotted path
// prefix. The empty prefix addresses the whole tree. The result's Raw
// is empty when the path holds no value, which makes it directly
// comparable across snapshots.
func (s *Snapshot) Subtree(prefix string) gjson.Result {
	if prefix == "" {
		return gjson.ParseBytes(s.raw)
	}
	return gjson.GetBytes(s.raw, prefix)
}

// Store publishes snapshots to concurrent readers.
type Store struct {
	cur atomic.Pointer[Snapshot]
}

// New creates a store holding the given initial snapshot.
func New(initial *Snapshot) *Store {
	st := &Store{}
	st.cur.Store(initial)
	return st
}

// Current returns the latest published snapshot.
func (st *Store) Current() *Snapshot {
	return st.cur.Load()
}

// Swap publishes a new snapshot. Only the reload pipeline may call it.
func (st *Store) Swap(s *Snapshot) {
	st.cur.Store(s)
}
