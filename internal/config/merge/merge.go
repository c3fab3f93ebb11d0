// Package merge deep-merges ordered configuration documents into a
// single tree, tracking which document supplied each leaf.
//
// Tables merge structurally; arrays and scalars are replaced wholesale
// by the later document. Merging the same ordered input always yields
// an identical tree.
package merge

import (
	"sort"

	"github.com/lumeshell/lume/internal/config/document"
)

// Node is one node of a merged configuration tree. A node is either a
// table (Table non-nil) or a leaf carrying a value and its provenance.
type Node struct {
	// Table holds child nodes when this node is a table.
	Table map[string]*Node

	// Value is the leaf value (string, int64, float64, bool or []any).
	Value any

	// Source is the canonical path of the document supplying this
	// leaf. Empty means the value is a schema default. Table nodes
	// carry no provenance of their own.
	Source string
}

// IsTable reports whether the node is a table.
func (n *Node) IsTable() bool {
	return n.Table != nil
}

// Child returns the named child of a table node, or nil.
func (n *Node) Child(key string) *Node {
	if n == nil || n.Table == nil {
		return nil
	}
	return n.Table[key]
}

// Keys returns the sorted child keys of a table node.
func (n *Node) Keys() []string {
	keys := make([]string, 0, len(n.Table))
	for k := range n.Table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Interface converts the subtree back to plain Go values, dropping
// provenance. Tables become map[string]any.
func (n *Node) Interface() any {
	if n == nil {
		return nil
	}
	if !n.IsTable() {
		return n.Value
	}
	out := make(map[string]any, len(n.Table))
	for k, c := range n.Table {
		out[k] = c.Interface()
	}
	return out
}

// Clone deep-copies the subtree.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	if !n.IsTable() {
		return &Node{Value: n.Value, Source: n.Source}
	}
	table := make(map[string]*Node, len(n.Table))
	for k, c := range n.Table {
		table[k] = c.Clone()
	}
	return &Node{Table: table}
}

// Merge folds documents in order into one tree. Later documents win:
// table-valued keys merge recursively, everything else is replaced and
// its provenance updated to the writing document.
func Merge(docs []*document.Document) *Node {
	root := &Node{Table: make(map[string]*Node)}
	for _, doc := range docs {
		overlay(root, doc.Table, doc.Path)
	}
	return root
}

// overlay applies a raw table on top of dst, attributing leaves to source.
func overlay(dst *Node, table map[string]any, source string) {
	for key, val := range table {
		sub, isTable := val.(map[string]any)
		if !isTable {
			dst.Table[key] = &Node{Value: val, Source: source}
			continue
		}
		existing := dst.Table[key]
		if existing == nil || !existing.IsTable() {
			existing = &Node{Table: make(map[string]*Node)}
			dst.Table[key] = existing
		}
		overlay(existing, sub, source)
	}
}
