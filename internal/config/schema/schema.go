// Package schema describes and validates the shape of the shell
// configuration tree.
//
// A schema is a static tree of nodes, one per configurable path, each
// declaring a kind, an optional default and optional constraints. The
// engine receives the schema at startup; producing it is the host's
// responsibility.
package schema

import "fmt"

// Kind is the declared type of a schema node.
type Kind uint8

const (
	// KindString is a free-form string value.
	KindString Kind = iota
	// KindNumber is an integer or floating point value.
	KindNumber
	// KindBool is a boolean value.
	KindBool
	// KindArray is a homogeneous array value.
	KindArray
	// KindTable is a nested table of named children.
	KindTable
	// KindEnum is a string restricted to a fixed set of values.
	KindEnum
)

// String returns the kind name as used in emitted schema documents.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	case KindTable:
		return "table"
	case KindEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Node describes one path in the configuration tree.
type Node struct {
	// Kind is the declared value type.
	Kind Kind

	// Description documents the setting for editor tooling.
	Description string

	// Default is injected when no document supplies a value.
	Default any

	// Min and Max bound numeric values when set.
	Min, Max *float64

	// Values lists the allowed members for KindEnum.
	Values []string

	// Pattern is a regular expression strings must match when set.
	Pattern string

	// Children maps child names for KindTable.
	Children map[string]*Node

	// Elem describes array elements for KindArray.
	Elem *Node
}

// String creates a string schema node.
func String(description string) *Node {
	return &Node{Kind: KindString, Description: description}
}

// Number creates a numeric schema node.
func Number(description string) *Node {
	return &Node{Kind: KindNumber, Description: description}
}

// Bool creates a boolean schema node.
func Bool(description string) *Node {
	return &Node{Kind: KindBool, Description: description}
}

// Enum creates an enum schema node restricted to the given values.
func Enum(description string, values ...string) *Node {
	return &Node{Kind: KindEnum, Description: description, Values: values}
}

// Array creates an array schema node with the given element schema.
func Array(description string, elem *Node) *Node {
	return &Node{Kind: KindArray, Description: description, Elem: elem}
}

// Table creates a table schema node with the given children.
func Table(description string, children map[string]*Node) *Node {
	return &Node{Kind: KindTable, Description: description, Children: children}
}

// WithDefault sets the node's default value.
func (n *Node) WithDefault(v any) *Node {
	n.Default = v
	return n
}

// WithRange bounds a numeric node to [min, max].
func (n *Node) WithRange(min, max float64) *Node {
	n.Min = &min
	n.Max = &max
	return n
}

// WithMin sets a lower bound on a numeric node.
func (n *Node) WithMin(min float64) *Node {
	n.Min = &min
	return n
}

// WithMax sets an upper bound on a numeric node.
func (n *Node) WithMax(max float64) *Node {
	n.Max = &max
	return n
}

// WithPattern requires string values to match the regular expression.
func (n *Node) WithPattern(pattern string) *Node {
	n.Pattern = pattern
	return n
}

// Child returns the named child of a table node, or nil.
func (n *Node) Child(name string) *Node {
	if n == nil || n.Kind != KindTable {
		return nil
	}
	return n.Children[name]
}

// IsLeaf reports whether the node holds a value rather than children.
func (n *Node) IsLeaf() bool {
	return n.Kind != KindTable
}

// rangeString renders the declared numeric bounds for error messages.
func (n *Node) rangeString() string {
	switch {
	case n.Min != nil && n.Max != nil:
		return fmt.Sprintf("range [%v, %v]", *n.Min, *n.Max)
	case n.Min != nil:
		return fmt.Sprintf("minimum %v", *n.Min)
	case n.Max != nil:
		return fmt.Sprintf("maximum %v", *n.Max)
	default:
		return "range"
	}
}
