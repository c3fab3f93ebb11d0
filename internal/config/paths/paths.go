// Package paths implements the dotted-path grammar used to address
// configuration values: dot-separated identifiers, each optionally
// followed by a bracketed integer index into an array value, e.g.
// "bar.modules[2]". Paths are resolved against the schema at lookup
// time; a path with no schema node does not resolve.
package paths

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/lumeshell/lume/internal/config/merge"
	"github.com/lumeshell/lume/internal/config/schema"
)

// Segment is one element of a parsed path.
type Segment struct {
	// Key is the identifier naming a table child.
	Key string
	// Index is the array index when HasIndex is true.
	Index int
	// HasIndex marks a bracketed index suffix.
	HasIndex bool
}

// SyntaxError reports a path that does not match the grammar.
type SyntaxError struct {
	Path    string
	Message string
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid path %q: %s", e.Path, e.Message)
}

// NotFoundError reports a path with no corresponding schema node.
type NotFoundError struct {
	Path string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: not found", e.Path)
}

// Parse splits a dotted path into segments.
func Parse(path string) ([]Segment, error) {
	if path == "" {
		return nil, &SyntaxError{Path: path, Message: "empty path"}
	}
	parts := strings.Split(path, ".")
	segs := make([]Segment, 0, len(parts))
	for _, part := range parts {
		seg, err := parseSegment(path, part)
		if err != nil {
			return nil, err
		}
		segs = append(segs, seg)
	}
	return segs, nil
}

func parseSegment(path, part string) (Segment, error) {
	open := strings.IndexByte(part, '[')
	if open < 0 {
		if !validIdent(part) {
			return Segment{}, &SyntaxError{Path: path, Message: fmt.Sprintf("bad identifier %q", part)}
		}
		return Segment{Key: part}, nil
	}
	if !strings.HasSuffix(part, "]") {
		return Segment{}, &SyntaxError{Path: path, Message: fmt.Sprintf("unterminated index in %q", part)}
	}
	key := part[:open]
	if !validIdent(key) {
		return Segment{}, &SyntaxError{Path: path, Message: fmt.Sprintf("bad identifier %q", key)}
	}
	idx, err := strconv.Atoi(part[open+1 : len(part)-1])
	if err != nil || idx < 0 {
		return Segment{}, &SyntaxError{Path: path, Message: fmt.Sprintf("bad index in %q", part)}
	}
	return Segment{Key: key, Index: idx, HasIndex: true}, nil
}

// validIdent accepts the identifier charset used in shell config keys.
func validIdent(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}

// String re-renders segments as a dotted path.
func String(segs []Segment) string {
	var b strings.Builder
	for i, seg := range segs {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg.Key)
		if seg.HasIndex {
			fmt.Fprintf(&b, "[%d]", seg.Index)
		}
	}
	return b.String()
}

// ResolveSchema maps parsed segments to the schema node they address.
// An index segment resolves to the array's element schema.
func ResolveSchema(root *schema.Node, segs []Segment) (*schema.Node, error) {
	cur := root
	for _, seg := range segs {
		next := cur.Child(seg.Key)
		if next == nil {
			return nil, &NotFoundError{Path: String(segs)}
		}
		cur = next
		if seg.HasIndex {
			if cur.Kind != schema.KindArray || cur.Elem == nil {
				return nil, &NotFoundError{Path: String(segs)}
			}
			cur = cur.Elem
		}
	}
	return cur, nil
}

// Lookup walks the merged tree to the node addressed by segs. For an
// index segment the indexed array element is returned as a leaf with
// the array's provenance. ok is false when the tree holds no value at
// that path.
func Lookup(root *merge.Node, segs []Segment) (node *merge.Node, ok bool) {
	cur := root
	for _, seg := range segs {
		cur = cur.Child(seg.Key)
		if cur == nil {
			return nil, false
		}
		if seg.HasIndex {
			arr, isArr := cur.Value.([]any)
			if !isArr || seg.Index >= len(arr) {
				return nil, false
			}
			cur = &merge.Node{Value: arr[seg.Index], Source: cur.Source}
		}
	}
	return cur, true
}

// ParseLiteral interprets a CLI literal against the schema node's kind.
// Literals use TOML value syntax; for strings and enums an unquoted
// literal is taken verbatim.
func ParseLiteral(n *schema.Node, literal string) (any, error) {
	switch n.Kind {
	case schema.KindString, schema.KindEnum:
		if s, err := decodeTOMLValue(literal); err == nil {
			if str, isStr := s.(string); isStr {
				return str, nil
			}
		}
		return literal, nil

	case schema.KindBool:
		v, err := strconv.ParseBool(literal)
		if err != nil {
			return nil, fmt.Errorf("parsing %q as bool: %w", literal, err)
		}
		return v, nil

	case schema.KindNumber:
		if i, err := strconv.ParseInt(literal, 10, 64); err == nil {
			return i, nil
		}
		f, err := strconv.ParseFloat(literal, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %q as number: %w", literal, err)
		}
		return f, nil

	case schema.KindArray:
		v, err := decodeTOMLValue(literal)
		if err != nil {
			return nil, fmt.Errorf("parsing %q as array: %w", literal, err)
		}
		arr, isArr := v.([]any)
		if !isArr {
			return nil, fmt.Errorf("parsing %q as array: not an array literal", literal)
		}
		return arr, nil

	default:
		return nil, fmt.Errorf("cannot set a value of kind %s", n.Kind)
	}
}

// decodeTOMLValue parses a single TOML value expression.
func decodeTOMLValue(literal string) (any, error) {
	var doc map[string]any
	if err := toml.Unmarshal([]byte("v = "+literal), &doc); err != nil {
		return nil, err
	}
	return doc["v"], nil
}
