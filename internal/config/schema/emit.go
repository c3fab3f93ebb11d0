package schema

import (
	"encoding/json"

	"github.com/tidwall/sjson"
)

// nodeDoc is the emitted form of a schema node.
type nodeDoc struct {
	Kind        string              `json:"kind"`
	Description string              `json:"description,omitempty"`
	Default     any                 `json:"default,omitempty"`
	Minimum     *float64            `json:"minimum,omitempty"`
	Maximum     *float64            `json:"maximum,omitempty"`
	Values      []string            `json:"values,omitempty"`
	Pattern     string              `json:"pattern,omitempty"`
	Children    map[string]*nodeDoc `json:"children,omitempty"`
	Elem        *nodeDoc            `json:"elem,omitempty"`
}

func toDoc(n *Node) *nodeDoc {
	doc := &nodeDoc{
		Kind:        n.Kind.String(),
		Description: n.Description,
		Default:     n.Default,
		Minimum:     n.Min,
		Maximum:     n.Max,
		Values:      n.Values,
		Pattern:     n.Pattern,
	}
	if n.Elem != nil {
		doc.Elem = toDoc(n.Elem)
	}
	if len(n.Children) > 0 {
		doc.Children = make(map[string]*nodeDoc, len(n.Children))
		for name, child := range n.Children {
			doc.Children[name] = toDoc(child)
		}
	}
	return doc
}

// Emit renders the schema as an indented JSON document for editor
// tooling, stamped with a versioned $id so consumers can detect stale
// copies.
func Emit(root *Node, version string) ([]byte, error) {
	data, err := json.MarshalIndent(toDoc(root), "", "  ")
	if err != nil {
		return nil, err
	}
	return sjson.SetBytes(data, "$id", "lume-config-"+version)
}
