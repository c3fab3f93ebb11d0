package schema

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/lumeshell/lume/internal/config/merge"
)

// Validate checks a merged tree against the schema root and returns a
// fully defaulted copy. Every key missing from the merged tree receives
// its declared default (with no provenance); every key present is
// checked against its schema node. All failures are collected so one
// report lists every problem; a tree is never returned alongside errors.
func Validate(merged *merge.Node, root *Node) (*merge.Node, error) {
	errs := &Errors{}
	out := validateTable("", merged, root, errs)
	if err := errs.asError(); err != nil {
		return nil, err
	}
	return out, nil
}

// validateTable walks one table level, building the defaulted output tree.
func validateTable(path string, node *merge.Node, s *Node, errs *Errors) *merge.Node {
	result := &merge.Node{Table: make(map[string]*merge.Node)}

	if node != nil {
		for _, key := range node.Keys() {
			childPath := joinPath(path, key)
			child := node.Table[key]
			childSchema := s.Child(key)
			if childSchema == nil {
				errs.add(&UnknownKeyError{Path: childPath})
				continue
			}
			if childSchema.Kind == KindTable {
				if !child.IsTable() {
					errs.add(&TypeMismatchError{Path: childPath, Expected: KindTable, Found: typeName(child.Value)})
					continue
				}
				result.Table[key] = validateTable(childPath, child, childSchema, errs)
				continue
			}
			if child.IsTable() {
				errs.add(&TypeMismatchError{Path: childPath, Expected: childSchema.Kind, Found: "table"})
				continue
			}
			for _, err := range CheckValue(childPath, child.Value, childSchema) {
				errs.add(err)
			}
			result.Table[key] = &merge.Node{Value: child.Value, Source: child.Source}
		}
	}

	// Fill declared defaults for everything the documents left out.
	for name, childSchema := range s.Children {
		if _, present := result.Table[name]; present {
			continue
		}
		if node != nil && node.Child(name) != nil {
			continue // present but failed validation above
		}
		childPath := joinPath(path, name)
		if childSchema.Kind == KindTable {
			result.Table[name] = validateTable(childPath, nil, childSchema, errs)
			continue
		}
		if childSchema.Default != nil {
			result.Table[name] = &merge.Node{Value: normalize(childSchema.Default)}
		}
	}

	return result
}

// CheckValue checks a single leaf value against its schema node,
// returning every violated type or constraint rule.
func CheckValue(path string, v any, n *Node) []error {
	switch n.Kind {
	case KindString:
		s, ok := v.(string)
		if !ok {
			return []error{&TypeMismatchError{Path: path, Expected: KindString, Found: typeName(v)}}
		}
		return checkPattern(path, s, n)

	case KindEnum:
		s, ok := v.(string)
		if !ok {
			return []error{&TypeMismatchError{Path: path, Expected: KindEnum, Found: typeName(v)}}
		}
		for _, allowed := range n.Values {
			if s == allowed {
				return nil
			}
		}
		return []error{&ConstraintViolationError{
			Path:       path,
			Constraint: fmt.Sprintf("enum %v", n.Values),
			Value:      s,
		}}

	case KindNumber:
		f, ok := toFloat(v)
		if !ok {
			return []error{&TypeMismatchError{Path: path, Expected: KindNumber, Found: typeName(v)}}
		}
		if (n.Min != nil && f < *n.Min) || (n.Max != nil && f > *n.Max) {
			return []error{&ConstraintViolationError{Path: path, Constraint: n.rangeString(), Value: v}}
		}
		return nil

	case KindBool:
		if _, ok := v.(bool); !ok {
			return []error{&TypeMismatchError{Path: path, Expected: KindBool, Found: typeName(v)}}
		}
		return nil

	case KindArray:
		arr, ok := v.([]any)
		if !ok {
			return []error{&TypeMismatchError{Path: path, Expected: KindArray, Found: typeName(v)}}
		}
		var errs []error
		if n.Elem != nil {
			for i, item := range arr {
				errs = append(errs, CheckValue(fmt.Sprintf("%s[%d]", path, i), item, n.Elem)...)
			}
		}
		return errs

	default:
		return []error{&TypeMismatchError{Path: path, Expected: n.Kind, Found: typeName(v)}}
	}
}

// patternCache holds compiled constraint patterns.
var patternCache sync.Map // string -> *regexp.Regexp

func checkPattern(path, s string, n *Node) []error {
	if n.Pattern == "" {
		return nil
	}
	var re *regexp.Regexp
	if cached, ok := patternCache.Load(n.Pattern); ok {
		re = cached.(*regexp.Regexp)
	} else {
		compiled, err := regexp.Compile(n.Pattern)
		if err != nil {
			return []error{&ConstraintViolationError{Path: path, Constraint: "pattern " + n.Pattern, Value: s}}
		}
		patternCache.Store(n.Pattern, compiled)
		re = compiled
	}
	if !re.MatchString(s) {
		return []error{&ConstraintViolationError{Path: path, Constraint: "pattern " + n.Pattern, Value: s}}
	}
	return nil
}

// normalize converts schema defaults declared with Go slice types into
// the []any form the TOML decoder produces, so defaulted and loaded
// values compare equal.
func normalize(v any) any {
	switch val := v.(type) {
	case []string:
		out := make([]any, len(val))
		for i, s := range val {
			out[i] = s
		}
		return out
	case []int:
		out := make([]any, len(val))
		for i, x := range val {
			out[i] = int64(x)
		}
		return out
	case []float64:
		out := make([]any, len(val))
		for i, x := range val {
			out[i] = x
		}
		return out
	case int:
		return int64(val)
	default:
		return v
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func typeName(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "bool"
	case int64, int, float64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "table"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func joinPath(base, name string) string {
	if base == "" {
		return name
	}
	return base + "." + name
}
