package merge

import (
	"encoding/json"
	"reflect"
	"testing"

	"pgregory.net/rapid"

	"github.com/lumeshell/lume/internal/config/document"
)

func doc(path string, table map[string]any) *document.Document {
	return &document.Document{Path: path, Table: table}
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name string
		docs []*document.Document
		want map[string]any
	}{
		{
			name: "later scalar wins",
			docs: []*document.Document{
				doc("a.toml", map[string]any{"x": int64(1)}),
				doc("b.toml", map[string]any{"x": int64(2)}),
			},
			want: map[string]any{"x": int64(2)},
		},
		{
			name: "tables merge recursively",
			docs: []*document.Document{
				doc("a.toml", map[string]any{"bar": map[string]any{"scale": 2.0}}),
				doc("b.toml", map[string]any{"bar": map[string]any{"height": int64(40)}}),
			},
			want: map[string]any{"bar": map[string]any{"scale": 2.0, "height": int64(40)}},
		},
		{
			name: "arrays replaced wholesale",
			docs: []*document.Document{
				doc("a.toml", map[string]any{"mods": []any{"clock", "battery"}}),
				doc("b.toml", map[string]any{"mods": []any{"network"}}),
			},
			want: map[string]any{"mods": []any{"network"}},
		},
		{
			name: "scalar replaces table",
			docs: []*document.Document{
				doc("a.toml", map[string]any{"x": map[string]any{"y": int64(1)}}),
				doc("b.toml", map[string]any{"x": "flat"}),
			},
			want: map[string]any{"x": "flat"},
		},
		{
			name: "table replaces scalar",
			docs: []*document.Document{
				doc("a.toml", map[string]any{"x": "flat"}),
				doc("b.toml", map[string]any{"x": map[string]any{"y": int64(1)}}),
			},
			want: map[string]any{"x": map[string]any{"y": int64(1)}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.docs).Interface()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Merge() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMergeProvenance(t *testing.T) {
	root := Merge([]*document.Document{
		doc("import.toml", map[string]any{"bar": map[string]any{
			"scale":  2.0,
			"height": int64(40),
		}}),
		doc("config.toml", map[string]any{"bar": map[string]any{
			"scale": 1.5,
		}}),
	})

	bar := root.Child("bar")
	if got := bar.Child("scale").Source; got != "config.toml" {
		t.Errorf("scale source = %q, want config.toml", got)
	}
	if got := bar.Child("height").Source; got != "import.toml" {
		t.Errorf("height source = %q, want import.toml", got)
	}
	if bar.Source != "" {
		t.Errorf("table node carries provenance %q", bar.Source)
	}
}

func TestMergeLocalBeatsImport(t *testing.T) {
	// Documents arrive with imports first, so the importing document's
	// own keys override anything it pulled in.
	root := Merge([]*document.Document{
		doc("theme.toml", map[string]any{"bar": map[string]any{"scale": 2.0}}),
		doc("config.toml", map[string]any{"bar": map[string]any{"scale": 1.0}}),
	})
	if got := root.Child("bar").Child("scale").Value; got != 1.0 {
		t.Errorf("bar.scale = %v, want 1.0", got)
	}
}

func TestCloneIsolation(t *testing.T) {
	root := Merge([]*document.Document{
		doc("a.toml", map[string]any{"bar": map[string]any{"scale": 2.0}}),
	})
	clone := root.Clone()
	clone.Child("bar").Table["scale"] = &Node{Value: 9.0}

	if got := root.Child("bar").Child("scale").Value; got != 2.0 {
		t.Errorf("clone mutation leaked into original: %v", got)
	}
}

func TestKeysSorted(t *testing.T) {
	root := Merge([]*document.Document{
		doc("a.toml", map[string]any{"c": int64(1), "a": int64(2), "b": int64(3)}),
	})
	if got := root.Keys(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("Keys() = %v", got)
	}
}

// tableGen produces random nested TOML-shaped tables.
func tableGen(depth int) *rapid.Generator[map[string]any] {
	key := rapid.StringMatching(`[a-z][a-z0-9-]{0,6}`)
	scalar := rapid.OneOf(
		rapid.Int64().AsAny(),
		rapid.Bool().AsAny(),
		rapid.StringMatching(`[a-zA-Z0-9 ]{0,12}`).AsAny(),
	)
	value := scalar
	if depth > 0 {
		value = rapid.OneOf(scalar, rapid.Deferred(func() *rapid.Generator[any] {
			return tableGen(depth - 1).AsAny()
		}))
	}
	return rapid.MapOfN(key, value, 0, 5)
}

func TestMergeDeterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		docs := []*document.Document{
			doc("a.toml", tableGen(2).Draw(t, "a")),
			doc("b.toml", tableGen(2).Draw(t, "b")),
			doc("c.toml", tableGen(2).Draw(t, "c")),
		}

		first, err := json.Marshal(Merge(docs).Interface())
		if err != nil {
			t.Fatal(err)
		}
		second, err := json.Marshal(Merge(docs).Interface())
		if err != nil {
			t.Fatal(err)
		}
		if string(first) != string(second) {
			t.Fatalf("merge of identical input diverged:\n%s\n%s", first, second)
		}
	})
}
