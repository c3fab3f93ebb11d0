package schema

import (
	"errors"
	"reflect"
	"testing"

	"github.com/lumeshell/lume/internal/config/document"
	"github.com/lumeshell/lume/internal/config/merge"
)

func testSchema() *Node {
	return Table("", map[string]*Node{
		"bar": Table("status bar", map[string]*Node{
			"location": Enum("edge of the screen", "top", "bottom", "left", "right").WithDefault("top"),
			"scale":    Number("render scale").WithRange(0.5, 3).WithDefault(1.0),
			"height":   Number("height in pixels").WithRange(16, 128).WithDefault(32),
			"modules":  Array("widgets", String("")).WithDefault([]string{"clock"}),
		}),
		"network": Table("network widget", map[string]*Node{
			"interface":  String("interface name").WithPattern(`^[a-z0-9-]*$`),
			"show-speed": Bool("show link speed").WithDefault(false),
		}),
	})
}

func merged(table map[string]any) *merge.Node {
	return merge.Merge([]*document.Document{{Path: "config.toml", Table: table}})
}

func TestValidateDefaults(t *testing.T) {
	out, err := Validate(merged(map[string]any{}), testSchema())
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}

	bar := out.Child("bar")
	if got := bar.Child("location").Value; got != "top" {
		t.Errorf("bar.location = %v, want top", got)
	}
	if got := bar.Child("scale").Value; got != 1.0 {
		t.Errorf("bar.scale = %v, want 1.0", got)
	}
	if got := bar.Child("modules").Value; !reflect.DeepEqual(got, []any{"clock"}) {
		t.Errorf("bar.modules = %v, want [clock]", got)
	}
	// Defaults carry no provenance: they belong to no document.
	if src := bar.Child("location").Source; src != "" {
		t.Errorf("default carries provenance %q", src)
	}
	// Leaves without a declared default stay absent.
	if out.Child("network").Child("interface") != nil {
		t.Error("network.interface has no default and should be absent")
	}
}

func TestValidateDocumentValuesKeepProvenance(t *testing.T) {
	out, err := Validate(merged(map[string]any{
		"bar": map[string]any{"scale": 2.0},
	}), testSchema())
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	scale := out.Child("bar").Child("scale")
	if scale.Value != 2.0 {
		t.Errorf("bar.scale = %v, want 2.0", scale.Value)
	}
	if scale.Source != "config.toml" {
		t.Errorf("bar.scale source = %q, want config.toml", scale.Source)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name  string
		table map[string]any
		check func(t *testing.T, errs []error)
	}{
		{
			name:  "unknown key",
			table: map[string]any{"typo": int64(1)},
			check: func(t *testing.T, errs []error) {
				var uk *UnknownKeyError
				if !errors.As(errs[0], &uk) || uk.Path != "typo" {
					t.Errorf("got %v, want UnknownKeyError at typo", errs[0])
				}
			},
		},
		{
			name:  "unknown nested key",
			table: map[string]any{"bar": map[string]any{"colour": "red"}},
			check: func(t *testing.T, errs []error) {
				var uk *UnknownKeyError
				if !errors.As(errs[0], &uk) || uk.Path != "bar.colour" {
					t.Errorf("got %v, want UnknownKeyError at bar.colour", errs[0])
				}
			},
		},
		{
			name:  "type mismatch",
			table: map[string]any{"bar": map[string]any{"scale": "big"}},
			check: func(t *testing.T, errs []error) {
				var tm *TypeMismatchError
				if !errors.As(errs[0], &tm) || tm.Expected != KindNumber {
					t.Errorf("got %v, want number TypeMismatchError", errs[0])
				}
			},
		},
		{
			name:  "table where leaf expected",
			table: map[string]any{"bar": map[string]any{"scale": map[string]any{"x": int64(1)}}},
			check: func(t *testing.T, errs []error) {
				var tm *TypeMismatchError
				if !errors.As(errs[0], &tm) || tm.Found != "table" {
					t.Errorf("got %v, want table TypeMismatchError", errs[0])
				}
			},
		},
		{
			name:  "leaf where table expected",
			table: map[string]any{"bar": "compact"},
			check: func(t *testing.T, errs []error) {
				var tm *TypeMismatchError
				if !errors.As(errs[0], &tm) || tm.Expected != KindTable {
					t.Errorf("got %v, want table TypeMismatchError", errs[0])
				}
			},
		},
		{
			name:  "range violation",
			table: map[string]any{"bar": map[string]any{"scale": 9.0}},
			check: func(t *testing.T, errs []error) {
				var cv *ConstraintViolationError
				if !errors.As(errs[0], &cv) || cv.Path != "bar.scale" {
					t.Errorf("got %v, want ConstraintViolationError at bar.scale", errs[0])
				}
			},
		},
		{
			name:  "enum violation",
			table: map[string]any{"bar": map[string]any{"location": "sideways"}},
			check: func(t *testing.T, errs []error) {
				var cv *ConstraintViolationError
				if !errors.As(errs[0], &cv) || cv.Path != "bar.location" {
					t.Errorf("got %v, want ConstraintViolationError at bar.location", errs[0])
				}
			},
		},
		{
			name:  "pattern violation",
			table: map[string]any{"network": map[string]any{"interface": "ETH0!"}},
			check: func(t *testing.T, errs []error) {
				var cv *ConstraintViolationError
				if !errors.As(errs[0], &cv) || cv.Path != "network.interface" {
					t.Errorf("got %v, want ConstraintViolationError at network.interface", errs[0])
				}
			},
		},
		{
			name:  "array element violation",
			table: map[string]any{"bar": map[string]any{"modules": []any{"clock", int64(3)}}},
			check: func(t *testing.T, errs []error) {
				var tm *TypeMismatchError
				if !errors.As(errs[0], &tm) || tm.Path != "bar.modules[1]" {
					t.Errorf("got %v, want TypeMismatchError at bar.modules[1]", errs[0])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Validate(merged(tt.table), testSchema())
			if err == nil {
				t.Fatal("expected validation error")
			}
			if out != nil {
				t.Error("tree returned alongside errors")
			}
			var verrs *Errors
			if !errors.As(err, &verrs) || len(verrs.List) == 0 {
				t.Fatalf("expected *Errors, got %v", err)
			}
			tt.check(t, verrs.List)
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	_, err := Validate(merged(map[string]any{
		"typo": int64(1),
		"bar": map[string]any{
			"scale":    "big",
			"location": "sideways",
		},
	}), testSchema())

	var verrs *Errors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected *Errors, got %v", err)
	}
	if len(verrs.List) != 3 {
		t.Errorf("collected %d errors, want 3: %v", len(verrs.List), verrs.List)
	}
}

func TestCheckValue(t *testing.T) {
	tests := []struct {
		name    string
		node    *Node
		value   any
		wantErr bool
	}{
		{"string ok", String(""), "hello", false},
		{"string wrong type", String(""), int64(1), true},
		{"number int", Number("").WithRange(0, 10), int64(5), false},
		{"number float", Number("").WithRange(0, 10), 5.5, false},
		{"number below min", Number("").WithMin(1), int64(0), true},
		{"number above max", Number("").WithMax(10), 11.0, true},
		{"bool ok", Bool(""), true, false},
		{"bool wrong type", Bool(""), "yes", true},
		{"enum member", Enum("", "a", "b"), "a", false},
		{"enum non-member", Enum("", "a", "b"), "c", true},
		{"pattern match", String("").WithPattern(`^[a-z]+$`), "eth", false},
		{"pattern mismatch", String("").WithPattern(`^[a-z]+$`), "ETH", true},
		{"array ok", Array("", Number("")), []any{int64(1), 2.0}, false},
		{"array bad element", Array("", Number("")), []any{int64(1), "two"}, true},
		{"array wrong type", Array("", Number("")), "not an array", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := CheckValue("p", tt.value, tt.node)
			if (len(errs) > 0) != tt.wantErr {
				t.Errorf("CheckValue(%v) errors = %v, wantErr %v", tt.value, errs, tt.wantErr)
			}
		})
	}
}
