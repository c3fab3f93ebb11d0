package schema

import (
	"testing"

	"github.com/tidwall/gjson"
)

func TestEmit(t *testing.T) {
	data, err := Emit(testSchema(), "0.3.0")
	if err != nil {
		t.Fatalf("Emit: %v", err)
	}
	if !gjson.ValidBytes(data) {
		t.Fatalf("emitted schema is not valid JSON:\n%s", data)
	}

	doc := gjson.ParseBytes(data)
	if got := doc.Get("$id").String(); got != "lume-config-0.3.0" {
		t.Errorf("$id = %q, want lume-config-0.3.0", got)
	}
	if got := doc.Get("kind").String(); got != "table" {
		t.Errorf("root kind = %q, want table", got)
	}

	loc := doc.Get("children.bar.children.location")
	if got := loc.Get("kind").String(); got != "enum" {
		t.Errorf("bar.location kind = %q, want enum", got)
	}
	if got := loc.Get("default").String(); got != "top" {
		t.Errorf("bar.location default = %q, want top", got)
	}
	if got := len(loc.Get("values").Array()); got != 4 {
		t.Errorf("bar.location values count = %d, want 4", got)
	}

	scale := doc.Get("children.bar.children.scale")
	if got := scale.Get("minimum").Float(); got != 0.5 {
		t.Errorf("bar.scale minimum = %v, want 0.5", got)
	}
	if got := scale.Get("maximum").Float(); got != 3.0 {
		t.Errorf("bar.scale maximum = %v, want 3", got)
	}

	mods := doc.Get("children.bar.children.modules")
	if got := mods.Get("elem.kind").String(); got != "string" {
		t.Errorf("bar.modules elem kind = %q, want string", got)
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindString, "string"},
		{KindNumber, "number"},
		{KindBool, "bool"},
		{KindArray, "array"},
		{KindTable, "table"},
		{KindEnum, "enum"},
		{Kind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
