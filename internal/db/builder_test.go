package db

import (
	"strings"
	"testing"
)

func TestIndexBuilder_Build(t *testing.T) {
	def, err := NewIndex("content-vectors").
		Prefix("pocketmind:vec:").
		Tag("user").
		Tag("type").
		VectorHNSW("vector", 1536, DistanceCosine, 16, 200).
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if def.Name != "content-vectors" {
		t.Errorf("unexpected name: %s", def.Name)
	}
	if len(def.Prefixes) != 1 || def.Prefixes[0] != "pocketmind:vec:" {
		t.Errorf("unexpected prefixes: %v", def.Prefixes)
	}
	if len(def.Fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(def.Fields))
	}
	vec := def.Fields[2]
	if vec.Type != IndexFieldVector || vec.VectorAlgo != VectorHNSW {
		t.Errorf("unexpected vector field: %+v", vec)
	}
	if vec.VectorDim != 1536 || vec.VectorDistance != DistanceCosine {
		t.Errorf("unexpected vector params: %+v", vec)
	}
	if vec.VectorM != 16 || vec.VectorEFConstruct != 200 {
		t.Errorf("unexpected HNSW params: %+v", vec)
	}
}

func TestIndexBuilder_Validation(t *testing.T) {
	cases := []struct {
		name    string
		builder *IndexBuilder
	}{
		{"empty name", NewIndex("").Tag("user")},
		{"invalid name", NewIndex("bad name!").Tag("user")},
		{"no fields", NewIndex("empty")},
		{"zero dim", NewIndex("vecs").VectorFlat("vector", 0, DistanceCosine)},
		{"duplicate field", NewIndex("dup").Tag("user").Tag("user")},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := c.builder.Build(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestIndexDefinition_String(t *testing.T) {
	def := NewIndex("content-vectors").
		Prefix("pocketmind:vec:").
		Tag("user").
		VectorHNSW("vector", 8, DistanceCosine, 0, 0).
		MustBuild()

	s := def.String()
	for _, want := range []string{"FT.CREATE", "content-vectors", "ON HASH", "user TAG", "vector VECTOR HNSW"} {
		if !strings.Contains(s, want) {
			t.Errorf("expected %q in %q", want, s)
		}
	}
}

func TestIsValidIdentifier(t *testing.T) {
	valid := []string{"content-vectors", "idx_1", "a:b"}
	for _, s := range valid {
		if !IsValidIdentifier(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}
	invalid := []string{"", "has space", "semi;colon", "star*"}
	for _, s := range invalid {
		if IsValidIdentifier(s) {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}
