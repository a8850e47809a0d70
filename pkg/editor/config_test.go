package editor

import (
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"
)

func TestConfigValidate_RequiresSchemaPath(t *testing.T) {
	err := Config{ChoicesPath: "choices.json"}.Validate()
	if err == nil {
		t.Fatalf("expected validation error")
	}
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if vErr.Field != "schemaPath" {
		t.Fatalf("unexpected field %q", vErr.Field)
	}

	if err := (Config{SchemaPath: "   "}).Validate(); !IsValidationError(err) {
		t.Fatalf("expected whitespace schema path to be rejected, got %v", err)
	}
}

func TestConfigEqual_IgnoresSurroundingWhitespace(t *testing.T) {
	a := Config{SchemaPath: "s.json", ChoicesPath: " c.json "}
	b := Config{SchemaPath: "s.json ", ChoicesPath: "c.json"}
	if !a.Equal(b) {
		t.Fatalf("expected configs to be equal")
	}
	if a.Equal(Config{SchemaPath: "other.json"}) {
		t.Fatalf("expected different configs to differ")
	}
}

func TestConfigPaths_SkipsEmpty(t *testing.T) {
	got := Config{SchemaPath: "s.json", DataPath: "d.json"}.Paths()
	if len(got) != 2 || got[0] != "s.json" || got[1] != "d.json" {
		t.Fatalf("unexpected paths %v", got)
	}
}

func TestConfigCheckFiles(t *testing.T) {
	files := fstest.MapFS{
		"s.json": {Data: []byte(`{}`)},
	}
	stat := func(name string) (fs.FileInfo, error) { return fs.Stat(files, name) }

	if err := (Config{SchemaPath: "s.json"}).CheckFiles(stat); err != nil {
		t.Fatalf("expected existing schema to pass: %v", err)
	}
	if err := (Config{SchemaPath: "s.json", ChoicesPath: "missing.json"}).CheckFiles(stat); !IsValidationError(err) {
		t.Fatalf("expected missing choices file to fail validation, got %v", err)
	}
	if err := (Config{SchemaPath: "https://example.com/schema.json"}).CheckFiles(stat); err != nil {
		t.Fatalf("expected remote schema to skip stat: %v", err)
	}
}
