package template

import "testing"

func TestScriptJSON_EscapesScriptTerminators(t *testing.T) {
	got, err := ScriptJSON(map[string]any{"msg": "</script><b>&</b>"})
	if err != nil {
		t.Fatalf("script json: %v", err)
	}
	want := `{"msg":"\u003c/script\u003e\u003cb\u003e\u0026\u003c/b\u003e"}`
	if got != want {
		t.Fatalf("unexpected output\nwant: %s\n got: %s", want, got)
	}
}

func TestScriptJSON_NilBecomesEmptyObject(t *testing.T) {
	got, err := ScriptJSON(nil)
	if err != nil || got != "{}" {
		t.Fatalf("ScriptJSON(nil) = %q, %v", got, err)
	}
}

func TestScriptJSON_RejectsUnsupportedValues(t *testing.T) {
	if _, err := ScriptJSON(map[string]any{"fn": func() {}}); err == nil {
		t.Fatalf("expected encode error")
	}
}
