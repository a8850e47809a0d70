package render_test

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-jsoneditor/pkg/render"
	"github.com/goliatone/go-jsoneditor/pkg/testsupport"
)

const formTemplate = "<!DOCTYPE html>\n<html>\n<head>\n<title>Form</title>\n</head>\n<body><script>boot()</script></body>\n</html>\n"

func newRenderer(t *testing.T, opts ...render.Option) *render.Renderer {
	t.Helper()
	r, err := render.New(append([]render.Option{render.WithWorkingDir(t.TempDir())}, opts...)...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func injected(t *testing.T, doc, name string) any {
	t.Helper()
	re := regexp.MustCompile(`window\.` + regexp.QuoteMeta(name) + ` = (.*);`)
	match := re.FindStringSubmatch(doc)
	if match == nil {
		t.Fatalf("window.%s not found in document:\n%s", name, doc)
	}
	return testsupport.MustDecodeJSON(t, []byte(match[1]))
}

func TestRender_InjectsValuesVerbatim(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteFixtures(t, root, map[string]string{"media/form.html": formTemplate})

	schema := map[string]any{
		"title":       "Widget",
		"properties":  map[string]any{"price": map[string]any{"type": "number"}},
		"$defs":       map[string]any{"money": map[string]any{"type": "number"}},
		"description": "</script><script>alert(1)</script> & more",
	}
	choices := map[string]any{
		"colors":            []any{"red"},
		"conditional_rules": map[string]any{"a": "b"},
	}
	data := map[string]any{"price": json.Number("12.50")}

	doc, err := newRenderer(t).Render(context.Background(), render.Input{
		Root:    root,
		Schema:  schema,
		Choices: choices,
		Data:    data,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if strings.Contains(doc, "</script><script>alert(1)") {
		t.Fatalf("script terminator leaked into document")
	}
	if diff := cmp.Diff(schema, injected(t, doc, "currentSchema")); diff != "" {
		t.Fatalf("schema mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(choices, injected(t, doc, "customOptions")); diff != "" {
		t.Fatalf("choices mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(any(map[string]any{"price": json.Number("12.50")}), injected(t, doc, "initialData")); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(schema["$defs"], injected(t, doc, "definitions")); diff != "" {
		t.Fatalf("definitions mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(choices["conditional_rules"], injected(t, doc, "conditionalRules")); diff != "" {
		t.Fatalf("conditional rules mismatch (-want +got):\n%s", diff)
	}

	head := strings.Index(doc, "</head>")
	block := strings.Index(doc, "window.currentSchema")
	if block < 0 || head < block {
		t.Fatalf("expected data block before </head>")
	}
}

func TestRender_DefaultsMissingValuesToEmptyObjects(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteFixtures(t, root, map[string]string{"form.html": formTemplate})

	doc, err := newRenderer(t).Render(context.Background(), render.Input{Root: root})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, name := range []string{"currentSchema", "customOptions", "initialData", "definitions", "conditionalRules"} {
		if diff := cmp.Diff(any(map[string]any{}), injected(t, doc, name)); diff != "" {
			t.Fatalf("%s mismatch (-want +got):\n%s", name, diff)
		}
	}
}

func TestRender_TemplateNotFound(t *testing.T) {
	_, err := newRenderer(t).Render(context.Background(), render.Input{Root: t.TempDir()})
	if !errors.Is(err, render.ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestRender_FallsBackToEmbeddedTemplate(t *testing.T) {
	files := fstest.MapFS{"form.html": {Data: []byte("<html><body>fallback</body></html>")}}
	r := newRenderer(t, render.WithFallbackTemplate(files, ""))

	doc, err := r.Render(context.Background(), render.Input{Root: t.TempDir()})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(doc, "<html><body>fallback</body></html>") || !strings.Contains(doc, "window.currentSchema") {
		t.Fatalf("expected appended data block, got:\n%s", doc)
	}
}

func TestRender_PrefersEarlierCandidates(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteFixtures(t, root, map[string]string{
		"dist/media/form.html": "<head>dist</head>",
		"src/media/form.html":  "<head>src</head>",
	})
	doc, err := newRenderer(t).Render(context.Background(), render.Input{Root: root})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(doc, "<head>src") {
		t.Fatalf("expected src/media template, got:\n%s", doc)
	}
}

func TestCandidates_Order(t *testing.T) {
	got := render.Candidates("/ext", "/wd")
	want := []string{
		filepath.Join("/ext", "src", "media", "form.html"),
		filepath.Join("/ext", "media", "form.html"),
		filepath.Join("/ext", "out", "media", "form.html"),
		filepath.Join("/ext", "dist", "media", "form.html"),
		filepath.Join("/ext", "form.html"),
		filepath.Join("/wd", "src", "media", "form.html"),
		filepath.Join("/wd", "media", "form.html"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("candidates mismatch (-want +got):\n%s", diff)
	}
}

func TestInjectDataBlock_ThreeTierFallback(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{name: "head", doc: "<head><title>x</title></head><script>a()</script>", want: "<head><title>x</title>BLOCK\n</head><script>a()</script>"},
		{name: "script", doc: "<body><p>x</p><script>a()</script></body>", want: "<body><p>x</p>BLOCK<script>a()</script></body>"},
		{name: "script with attributes", doc: "<scripts></scripts><script type=\"module\">a()</script>", want: "<scripts></scripts>BLOCK<script type=\"module\">a()</script>"},
		{name: "external script skipped", doc: "<body><script src=\"lib.js\"></script><p>x</p><script>init()</script></body>", want: "<body><script src=\"lib.js\"></script><p>x</p>BLOCK<script>init()</script></body>"},
		{name: "uppercase src skipped", doc: "<SCRIPT type=\"module\" SRC='a.js'></SCRIPT><Script>b()</Script>", want: "<SCRIPT type=\"module\" SRC='a.js'></SCRIPT>BLOCK<Script>b()</Script>"},
		{name: "src inside a value is inline", doc: "<script data-note=\"src\">a()</script>", want: "BLOCK<script data-note=\"src\">a()</script>"},
		{name: "head after non-ascii title", doc: "<html><head><title>\u212a\u212a\u0130\u0130</title></HEAD><body></body></html>", want: "<html><head><title>\u212a\u212a\u0130\u0130</title>BLOCK\n</HEAD><body></body></html>"},
		{name: "script after non-ascii text", doc: "<body>\u212a\u0130<script>a()</script></body>", want: "<body>\u212a\u0130BLOCK<script>a()</script></body>"},
		{name: "only external scripts", doc: "<p>x</p><script src=\"a.js\"></script>", want: "<p>x</p><script src=\"a.js\"></script>BLOCK"},
		{name: "append", doc: "<p>bare</p>", want: "<p>bare</p>BLOCK"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := render.InjectDataBlock(tc.doc, "BLOCK"); got != tc.want {
				t.Fatalf("unexpected document\nwant: %q\n got: %q", tc.want, got)
			}
		})
	}
}

func TestDefinitions_FirstPresentWins(t *testing.T) {
	both := map[string]any{
		"definitions": map[string]any{"a": true},
		"$defs":       map[string]any{"b": true},
	}
	if diff := cmp.Diff(map[string]any{"a": true}, render.Definitions(both)); diff != "" {
		t.Fatalf("definitions mismatch (-want +got):\n%s", diff)
	}
	defsOnly := map[string]any{"$defs": map[string]any{"b": true}}
	if diff := cmp.Diff(map[string]any{"b": true}, render.Definitions(defsOnly)); diff != "" {
		t.Fatalf("$defs mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{}, render.Definitions([]any{1})); diff != "" {
		t.Fatalf("expected empty definitions (-want +got):\n%s", diff)
	}
}

func TestEmbedData_EscapesScriptCharacters(t *testing.T) {
	got, err := render.EmbedData("a</script>&b")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	if got != `"a\u003c/script\u003e\u0026b"` {
		t.Fatalf("unexpected embed output %s", got)
	}
}

func TestRenderError_EscapesMessage(t *testing.T) {
	msg := `<script>alert("x")</script> & 'quoted'`
	doc := newRenderer(t).RenderError(msg)

	if strings.Contains(doc, `<script>alert("x")`) {
		t.Fatalf("message leaked unescaped into document:\n%s", doc)
	}
	if !strings.Contains(doc, "&lt;script&gt;alert(") {
		t.Fatalf("expected HTML-escaped message in markup:\n%s", doc)
	}
	if !strings.Contains(doc, `var message = "\u003cscript\u003ealert(\"x\")`) {
		t.Fatalf("expected script-escaped message in script body:\n%s", doc)
	}
}

func TestRenderLoading(t *testing.T) {
	doc := newRenderer(t).RenderLoading()
	if !strings.Contains(doc, "Loading JSON editor...") || !strings.Contains(doc, "<title>JSON Editor</title>") {
		t.Fatalf("unexpected loading document:\n%s", doc)
	}
}

type stubSelector struct {
	selection *theme.Selection
	name      string
	variant   string
}

func (s *stubSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.name, s.variant = name, variant
	return s.selection, nil
}

func TestThemeSelectorBecomesCSSVariables(t *testing.T) {
	manifest := &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens:  map[string]string{"brand": "#123456", "font-family": "serif"},
		Variants: map[string]theme.Variant{
			"dark": {Tokens: map[string]string{"brand": "#654321", "bad": "red;} body{"}},
		},
	}
	selector := &stubSelector{selection: &theme.Selection{Theme: "acme", Variant: "dark", Manifest: manifest}}
	r := newRenderer(t, render.WithThemeSelector(selector, "acme", "dark"))

	if selector.name != "acme" || selector.variant != "dark" {
		t.Fatalf("unexpected selector call %q/%q", selector.name, selector.variant)
	}
	want := map[string]string{"--brand": "#654321", "--font-family": "serif", "--bad": "red;} body{"}
	if diff := cmp.Diff(want, r.Theme().CSSVars); diff != "" {
		t.Fatalf("css vars mismatch (-want +got):\n%s", diff)
	}

	style := `<style id="jsoneditor-theme">:root { --brand: #654321; --font-family: serif; }</style>`
	if got := r.Theme().Style(); got != style {
		t.Fatalf("unexpected style\nwant: %s\n got: %s", style, got)
	}
	if !strings.Contains(r.RenderLoading(), style) || !strings.Contains(r.RenderError("x"), style) {
		t.Fatalf("expected theme style in built-in documents")
	}
}
