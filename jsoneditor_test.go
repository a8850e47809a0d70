package jsoneditor

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-jsoneditor/pkg/render"
)

func TestDefaultTemplateContainsForm(t *testing.T) {
	data, err := fs.ReadFile(DefaultTemplate(), render.TemplateName)
	if err != nil {
		t.Fatalf("expected bundled template to be readable: %v", err)
	}
	for _, want := range []string{"</head>", "acquireHostApi", "window.currentSchema", `data-command="saveJson"`} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("expected bundled template to contain %q", want)
		}
	}
}

func TestNewRendererFallsBackToBundledTemplate(t *testing.T) {
	r, err := NewRenderer(render.WithWorkingDir(t.TempDir()))
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	doc, err := r.Render(context.Background(), render.Input{
		Root:   t.TempDir(),
		Schema: map[string]any{"title": "Widget"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	head := strings.Index(doc, "</head>")
	block := strings.Index(doc, "window.currentSchema = ")
	if head < 0 || block < 0 || block > head {
		t.Fatalf("expected data block injected before </head>")
	}
	if !strings.Contains(doc, `"title":"Widget"`) {
		t.Fatalf("expected schema in rendered document")
	}
}
