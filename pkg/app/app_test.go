package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-jsoneditor/internal/configflow"
	"github.com/goliatone/go-jsoneditor/internal/prompt"
	"github.com/goliatone/go-jsoneditor/pkg/app"
	"github.com/goliatone/go-jsoneditor/pkg/configstore"
	"github.com/goliatone/go-jsoneditor/pkg/dispatch"
	"github.com/goliatone/go-jsoneditor/pkg/editor"
	"github.com/goliatone/go-jsoneditor/pkg/panel"
	"github.com/goliatone/go-jsoneditor/pkg/render"
	"github.com/goliatone/go-jsoneditor/pkg/resource"
	"github.com/goliatone/go-jsoneditor/pkg/testsupport"
)

type recordingWatcher struct {
	mu   sync.Mutex
	sets [][]string
}

func (w *recordingWatcher) Set(paths []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sets = append(w.sets, append([]string(nil), paths...))
	return nil
}

func (w *recordingWatcher) last() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.sets) == 0 {
		return nil
	}
	return w.sets[len(w.sets)-1]
}

type harness struct {
	app      *app.App
	ctrl     *panel.Controller
	host     *testsupport.FakeHost
	store    *configstore.MemoryStore
	driver   *prompt.Scripted
	notifier *testsupport.RecordingNotifier
	watcher  *recordingWatcher
	paths    map[string]string
}

const formTemplate = "<!DOCTYPE html>\n<html>\n<head>\n<title>Form</title>\n</head>\n<body></body>\n</html>\n"

// newHarness wires a controller, store and configuration flow over fixture
// files. stored names the fixture seeded into the store; script builds the flow answers
// once fixture paths are known.
func newHarness(t *testing.T, stored string, script func(paths map[string]string) []prompt.Answer) *harness {
	t.Helper()
	root := t.TempDir()
	h := &harness{
		host:     &testsupport.FakeHost{},
		notifier: &testsupport.RecordingNotifier{},
		watcher:  &recordingWatcher{},
	}
	h.paths = testsupport.WriteFixtures(t, root, map[string]string{
		"media/form.html": formTemplate,
		"a.json":          `{"title":"Alpha"}`,
		"b.json":          `{"title":"Beta"}`,
	})
	var answers []prompt.Answer
	if script != nil {
		answers = script(h.paths)
	}
	h.driver = prompt.NewScripted(answers...)

	initial := editor.Config{}
	if stored != "" {
		initial.SchemaPath = h.paths[stored]
	}
	h.store = configstore.NewMemoryStore(initial)

	renderer, err := render.New(render.WithWorkingDir(t.TempDir()))
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	h.ctrl, err = panel.New(h.host,
		panel.WithResources(resource.NewService()),
		panel.WithRenderer(renderer),
		panel.WithNotifier(h.notifier),
	)
	if err != nil {
		t.Fatalf("controller: %v", err)
	}
	h.app, err = app.New(h.ctrl, h.store,
		app.WithConfigurator(configflow.New(h.driver, h.store)),
		app.WithNotifier(h.notifier),
		app.WithWatcher(h.watcher),
		app.WithRoot(root),
	)
	if err != nil {
		t.Fatalf("app: %v", err)
	}
	return h
}

// pickBeta answers the configuration flow with b.json as the schema.
func pickBeta(paths map[string]string) []prompt.Answer {
	return []prompt.Answer{
		{Text: paths["b.json"]},
		{},
		{},
		{Yes: true},
	}
}

func TestOpenEditor_UsesStoredConfig(t *testing.T) {
	h := newHarness(t, "a.json", nil)
	p, err := h.app.OpenEditor(context.Background())
	if err != nil || p == nil {
		t.Fatalf("open: %v", err)
	}
	if p.Title() != "Alpha" {
		t.Fatalf("unexpected title %q", p.Title())
	}
	if len(h.driver.Asked()) != 0 {
		t.Fatalf("stored config must skip the configuration flow")
	}
	if diff := cmp.Diff([]string{h.paths["a.json"]}, h.watcher.last()); diff != "" {
		t.Fatalf("watched paths mismatch (-want +got):\n%s", diff)
	}
}

func TestOpenEditor_RunsFlowWithoutConfig(t *testing.T) {
	h := newHarness(t, "", pickBeta)

	p, err := h.app.OpenEditor(context.Background())
	if err != nil || p == nil {
		t.Fatalf("open: %v", err)
	}
	if p.Title() != "Beta" {
		t.Fatalf("unexpected title %q", p.Title())
	}
	stored, ok, _ := h.store.Get(context.Background())
	if !ok || stored.SchemaPath != h.paths["b.json"] {
		t.Fatalf("flow result must be stored, got %+v", stored)
	}
}

func TestOpenEditor_CancelledFlow(t *testing.T) {
	h := newHarness(t, "", func(map[string]string) []prompt.Answer {
		return []prompt.Answer{{Err: prompt.ErrAborted}}
	})
	p, err := h.app.OpenEditor(context.Background())
	if err != nil || p != nil {
		t.Fatalf("expected silent cancellation, got %v %v", p, err)
	}
	if h.host.Created() != 0 || h.store.Saves() != 0 {
		t.Fatalf("cancelled flow must not open or save")
	}
}

func TestOpenConfig_ReloadsLivePanel(t *testing.T) {
	h := newHarness(t, "a.json", pickBeta)
	first, err := h.app.OpenEditor(context.Background())
	if err != nil || first.Title() != "Alpha" {
		t.Fatalf("open: %v", err)
	}

	again, err := h.app.OpenConfig(context.Background())
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if again != first || h.host.Created() != 1 {
		t.Fatalf("expected the live panel to be reused")
	}
	if first.Title() != "Beta" {
		t.Fatalf("expected reload with new schema, got %q", first.Title())
	}
	if diff := cmp.Diff([]string{"Form reloaded with new schema configuration"}, h.notifier.Filter("info")); diff != "" {
		t.Fatalf("unexpected notices (-want +got):\n%s", diff)
	}
}

func TestReloadForm(t *testing.T) {
	h := newHarness(t, "", nil)
	err := h.app.ReloadForm(context.Background())
	if !errors.Is(err, app.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if diff := cmp.Diff([]string{"Please configure the editor first."}, h.notifier.Filter("error")); diff != "" {
		t.Fatalf("unexpected errors (-want +got):\n%s", diff)
	}

	h = newHarness(t, "a.json", nil)
	if err := h.app.ReloadForm(context.Background()); err != nil {
		t.Fatalf("reload without panel: %v", err)
	}
	if h.host.Created() != 0 {
		t.Fatalf("reload must not open a panel")
	}

	p, _ := h.app.OpenEditor(context.Background())
	_ = h.store.Save(context.Background(), editor.Config{SchemaPath: h.paths["b.json"]})
	if err := h.app.ReloadForm(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if p.Title() != "Beta" || h.host.Last().Reveals() != 1 {
		t.Fatalf("expected reload and reveal, title %q", p.Title())
	}
}

func TestExecute(t *testing.T) {
	h := newHarness(t, "a.json", nil)
	ctx := context.Background()

	if err := h.app.Execute(ctx, "jsonEditor.nope"); !errors.Is(err, app.ErrUnknownCommand) {
		t.Fatalf("expected ErrUnknownCommand, got %v", err)
	}
	if err := h.app.Execute(ctx, panel.BusOpenEditor); err != nil {
		t.Fatalf("openEditor: %v", err)
	}
	if h.ctrl.Current() == nil {
		t.Fatalf("expected live panel")
	}
	if err := h.app.Execute(ctx, panel.BusReloadForm); err != nil {
		t.Fatalf("reloadForm: %v", err)
	}
}

func TestOpenConfigMessageRunsFlow(t *testing.T) {
	h := newHarness(t, "a.json", pickBeta)
	p, err := h.app.OpenEditor(context.Background())
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if err := h.host.Last().EmitCommand(context.Background(), dispatch.CommandOpenConfig, nil); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if p.Title() != "Beta" {
		t.Fatalf("expected the surface command to run the configuration flow, title %q", p.Title())
	}
}

func TestFilesChangedReloadsPanel(t *testing.T) {
	h := newHarness(t, "a.json", nil)
	h.app.FilesChanged(context.Background(), []string{"ignored"})

	p, _ := h.app.OpenEditor(context.Background())
	before := len(h.host.Last().Contents())
	h.app.FilesChanged(context.Background(), []string{h.paths["a.json"]})
	if got := len(h.host.Last().Contents()); got != before+2 {
		t.Fatalf("expected a reload, documents %d -> %d", before, got)
	}
	if p.State() != panel.StateReady {
		t.Fatalf("unexpected state %s", p.State())
	}
}
