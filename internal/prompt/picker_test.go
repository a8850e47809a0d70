package prompt

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-jsoneditor/pkg/resource"
)

func TestPicker_OpenFileRetriesUntilExisting(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "data.json")
	if err := os.WriteFile(existing, []byte(`{}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	driver := NewScripted(
		Answer{Text: filepath.Join(dir, "missing.json")},
		Answer{Text: dir},
		Answer{Text: "  " + existing + "  "},
	)

	got, err := NewPicker(driver).OpenFile(context.Background(), resource.PickerOptions{
		Title:   "Open Data File",
		Filters: resource.DefaultFilters,
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if got != existing {
		t.Fatalf("expected %q, got %q", existing, got)
	}
	if diff := cmp.Diff([]string{"Open Data File", "Open Data File", "Open Data File"}, driver.Asked()); diff != "" {
		t.Fatalf("unexpected prompts (-want +got):\n%s", diff)
	}
}

func TestPicker_AbortAndEmptyCancel(t *testing.T) {
	driver := NewScripted(Answer{Err: ErrAborted}, Answer{Text: ""})
	picker := NewPicker(driver)

	for i := 0; i < 2; i++ {
		got, err := picker.OpenFile(context.Background(), resource.PickerOptions{})
		if err != nil || got != "" {
			t.Fatalf("attempt %d: expected cancellation, got %q %v", i, got, err)
		}
	}
}

func TestPicker_SaveFileUsesDefaultName(t *testing.T) {
	driver := NewScripted(Answer{})
	got, err := NewPicker(driver).SaveFile(context.Background(), resource.PickerOptions{DefaultName: "data.json"})
	if err != nil || got != "data.json" {
		t.Fatalf("expected default name, got %q %v", got, err)
	}
	if driver.Asked()[0] != "Save file" {
		t.Fatalf("expected fallback label, got %q", driver.Asked()[0])
	}
}

func TestPicker_PropagatesDriverErrors(t *testing.T) {
	boom := errors.New("tty gone")
	_, err := NewPicker(NewScripted(Answer{Err: boom})).SaveFile(context.Background(), resource.PickerOptions{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected driver error, got %v", err)
	}
}

func TestFilterHelp(t *testing.T) {
	got := filterHelp(resource.DefaultFilters)
	if got != "JSON files (*.json); All files (*.*)" {
		t.Fatalf("unexpected help %q", got)
	}
}

func TestTranslateSurveyErr(t *testing.T) {
	boom := errors.New("boom")
	if translateSurveyErr(boom) != boom {
		t.Fatalf("unrelated errors must pass through")
	}
}
