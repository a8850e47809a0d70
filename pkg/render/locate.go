package render

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrTemplateNotFound is returned when no form template exists in any known
// location.
var ErrTemplateNotFound = errors.New("render: form.html template file not found. Please check your installation")

// TemplateName is the file looked up in every candidate directory.
const TemplateName = "form.html"

var rootLayouts = [][]string{
	{"src", "media"},
	{"media"},
	{"out", "media"},
	{"dist", "media"},
	{},
}

var workDirLayouts = [][]string{
	{"src", "media"},
	{"media"},
}

// Candidates lists the template paths searched for root, in order, followed
// by the development layouts under workDir. Empty arguments are skipped.
func Candidates(root, workDir string) []string {
	var out []string
	add := func(base string, layouts [][]string) {
		if base == "" {
			return
		}
		for _, layout := range layouts {
			parts := append([]string{base}, layout...)
			out = append(out, filepath.Join(append(parts, TemplateName)...))
		}
	}
	add(root, rootLayouts)
	add(workDir, workDirLayouts)
	return out
}

type templateSource struct {
	origin string
	body   string
}

func (r *Renderer) locate(root string) (templateSource, error) {
	workDir := r.workDir
	if workDir == "" {
		if wd, err := os.Getwd(); err == nil {
			workDir = wd
		}
	}

	for _, candidate := range Candidates(root, workDir) {
		info, err := r.stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		data, err := os.ReadFile(candidate)
		if err != nil {
			return templateSource{}, fmt.Errorf("render: read template %q: %w", candidate, err)
		}
		return templateSource{origin: candidate, body: string(data)}, nil
	}

	if r.fallback != nil {
		data, err := fs.ReadFile(r.fallback, r.fallbackName)
		if err == nil {
			return templateSource{origin: "embedded:" + r.fallbackName, body: string(data)}, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return templateSource{}, fmt.Errorf("render: read embedded template: %w", err)
		}
	}
	return templateSource{}, ErrTemplateNotFound
}
