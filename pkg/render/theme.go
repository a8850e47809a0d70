package render

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// Theme is the resolved styling applied to every rendered document.
type Theme struct {
	Name    string
	Variant string
	Tokens  map[string]string
	CSSVars map[string]string
}

// ThemeFromSelection flattens a go-theme selection: manifest tokens first,
// then the selected variant's overrides. Each token becomes a --token CSS
// variable.
func ThemeFromSelection(sel *theme.Selection) Theme {
	if sel == nil {
		return Theme{}
	}
	out := Theme{
		Name:    sel.Theme,
		Variant: sel.Variant,
		Tokens:  map[string]string{},
	}
	if sel.Manifest != nil {
		for k, v := range sel.Manifest.Tokens {
			out.Tokens[k] = v
		}
		if variant, ok := sel.Manifest.Variants[sel.Variant]; ok {
			for k, v := range variant.Tokens {
				out.Tokens[k] = v
			}
		}
	}
	out.CSSVars = make(map[string]string, len(out.Tokens))
	for k, v := range out.Tokens {
		name := strings.TrimSpace(k)
		if name == "" {
			continue
		}
		if !strings.HasPrefix(name, "--") {
			name = "--" + name
		}
		out.CSSVars[name] = v
	}
	return out
}

// Style renders the CSS variables as a <style> element. Declarations whose
// name or value could escape the rule are dropped.
func (t Theme) Style() string {
	if len(t.CSSVars) == 0 {
		return ""
	}
	names := make([]string, 0, len(t.CSSVars))
	for name := range t.CSSVars {
		if safeCSS(name) && safeCSS(t.CSSVars[name]) {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(`<style id="jsoneditor-theme">:root {`)
	for _, name := range names {
		fmt.Fprintf(&b, " %s: %s;", name, strings.TrimSpace(t.CSSVars[name]))
	}
	b.WriteString(" }</style>")
	return b.String()
}

func safeCSS(s string) bool {
	return strings.TrimSpace(s) != "" && !strings.ContainsAny(s, "<>{};\\\"'")
}
