package panel

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// DefaultTitle is used when the schema declares no usable title.
const DefaultTitle = "JSON Editor"

const maxTitleLength = 120

var (
	titlePolicyOnce sync.Once
	titlePolicy     *bluemonday.Policy
)

// TitleFromSchema returns schema.title stripped of markup, or DefaultTitle.
func TitleFromSchema(schema any) string {
	doc, ok := schema.(map[string]any)
	if !ok {
		return DefaultTitle
	}
	raw, ok := doc["title"].(string)
	if !ok {
		return DefaultTitle
	}
	cleaned := sanitizeTitle(raw)
	if cleaned == "" {
		return DefaultTitle
	}
	return cleaned
}

func sanitizeTitle(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	stripped := html.UnescapeString(titleSanitizer().Sanitize(trimmed))
	cleaned := strings.Join(strings.Fields(stripped), " ")
	if runes := []rune(cleaned); len(runes) > maxTitleLength {
		cleaned = strings.TrimSpace(string(runes[:maxTitleLength])) + "..."
	}
	return cleaned
}

func titleSanitizer() *bluemonday.Policy {
	titlePolicyOnce.Do(func() {
		titlePolicy = bluemonday.StrictPolicy()
	})
	return titlePolicy
}
