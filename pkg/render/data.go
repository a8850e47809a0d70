package render

import (
	"strings"

	"github.com/goliatone/go-jsoneditor/pkg/render/template"
)

// Input is the schema, choices and data triple handed to the renderer. Root is
// only used as a template search hint.
type Input struct {
	Root    string
	Schema  any
	Choices any
	Data    any
}

func (in Input) normalized() Input {
	out := in
	if out.Schema == nil {
		out.Schema = map[string]any{}
	}
	if out.Choices == nil {
		out.Choices = map[string]any{}
	}
	if out.Data == nil {
		out.Data = map[string]any{}
	}
	return out
}

// EmbedData serialises v for placement inside a script body. Every value the
// renderer injects, error messages included, goes through it.
func EmbedData(v any) (string, error) {
	return template.ScriptJSON(v)
}

// Definitions returns schema.definitions, else schema.$defs, else an empty
// object.
func Definitions(schema any) any {
	return firstPresent(schema, "definitions", "$defs")
}

// ConditionalRules returns choices.conditional_rules or an empty object.
func ConditionalRules(choices any) any {
	return firstPresent(choices, "conditional_rules")
}

func firstPresent(doc any, keys ...string) any {
	m, ok := doc.(map[string]any)
	if !ok {
		return map[string]any{}
	}
	for _, key := range keys {
		if v, ok := m[key]; ok && v != nil {
			return v
		}
	}
	return map[string]any{}
}

// InjectDataBlock inserts block into doc before the head closing tag. Without
// one it goes before the first inline <script> element (one without a src
// attribute), and without that it is appended.
func InjectDataBlock(doc, block string) string {
	if idx := indexFoldASCII(doc, "</head>", 0); idx >= 0 {
		return doc[:idx] + block + "\n" + doc[idx:]
	}
	if idx := indexInlineScript(doc); idx >= 0 {
		return doc[:idx] + block + doc[idx:]
	}
	return doc + block
}

// indexFoldASCII finds substr in s from offset, folding ASCII letters only.
// Offsets always refer to s itself, whatever runes precede the match.
func indexFoldASCII(s, substr string, offset int) int {
	n := len(substr)
	for i := offset; i+n <= len(s); i++ {
		if equalFoldASCII(s[i:i+n], substr) {
			return i
		}
	}
	return -1
}

func equalFoldASCII(a, b string) bool {
	for i := 0; i < len(a); i++ {
		if lowerASCII(a[i]) != lowerASCII(b[i]) {
			return false
		}
	}
	return true
}

func lowerASCII(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// indexInlineScript finds the first "<script" tag that is followed by '>' or
// whitespace and carries no src attribute. Tags such as <scripts> and
// external scripts are skipped.
func indexInlineScript(doc string) int {
	offset := 0
	for {
		pos := indexFoldASCII(doc, "<script", offset)
		if pos < 0 {
			return -1
		}
		next := pos + len("<script")
		if next >= len(doc) {
			return -1
		}
		switch doc[next] {
		case '>':
			return pos
		case ' ', '\t', '\n', '\r', '/':
			end := strings.IndexByte(doc[next:], '>')
			if end < 0 {
				return -1
			}
			if !hasAttr(doc[next:next+end], "src") {
				return pos
			}
			offset = next + end
			continue
		}
		offset = next
	}
}

// hasAttr reports whether the raw attribute text of a tag names attr.
// Quoted values are skipped so src inside another attribute's value does not
// count.
func hasAttr(attrs, attr string) bool {
	i := 0
	for i < len(attrs) {
		switch c := attrs[i]; {
		case c == '"' || c == '\'':
			end := strings.IndexByte(attrs[i+1:], c)
			if end < 0 {
				return false
			}
			i += end + 2
		case isAttrNameByte(c):
			start := i
			for i < len(attrs) && isAttrNameByte(attrs[i]) {
				i++
			}
			if i-start == len(attr) && equalFoldASCII(attrs[start:i], attr) &&
				(start == 0 || !isAttrNameByte(attrs[start-1])) && !afterEquals(attrs, start) {
				return true
			}
		default:
			i++
		}
	}
	return false
}

// afterEquals reports whether the token at start is an unquoted attribute
// value (the previous non-space byte is '=').
func afterEquals(attrs string, start int) bool {
	for j := start - 1; j >= 0; j-- {
		switch attrs[j] {
		case ' ', '\t', '\n', '\r':
			continue
		case '=':
			return true
		default:
			return false
		}
	}
	return false
}

func isAttrNameByte(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '/', '=', '>', '"', '\'':
		return false
	}
	return true
}
