package template

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ScriptJSON serialises v as JSON that can be placed inside a <script>
// element. '&', '<' and '>' are written as \u0026, \u003c and \u003e so no
// string value can close the element early. A nil v is written as {}.
func ScriptJSON(v any) (string, error) {
	if v == nil {
		return "{}", nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(true)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("template: encode script json: %w", err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
