package web

import (
	_ "embed"
	"encoding/json"
	"strings"

	"github.com/goliatone/go-jsoneditor/pkg/render"
)

//go:embed bridge.js
var bridgeScript string

// withBridge injects the host bridge so page code can call acquireHostApi.
func withBridge(doc, base string) string {
	encoded, _ := json.Marshal(strings.TrimRight(base, "/"))
	var b strings.Builder
	b.WriteString("<script>window.__jsonEditorBase = ")
	b.Write(encoded)
	b.WriteString(";</script>\n<script>\n")
	b.WriteString(bridgeScript)
	b.WriteString("</script>")
	return render.InjectDataBlock(doc, b.String())
}
