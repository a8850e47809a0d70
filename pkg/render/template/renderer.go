package template

// TemplateRenderer executes named or inline templates against a flat data
// map. The content renderer only depends on this contract.
type TemplateRenderer interface {
	RenderTemplate(name string, data map[string]any) (string, error)
	RenderString(content string, data map[string]any) (string, error)
}
