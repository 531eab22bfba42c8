package interfaces

import (
	"io"
)

// TemplateRenderer is the external templating collaborator. The engine hands
// it a template identifier plus a context mapping and expects rendered output
// back; it never inspects template syntax itself.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
