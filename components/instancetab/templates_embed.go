package instancetab

import (
	"embed"
	"fmt"
	"io/fs"

	template "github.com/goliatone/go-template"
)

//go:embed templates/hbs/*.html
var embeddedTemplates embed.FS

// NewTemplateRenderer creates a go-template renderer backed by the embedded
// templates. Template names are relative to the templates directory, e.g.
// hbs/addon-url.
func NewTemplateRenderer() (Renderer, error) {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return nil, fmt.Errorf("instancetab: embedded templates: %w", err)
	}
	return template.NewRenderer(
		template.WithFS(sub),
		template.WithExtension(templateExtension),
	)
}
