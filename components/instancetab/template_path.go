package instancetab

import (
	"path"
	"strings"
)

const templateExtension = ".html"

// ResolveTemplateName normalizes a template reference to the name the embedded
// renderer understands. "renderer/hbs/x", "hbs/x" and "hbs/x.html" all resolve
// to "hbs/x".
func ResolveTemplateName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimLeft(path.Clean("/"+name), "/")
	name = strings.TrimPrefix(name, "renderer/")
	for _, ext := range []string{templateExtension, ".hbs"} {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}
