package instancetab

import (
	"fmt"
	"html"
	"io"
)

// Renderer describes the template renderer contract supplied by the host.
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
}

// RenderFunc adapts a plain function to Renderer.
type RenderFunc func(name string, data any, out ...io.Writer) (string, error)

func (f RenderFunc) Render(name string, data any, out ...io.Writer) (string, error) {
	return f(name, data, out...)
}

// RenderResult is the outcome of rendering one tab. Err is set when rendering
// failed; Degraded marks markup produced by a FallbackPolicy instead.
type RenderResult struct {
	RequestID string
	Code      string
	Name      string
	Template  string
	Markup    string
	Err       error
	Degraded  bool
}

// OK reports whether the result carries markup the host can display.
func (r RenderResult) OK() bool {
	return r.Err == nil || r.Degraded
}

// FallbackPolicy turns a failed render into substitute markup. Returning
// ok=false keeps the failure.
type FallbackPolicy interface {
	Fallback(result RenderResult) (markup string, ok bool)
}

// FallbackFunc adapts a function to FallbackPolicy.
type FallbackFunc func(result RenderResult) (string, bool)

func (f FallbackFunc) Fallback(result RenderResult) (string, bool) { return f(result) }

// InlineFallback renders a minimal inline panel naming the tab.
var InlineFallback FallbackPolicy = FallbackFunc(func(result RenderResult) (string, bool) {
	name := result.Name
	if name == "" {
		name = result.Code
	}
	return fmt.Sprintf(`<div class="instance-tab instance-tab--fallback"><h3>%s</h3><p>This tab could not be rendered.</p></div>`,
		html.EscapeString(name)), true
})

type noFallback struct{}

func (noFallback) Fallback(RenderResult) (string, bool) { return "", false }
