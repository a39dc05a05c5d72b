package queries

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-instancetab/components/instancetab"
)

func newService(t *testing.T, renderErr error, fallback instancetab.FallbackPolicy) *instancetab.Service {
	t.Helper()
	reg := instancetab.NewRegistry()
	require.NoError(t, reg.RegisterProvider(instancetab.NewLinksTab()))
	renderer := instancetab.RenderFunc(func(name string, _ any, _ ...io.Writer) (string, error) {
		if renderErr != nil {
			return "", renderErr
		}
		return "<div>" + name + "</div>", nil
	})
	return instancetab.NewService(instancetab.Options{Registry: reg, Renderer: renderer, Fallback: fallback})
}

func TestRenderTabQuery(t *testing.T) {
	q := NewRenderTabQuery(newService(t, nil, nil))
	result, err := q.Query(context.Background(), RenderTabInput{
		Code:     instancetab.LinksTabCode,
		Instance: &instancetab.Instance{ID: "1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "<div>hbs/instance-links</div>", result.Markup)
}

func TestRenderTabQuerySurfacesFailures(t *testing.T) {
	q := NewRenderTabQuery(newService(t, errors.New("missing template"), nil))
	_, err := q.Query(context.Background(), RenderTabInput{
		Code:     instancetab.LinksTabCode,
		Instance: &instancetab.Instance{ID: "1"},
	})
	assert.ErrorIs(t, err, instancetab.ErrRender)
}

func TestRenderTabQueryReturnsDegradedResults(t *testing.T) {
	q := NewRenderTabQuery(newService(t, errors.New("missing template"), instancetab.InlineFallback))
	result, err := q.Query(context.Background(), RenderTabInput{
		Code:     instancetab.LinksTabCode,
		Instance: &instancetab.Instance{ID: "1"},
	})
	require.NoError(t, err)
	assert.True(t, result.Degraded)
	assert.Contains(t, result.Markup, "Links")
}

func TestVisibleTabsQuery(t *testing.T) {
	q := NewVisibleTabsQuery(newService(t, nil, nil))
	tabs, err := q.Query(context.Background(), VisibleTabsInput{Instance: &instancetab.Instance{ID: "1"}})
	require.NoError(t, err)
	require.Len(t, tabs, 1)
	assert.Equal(t, instancetab.LinksTabCode, tabs[0].Code)

	_, err = q.Query(context.Background(), VisibleTabsInput{})
	assert.ErrorIs(t, err, instancetab.ErrMissingInstance)
}
