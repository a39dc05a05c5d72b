package instancetab

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func newTestService(t *testing.T, renderer Renderer, opts Options) (*Service, *Registry) {
	t.Helper()
	reg := NewRegistry()
	for _, tab := range builtInTabs() {
		require.NoError(t, reg.RegisterProvider(tab))
	}
	opts.Registry = reg
	opts.Renderer = renderer
	return NewService(opts), reg
}

func TestServiceRenderReturnsMarkup(t *testing.T) {
	renderer := &stubRenderer{}
	telemetry := &stubTelemetry{}
	svc, _ := newTestService(t, renderer, Options{Telemetry: telemetry})

	result := svc.Render(context.Background(), RenderRequest{Code: SecSusTabCode, Instance: awsInstance()})
	require.NoError(t, result.Err)
	assert.True(t, result.OK())
	assert.False(t, result.Degraded)
	assert.Equal(t, "<div>hbs/addon-url</div>", result.Markup)
	assert.Equal(t, SecSusTemplate, result.Template)
	assert.Equal(t, SecSusTabName, result.Name)
	assert.NotEmpty(t, result.RequestID)
	assert.Equal(t, []string{"instancetab.render"}, telemetry.events)
}

func TestServiceRenderAlwaysProducesMarkup(t *testing.T) {
	svc, _ := newTestService(t, &stubRenderer{}, Options{})
	rapid.Check(t, func(rt *rapid.T) {
		instance := instanceGenerator().Draw(rt, "instance")
		code := rapid.SampledFrom([]string{LinksTabCode, SummaryTabCode, SecSusTabCode}).Draw(rt, "code")
		result := svc.Render(context.Background(), RenderRequest{Code: code, Instance: instance})
		if result.Err != nil || result.Markup == "" {
			rt.Fatalf("render %s: markup=%q err=%v", code, result.Markup, result.Err)
		}
	})
}

func TestServiceRenderFailureWithoutFallback(t *testing.T) {
	telemetry := &stubTelemetry{}
	svc, _ := newTestService(t, &stubRenderer{err: errors.New("template not found")}, Options{Telemetry: telemetry})

	result := svc.Render(context.Background(), RenderRequest{Code: LinksTabCode, Instance: awsInstance()})
	require.ErrorIs(t, result.Err, ErrRender)
	assert.False(t, result.OK())
	assert.Empty(t, result.Markup)
	assert.Equal(t, []string{"instancetab.render.error"}, telemetry.events)
}

func TestServiceInlineFallbackNamesTheTab(t *testing.T) {
	telemetry := &stubTelemetry{}
	svc, _ := newTestService(t, &stubRenderer{err: errors.New("template not found")}, Options{
		Fallback:  InlineFallback,
		Telemetry: telemetry,
	})

	result := svc.Render(context.Background(), RenderRequest{Code: SecSusTabCode, Instance: awsInstance()})
	assert.True(t, result.Degraded)
	assert.True(t, result.OK())
	assert.ErrorIs(t, result.Err, ErrRender)
	assert.Contains(t, result.Markup, SecSusTabName)
	assert.Equal(t, []string{"instancetab.render.fallback"}, telemetry.events)
}

func TestServiceFallbackCoversProviderErrors(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterProvider(failingTab{TabMeta{TabCode: "broken", TabName: "Broken <Tab>"}}))
	renderer := &stubRenderer{}
	svc := NewService(Options{Registry: reg, Renderer: renderer, Fallback: InlineFallback})

	result := svc.Render(context.Background(), RenderRequest{Code: "broken", Instance: &Instance{ID: "1"}})
	assert.True(t, result.Degraded)
	assert.Contains(t, result.Markup, "Broken &lt;Tab&gt;")
	assert.Zero(t, renderer.calls)
}

func TestServiceLookupFailuresSkipFallback(t *testing.T) {
	svc, _ := newTestService(t, &stubRenderer{}, Options{
		Fallback:   InlineFallback,
		Authorizer: PermissionAuthorizer{},
	})

	missing := svc.Render(context.Background(), RenderRequest{Code: "nope", Instance: awsInstance()})
	assert.ErrorIs(t, missing.Err, ErrTabNotFound)
	assert.False(t, missing.Degraded)

	noInstance := svc.Render(context.Background(), RenderRequest{Code: LinksTabCode})
	assert.ErrorIs(t, noInstance.Err, ErrMissingInstance)

	hidden := svc.Render(context.Background(), RenderRequest{Code: SecSusTabCode, Instance: awsInstance()})
	assert.ErrorIs(t, hidden.Err, ErrTabHidden)
	assert.Empty(t, hidden.Markup)
}

func TestServiceMissingRenderer(t *testing.T) {
	svc, _ := newTestService(t, nil, Options{})
	result := svc.Render(context.Background(), RenderRequest{Code: LinksTabCode, Instance: awsInstance()})
	assert.ErrorIs(t, result.Err, errMissingRenderer)
}

func TestServiceUsesManifestTemplateOverride(t *testing.T) {
	renderer := &stubRenderer{}
	svc, reg := newTestService(t, renderer, Options{})
	require.NoError(t, reg.RegisterDefinition(TabDefinition{Code: LinksTabCode, Template: "renderer/hbs/custom-links.html"}))

	result := svc.Render(context.Background(), RenderRequest{Code: LinksTabCode, Instance: awsInstance()})
	require.NoError(t, result.Err)
	assert.Equal(t, "hbs/custom-links", renderer.lastTemplate)
	assert.Equal(t, "hbs/custom-links", result.Template)
}

func TestServiceCachesMarkup(t *testing.T) {
	renderer := &stubRenderer{}
	cache := NewMarkupCache(time.Minute)
	svc, _ := newTestService(t, renderer, Options{Cache: cache})

	for i := 0; i < 3; i++ {
		result := svc.Render(context.Background(), RenderRequest{Code: SummaryTabCode, Instance: awsInstance()})
		require.NoError(t, result.Err)
	}
	assert.Equal(t, 1, renderer.calls)
	assert.Equal(t, 1, cache.Len())

	other := awsInstance()
	other.Name = "web-02"
	require.NoError(t, svc.Render(context.Background(), RenderRequest{Code: SummaryTabCode, Instance: other}).Err)
	assert.Equal(t, 2, renderer.calls)
}

func TestServiceVisibleTabs(t *testing.T) {
	svc, reg := newTestService(t, &stubRenderer{}, Options{})
	require.NoError(t, reg.RegisterDefinition(TabDefinition{Code: LinksTabCode, NameLocalized: map[string]string{"es": "Enlaces"}}))

	tabs := svc.VisibleTabs(context.Background(), awsInstance(), Viewer{UserID: "u1", Locale: "es"}, AccessScope{})
	require.Len(t, tabs, 3)
	assert.Equal(t, SecSusTabCode, tabs[0].Code)
	assert.Equal(t, "Enlaces", tabs[1].Name)

	assert.Nil(t, svc.VisibleTabs(context.Background(), nil, Viewer{}, AccessScope{}))
}

func TestServiceVisibleTabsRespectsPermissions(t *testing.T) {
	svc, _ := newTestService(t, &stubRenderer{}, Options{Authorizer: PermissionAuthorizer{}})

	anonymous := svc.VisibleTabs(context.Background(), awsInstance(), Viewer{}, AccessScope{})
	assert.Len(t, anonymous, 2)

	granted := Viewer{Permissions: []Permission{{Code: DefaultPermission().Code, Access: []AccessType{AccessRead}}}}
	assert.Len(t, svc.VisibleTabs(context.Background(), awsInstance(), granted, AccessScope{}), 3)
}

func TestPermissionAuthorizerMinAccess(t *testing.T) {
	tab := NewSecSusTab(Settings{})
	readOnly := Viewer{Permissions: []Permission{{Code: DefaultPermission().Code, Access: []AccessType{AccessRead}}}}
	assert.True(t, PermissionAuthorizer{}.CanViewTab(context.Background(), readOnly, AccessScope{}, tab))
	assert.False(t, PermissionAuthorizer{MinAccess: AccessFull}.CanViewTab(context.Background(), readOnly, AccessScope{}, tab))
	assert.True(t, PermissionAuthorizer{MinAccess: AccessFull}.CanViewTab(context.Background(), Viewer{}, AccessScope{}, NewLinksTab()))
}
