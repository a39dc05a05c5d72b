package instancetab

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func builtInTabs() []TabProvider {
	return []TabProvider{NewLinksTab(), NewSummaryTab(), NewSecSusTab(Settings{})}
}

// Every built-in tab is visible to everyone today. Access control lives in the
// Service Authorizer; revisit if providers start gating on viewer permissions.
func TestBuiltInTabsAlwaysShow(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		instance := instanceGenerator().Draw(rt, "instance")
		viewer := Viewer{UserID: rapid.String().Draw(rt, "viewer")}
		scope := AccessScope{AccountID: rapid.String().Draw(rt, "account")}
		for _, tab := range builtInTabs() {
			if !tab.Show(context.Background(), instance, viewer, scope) {
				rt.Fatalf("%s hidden for instance %+v", tab.Code(), instance)
			}
		}
	})
}

func TestBuiltInTabCodesAreStable(t *testing.T) {
	for _, tab := range builtInTabs() {
		first := tab.Code()
		for i := 0; i < 3; i++ {
			assert.Equal(t, first, tab.Code())
		}
		assert.NotEmpty(t, tab.Name())
		assert.Equal(t, SectionInstance, tab.TabSection())
	}
}

func TestLinksTabPayloadIgnoresInstance(t *testing.T) {
	tab := NewLinksTab()
	rapid.Check(t, func(rt *rapid.T) {
		view, err := tab.Render(context.Background(), instanceGenerator().Draw(rt, "instance"))
		if err != nil {
			rt.Fatalf("render: %v", err)
		}
		payload, ok := view.Data.(RenderPayload)
		if !ok {
			rt.Fatalf("unexpected payload type %T", view.Data)
		}
		links, ok := payload["links"].([]map[string]any)
		if !ok || len(links) != 1 {
			rt.Fatalf("expected exactly one link, got %#v", payload["links"])
		}
		if links[0]["label"] != "Test Link" || links[0]["href"] != "https://example.com" {
			rt.Fatalf("unexpected link %#v", links[0])
		}
		if len(payload) != 1 {
			rt.Fatalf("expected only the links key, got %v", reflect.ValueOf(payload).MapKeys())
		}
	})
}

func TestLinksTabBuildsFreshPayload(t *testing.T) {
	tab := NewLinksTab()
	first, err := tab.Render(context.Background(), nil)
	require.NoError(t, err)
	first.Data.(RenderPayload)["links"] = nil

	second, err := tab.Render(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, second.Data.(RenderPayload)["links"], 1)
}

func TestSummaryTabPassesInstanceThrough(t *testing.T) {
	tab := NewSummaryTab()
	rapid.Check(t, func(rt *rapid.T) {
		instance := instanceGenerator().Draw(rt, "instance")
		before := *instance
		view, err := tab.Render(context.Background(), instance)
		if err != nil {
			rt.Fatalf("render: %v", err)
		}
		got, ok := view.Data.(*Instance)
		if !ok || got != instance {
			rt.Fatalf("expected the same instance pointer, got %T", view.Data)
		}
		if !reflect.DeepEqual(before, *instance) {
			rt.Fatalf("instance mutated")
		}
	})
}

func TestSecSusTabPayload(t *testing.T) {
	instance := awsInstance()
	view, err := NewSecSusTab(Settings{}).Render(context.Background(), instance)
	require.NoError(t, err)
	assert.Equal(t, SecSusTemplate, view.Template)

	payload := view.Data.(RenderPayload)
	assert.Same(t, instance, payload["instance"])
	summary := payload["summary"].(map[string]any)
	assert.Equal(t, CloudAWS, summary["provider"])
	security := summary["security"].(map[string]any)
	assert.Equal(t, "https://us-east-1.console.aws.amazon.com/securityhub/home?region=us-east-1", security["url"])
	assert.Equal(t, true, security["enabled"])
}

func TestSecSusTabDeclaresPermission(t *testing.T) {
	perms := NewSecSusTab(Settings{}).RequiredPermissions()
	require.Len(t, perms, 1)
	assert.Equal(t, DefaultPermission(), perms[0])
	assert.True(t, perms[0].Grants(AccessRead))
}
