package goadmin_test

import (
	"context"
	"testing"

	core "github.com/goliatone/go-instancetab/components/instancetab"
	"github.com/goliatone/go-instancetab/pkg/goadmin"
	instancetabpkg "github.com/goliatone/go-instancetab/pkg/instancetab"
)

type stubMenuBuilder struct {
	items []goadmin.MenuItem
}

func (s *stubMenuBuilder) EnsureMenuItem(_ context.Context, _ string, item goadmin.MenuItem) error {
	s.items = append(s.items, item)
	return nil
}

type overviewTab struct {
	core.TabMeta
}

func (overviewTab) Show(context.Context, *core.Instance, core.Viewer, core.AccessScope) bool {
	return true
}

func (overviewTab) Render(context.Context, *core.Instance) (core.View, error) {
	return core.View{Template: "hbs/fleet"}, nil
}

func TestAdminBootstrapSeedsOverviewMenu(t *testing.T) {
	builder := &stubMenuBuilder{}
	registry := core.NewRegistry()
	fleet := instancetabpkg.NewPlugin(core.PluginOptions{
		Code: "fleet-plugin",
		Factory: func(*core.Plugin, core.Host) (core.TabProvider, error) {
			return overviewTab{core.TabMeta{TabCode: "fleet-tab", TabName: "Fleet", Section: core.SectionOverview}}, nil
		},
	})
	admin, err := goadmin.New(goadmin.Config{
		EnableTabs:  true,
		Registry:    registry,
		Plugins:     []*instancetabpkg.Plugin{instancetabpkg.NewPlugin(core.PluginOptions{}), fleet},
		MenuBuilder: builder,
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := admin.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	if got := len(registry.Providers()); got != 2 {
		t.Fatalf("expected 2 providers, got %d", got)
	}
	if len(builder.items) != 1 {
		t.Fatalf("expected 1 menu item, got %d", len(builder.items))
	}
	if item := builder.items[0]; item.Label != "Fleet" || item.Route != "admin.instances.tabs.fleet-tab" {
		t.Fatalf("unexpected menu item %+v", item)
	}
	if admin.Registry() == nil {
		t.Fatalf("expected registry")
	}
}

func TestAdminBootstrapIsRepeatable(t *testing.T) {
	registry := core.NewRegistry()
	admin, err := goadmin.New(goadmin.Config{
		EnableTabs: true,
		Registry:   registry,
		Plugins:    []*instancetabpkg.Plugin{instancetabpkg.NewPlugin(core.PluginOptions{})},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := admin.Bootstrap(context.Background()); err != nil {
			t.Fatalf("Bootstrap %d returned error: %v", i, err)
		}
	}
	if got := len(registry.Providers()); got != 1 {
		t.Fatalf("expected 1 provider, got %d", got)
	}
}

func TestAdminRequiresRegistryWhenEnabled(t *testing.T) {
	if _, err := goadmin.New(goadmin.Config{EnableTabs: true}); err == nil {
		t.Fatalf("expected error without registry")
	}
}

func TestAdminDisabledSkipsBootstrap(t *testing.T) {
	builder := &stubMenuBuilder{}
	admin, err := goadmin.New(goadmin.Config{
		EnableTabs:  false,
		MenuBuilder: builder,
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := admin.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	if len(builder.items) != 0 {
		t.Fatalf("expected no menu items, got %d", len(builder.items))
	}
	if admin.Registry() != nil {
		t.Fatalf("expected nil registry when disabled")
	}
}
