package goadmin

import (
	"context"
	"errors"
	"fmt"

	core "github.com/goliatone/go-instancetab/components/instancetab"
	instancetabpkg "github.com/goliatone/go-instancetab/pkg/instancetab"
)

// MenuBuilder ensures instance tab entries exist within the admin navigation.
type MenuBuilder interface {
	EnsureMenuItem(ctx context.Context, menuCode string, item MenuItem) error
}

// MenuItem captures tab link metadata.
type MenuItem struct {
	Label    string
	Route    string
	Icon     string
	Position int
}

// Config wires the tab registry, plugins and feature flags into an admin shell.
type Config struct {
	EnableTabs  bool
	MenuCode    string
	MenuBuilder MenuBuilder
	Registry    *core.Registry
	Plugins     []*instancetabpkg.Plugin
	// RoutePrefix is joined with the tab code to build menu routes.
	RoutePrefix string
	Icon        string
	Locale      string
}

// Admin exposes helpers for go-admin style applications.
type Admin struct {
	cfg Config
}

// New creates an Admin helper that initializes tab plugins and seeds menus.
func New(cfg Config) (*Admin, error) {
	if cfg.EnableTabs && cfg.Registry == nil {
		return nil, errors.New("goadmin: tab registry is required when enabled")
	}
	if cfg.MenuCode == "" {
		cfg.MenuCode = "admin.main"
	}
	if cfg.RoutePrefix == "" {
		cfg.RoutePrefix = "admin.instances.tabs."
	}
	if cfg.Icon == "" {
		cfg.Icon = "cloud"
	}
	return &Admin{cfg: cfg}, nil
}

// Registry exposes the configured tab registry when enabled.
func (a *Admin) Registry() *core.Registry {
	if !a.cfg.EnableTabs {
		return nil
	}
	return a.cfg.Registry
}

// Bootstrap initializes every plugin against the registry and adds a menu
// entry for each overview tab. Instance tabs live on the instance page and
// get no menu entry.
func (a *Admin) Bootstrap(ctx context.Context) error {
	if !a.cfg.EnableTabs {
		return nil
	}
	for _, plugin := range a.cfg.Plugins {
		if plugin == nil {
			continue
		}
		if err := plugin.Initialize(ctx, a.cfg.Registry); err != nil {
			return fmt.Errorf("goadmin: initialize %s: %w", plugin.Code(), err)
		}
	}
	if a.cfg.MenuBuilder == nil {
		return nil
	}
	position := 0
	for _, provider := range a.cfg.Registry.Providers() {
		desc := a.cfg.Registry.Describe(provider, a.cfg.Locale)
		if desc.Section != core.SectionOverview {
			continue
		}
		item := MenuItem{
			Label:    desc.Name,
			Route:    a.cfg.RoutePrefix + desc.Code,
			Icon:     a.cfg.Icon,
			Position: position,
		}
		if err := a.cfg.MenuBuilder.EnsureMenuItem(ctx, a.cfg.MenuCode, item); err != nil {
			return err
		}
		position++
	}
	return nil
}
