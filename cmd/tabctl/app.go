package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-instancetab/components/instancetab"
	"github.com/goliatone/go-instancetab/components/instancetab/commands"
	"github.com/goliatone/go-instancetab/internal/config"
)

// app is the host side of tabctl: a registry, the plugins loaded into it and
// the service rendering their tabs.
type app struct {
	registry *instancetab.Registry
	service  *instancetab.Service
	plugins  []*instancetab.Plugin
	log      logrus.FieldLogger
}

func newApp(ctx context.Context, cfg config.Config, logger logrus.FieldLogger, renderer instancetab.Renderer) (*app, error) {
	registry := instancetab.NewRegistry()
	if renderer == nil {
		var err error
		renderer, err = instancetab.NewTemplateRenderer()
		if err != nil {
			return nil, fmt.Errorf("tabctl: template renderer: %w", err)
		}
	}

	plugins := []*instancetab.Plugin{
		instancetab.NewPlugin(instancetab.PluginOptions{
			Code:     cfg.Plugin.Code,
			Name:     cfg.Plugin.Name,
			Settings: cfg.Settings,
			Logger:   logger,
		}),
		instancetab.NewPlugin(instancetab.PluginOptions{
			Code:   "instance-links-plugin",
			Name:   "Instance Links",
			Logger: logger,
			Factory: func(*instancetab.Plugin, instancetab.Host) (instancetab.TabProvider, error) {
				return instancetab.NewLinksTab(), nil
			},
		}),
		instancetab.NewPlugin(instancetab.PluginOptions{
			Code:   "instance-summary-plugin",
			Name:   "Instance Summary",
			Logger: logger,
			Factory: func(*instancetab.Plugin, instancetab.Host) (instancetab.TabProvider, error) {
				return instancetab.NewSummaryTab(), nil
			},
		}),
	}

	telemetry := instancetab.LogTelemetry{Logger: logger}
	for i, plugin := range plugins {
		input := commands.InitializePluginInput{}
		if i == 0 {
			input.ManifestPath = cfg.Plugin.Manifest
		}
		if err := commands.NewInitializePluginCommand(plugin, registry, telemetry).Execute(ctx, input); err != nil {
			return nil, fmt.Errorf("tabctl: initialize plugin %s: %w", plugin.Code(), err)
		}
	}

	opts := instancetab.Options{
		Registry:  registry,
		Renderer:  renderer,
		Cache:     instancetab.NewMarkupCache(cfg.Render.CacheTTL),
		Telemetry: telemetry,
		Logger:    logger,
	}
	if cfg.Render.Fallback {
		opts.Fallback = instancetab.InlineFallback
	}
	if cfg.Render.RequirePermissions {
		opts.Authorizer = instancetab.PermissionAuthorizer{}
	}

	return &app{
		registry: registry,
		service:  instancetab.NewService(opts),
		plugins:  plugins,
		log:      logger,
	}, nil
}

// close tears the plugins down in reverse order.
func (a *app) close(ctx context.Context) {
	for i := len(a.plugins) - 1; i >= 0; i-- {
		plugin := a.plugins[i]
		if err := commands.NewDestroyPluginCommand(plugin, nil).Execute(ctx, commands.DestroyPluginInput{}); err != nil {
			a.log.WithError(err).WithField("plugin", plugin.Code()).Warn("destroy plugin")
		}
	}
}
