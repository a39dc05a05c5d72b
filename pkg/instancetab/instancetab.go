package instancetab

import (
	core "github.com/goliatone/go-instancetab/components/instancetab"
)

// Service exposes the underlying components/instancetab.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// RenderRequest re-export for convenience.
type RenderRequest = core.RenderRequest

// RenderResult re-export for convenience.
type RenderResult = core.RenderResult

// Plugin is the registrar hosts initialize once per process.
type Plugin = core.Plugin

// PluginOptions re-export for convenience.
type PluginOptions = core.PluginOptions

// NewService proxies to the internal constructor.
func NewService(opts Options) *Service {
	return core.NewService(opts)
}

// NewPlugin proxies to the internal constructor.
func NewPlugin(opts PluginOptions) *Plugin {
	return core.NewPlugin(opts)
}
