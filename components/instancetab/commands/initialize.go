package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-instancetab/components/instancetab"
)

// InitializePluginInput triggers plugin bootstrap against the configured host.
type InitializePluginInput struct {
	ManifestPath string
}

type pluginLifecycle interface {
	Code() string
	Provider() instancetab.TabProvider
	Initialize(ctx context.Context, host instancetab.Host) error
	Destroy(ctx context.Context) error
}

type manifestLoader interface {
	LoadManifestDocument(doc *instancetab.TabManifestDocument) error
}

// InitializePluginCommand initializes the plugin and registers an optional tab
// manifest. The manifest is read and validated before the plugin starts but
// only registered once initialization succeeded, so a failed bootstrap leaves
// no definitions behind.
type InitializePluginCommand struct {
	plugin    pluginLifecycle
	host      instancetab.Host
	telemetry Telemetry
}

// NewInitializePluginCommand wires dependencies.
func NewInitializePluginCommand(plugin pluginLifecycle, host instancetab.Host, telemetry Telemetry) *InitializePluginCommand {
	return &InitializePluginCommand{plugin: plugin, host: host, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[InitializePluginInput] = (*InitializePluginCommand)(nil)

// Execute runs the bootstrap pipeline.
func (c *InitializePluginCommand) Execute(ctx context.Context, msg InitializePluginInput) error {
	if c.plugin == nil {
		return errors.New("initialize command requires plugin")
	}
	var (
		loader   manifestLoader
		manifest *instancetab.TabManifestDocument
	)
	if msg.ManifestPath != "" {
		var ok bool
		if loader, ok = c.host.(manifestLoader); !ok {
			return errors.New("initialize command: host cannot load manifests")
		}
		doc, err := instancetab.ReadManifest(msg.ManifestPath)
		if err != nil {
			return err
		}
		manifest = doc
	}
	if err := c.plugin.Initialize(ctx, c.host); err != nil {
		return err
	}
	if manifest != nil {
		if err := loader.LoadManifestDocument(manifest); err != nil {
			return err
		}
	}
	payload := map[string]any{"plugin": c.plugin.Code()}
	if provider := c.plugin.Provider(); provider != nil {
		payload["provider"] = provider.Code()
	}
	c.telemetry.Record(ctx, "instancetab.plugin.initialize", payload)
	return nil
}

// DestroyPluginInput triggers plugin teardown.
type DestroyPluginInput struct{}

// DestroyPluginCommand unregisters the plugin's provider from its host.
type DestroyPluginCommand struct {
	plugin    pluginLifecycle
	telemetry Telemetry
}

// NewDestroyPluginCommand wires dependencies.
func NewDestroyPluginCommand(plugin pluginLifecycle, telemetry Telemetry) *DestroyPluginCommand {
	return &DestroyPluginCommand{plugin: plugin, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[DestroyPluginInput] = (*DestroyPluginCommand)(nil)

// Execute tears the plugin down.
func (c *DestroyPluginCommand) Execute(ctx context.Context, _ DestroyPluginInput) error {
	if c.plugin == nil {
		return errors.New("destroy command requires plugin")
	}
	if err := c.plugin.Destroy(ctx); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "instancetab.plugin.destroy", map[string]any{"plugin": c.plugin.Code()})
	return nil
}
