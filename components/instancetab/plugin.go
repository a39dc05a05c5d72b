package instancetab

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

const (
	DefaultPluginCode = "addon-url-plugin-v3"
	DefaultPluginName = "Add-on URL"
)

var errMissingHost = errors.New("instancetab: host registry is required")

// DefaultPermission is the permission the plugin declares to the host.
func DefaultPermission() Permission {
	return Permission{Code: "add-on-url", Name: DefaultPluginName, Access: []AccessType{AccessFull}}
}

// ProviderFactory builds the tab provider a plugin registers.
type ProviderFactory func(plugin *Plugin, host Host) (TabProvider, error)

// PluginOptions configures a Plugin.
type PluginOptions struct {
	Code     string
	Name     string
	Settings Settings
	Factory  ProviderFactory
	Logger   logrus.FieldLogger
}

// Plugin bootstraps a single tab provider into a host registry.
type Plugin struct {
	opts PluginOptions
	log  logrus.FieldLogger

	mu       sync.Mutex
	host     Host
	provider TabProvider
}

// NewPlugin builds a plugin. Without a factory it registers the security &
// sustainability tab configured with opts.Settings.
func NewPlugin(opts PluginOptions) *Plugin {
	if opts.Code == "" {
		opts.Code = DefaultPluginCode
	}
	if opts.Name == "" {
		opts.Name = DefaultPluginName
	}
	if opts.Factory == nil {
		opts.Factory = secSusFactory
	}
	log := normalizeLogger(opts.Logger).WithField("plugin", opts.Code)
	return &Plugin{opts: opts, log: log}
}

func secSusFactory(p *Plugin, _ Host) (TabProvider, error) {
	return NewSecSusTab(p.Settings()), nil
}

func (p *Plugin) Code() string { return p.opts.Code }
func (p *Plugin) Name() string { return p.opts.Name }

// Settings returns the plugin settings handed to providers.
func (p *Plugin) Settings() Settings { return p.opts.Settings }

// Permissions lists the permissions the plugin declares to the host.
func (p *Plugin) Permissions() []Permission {
	return []Permission{DefaultPermission()}
}

// Provider returns the registered provider, or nil before Initialize.
func (p *Plugin) Provider() TabProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.provider
}

// Initialize constructs the tab provider and registers it with the host.
// Calling it again before Destroy is a no-op.
func (p *Plugin) Initialize(_ context.Context, host Host) error {
	if host == nil {
		return errMissingHost
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.provider != nil {
		p.log.WithField("code", p.provider.Code()).Debug("plugin already initialized")
		return nil
	}
	provider, err := p.opts.Factory(p, host)
	if err != nil {
		return fmt.Errorf("instancetab: build provider for %s: %w", p.opts.Code, err)
	}
	if provider == nil {
		return ErrNilProvider
	}
	if err := host.RegisterProvider(provider); err != nil {
		return fmt.Errorf("instancetab: register provider %s: %w", provider.Code(), err)
	}
	p.host = host
	p.provider = provider
	p.log.Infof("Registered provider code=%s (INSTANCE_TAB)", provider.Code())
	return nil
}

// Destroy unregisters the provider so the plugin can be initialized again.
func (p *Plugin) Destroy(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.provider != nil && p.host != nil {
		p.host.UnregisterProvider(p.provider.Code())
	}
	p.host = nil
	p.provider = nil
	p.log.Info("plugin destroyed")
	return nil
}
