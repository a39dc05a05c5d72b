// Package config loads tabctl configuration from YAML files, INSTANCETAB_*
// environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/goliatone/go-instancetab/components/instancetab"
)

// EnvPrefix prefixes environment overrides, e.g. INSTANCETAB_SERVER_ADDR.
const EnvPrefix = "INSTANCETAB"

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig         `mapstructure:"server"`
	Log      LogConfig            `mapstructure:"log"`
	Render   RenderConfig         `mapstructure:"render"`
	Plugin   PluginConfig         `mapstructure:"plugin"`
	Settings instancetab.Settings `mapstructure:"settings"`
}

type ServerConfig struct {
	Addr     string `mapstructure:"addr"`
	BasePath string `mapstructure:"base_path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type RenderConfig struct {
	Fallback bool          `mapstructure:"fallback"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	// RequirePermissions gates tabs on the viewer holding their declared permissions.
	RequirePermissions bool `mapstructure:"require_permissions"`
}

type PluginConfig struct {
	Code     string `mapstructure:"code"`
	Name     string `mapstructure:"name"`
	Manifest string `mapstructure:"manifest"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	show := true
	return Config{
		Server: ServerConfig{Addr: ":8080", BasePath: "/plugins/instance-tabs"},
		Log:    LogConfig{Level: "info", Format: "text"},
		Render: RenderConfig{Fallback: true},
		Plugin: PluginConfig{
			Code: instancetab.DefaultPluginCode,
			Name: instancetab.DefaultPluginName,
		},
		Settings: instancetab.Settings{ShowResolvedInfo: &show},
	}
}

// settingsEnvKeys have no default, so they are bound explicitly for
// AutomaticEnv to reach them, e.g. INSTANCETAB_SETTINGS_KEYS_AWS_ACCOUNT_ID.
var settingsEnvKeys = []string{
	"settings.aws_security_url_template",
	"settings.aws_sustainability_url_template",
	"settings.azure_security_url_template",
	"settings.azure_sustainability_url_template",
	"settings.gcp_security_url_template",
	"settings.gcp_sustainability_url_template",
	"settings.keys.aws.account_id",
	"settings.keys.aws.instance_id",
	"settings.keys.azure.subscription_id",
	"settings.keys.azure.resource_group",
	"settings.keys.azure.vm_name",
	"settings.keys.gcp.project_id",
	"settings.keys.gcp.billing_account_id",
	"settings.keys.gcp.instance_name",
	"settings.keys.gcp.org_id",
}

// New returns a viper instance with defaults and environment binding applied.
func New() *viper.Viper {
	v := viper.New()
	defaults := Defaults()
	v.SetDefault("server.addr", defaults.Server.Addr)
	v.SetDefault("server.base_path", defaults.Server.BasePath)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)
	v.SetDefault("render.fallback", defaults.Render.Fallback)
	v.SetDefault("render.cache_ttl", defaults.Render.CacheTTL)
	v.SetDefault("render.require_permissions", defaults.Render.RequirePermissions)
	v.SetDefault("plugin.code", defaults.Plugin.Code)
	v.SetDefault("plugin.name", defaults.Plugin.Name)
	v.SetDefault("plugin.manifest", "")
	v.SetDefault("settings.show_resolved_info", true)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range settingsEnvKeys {
		_ = v.BindEnv(key)
	}
	return v
}

// Load reads the config file at path (optional) and unmarshals the result.
// Without a path, ./instancetab.yaml is used when present.
func Load(v *viper.Viper, path string) (Config, error) {
	if v == nil {
		v = New()
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("instancetab")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := instancetab.NewSettingsValidator().Validate(cfg.Settings); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
