package instancetab

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const (
	defaultAWSSecurityURL         = "https://{region}.console.aws.amazon.com/securityhub/home?region={region}"
	defaultAWSSustainabilityURL   = "https://console.aws.amazon.com/billing/home#/carbon"
	defaultAzureSecurityURL       = "https://portal.azure.com/#view/Microsoft_Azure_Security/SecurityMenuBlade/~/overview"
	defaultAzureSustainabilityURL = "https://portal.azure.com/#blade/Microsoft_Azure_Sustainability/EmissionsImpactDashboardBlade/Overview"
	defaultGCPSecurityURL         = "https://console.cloud.google.com/security/command-center/findings?project={projectId}&organizationId={orgId}"
	defaultGCPSustainabilityURL   = "https://console.cloud.google.com/billing/{billingAccountId}/carbonfootprint?project={projectId}"
)

// Settings are the per-installation plugin settings consumed by the security &
// sustainability tab. Empty fields fall back to built-in defaults.
type Settings struct {
	AWSSecurityURLTemplate         string  `json:"awsSecurityUrlTemplate,omitempty" mapstructure:"aws_security_url_template"`
	AWSSustainabilityURLTemplate   string  `json:"awsSustainabilityUrlTemplate,omitempty" mapstructure:"aws_sustainability_url_template"`
	AzureSecurityURLTemplate       string  `json:"azureSecurityUrlTemplate,omitempty" mapstructure:"azure_security_url_template"`
	AzureSustainabilityURLTemplate string  `json:"azureSustainabilityUrlTemplate,omitempty" mapstructure:"azure_sustainability_url_template"`
	GCPSecurityURLTemplate         string  `json:"gcpSecurityUrlTemplate,omitempty" mapstructure:"gcp_security_url_template"`
	GCPSustainabilityURLTemplate   string  `json:"gcpSustainabilityUrlTemplate,omitempty" mapstructure:"gcp_sustainability_url_template"`
	Keys                           TagKeys `json:"keys" mapstructure:"keys"`
	ShowResolvedInfo               *bool   `json:"showResolvedInfo,omitempty" mapstructure:"show_resolved_info"`
}

// TagKeys overrides the instance tag names identifiers are read from.
type TagKeys struct {
	AWS   AWSTagKeys   `json:"aws" mapstructure:"aws"`
	Azure AzureTagKeys `json:"azure" mapstructure:"azure"`
	GCP   GCPTagKeys   `json:"gcp" mapstructure:"gcp"`
}

type AWSTagKeys struct {
	AccountID  string `json:"accountId,omitempty" mapstructure:"account_id"`
	InstanceID string `json:"instanceId,omitempty" mapstructure:"instance_id"`
}

type AzureTagKeys struct {
	SubscriptionID string `json:"subscriptionId,omitempty" mapstructure:"subscription_id"`
	ResourceGroup  string `json:"resourceGroup,omitempty" mapstructure:"resource_group"`
	VMName         string `json:"vmName,omitempty" mapstructure:"vm_name"`
}

type GCPTagKeys struct {
	ProjectID        string `json:"projectId,omitempty" mapstructure:"project_id"`
	BillingAccountID string `json:"billingAccountId,omitempty" mapstructure:"billing_account_id"`
	InstanceName     string `json:"instanceName,omitempty" mapstructure:"instance_name"`
	OrgID            string `json:"orgId,omitempty" mapstructure:"org_id"`
}

// ShowInfo reports whether resolved identifiers are listed in the tab. Unset means true.
func (s Settings) ShowInfo() bool {
	return s.ShowResolvedInfo == nil || *s.ShowResolvedInfo
}

// URLTemplates returns the security and sustainability templates for a cloud.
func (s Settings) URLTemplates(cloud string) (security, sustainability string) {
	switch cloud {
	case CloudAWS:
		return orDefault(s.AWSSecurityURLTemplate, defaultAWSSecurityURL),
			orDefault(s.AWSSustainabilityURLTemplate, defaultAWSSustainabilityURL)
	case CloudAzure:
		return orDefault(s.AzureSecurityURLTemplate, defaultAzureSecurityURL),
			orDefault(s.AzureSustainabilityURLTemplate, defaultAzureSustainabilityURL)
	case CloudGCP:
		return orDefault(s.GCPSecurityURLTemplate, defaultGCPSecurityURL),
			orDefault(s.GCPSustainabilityURLTemplate, defaultGCPSustainabilityURL)
	}
	return "", ""
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

var settingsSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"awsSecurityUrlTemplate":         urlTemplateSchema(),
		"awsSustainabilityUrlTemplate":   urlTemplateSchema(),
		"azureSecurityUrlTemplate":       urlTemplateSchema(),
		"azureSustainabilityUrlTemplate": urlTemplateSchema(),
		"gcpSecurityUrlTemplate":         urlTemplateSchema(),
		"gcpSustainabilityUrlTemplate":   urlTemplateSchema(),
		"showResolvedInfo":               map[string]any{"type": "boolean"},
		"keys": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"aws":   tagKeySchema("accountId", "instanceId"),
				"azure": tagKeySchema("subscriptionId", "resourceGroup", "vmName"),
				"gcp":   tagKeySchema("projectId", "billingAccountId", "instanceName", "orgId"),
			},
		},
	},
}

func urlTemplateSchema() map[string]any {
	return map[string]any{"type": "string", "pattern": "^https?://"}
}

func tagKeySchema(keys ...string) map[string]any {
	props := make(map[string]any, len(keys))
	for _, key := range keys {
		props[key] = map[string]any{"type": "string", "minLength": 1}
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}
}

// SettingsValidator validates plugin settings against a JSON schema.
type SettingsValidator struct {
	mu       sync.Mutex
	compiled *jsonschema.Schema
}

// NewSettingsValidator builds a validator backed by jsonschema v5.
func NewSettingsValidator() *SettingsValidator {
	return &SettingsValidator{}
}

// Validate ensures the settings satisfy the settings schema.
func (v *SettingsValidator) Validate(settings Settings) error {
	schema, err := v.schema()
	if err != nil {
		return err
	}
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("instancetab: marshal settings: %w", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("instancetab: normalize settings: %w", err)
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("instancetab: settings failed validation: %w", err)
	}
	return nil
}

func (v *SettingsValidator) schema() (*jsonschema.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.compiled != nil {
		return v.compiled, nil
	}
	data, err := json.Marshal(settingsSchema)
	if err != nil {
		return nil, fmt.Errorf("instancetab: marshal settings schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	const name = "instancetab.settings.json"
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("instancetab: load settings schema: %w", err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("instancetab: compile settings schema: %w", err)
	}
	v.compiled = compiled
	return compiled, nil
}
