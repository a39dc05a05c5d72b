package instancetab

import (
	"context"
	"net/url"
	"regexp"
	"strings"
)

const (
	SecSusTabCode  = "addon-url-instance-tab-v3"
	SecSusTabName  = "Add-on URL"
	SecSusTemplate = "hbs/addon-url"

	CloudAWS   = "aws"
	CloudAzure = "azure"
	CloudGCP   = "gcp"
)

// infoKeys fixes the order resolved identifiers are listed in.
var infoKeys = []string{
	"provider", "region", "zone", "accountId", "instanceId",
	"subscriptionId", "resourceGroup", "vmName", "resourceId",
	"projectId", "billingAccountId", "instanceName", "orgId",
}

var placeholderPattern = regexp.MustCompile(`\{(.*?)\}`)

// Identifiers are the cloud-specific values resolved for an instance, keyed by
// the names URL templates refer to.
type Identifiers map[string]string

// InfoRow is one resolved identifier shown in the tab's info table.
type InfoRow struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ConsoleLink is a deep link into a cloud console.
type ConsoleLink struct {
	URL     string `json:"url"`
	Enabled bool   `json:"enabled"`
	Tooltip string `json:"tooltip,omitempty"`
}

// Summary is the security & sustainability view of an instance.
type Summary struct {
	Provider       string      `json:"provider"`
	Identifiers    Identifiers `json:"identifiers"`
	Info           []InfoRow   `json:"info"`
	Security       ConsoleLink `json:"security"`
	Sustainability ConsoleLink `json:"sustainability"`
	ShowInfo       bool        `json:"showInfo"`
}

// Payload flattens the summary into template-friendly maps.
func (s Summary) Payload() map[string]any {
	info := make([]map[string]any, 0, len(s.Info))
	for _, row := range s.Info {
		info = append(info, map[string]any{"key": row.Key, "value": row.Value})
	}
	ids := make(map[string]any, len(s.Identifiers))
	for k, v := range s.Identifiers {
		ids[k] = v
	}
	return map[string]any{
		"provider":       s.Provider,
		"identifiers":    ids,
		"info":           info,
		"security":       s.Security.payload(),
		"sustainability": s.Sustainability.payload(),
		"showInfo":       s.ShowInfo,
	}
}

func (l ConsoleLink) payload() map[string]any {
	return map[string]any{"url": l.URL, "enabled": l.Enabled, "tooltip": l.Tooltip}
}

// DetectCloud maps the instance cloud to aws, azure or gcp. Unknown clouds
// return an empty string.
func DetectCloud(instance *Instance) string {
	if instance == nil {
		return ""
	}
	code := firstNonEmpty(instance.Cloud.ProviderCode, instance.Cloud.CloudProvider, instance.Cloud.Code)
	code = strings.ToLower(code)
	switch {
	case strings.Contains(code, "amazon"), strings.Contains(code, "aws"):
		return CloudAWS
	case strings.Contains(code, "azure"), strings.Contains(code, "arm"):
		return CloudAzure
	case strings.Contains(code, "google"), strings.Contains(code, "gcp"):
		return CloudGCP
	}
	return ""
}

// ResolveIdentifiers collects the identifiers URL templates need, reading
// cloud-specific values from instance tags.
func ResolveIdentifiers(instance *Instance, settings Settings, cloud string) Identifiers {
	if instance == nil {
		return Identifiers{"provider": cloud}
	}
	ids := Identifiers{
		"provider":     cloud,
		"region":       firstNonEmpty(instance.Region, instance.Cloud.RegionCode, instance.Cloud.Region),
		"zone":         instance.Zone,
		"instanceId":   firstNonEmpty(instance.ExternalID, instance.ID),
		"instanceName": instance.Name,
	}
	tag := func(key, fallback string) string {
		return instance.Tags[orDefault(key, fallback)]
	}
	keys := settings.Keys
	switch cloud {
	case CloudAWS:
		ids["accountId"] = tag(keys.AWS.AccountID, "aws:accountId")
		ids["instanceId"] = firstNonEmpty(tag(keys.AWS.InstanceID, "aws:instanceId"), ids["instanceId"])
	case CloudAzure:
		ids["subscriptionId"] = tag(keys.Azure.SubscriptionID, "azure:subscriptionId")
		ids["resourceGroup"] = tag(keys.Azure.ResourceGroup, "azure:resourceGroup")
		ids["vmName"] = firstNonEmpty(tag(keys.Azure.VMName, "azure:vmName"), instance.Name)
		ids["resourceId"] = instance.Tags["azure:resourceId"]
	case CloudGCP:
		ids["projectId"] = tag(keys.GCP.ProjectID, "gcp:projectId")
		ids["billingAccountId"] = tag(keys.GCP.BillingAccountID, "gcp:billingAccountId")
		ids["instanceName"] = firstNonEmpty(tag(keys.GCP.InstanceName, "gcp:instanceName"), instance.Name)
		ids["orgId"] = tag(keys.GCP.OrgID, "gcp:orgId")
	}
	return ids
}

// Interpolate replaces {key} placeholders with query-escaped identifier
// values. Unknown keys become empty strings.
func Interpolate(template string, ids Identifiers) string {
	if template == "" {
		return ""
	}
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		return url.QueryEscape(ids[match[1:len(match)-1]])
	})
}

// RequiredOK reports whether enough identifiers were resolved to build console links.
func RequiredOK(cloud string, ids Identifiers) bool {
	switch cloud {
	case CloudAWS:
		return ids["region"] != ""
	case CloudAzure:
		return true
	case CloudGCP:
		return ids["projectId"] != "" || ids["billingAccountId"] != ""
	}
	return false
}

// Summarize builds the security & sustainability summary for an instance.
func Summarize(instance *Instance, settings Settings) Summary {
	cloud := DetectCloud(instance)
	ids := ResolveIdentifiers(instance, settings, cloud)
	secTpl, susTpl := settings.URLTemplates(cloud)
	ok := RequiredOK(cloud, ids)
	tooltip := ""
	if !ok {
		tooltip = "Missing required identifiers for " + cloud
	}
	summary := Summary{
		Provider:       cloud,
		Identifiers:    ids,
		Security:       consoleLink(Interpolate(secTpl, ids), ok, tooltip),
		Sustainability: consoleLink(Interpolate(susTpl, ids), ok, tooltip),
		ShowInfo:       settings.ShowInfo(),
	}
	if summary.ShowInfo {
		for _, key := range infoKeys {
			if value := ids[key]; value != "" {
				summary.Info = append(summary.Info, InfoRow{Key: key, Value: value})
			}
		}
	}
	return summary
}

func consoleLink(url string, ok bool, tooltip string) ConsoleLink {
	return ConsoleLink{URL: url, Enabled: ok && url != "", Tooltip: tooltip}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// SecSusTab renders the security & sustainability summary for an instance.
type SecSusTab struct {
	TabMeta
	settings Settings
	template string
}

// NewSecSusTab builds the security & sustainability tab with the given settings.
func NewSecSusTab(settings Settings) *SecSusTab {
	return &SecSusTab{
		TabMeta: TabMeta{
			TabCode:        SecSusTabCode,
			TabName:        SecSusTabName,
			TabDescription: "Security and sustainability console links for the instance cloud",
			Permissions:    []Permission{DefaultPermission()},
		},
		settings: settings,
		template: SecSusTemplate,
	}
}

func (t *SecSusTab) Show(ctx context.Context, instance *Instance, viewer Viewer, scope AccessScope) bool {
	return alwaysShow(ctx, instance, viewer, scope)
}

// Render hands the instance to the template together with its resolved summary.
func (t *SecSusTab) Render(_ context.Context, instance *Instance) (View, error) {
	return View{
		Template: t.template,
		Data: RenderPayload{
			"instance": instance,
			"summary":  Summarize(instance, t.settings).Payload(),
		},
	}, nil
}
