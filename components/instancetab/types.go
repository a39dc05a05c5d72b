package instancetab

// Instance is the host-owned view of a managed cloud workload. Providers read it
// and never mutate it.
type Instance struct {
	ID         string            `json:"id" yaml:"id"`
	ExternalID string            `json:"externalId,omitempty" yaml:"externalId,omitempty"`
	Name       string            `json:"name" yaml:"name"`
	Status     string            `json:"status,omitempty" yaml:"status,omitempty"`
	Region     string            `json:"region,omitempty" yaml:"region,omitempty"`
	Zone       string            `json:"zone,omitempty" yaml:"zone,omitempty"`
	Cloud      CloudRef          `json:"cloud" yaml:"cloud"`
	Tags       map[string]string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Attributes map[string]any    `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// CloudRef describes the cloud an instance is provisioned in.
type CloudRef struct {
	Code          string `json:"code,omitempty" yaml:"code,omitempty"`
	Name          string `json:"name,omitempty" yaml:"name,omitempty"`
	ProviderCode  string `json:"providerCode,omitempty" yaml:"providerCode,omitempty"`
	CloudProvider string `json:"cloudProvider,omitempty" yaml:"cloudProvider,omitempty"`
	RegionCode    string `json:"regionCode,omitempty" yaml:"regionCode,omitempty"`
	Region        string `json:"region,omitempty" yaml:"region,omitempty"`
}

// Viewer identifies the user requesting a tab.
type Viewer struct {
	UserID      string
	Roles       []string
	Permissions []Permission
	Locale      string
}

// AccessScope identifies the tenant/account the request is made in.
type AccessScope struct {
	AccountID string
	Name      string
}

// RenderPayload is the data mapping handed to a template.
type RenderPayload = map[string]any

// View names the template a provider wants rendered and the data it needs.
type View struct {
	Template string
	Data     any
}

// TabSection names the host section a tab is displayed in.
type TabSection string

const (
	SectionInstance TabSection = "instance"
	SectionOverview TabSection = "overview"
)

// AccessType mirrors the host's permission access levels.
type AccessType string

const (
	AccessNone AccessType = "none"
	AccessRead AccessType = "read"
	AccessUser AccessType = "user"
	AccessFull AccessType = "full"
)

// Permission is a named permission with the access levels it grants.
type Permission struct {
	Code   string       `json:"code" yaml:"code"`
	Name   string       `json:"name" yaml:"name"`
	Access []AccessType `json:"access" yaml:"access"`
}

// Grants reports whether the permission allows at least the requested access.
func (p Permission) Grants(want AccessType) bool {
	for _, have := range p.Access {
		if accessRank(have) >= accessRank(want) {
			return true
		}
	}
	return false
}

func accessRank(a AccessType) int {
	switch a {
	case AccessRead:
		return 1
	case AccessUser:
		return 2
	case AccessFull:
		return 3
	default:
		return 0
	}
}

// TabDescriptor is the resolved metadata of a tab visible to a viewer.
type TabDescriptor struct {
	Code        string     `json:"code"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Section     TabSection `json:"section"`
}
