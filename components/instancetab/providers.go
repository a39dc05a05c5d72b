package instancetab

import "context"

const (
	LinksTabCode   = "instance-links-tab"
	SummaryTabCode = "instance-summary-tab"

	LinksTemplate   = "hbs/instance-links"
	SummaryTemplate = "hbs/instance-summary"
)

// Link is a single anchor rendered by the links tab.
type Link struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

var defaultLinks = []Link{
	{Label: "Test Link", Href: "https://example.com"},
}

// LinksTab renders a static list of links regardless of the instance.
type LinksTab struct {
	TabMeta
	template string
}

// NewLinksTab builds the static links tab.
func NewLinksTab() *LinksTab {
	return &LinksTab{
		TabMeta: TabMeta{
			TabCode:        LinksTabCode,
			TabName:        "Links",
			TabDescription: "Static list of useful links",
		},
		template: LinksTemplate,
	}
}

func (t *LinksTab) Show(ctx context.Context, instance *Instance, viewer Viewer, scope AccessScope) bool {
	return alwaysShow(ctx, instance, viewer, scope)
}

// Render ignores the instance and returns a fresh link payload on every call.
func (t *LinksTab) Render(_ context.Context, _ *Instance) (View, error) {
	links := make([]map[string]any, 0, len(defaultLinks))
	for _, link := range defaultLinks {
		links = append(links, map[string]any{"label": link.Label, "href": link.Href})
	}
	return View{
		Template: t.template,
		Data:     RenderPayload{"links": links},
	}, nil
}

// SummaryTab passes the instance straight through to its template.
type SummaryTab struct {
	TabMeta
	template string
}

// NewSummaryTab builds the pass-through instance summary tab.
func NewSummaryTab() *SummaryTab {
	return &SummaryTab{
		TabMeta: TabMeta{
			TabCode:        SummaryTabCode,
			TabName:        "Instance Summary",
			TabDescription: "Basic instance attributes",
		},
		template: SummaryTemplate,
	}
}

func (t *SummaryTab) Show(ctx context.Context, instance *Instance, viewer Viewer, scope AccessScope) bool {
	return alwaysShow(ctx, instance, viewer, scope)
}

func (t *SummaryTab) Render(_ context.Context, instance *Instance) (View, error) {
	return View{Template: t.template, Data: instance}, nil
}
