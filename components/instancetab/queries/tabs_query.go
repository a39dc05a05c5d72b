package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-instancetab/components/instancetab"
)

// VisibleTabsInput identifies the instance and viewer to list tabs for.
type VisibleTabsInput struct {
	Instance *instancetab.Instance
	Viewer   instancetab.Viewer
	Scope    instancetab.AccessScope
}

type tabLister interface {
	VisibleTabs(ctx context.Context, instance *instancetab.Instance, viewer instancetab.Viewer, scope instancetab.AccessScope) []instancetab.TabDescriptor
}

// VisibleTabsQuery lists the tabs a viewer may open for an instance.
type VisibleTabsQuery struct {
	service tabLister
}

// NewVisibleTabsQuery builds the query.
func NewVisibleTabsQuery(service tabLister) *VisibleTabsQuery {
	return &VisibleTabsQuery{service: service}
}

var _ gocommand.Querier[VisibleTabsInput, []instancetab.TabDescriptor] = (*VisibleTabsQuery)(nil)

func (q *VisibleTabsQuery) Query(ctx context.Context, input VisibleTabsInput) ([]instancetab.TabDescriptor, error) {
	if input.Instance == nil {
		return nil, instancetab.ErrMissingInstance
	}
	return q.service.VisibleTabs(ctx, input.Instance, input.Viewer, input.Scope), nil
}
