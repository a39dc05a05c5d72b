package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-instancetab/components/instancetab"
)

// RenderTabInput identifies a tab render request.
type RenderTabInput struct {
	Code     string
	Instance *instancetab.Instance
	Viewer   instancetab.Viewer
	Scope    instancetab.AccessScope
}

type tabRenderer interface {
	Render(ctx context.Context, req instancetab.RenderRequest) instancetab.RenderResult
}

// RenderTabQuery renders a single tab.
type RenderTabQuery struct {
	service tabRenderer
}

// NewRenderTabQuery builds the query.
func NewRenderTabQuery(service tabRenderer) *RenderTabQuery {
	return &RenderTabQuery{service: service}
}

var _ gocommand.Querier[RenderTabInput, instancetab.RenderResult] = (*RenderTabQuery)(nil)

// Query returns the render result. The error is set only when no usable markup
// was produced; degraded results are returned without error.
func (q *RenderTabQuery) Query(ctx context.Context, input RenderTabInput) (instancetab.RenderResult, error) {
	result := q.service.Render(ctx, instancetab.RenderRequest{
		Code:     input.Code,
		Instance: input.Instance,
		Viewer:   input.Viewer,
		Scope:    input.Scope,
	})
	if !result.OK() {
		return result, result.Err
	}
	return result, nil
}
