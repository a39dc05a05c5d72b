package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-instancetab/components/instancetab"
	"github.com/goliatone/go-instancetab/components/instancetab/queries"
)

// DegradedHeader is set on responses whose markup came from a fallback policy.
const DegradedHeader = "X-Instance-Tab-Degraded"

// Executor resolves instances and runs the tab queries for transports.
type Executor interface {
	VisibleTabs(ctx context.Context, instanceID string, viewer instancetab.Viewer, scope instancetab.AccessScope) ([]instancetab.TabDescriptor, error)
	RenderTab(ctx context.Context, instanceID, code string, viewer instancetab.Viewer, scope instancetab.AccessScope) (instancetab.RenderResult, error)
}

// QueryExecutor implements Executor on top of the shared queries.
type QueryExecutor struct {
	Instances instancetab.InstanceSource
	Tabs      gocommand.Querier[queries.VisibleTabsInput, []instancetab.TabDescriptor]
	Render    gocommand.Querier[queries.RenderTabInput, instancetab.RenderResult]
}

// NewQueryExecutor wires the default queries against a service.
func NewQueryExecutor(service *instancetab.Service, instances instancetab.InstanceSource) *QueryExecutor {
	return &QueryExecutor{
		Instances: instances,
		Tabs:      queries.NewVisibleTabsQuery(service),
		Render:    queries.NewRenderTabQuery(service),
	}
}

func (e *QueryExecutor) VisibleTabs(ctx context.Context, instanceID string, viewer instancetab.Viewer, scope instancetab.AccessScope) ([]instancetab.TabDescriptor, error) {
	instance, err := e.Instances.Instance(ctx, instanceID)
	if err != nil {
		return nil, err
	}
	return e.Tabs.Query(ctx, queries.VisibleTabsInput{Instance: instance, Viewer: viewer, Scope: scope})
}

func (e *QueryExecutor) RenderTab(ctx context.Context, instanceID, code string, viewer instancetab.Viewer, scope instancetab.AccessScope) (instancetab.RenderResult, error) {
	instance, err := e.Instances.Instance(ctx, instanceID)
	if err != nil {
		return instancetab.RenderResult{Code: code}, err
	}
	return e.Render.Query(ctx, queries.RenderTabInput{Code: code, Instance: instance, Viewer: viewer, Scope: scope})
}

// StatusFor maps tab errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, instancetab.ErrInstanceNotFound), errors.Is(err, instancetab.ErrTabNotFound):
		return http.StatusNotFound
	case errors.Is(err, instancetab.ErrTabHidden):
		return http.StatusForbidden
	case errors.Is(err, instancetab.ErrMissingInstance):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ViewerResolver extracts the viewer and access scope from a request.
type ViewerResolver func(r *http.Request) (instancetab.Viewer, instancetab.AccessScope)

// Handlers exposes HTTP endpoints backed by shared queries.
type Handlers struct {
	Executor Executor
	Viewer   ViewerResolver
}

// HandleListTabs writes the visible tabs for an instance as JSON.
func (h *Handlers) HandleListTabs(w http.ResponseWriter, r *http.Request, instanceID string) {
	viewer, scope := h.resolve(r)
	tabs, err := h.Executor.VisibleTabs(r.Context(), instanceID, viewer, scope)
	if err != nil {
		writeJSON(w, StatusFor(err), map[string]string{"error": err.Error()})
		return
	}
	if tabs == nil {
		tabs = []instancetab.TabDescriptor{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tabs": tabs})
}

// HandleRenderTab writes the tab markup as HTML.
func (h *Handlers) HandleRenderTab(w http.ResponseWriter, r *http.Request, instanceID, code string) {
	viewer, scope := h.resolve(r)
	result, err := h.Executor.RenderTab(r.Context(), instanceID, code, viewer, scope)
	if err != nil {
		http.Error(w, err.Error(), StatusFor(err))
		return
	}
	if result.Degraded {
		w.Header().Set(DegradedHeader, "true")
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(result.Markup))
}

func (h *Handlers) resolve(r *http.Request) (instancetab.Viewer, instancetab.AccessScope) {
	if h.Viewer != nil {
		return h.Viewer(r)
	}
	return DefaultViewer(r)
}

// DefaultViewer reads the viewer from X-User-Id / X-Account-Id headers and the
// locale from Accept-Language.
func DefaultViewer(r *http.Request) (instancetab.Viewer, instancetab.AccessScope) {
	viewer := instancetab.Viewer{
		UserID: r.Header.Get("X-User-Id"),
		Locale: ParseAcceptLanguage(r.Header.Get("Accept-Language")),
	}
	return viewer, instancetab.AccessScope{AccountID: r.Header.Get("X-Account-Id")}
}

// ParseAcceptLanguage returns the first language tag of an Accept-Language header.
func ParseAcceptLanguage(header string) string {
	for _, token := range strings.Split(header, ",") {
		token = strings.TrimSpace(token)
		if idx := strings.Index(token, ";"); idx >= 0 {
			token = token[:idx]
		}
		if token != "" {
			return strings.ToLower(token)
		}
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
