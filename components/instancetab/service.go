package instancetab

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/goliatone/go-instancetab"

var (
	ErrTabNotFound     = errors.New("instancetab: tab not found")
	ErrTabHidden       = errors.New("instancetab: tab not visible to viewer")
	ErrMissingInstance = errors.New("instancetab: instance is required")
	ErrRender          = errors.New("instancetab: render failed")
	errMissingRenderer = errors.New("instancetab: renderer not configured")
)

// TabRegistry is the lookup surface the Service needs from a registry.
type TabRegistry interface {
	Provider(code string) (TabProvider, bool)
	Providers() []TabProvider
	Definition(code string) (TabDefinition, bool)
	Describe(provider TabProvider, locale string) TabDescriptor
}

// Options configures the Service. Every collaborator is an interface so hosts
// can swap implementations.
type Options struct {
	Registry   TabRegistry
	Renderer   Renderer
	Authorizer Authorizer
	Fallback   FallbackPolicy
	Cache      RenderCache
	Telemetry  Telemetry
	Logger     logrus.FieldLogger
	Tracer     trace.Tracer
}

// Service renders instance tabs on behalf of the host.
type Service struct {
	opts Options
	log  logrus.FieldLogger
}

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) *Service {
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
	}
	if opts.Authorizer == nil {
		opts.Authorizer = allowAllAuthorizer{}
	}
	if opts.Fallback == nil {
		opts.Fallback = noFallback{}
	}
	if opts.Cache == nil {
		opts.Cache = noopRenderCache{}
	}
	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer(tracerName)
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	return &Service{opts: opts, log: normalizeLogger(opts.Logger)}
}

// RenderRequest identifies the tab, instance and requester of a render.
type RenderRequest struct {
	Code     string
	Instance *Instance
	Viewer   Viewer
	Scope    AccessScope
}

// Render produces the markup for one tab. Lookup and visibility failures are
// returned as-is; rendering failures go through the configured FallbackPolicy.
func (s *Service) Render(ctx context.Context, req RenderRequest) RenderResult {
	result := RenderResult{RequestID: uuid.NewString(), Code: req.Code}
	ctx, span := s.opts.Tracer.Start(ctx, "instancetab.render", trace.WithAttributes(
		attribute.String("tab.code", req.Code),
		attribute.String("tab.request_id", result.RequestID),
	))
	defer span.End()

	log := s.log.WithFields(logrus.Fields{
		"request_id": result.RequestID,
		"tab":        req.Code,
		"instance":   instanceID(req.Instance),
	})

	provider, ok := s.opts.Registry.Provider(req.Code)
	if !ok {
		result.Err = fmt.Errorf("%w: %s", ErrTabNotFound, req.Code)
		return s.finish(ctx, span, log, result)
	}
	result.Name = s.opts.Registry.Describe(provider, req.Viewer.Locale).Name
	if req.Instance == nil {
		result.Err = ErrMissingInstance
		return s.finish(ctx, span, log, result)
	}
	if !s.visible(ctx, provider, req) {
		result.Err = fmt.Errorf("%w: %s", ErrTabHidden, req.Code)
		return s.finish(ctx, span, log, result)
	}

	view, err := provider.Render(ctx, req.Instance)
	if err != nil {
		result.Err = fmt.Errorf("%w: %s: %w", ErrRender, req.Code, err)
		return s.finish(ctx, span, log, s.fallback(result))
	}
	result.Template = s.templateFor(req.Code, view.Template)

	markup, err := s.opts.Cache.GetOrRender(renderCacheKey(req.Code, result.Template, req.Instance), func() (string, error) {
		return s.renderMarkup(result.Template, view.Data)
	})
	if err != nil {
		result.Err = fmt.Errorf("%w: %s: %w", ErrRender, result.Template, err)
		return s.finish(ctx, span, log, s.fallback(result))
	}
	result.Markup = markup
	return s.finish(ctx, span, log, result)
}

// VisibleTabs lists the tabs the viewer may see for an instance, ordered by code.
func (s *Service) VisibleTabs(ctx context.Context, instance *Instance, viewer Viewer, scope AccessScope) []TabDescriptor {
	if instance == nil {
		return nil
	}
	var tabs []TabDescriptor
	for _, provider := range s.opts.Registry.Providers() {
		req := RenderRequest{Code: provider.Code(), Instance: instance, Viewer: viewer, Scope: scope}
		if !s.visible(ctx, provider, req) {
			continue
		}
		tabs = append(tabs, s.opts.Registry.Describe(provider, viewer.Locale))
	}
	s.opts.Telemetry.Record(ctx, "instancetab.tabs.list", map[string]any{
		"instance": instance.ID,
		"viewer":   viewer.UserID,
		"count":    len(tabs),
	})
	return tabs
}

func (s *Service) visible(ctx context.Context, provider TabProvider, req RenderRequest) bool {
	return s.opts.Authorizer.CanViewTab(ctx, req.Viewer, req.Scope, provider) &&
		provider.Show(ctx, req.Instance, req.Viewer, req.Scope)
}

// templateFor prefers a manifest template override over the provider's choice.
func (s *Service) templateFor(code, template string) string {
	if def, ok := s.opts.Registry.Definition(code); ok && def.Template != "" {
		template = def.Template
	}
	return ResolveTemplateName(template)
}

func (s *Service) renderMarkup(template string, data any) (string, error) {
	if s.opts.Renderer == nil {
		return "", errMissingRenderer
	}
	return s.opts.Renderer.Render(template, data)
}

func (s *Service) fallback(result RenderResult) RenderResult {
	markup, ok := s.opts.Fallback.Fallback(result)
	if !ok {
		return result
	}
	result.Markup = markup
	result.Degraded = true
	return result
}

func (s *Service) finish(ctx context.Context, span trace.Span, log logrus.FieldLogger, result RenderResult) RenderResult {
	payload := map[string]any{
		"code":       result.Code,
		"request_id": result.RequestID,
		"template":   result.Template,
	}
	switch {
	case result.Err == nil:
		span.SetStatus(codes.Ok, "")
		log.WithField("template", result.Template).Debug("tab rendered")
		s.opts.Telemetry.Record(ctx, "instancetab.render", payload)
	case result.Degraded:
		span.RecordError(result.Err)
		span.SetAttributes(attribute.Bool("tab.degraded", true))
		log.WithError(result.Err).Warn("tab rendered with fallback")
		payload["error"] = result.Err.Error()
		s.opts.Telemetry.Record(ctx, "instancetab.render.fallback", payload)
	default:
		span.RecordError(result.Err)
		span.SetStatus(codes.Error, result.Err.Error())
		log.WithError(result.Err).Error("tab render failed")
		payload["error"] = result.Err.Error()
		s.opts.Telemetry.Record(ctx, "instancetab.render.error", payload)
	}
	return result
}

func instanceID(instance *Instance) string {
	if instance == nil {
		return ""
	}
	return instance.ID
}
