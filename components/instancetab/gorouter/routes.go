package gorouter

import (
	"errors"
	"net/http"
	"strings"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-instancetab/components/instancetab"
	"github.com/goliatone/go-instancetab/components/instancetab/httpapi"
)

// ViewerResolver converts a router.Context into the requesting viewer and scope.
type ViewerResolver func(router.Context) (instancetab.Viewer, instancetab.AccessScope)

// Config wires go-router with the instance tab executor.
type Config[T any] struct {
	Router         router.Router[T]
	API            httpapi.Executor
	ViewerResolver ViewerResolver
	BasePath       string
	Routes         RouteConfig
}

// RouteConfig customizes the relative paths used for tab endpoints.
type RouteConfig struct {
	Tabs string
	Tab  string
}

// Register mounts the tab routes (JSON list, HTML render) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.API == nil {
		return errors.New("gorouter: executor is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/plugins/instance-tabs"
	}
	resolver := cfg.ViewerResolver
	if resolver == nil {
		resolver = defaultViewerResolver
	}

	group := cfg.Router.Group(base)

	group.Get(routes.Tabs, router.WrapHandler(func(ctx router.Context) error {
		viewer, scope := resolver(ctx)
		tabs, err := cfg.API.VisibleTabs(ctx.Context(), ctx.Param("id"), viewer, scope)
		if err != nil {
			return respondError(ctx, err)
		}
		if tabs == nil {
			tabs = []instancetab.TabDescriptor{}
		}
		return ctx.JSON(http.StatusOK, map[string]any{"tabs": tabs})
	}))

	group.Get(routes.Tab, router.WrapHandler(func(ctx router.Context) error {
		viewer, scope := resolver(ctx)
		result, err := cfg.API.RenderTab(ctx.Context(), ctx.Param("id"), ctx.Param("code"), viewer, scope)
		if err != nil {
			return respondError(ctx, err)
		}
		if result.Degraded {
			ctx.SetHeader(httpapi.DegradedHeader, "true")
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send([]byte(result.Markup))
	}))

	return nil
}

func defaultViewerResolver(ctx router.Context) (instancetab.Viewer, instancetab.AccessScope) {
	var viewer instancetab.Viewer
	if v, ok := ctx.Locals("user_id").(string); ok {
		viewer.UserID = v
	} else {
		viewer.UserID = ctx.Header("X-User-Id")
	}
	if roles, ok := ctx.Locals("roles").([]string); ok {
		viewer.Roles = roles
	}
	if perms, ok := ctx.Locals("permissions").([]instancetab.Permission); ok {
		viewer.Permissions = perms
	}
	viewer.Locale = inferLocale(ctx)
	scope := instancetab.AccessScope{AccountID: ctx.Header("X-Account-Id")}
	if account, ok := ctx.Locals("account_id").(string); ok {
		scope.AccountID = account
	}
	return viewer, scope
}

func inferLocale(ctx router.Context) string {
	if locale, ok := ctx.Locals("locale").(string); ok && locale != "" {
		return locale
	}
	if locale := strings.TrimSpace(ctx.Query("locale")); locale != "" {
		return strings.ToLower(locale)
	}
	return httpapi.ParseAcceptLanguage(ctx.Header("Accept-Language"))
}

func respondError(ctx router.Context, err error) error {
	return ctx.JSON(httpapi.StatusFor(err), map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.Tabs == "" {
		routes.Tabs = "/instances/:id/tabs"
	}
	if routes.Tab == "" {
		routes.Tab = "/instances/:id/tabs/:code"
	}
	return routes
}
