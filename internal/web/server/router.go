package server

import (
	"github.com/labstack/echo/v4"
	"github.com/thomiceli/gistsearch/internal/config"
	"github.com/thomiceli/gistsearch/internal/web/context"
	"github.com/thomiceli/gistsearch/internal/web/handlers/gist"
	"github.com/thomiceli/gistsearch/internal/web/handlers/health"
	"github.com/thomiceli/gistsearch/internal/web/handlers/metrics"
)

func (s *Server) registerRoutes() {
	r := NewRouter(s.echo.Group(""))

	{
		r.GET("/ping", health.Ping)
		r.GET("/healthcheck", health.Healthcheck)

		if config.C.MetricsEnabled {
			r.GET("/metrics", metrics.Metrics)
		}

		sA := r.SubGroup("/api/v1")
		{
			sA.POST("/search", gist.Search(s.searcher), jsonBody)
		}
	}

	r.Any("/*", noRouteFound)
}

// Router wraps echo.Group to provide custom Handler support
type Router struct {
	*echo.Group
}

func NewRouter(g *echo.Group) *Router {
	return &Router{Group: g}
}

func (r *Router) SubGroup(prefix string, m ...Middleware) *Router {
	echoMiddleware := make([]echo.MiddlewareFunc, len(m))
	for i, mw := range m {
		echoMiddleware[i] = mw.toEcho()
	}
	return NewRouter(r.Group.Group(prefix, echoMiddleware...))
}

func (r *Router) GET(path string, h Handler, m ...Middleware) {
	r.Group.GET(path, chain(h, m...).toEcho())
}

func (r *Router) POST(path string, h Handler, m ...Middleware) {
	r.Group.POST(path, chain(h, m...).toEcho())
}

func (r *Router) Any(path string, h Handler, m ...Middleware) {
	r.Group.Any(path, chain(h, m...).toEcho())
}

func noRouteFound(ctx *context.Context) error {
	return ctx.NotFound("Page not found")
}
