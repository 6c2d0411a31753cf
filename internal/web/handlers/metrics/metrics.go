package metrics

import (
	"sync"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/thomiceli/gistsearch/internal/config"
	"github.com/thomiceli/gistsearch/internal/web/context"
)

var handler = echoprometheus.NewHandler()

// Middleware records HTTP request metrics. Its collectors are registered once
// in the default registry, so every server of the process shares them.
var Middleware = sync.OnceValue(func() echo.MiddlewareFunc {
	return echoprometheus.NewMiddleware("gistsearch")
})

// Metrics handles prometheus metrics endpoint requests.
func Metrics(ctx *context.Context) error {
	// If metrics are disabled, return 404
	if !config.C.MetricsEnabled {
		return ctx.NotFound("Metrics endpoint is disabled")
	}

	return handler(ctx)
}
