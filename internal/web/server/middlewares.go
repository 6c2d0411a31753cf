package server

import (
	gocontext "context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	"github.com/thomiceli/gistsearch/internal/config"
	"github.com/thomiceli/gistsearch/internal/web/context"
	"github.com/thomiceli/gistsearch/internal/web/handlers/metrics"
)

func (s *Server) useCustomContext() {
	s.echo.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := context.NewContext(c)
			return next(cc)
		}
	})
}

func (s *Server) registerMiddlewares() {
	s.echo.Pre(middleware.RemoveTrailingSlash())
	s.echo.Pre(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	s.echo.Pre(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI: true, LogStatus: true, LogMethod: true, LogRequestID: true,
		HandleError: true,
		LogValuesFunc: func(ctx echo.Context, v middleware.RequestLoggerValues) error {
			log.Info().Str("uri", v.URI).Int("status", v.Status).Str("method", v.Method).
				Str("ip", ctx.RealIP()).Str("request_id", v.RequestID).
				TimeDiff("duration", time.Now(), v.StartTime).
				Msg("HTTP")
			return nil
		},
	}))

	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.BodyLimit(config.C.HttpBodyLimit))
	if config.C.MetricsEnabled {
		s.echo.Use(metrics.Middleware())
	}
	s.echo.Use(Middleware(requestLogger).toEcho())
}

func (s *Server) errorHandler(err error, ctx echo.Context) {
	if ctx.Response().Committed {
		return
	}

	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) {
		if errors.Is(err, gocontext.Canceled) {
			log.Info().Err(err).Str("uri", ctx.Request().RequestURI).Msg("Request canceled by client")
		} else {
			log.Error().Err(err).Str("uri", ctx.Request().RequestURI).Msg("Unhandled error")
		}
		httpErr = &echo.HTTPError{Code: http.StatusInternalServerError, Message: http.StatusText(http.StatusInternalServerError)}
		if s.dev {
			httpErr.Message = err.Error()
		}
	}

	body, ok := httpErr.Message.(context.ErrorBody)
	if !ok {
		body = context.ErrorBody{Status: "error", Error: context.ErrorKind(httpErr.Code), Message: fmt.Sprint(httpErr.Message)}
	}

	if ctx.Request().Method == http.MethodHead {
		err = ctx.NoContent(httpErr.Code)
	} else {
		err = ctx.JSON(httpErr.Code, body)
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to send error response")
	}
}

// requestLogger hands the request context a logger tagged with the request id,
// picked up by everything logging through zerolog.Ctx.
func requestLogger(next Handler) Handler {
	return func(ctx *context.Context) error {
		logger := log.With().Str("request_id", ctx.Response().Header().Get(echo.HeaderXRequestID)).Logger()
		ctx.SetRequest(ctx.Request().WithContext(logger.WithContext(ctx.Request().Context())))
		return next(ctx)
	}
}

func jsonBody(next Handler) Handler {
	return func(ctx *context.Context) error {
		mediaType, _, err := mime.ParseMediaType(ctx.Request().Header.Get(echo.HeaderContentType))
		if err != nil || mediaType != echo.MIMEApplicationJSON {
			return ctx.ErrorRes(http.StatusUnsupportedMediaType, "Content-Type should be application/json", nil)
		}
		return next(ctx)
	}
}
