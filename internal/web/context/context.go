package context

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Context struct {
	echo.Context
}

func NewContext(c echo.Context) *Context {
	return &Context{Context: c}
}

// Log returns the logger of the current request.
func (ctx *Context) Log() *zerolog.Logger {
	return zerolog.Ctx(ctx.Request().Context())
}

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ErrorKind is the machine readable error name derived from a status code, e.g. 404 -> not_found
func ErrorKind(code int) string {
	text := http.StatusText(code)
	if text == "" {
		return "error"
	}
	return strings.ReplaceAll(strings.ToLower(text), " ", "_")
}

func (ctx *Context) ErrorRes(code int, message string, err error) error {
	return ctx.ErrorKindRes(code, ErrorKind(code), message, err)
}

func (ctx *Context) ErrorKindRes(code int, kind string, message string, err error) error {
	if code >= 500 {
		var skipLogger = log.With().CallerWithSkipFrameCount(3).Logger()
		skipLogger.Error().Err(err).Msg(message)
	}

	return &echo.HTTPError{
		Code:     code,
		Message:  ErrorBody{Status: "error", Error: kind, Message: message},
		Internal: err,
	}
}

func (ctx *Context) Json(data any) error {
	return ctx.JsonWithCode(200, data)
}

func (ctx *Context) JsonWithCode(code int, data any) error {
	return ctx.JSON(code, data)
}

func (ctx *Context) PlainText(code int, message string) error {
	return ctx.String(code, message)
}

func (ctx *Context) NotFound(message string) error {
	return ctx.ErrorRes(404, message, nil)
}
