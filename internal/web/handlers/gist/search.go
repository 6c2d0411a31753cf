package gist

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/thomiceli/gistsearch/internal/search"
	"github.com/thomiceli/gistsearch/internal/web/context"
)

// Search handles POST /api/v1/search
//
//	{"username": "alice", "pattern": "^hello"}
func Search(searcher *search.Searcher) func(ctx *context.Context) error {
	return func(ctx *context.Context) error {
		body, err := io.ReadAll(ctx.Request().Body)
		if err != nil {
			// the body limit middleware fails the read of oversized bodies
			var httpErr *echo.HTTPError
			if errors.As(err, &httpErr) {
				return httpErr
			}
			ctx.Log().Warn().Err(err).Msg("Cannot read request body")
			return ctx.ErrorRes(http.StatusBadRequest, "Cannot read request body", err)
		}

		req, err := search.ParseRequest(body)
		if err != nil {
			return searchError(ctx, err)
		}

		result, err := searcher.Search(ctx.Request().Context(), req)
		if err != nil {
			return searchError(ctx, err)
		}

		return ctx.Json(result)
	}
}

func searchError(ctx *context.Context, err error) error {
	var validationErr *search.ValidationError
	var patternErr *search.InvalidPatternError

	switch {
	case errors.As(err, &validationErr):
		ctx.Log().Info().Str("reason", validationErr.Message).Msg("Rejected search request")
		return ctx.ErrorKindRes(http.StatusBadRequest, "validation_error", validationErr.Message, err)
	case errors.As(err, &patternErr):
		ctx.Log().Info().Err(patternErr.Err).Str("pattern", patternErr.Pattern).Msg("Rejected search pattern")
		return ctx.ErrorKindRes(http.StatusUnprocessableEntity, "invalid_pattern", patternErr.Error(), err)
	default:
		return err
	}
}
