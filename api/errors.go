package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/soundia/soundia/httpx"
)

func badRequest(c httpx.Context, message string) error {
	return c.JSON(httpx.StatusBadRequest, map[string]any{"error": message})
}

func notFound(c httpx.Context, message string) error {
	return c.JSON(httpx.StatusNotFound, map[string]any{
		"success": false,
		"error":   message,
	})
}

// internalError logs the failure and replies with the generic 500 body;
// detail leaks into the response only in development.
func (a *API) internalError(c httpx.Context, what string, err error) error {
	a.logger.Error(what, "err", err)
	message := "Something went wrong"
	if a.dev && err != nil {
		message = err.Error()
	}
	return c.JSON(httpx.StatusInternalError, map[string]any{
		"error":   "Internal server error",
		"message": message,
	})
}

// ErrorHandler is the server-level handler for errors that escape route
// handlers: unknown paths, panics surfaced by the recover middleware, and
// anything a handler returned instead of writing itself.
func (a *API) ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.Code {
		case http.StatusNotFound:
			_ = c.JSON(http.StatusNotFound, map[string]any{
				"error": "Endpoint not found",
				"path":  c.Request().RequestURI,
			})
			return
		case http.StatusMethodNotAllowed:
			_ = c.JSON(http.StatusNotFound, map[string]any{
				"error": "Endpoint not found",
				"path":  c.Request().RequestURI,
			})
			return
		default:
			msg := http.StatusText(httpErr.Code)
			if s, ok := httpErr.Message.(string); ok {
				msg = s
			}
			_ = c.JSON(httpErr.Code, map[string]any{"error": msg})
			return
		}
	}

	_ = a.internalError(c, "unhandled error", err)
}
