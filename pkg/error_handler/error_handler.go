package errorhandler

import (
	"errors"
	"log/slog"
	"net/http"

	"blogapp/pkg/customerrors"

	"github.com/labstack/echo/v4"
)

type errorEnvelope struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// HandleError is the centralized echo HTTPErrorHandler. Domain failures
// arrive as *customerrors.APIError and keep their status and message;
// everything else is reported as a 500 without leaking detail to the client.
func HandleError(err error, c echo.Context) {

	code := http.StatusInternalServerError
	message := "Internal Server Error"

	var apiErr *customerrors.APIError
	var he *echo.HTTPError
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
		message = apiErr.Message
	case errors.As(err, &he):
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		}
	}

	if code == http.StatusInternalServerError {
		slog.Error("Internal Server Error",
			"err", err,
			"path", c.Path(),
			"method", c.Request().Method,
		)
	} else {
		slog.Warn("Handled error",
			"err", err,
			"path", c.Path(),
			"method", c.Request().Method,
		)
	}

	if !c.Response().Committed {
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, errorEnvelope{StatusCode: code, Message: message, Success: false})
		}
		if err != nil {
			slog.Error("Failed to write error response", "err", err)
		}
	}
}
