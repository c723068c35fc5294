package api

import (
	"errors"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"shop-backend-service/internal/entity"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// envelope is the uniform response wrapper: {status, payload|error}.
type envelope struct {
	Status  string `json:"status"`
	Payload any    `json:"payload,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respond(c echo.Context, code int, payload any) error {
	return c.JSON(code, envelope{Status: "success", Payload: payload})
}

// respondError maps the domain error taxonomy onto HTTP status codes.
// Anything outside the taxonomy is a 500 with a generic message.
func respondError(c echo.Context, err error) error {
	var domainErr *entity.Error
	if errors.As(err, &domainErr) {
		return c.JSON(httpStatus(domainErr.Kind), envelope{Status: "error", Error: domainErr.Message})
	}

	logger.Error().Err(err).Msgf("Unexpected error handling %s %s", c.Request().Method, c.Request().URL.Path)
	return c.JSON(http.StatusInternalServerError, envelope{Status: "error", Error: "Internal server error"})
}

func httpStatus(kind entity.ErrorKind) int {
	switch kind {
	case entity.KindValidation, entity.KindConflict:
		return http.StatusBadRequest
	case entity.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
