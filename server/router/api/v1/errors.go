package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	terrors "github.com/hrygo/timedim/plugin/temporal/errors"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	codeBadRequest = "BAD_REQUEST"
	codeInternal   = "INTERNAL"
)

// fail maps coded temporal errors to 400 and anything else to 500.
func (s *APIV1Service) fail(c echo.Context, err error) error {
	code := terrors.GetCodeFromError(err, "")
	if code == "" {
		slog.Error("request failed",
			slog.String("path", c.Path()),
			slog.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			slog.Any("error", err))
		s.Metrics.observeError(codeInternal)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Code: codeInternal, Message: "internal error"})
	}

	slog.Warn("request rejected",
		slog.String("path", c.Path()),
		slog.String("code", string(code)),
		slog.Any("error", err))
	s.Metrics.observeError(string(code))
	return c.JSON(http.StatusBadRequest, ErrorResponse{Code: string(code), Message: err.Error()})
}

func (s *APIV1Service) badRequest(c echo.Context, message string) error {
	s.Metrics.observeError(codeBadRequest)
	return c.JSON(http.StatusBadRequest, ErrorResponse{Code: codeBadRequest, Message: message})
}
