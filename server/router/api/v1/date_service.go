package v1

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/timedim/plugin/temporal/datetime"
	terrors "github.com/hrygo/timedim/plugin/temporal/errors"
	"github.com/hrygo/timedim/plugin/temporal/format"
	"github.com/hrygo/timedim/server/timezone"
)

// NormalizeResponse holds every representation of one date.
type NormalizeResponse struct {
	Valid        bool   `json:"valid"`
	UTC          string `json:"utc"`
	Local        string `json:"local,omitempty"`
	Milliseconds *int64 `json:"milliseconds,omitempty"`
}

// FormatResponse holds a formatted date.
type FormatResponse struct {
	Value string `json:"value"`
}

// DetectResponse holds the deduced format of a sample date.
type DetectResponse struct {
	Format string                `json:"format"`
	Order  format.FragmentsOrder `json:"order"`
}

// NormalizeDate reports whether value is a date and its UTC, local and
// millisecond forms. An unparsable value is not an error: it is reported
// with valid=false. The local form uses tz, or the server zone when unset.
// GET /api/v1/dates/normalize?value=&tz=
func (s *APIV1Service) NormalizeDate(c echo.Context) error {
	value := strings.TrimSpace(c.QueryParam("value"))
	if value == "" {
		return s.badRequest(c, "value is required")
	}
	loc, err := timezone.ParseTimezone(c.QueryParam("tz"))
	if err != nil {
		return s.fail(c, err)
	}

	utc := datetime.TryToUTC(value)
	if utc == "" {
		return c.JSON(http.StatusOK, NormalizeResponse{})
	}
	resp := NormalizeResponse{Valid: true, UTC: utc}
	if local, err := datetime.ToLocalIn(value, loc); err == nil {
		resp.Local = local
	}
	if ms, err := datetime.ToMilliseconds(value); err == nil {
		resp.Milliseconds = &ms
	}
	return c.JSON(http.StatusOK, resp)
}

// FormatDate renders an epoch-millisecond value with a pattern.
// GET /api/v1/dates/format?ms=&pattern=
func (s *APIV1Service) FormatDate(c echo.Context) error {
	raw := c.QueryParam("ms")
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return s.fail(c, terrors.InvalidDate(raw, err))
	}
	return c.JSON(http.StatusOK, FormatResponse{Value: datetime.FromMilliseconds(ms, c.QueryParam("pattern"))})
}

// DetectFormat deduces the format pattern and fragment order of a sample date.
// GET /api/v1/dates/detect?value=
func (s *APIV1Service) DetectFormat(c echo.Context) error {
	value := c.QueryParam("value")
	pattern, err := format.DeduceFormat(value)
	if err != nil {
		return s.fail(c, err)
	}
	order, err := format.GetFragmentOrder(pattern)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, DetectResponse{Format: pattern, Order: order})
}
