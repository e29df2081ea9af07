package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	scherrors "github.com/hyeonlog/naldo/server/internal/errors"
	"github.com/hyeonlog/naldo/server/service/schedule"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CreateSchedule handles POST /api/v1/schedules.
//
// A duplicate inside the dedup window is reported with 200 and
// duplicate=true in the body; the request is acknowledged but nothing
// was appended.
func (s *APIV1Service) CreateSchedule(c echo.Context) error {
	req := &schedule.SaveRequest{}
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, &errorResponse{
			Code:    string(scherrors.ErrCodeInvalidArgument),
			Message: "malformed request body",
		})
	}

	result, err := s.ScheduleService.SaveSchedule(c.Request().Context(), req)
	if err != nil {
		return writeScheduleError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// QuerySchedules handles POST /api/v1/schedules/query.
func (s *APIV1Service) QuerySchedules(c echo.Context) error {
	req := &schedule.QueryRequest{}
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, &errorResponse{
			Code:    string(scherrors.ErrCodeInvalidArgument),
			Message: "malformed request body",
		})
	}

	result, err := s.ScheduleService.QuerySchedules(c.Request().Context(), req)
	if err != nil {
		return writeScheduleError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// writeScheduleError maps service error codes onto HTTP statuses:
// caller mistakes are 400, a store outage is 503, anything else is 500.
func writeScheduleError(c echo.Context, err error) error {
	code := scherrors.GetCodeFromError(err, scherrors.ErrCodeStoreUnavailable)
	status := http.StatusInternalServerError
	switch code {
	case scherrors.ErrCodeInvalidArgument,
		scherrors.ErrCodeInvalidToken,
		scherrors.ErrCodeInvalidTimeFormat,
		scherrors.ErrCodeOutOfRange:
		status = http.StatusBadRequest
	case scherrors.ErrCodeStoreUnavailable:
		status = http.StatusServiceUnavailable
	}
	if status >= http.StatusInternalServerError {
		slog.Error("schedule request failed", slog.String("code", string(code)), slog.Any("err", err))
	}
	return c.JSON(status, &errorResponse{Code: string(code), Message: err.Error()})
}
