package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	scherrors "github.com/hyeonlog/naldo/server/internal/errors"
	"github.com/hyeonlog/naldo/server/service/schedule"
)

// stubScheduleService returns canned responses so handler tests exercise
// only binding and status mapping.
type stubScheduleService struct {
	saveResult  *schedule.SaveResult
	saveErr     error
	queryResult *schedule.QueryResult
	queryErr    error
}

func (s *stubScheduleService) SaveSchedule(context.Context, *schedule.SaveRequest) (*schedule.SaveResult, error) {
	return s.saveResult, s.saveErr
}

func (s *stubScheduleService) QuerySchedules(context.Context, *schedule.QueryRequest) (*schedule.QueryResult, error) {
	return s.queryResult, s.queryErr
}

func newTestAPI(stub *stubScheduleService) *echo.Echo {
	e := echo.New()
	api := &APIV1Service{ScheduleService: stub}
	api.RegisterRoutes(e)
	return e
}

func postJSON(t *testing.T, e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCreateScheduleOK(t *testing.T) {
	timeOfDay := "09:00"
	stub := &stubScheduleService{saveResult: &schedule.SaveResult{
		ID:          1,
		UID:         "u1",
		Date:        "2025-11-11",
		DayOfWeek:   "화",
		Time:        &timeOfDay,
		Content:     "팀 회의",
		TotalCount:  1,
		Fingerprint: "fp",
	}}
	rec := postJSON(t, newTestAPI(stub), "/api/v1/schedules",
		`{"content":"팀 회의","when":{"mode":"TOKEN","date_token":{"type":"NEXT_WEEK","weekday":"화"}}}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var result schedule.SaveResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.False(t, result.Duplicate)
	require.Equal(t, "2025-11-11", result.Date)
	require.Equal(t, "화", result.DayOfWeek)
}

func TestCreateScheduleDuplicateIsOK(t *testing.T) {
	stub := &stubScheduleService{saveResult: &schedule.SaveResult{
		Duplicate:   true,
		Date:        "2025-11-11",
		DayOfWeek:   "화",
		Content:     "팀 회의",
		Fingerprint: "fp",
	}}
	rec := postJSON(t, newTestAPI(stub), "/api/v1/schedules", `{"content":"팀 회의"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var result schedule.SaveResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.True(t, result.Duplicate)
}

func TestCreateScheduleErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid token", scherrors.InvalidToken("unknown token: SOMEDAY"), http.StatusBadRequest, "INVALID_TOKEN"},
		{"invalid time", scherrors.InvalidTimeFormat("time must be HH:MM"), http.StatusBadRequest, "INVALID_TIME_FORMAT"},
		{"out of range", scherrors.OutOfRange("no 5th monday"), http.StatusBadRequest, "OUT_OF_RANGE"},
		{"store down", scherrors.StoreUnavailable("append failed", context.DeadlineExceeded), http.StatusServiceUnavailable, "STORE_UNAVAILABLE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubScheduleService{saveErr: tt.err}
			rec := postJSON(t, newTestAPI(stub), "/api/v1/schedules", `{"content":"회의"}`)

			require.Equal(t, tt.wantStatus, rec.Code)
			var body errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Equal(t, tt.wantCode, body.Code)
		})
	}
}

func TestCreateScheduleMalformedBody(t *testing.T) {
	rec := postJSON(t, newTestAPI(&stubScheduleService{}), "/api/v1/schedules", `{"content":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuerySchedulesOK(t *testing.T) {
	stub := &stubScheduleService{queryResult: &schedule.QueryResult{
		Intent: "count",
		Exists: true,
		Count:  3,
	}}
	rec := postJSON(t, newTestAPI(stub), "/api/v1/schedules/query",
		`{"intent":"count","range":{"kind":"THIS_WEEK"}}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var result schedule.QueryResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Equal(t, 3, result.Count)
	require.True(t, result.Exists)
}

func TestQuerySchedulesErrorMapping(t *testing.T) {
	stub := &stubScheduleService{queryErr: scherrors.InvalidArgument("intent must be exists, count or list")}
	rec := postJSON(t, newTestAPI(stub), "/api/v1/schedules/query", `{"intent":"sum"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "INVALID_ARGUMENT", body.Code)
}
