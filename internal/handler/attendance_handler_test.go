package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitdesk/gym-console/internal/dto"
	"github.com/fitdesk/gym-console/internal/view"
	appErrors "github.com/fitdesk/gym-console/pkg/errors"
)

type attendanceLogStub struct {
	snapshot view.AttendanceLogSnapshot
	err      error
	lastReq  dto.CheckInRequest
}

func (s *attendanceLogStub) Load(ctx context.Context) view.AttendanceLogSnapshot {
	return s.snapshot
}

func (s *attendanceLogStub) CheckIn(ctx context.Context, req dto.CheckInRequest) (view.AttendanceLogSnapshot, error) {
	s.lastReq = req
	return s.snapshot, s.err
}

func attendanceRouter(stub *attendanceLogStub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAttendanceHandler(stub)
	r.GET("/attendance", h.List)
	r.POST("/attendance/checkin", h.CheckIn)
	return r
}

func TestAttendanceHandlerListReturnsSnapshot(t *testing.T) {
	stub := &attendanceLogStub{snapshot: view.AttendanceLogSnapshot{Banner: "failed to load member names"}}
	router := attendanceRouter(stub)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/attendance", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	require.NotNil(t, envelope.Data)
	assert.Nil(t, envelope.Error)
	assert.Contains(t, rec.Body.String(), "failed to load member names")
}

func TestAttendanceHandlerCheckInForwardsRequest(t *testing.T) {
	stub := &attendanceLogStub{snapshot: view.AttendanceLogSnapshot{Notice: "Checked in Asha"}}
	router := attendanceRouter(stub)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/attendance/checkin", strings.NewReader(`{"userId":"u1"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "u1", stub.lastReq.UserID)
	assert.Contains(t, rec.Body.String(), "Checked in Asha")
}

func TestAttendanceHandlerCheckInRejectsMalformedBody(t *testing.T) {
	router := attendanceRouter(&attendanceLogStub{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/attendance/checkin", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	envelope := decodeEnvelope(t, rec)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrValidation.Code, envelope.Error.Code)
}

func TestAttendanceHandlerCheckInSurfacesUpstreamError(t *testing.T) {
	stub := &attendanceLogStub{
		snapshot: view.AttendanceLogSnapshot{CheckInError: "User not found"},
		err:      appErrors.UpstreamRejected(http.StatusNotFound, "User not found"),
	}
	router := attendanceRouter(stub)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/attendance/checkin", strings.NewReader(`{"userId":"u9"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	envelope := decodeEnvelope(t, rec)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "User not found", envelope.Error.Message)
}
