package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitdesk/gym-console/internal/dto"
	"github.com/fitdesk/gym-console/internal/models"
	"github.com/fitdesk/gym-console/internal/view"
	appErrors "github.com/fitdesk/gym-console/pkg/errors"
	"github.com/fitdesk/gym-console/pkg/response"
)

type memberDirectoryStub struct {
	snapshot  view.MemberDirectorySnapshot
	err       error
	deletedID string
	confirmed bool
}

func (s *memberDirectoryStub) Load(ctx context.Context) view.MemberDirectorySnapshot {
	return s.snapshot
}

func (s *memberDirectoryStub) Create(ctx context.Context, form dto.MemberForm) (view.MemberDirectorySnapshot, error) {
	return s.snapshot, s.err
}

func (s *memberDirectoryStub) Update(ctx context.Context, id string, form dto.MemberForm) (view.MemberDirectorySnapshot, error) {
	return s.snapshot, s.err
}

func (s *memberDirectoryStub) Delete(ctx context.Context, id string, confirmed bool) (view.MemberDirectorySnapshot, error) {
	s.deletedID = id
	s.confirmed = confirmed
	if !confirmed {
		return s.snapshot, appErrors.Clone(appErrors.ErrValidation, "delete requires confirmation")
	}
	return s.snapshot, s.err
}

func memberRouter(stub *memberDirectoryStub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewMemberHandler(stub)
	r.GET("/members", h.List)
	r.POST("/members", h.Create)
	r.PUT("/members/:id", h.Update)
	r.DELETE("/members/:id", h.Delete)
	return r
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func TestMemberHandlerListReturnsSnapshot(t *testing.T) {
	stub := &memberDirectoryStub{snapshot: view.MemberDirectorySnapshot{
		Members: []models.Member{{ID: "u1", Name: "Asha"}},
	}}
	router := memberRouter(stub)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/members", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	envelope := decodeEnvelope(t, rec)
	require.NotNil(t, envelope.Data)
	assert.Nil(t, envelope.Error)
}

func TestMemberHandlerCreateRejectsMalformedBody(t *testing.T) {
	router := memberRouter(&memberDirectoryStub{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/members", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	envelope := decodeEnvelope(t, rec)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrValidation.Code, envelope.Error.Code)
}

func TestMemberHandlerCreatePassesThroughUpstreamStatus(t *testing.T) {
	stub := &memberDirectoryStub{err: appErrors.UpstreamRejected(http.StatusConflict, "contact already registered")}
	router := memberRouter(stub)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/members", strings.NewReader(`{"name":"Asha"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	envelope := decodeEnvelope(t, rec)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "contact already registered", envelope.Error.Message)
}

func TestMemberHandlerCreateSubmitInFlight(t *testing.T) {
	stub := &memberDirectoryStub{err: appErrors.ErrSubmitInFlight}
	router := memberRouter(stub)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/members", strings.NewReader(`{"name":"Asha"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	envelope := decodeEnvelope(t, rec)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrSubmitInFlight.Code, envelope.Error.Code)
}

func TestMemberHandlerDeleteRequiresConfirmQuery(t *testing.T) {
	stub := &memberDirectoryStub{}
	router := memberRouter(stub)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/members/u1", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, stub.confirmed)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/members/u1?confirm=true", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, stub.confirmed)
	assert.Equal(t, "u1", stub.deletedID)
}
