package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitdesk/gym-console/internal/dto"
	"github.com/fitdesk/gym-console/internal/models"
	"github.com/fitdesk/gym-console/internal/view"
)

type planBoardStub struct {
	snapshot         view.PlanBoardSnapshot
	err              error
	loadCalls        int
	assignmentsCalls int
}

func (s *planBoardStub) Load(ctx context.Context) view.PlanBoardSnapshot {
	s.loadCalls++
	return s.snapshot
}

func (s *planBoardStub) Assignments(ctx context.Context) view.PlanBoardSnapshot {
	s.assignmentsCalls++
	return s.snapshot
}

func (s *planBoardStub) CreatePlan(ctx context.Context, form dto.PlanForm) (view.PlanBoardSnapshot, error) {
	return s.snapshot, s.err
}

func (s *planBoardStub) UpdatePlan(ctx context.Context, id int64, form dto.PlanForm) (view.PlanBoardSnapshot, error) {
	return s.snapshot, s.err
}

func (s *planBoardStub) DeletePlan(ctx context.Context, id int64, confirmed bool) (view.PlanBoardSnapshot, error) {
	return s.snapshot, s.err
}

func (s *planBoardStub) Assign(ctx context.Context, form dto.AssignForm) (view.PlanBoardSnapshot, error) {
	return s.snapshot, s.err
}

func planRouter(stub *planBoardStub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewPlanHandler(stub)
	r.GET("/plans", h.List)
	r.GET("/assignments", h.Assignments)
	r.POST("/assignments", h.Assign)
	return r
}

func TestPlanHandlerAssignmentsReturnsAggregation(t *testing.T) {
	stub := &planBoardStub{snapshot: view.PlanBoardSnapshot{
		Assignments: []models.Assignment{{ID: 1, UserID: "u1", PlanName: "Gold"}},
	}}
	router := planRouter(stub)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assignments", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, stub.assignmentsCalls)
	assert.Zero(t, stub.loadCalls, "assignment reads skip the full board load")

	envelope := decodeEnvelope(t, rec)
	require.NotNil(t, envelope.Data)
	assert.Nil(t, envelope.Error)
	assert.Contains(t, rec.Body.String(), "Gold")
}

func TestPlanHandlerListReturnsBoard(t *testing.T) {
	stub := &planBoardStub{snapshot: view.PlanBoardSnapshot{
		Plans: []models.Plan{{ID: 1, Name: "Gold"}},
	}}
	router := planRouter(stub)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/plans", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, stub.loadCalls)
	assert.Contains(t, rec.Body.String(), "Gold")
}
