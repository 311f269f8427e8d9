package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fitdesk/gym-console/internal/dto"
	"github.com/fitdesk/gym-console/internal/view"
	appErrors "github.com/fitdesk/gym-console/pkg/errors"
	"github.com/fitdesk/gym-console/pkg/response"
)

type planBoard interface {
	Load(ctx context.Context) view.PlanBoardSnapshot
	Assignments(ctx context.Context) view.PlanBoardSnapshot
	CreatePlan(ctx context.Context, form dto.PlanForm) (view.PlanBoardSnapshot, error)
	UpdatePlan(ctx context.Context, id int64, form dto.PlanForm) (view.PlanBoardSnapshot, error)
	DeletePlan(ctx context.Context, id int64, confirmed bool) (view.PlanBoardSnapshot, error)
	Assign(ctx context.Context, form dto.AssignForm) (view.PlanBoardSnapshot, error)
}

// PlanHandler exposes the plan & assignment view.
type PlanHandler struct {
	board planBoard
}

// NewPlanHandler builds a new handler.
func NewPlanHandler(board planBoard) *PlanHandler {
	return &PlanHandler{board: board}
}

// List godoc
// @Summary Load plans and the aggregated assignment list
// @Tags Plans
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /plans [get]
func (h *PlanHandler) List(c *gin.Context) {
	snap := h.board.Load(c.Request.Context())
	response.JSON(c, http.StatusOK, snap)
}

// Create godoc
// @Summary Create a plan
// @Tags Plans
// @Accept json
// @Produce json
// @Param payload body dto.PlanForm true "Plan fields"
// @Success 201 {object} response.Envelope
// @Router /plans [post]
func (h *PlanHandler) Create(c *gin.Context) {
	var form dto.PlanForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid plan payload"))
		return
	}
	snap, err := h.board.CreatePlan(c.Request.Context(), form)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, snap)
}

// Update godoc
// @Summary Replace a plan
// @Tags Plans
// @Accept json
// @Produce json
// @Param id path int true "Plan ID"
// @Param payload body dto.PlanForm true "Plan fields"
// @Success 200 {object} response.Envelope
// @Router /plans/{id} [put]
func (h *PlanHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid plan id"))
		return
	}
	var form dto.PlanForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid plan payload"))
		return
	}
	snap, err := h.board.UpdatePlan(c.Request.Context(), id, form)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snap)
}

// Delete godoc
// @Summary Delete a plan
// @Tags Plans
// @Produce json
// @Param id path int true "Plan ID"
// @Param confirm query bool true "Must be true; stands in for the interactive confirmation"
// @Success 200 {object} response.Envelope
// @Router /plans/{id} [delete]
func (h *PlanHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid plan id"))
		return
	}
	confirmed := c.Query("confirm") == "true"
	snap, err := h.board.DeletePlan(c.Request.Context(), id, confirmed)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snap)
}

// Assignments godoc
// @Summary Load the aggregated assignment list
// @Tags Plans
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /assignments [get]
func (h *PlanHandler) Assignments(c *gin.Context) {
	snap := h.board.Assignments(c.Request.Context())
	response.JSON(c, http.StatusOK, snap)
}

// Assign godoc
// @Summary Assign a plan to a member
// @Tags Plans
// @Accept json
// @Produce json
// @Param payload body dto.AssignForm true "Assignment fields"
// @Success 201 {object} response.Envelope
// @Router /assignments [post]
func (h *PlanHandler) Assign(c *gin.Context) {
	var form dto.AssignForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}
	snap, err := h.board.Assign(c.Request.Context(), form)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, snap)
}
