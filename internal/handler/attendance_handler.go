package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fitdesk/gym-console/internal/dto"
	"github.com/fitdesk/gym-console/internal/view"
	appErrors "github.com/fitdesk/gym-console/pkg/errors"
	"github.com/fitdesk/gym-console/pkg/response"
)

type attendanceLog interface {
	Load(ctx context.Context) view.AttendanceLogSnapshot
	CheckIn(ctx context.Context, req dto.CheckInRequest) (view.AttendanceLogSnapshot, error)
}

// AttendanceHandler exposes the attendance view.
type AttendanceHandler struct {
	log attendanceLog
}

// NewAttendanceHandler builds a new handler.
func NewAttendanceHandler(log attendanceLog) *AttendanceHandler {
	return &AttendanceHandler{log: log}
}

// List godoc
// @Summary Load the attendance log
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	snap := h.log.Load(c.Request.Context())
	response.JSON(c, http.StatusOK, snap)
}

// CheckIn godoc
// @Summary Record a manual check-in
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body dto.CheckInRequest true "Member to check in"
// @Success 201 {object} response.Envelope
// @Router /attendance/checkin [post]
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	var req dto.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid check-in payload"))
		return
	}
	snap, err := h.log.CheckIn(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, snap)
}
