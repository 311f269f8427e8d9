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

type memberDirectory interface {
	Load(ctx context.Context) view.MemberDirectorySnapshot
	Create(ctx context.Context, form dto.MemberForm) (view.MemberDirectorySnapshot, error)
	Update(ctx context.Context, id string, form dto.MemberForm) (view.MemberDirectorySnapshot, error)
	Delete(ctx context.Context, id string, confirmed bool) (view.MemberDirectorySnapshot, error)
}

// MemberHandler exposes the member directory view.
type MemberHandler struct {
	directory memberDirectory
}

// NewMemberHandler builds a new handler.
func NewMemberHandler(directory memberDirectory) *MemberHandler {
	return &MemberHandler{directory: directory}
}

// List godoc
// @Summary Load the member directory
// @Tags Members
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /members [get]
func (h *MemberHandler) List(c *gin.Context) {
	snap := h.directory.Load(c.Request.Context())
	response.JSON(c, http.StatusOK, snap)
}

// Create godoc
// @Summary Create a member
// @Tags Members
// @Accept json
// @Produce json
// @Param payload body dto.MemberForm true "Member fields"
// @Success 201 {object} response.Envelope
// @Router /members [post]
func (h *MemberHandler) Create(c *gin.Context) {
	var form dto.MemberForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid member payload"))
		return
	}
	snap, err := h.directory.Create(c.Request.Context(), form)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, snap)
}

// Update godoc
// @Summary Replace a member record
// @Tags Members
// @Accept json
// @Produce json
// @Param id path string true "Member ID"
// @Param payload body dto.MemberForm true "Member fields"
// @Success 200 {object} response.Envelope
// @Router /members/{id} [put]
func (h *MemberHandler) Update(c *gin.Context) {
	var form dto.MemberForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid member payload"))
		return
	}
	snap, err := h.directory.Update(c.Request.Context(), c.Param("id"), form)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snap)
}

// Delete godoc
// @Summary Delete a member
// @Tags Members
// @Produce json
// @Param id path string true "Member ID"
// @Param confirm query bool true "Must be true; stands in for the interactive confirmation"
// @Success 200 {object} response.Envelope
// @Router /members/{id} [delete]
func (h *MemberHandler) Delete(c *gin.Context) {
	confirmed := c.Query("confirm") == "true"
	snap, err := h.directory.Delete(c.Request.Context(), c.Param("id"), confirmed)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snap)
}
