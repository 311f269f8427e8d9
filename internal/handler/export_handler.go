package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/fitdesk/gym-console/internal/models"
	"github.com/fitdesk/gym-console/internal/service"
	"github.com/fitdesk/gym-console/internal/view"
	appErrors "github.com/fitdesk/gym-console/pkg/errors"
	"github.com/fitdesk/gym-console/pkg/response"
)

type exporter interface {
	RenderMembers(members []models.Member, format service.ExportFormat) (*service.ExportResult, error)
	RenderAttendance(rows []view.AttendanceRow, format service.ExportFormat) (*service.ExportResult, error)
}

// ExportHandler serves CSV/PDF downloads of the directory and the
// attendance log. Each download re-fetches through the owning view so the
// file reflects current remote state, not a possibly stale snapshot.
type ExportHandler struct {
	directory memberDirectory
	log       attendanceLog
	exports   exporter
}

// NewExportHandler builds a new handler.
func NewExportHandler(directory memberDirectory, log attendanceLog, exports exporter) *ExportHandler {
	return &ExportHandler{directory: directory, log: log, exports: exports}
}

// Members godoc
// @Summary Download the member directory
// @Tags Exports
// @Param format query string true "csv or pdf"
// @Success 200
// @Router /members/export [get]
func (h *ExportHandler) Members(c *gin.Context) {
	snap := h.directory.Load(c.Request.Context())
	if snap.ListError != "" {
		response.Error(c, appErrors.Clone(appErrors.ErrUpstreamUnavailable, snap.ListError))
		return
	}
	result, err := h.exports.RenderMembers(snap.Members, service.ExportFormat(c.DefaultQuery("format", "csv")))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveDownload(c, result)
}

// Attendance godoc
// @Summary Download the attendance log
// @Tags Exports
// @Param format query string true "csv or pdf"
// @Success 200
// @Router /attendance/export [get]
func (h *ExportHandler) Attendance(c *gin.Context) {
	snap := h.log.Load(c.Request.Context())
	if snap.ListError != "" {
		response.Error(c, appErrors.Clone(appErrors.ErrUpstreamUnavailable, snap.ListError))
		return
	}
	result, err := h.exports.RenderAttendance(snap.Rows, service.ExportFormat(c.DefaultQuery("format", "csv")))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveDownload(c, result)
}

func serveDownload(c *gin.Context, result *service.ExportResult) {
	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(200, result.ContentType, result.Data)
}
