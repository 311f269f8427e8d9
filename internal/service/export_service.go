package service

import (
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/fitdesk/gym-console/internal/models"
	"github.com/fitdesk/gym-console/internal/view"
	appErrors "github.com/fitdesk/gym-console/pkg/errors"
	"github.com/fitdesk/gym-console/pkg/export"
)

// ExportFormat selects the download encoding.
type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

// ExportResult is a rendered download.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportService renders view data as CSV or PDF downloads.
type ExportService struct {
	csv    csvRenderer
	pdf    pdfRenderer
	logger *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{csv: csv, pdf: pdf, logger: logger}
}

// RenderMembers produces the member directory download.
func (s *ExportService) RenderMembers(members []models.Member, format ExportFormat) (*ExportResult, error) {
	data := export.Dataset{
		Headers: []string{"ID", "Name", "Age", "Gender", "Contact", "Status", "Joining Date"},
	}
	for _, m := range members {
		data.Rows = append(data.Rows, []string{
			m.ID,
			m.Name,
			strconv.Itoa(m.Age),
			m.Gender,
			m.Contact,
			string(m.MembershipStatus),
			m.JoiningDate.String(),
		})
	}
	return s.render(data, "member directory", "members", format)
}

// RenderAttendance produces the attendance log download.
func (s *ExportService) RenderAttendance(rows []view.AttendanceRow, format ExportFormat) (*ExportResult, error) {
	data := export.Dataset{
		Headers: []string{"ID", "Member", "Check-In Time"},
	}
	for _, r := range rows {
		data.Rows = append(data.Rows, []string{
			strconv.FormatInt(r.ID, 10),
			r.DisplayName,
			r.CheckInTime.Format(time.RFC3339),
		})
	}
	return s.render(data, "attendance log", "attendance", format)
}

func (s *ExportService) render(data export.Dataset, title, stem string, format ExportFormat) (*ExportResult, error) {
	stamp := time.Now().UTC().Format("20060102")
	switch format {
	case FormatCSV:
		encoded, err := s.csv.Render(data)
		if err != nil {
			s.logger.Error("csv export failed", zap.String("dataset", stem), zap.Error(err))
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("%s_%s.csv", stem, stamp),
			ContentType: "text/csv",
			Data:        encoded,
		}, nil
	case FormatPDF:
		encoded, err := s.pdf.Render(data, title)
		if err != nil {
			s.logger.Error("pdf export failed", zap.String("dataset", stem), zap.Error(err))
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("%s_%s.pdf", stem, stamp),
			ContentType: "application/pdf",
			Data:        encoded,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}
