package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitdesk/gym-console/internal/models"
	"github.com/fitdesk/gym-console/internal/view"
	appErrors "github.com/fitdesk/gym-console/pkg/errors"
)

func sampleMembers() []models.Member {
	return []models.Member{
		{
			ID:               "u1",
			Name:             "Asha",
			Age:              31,
			Gender:           "female",
			Contact:          "0711-000001",
			MembershipStatus: models.StatusActive,
			JoiningDate:      models.NewDateOnly(time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)),
		},
	}
}

func TestExportServiceRendersMemberCSV(t *testing.T) {
	svc := NewExportService(nil, nil, nil)

	result, err := svc.RenderMembers(sampleMembers(), FormatCSV)
	require.NoError(t, err)

	assert.Equal(t, "text/csv", result.ContentType)
	assert.True(t, strings.HasPrefix(result.Filename, "members_"))
	assert.True(t, strings.HasSuffix(result.Filename, ".csv"))

	lines := strings.Split(strings.TrimSpace(string(result.Data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Joining Date")
	assert.Contains(t, lines[1], "Asha")
	assert.Contains(t, lines[1], "2026-03-02")
}

func TestExportServiceRendersAttendancePDF(t *testing.T) {
	svc := NewExportService(nil, nil, nil)

	rows := []view.AttendanceRow{
		{
			AttendanceRecord: models.AttendanceRecord{
				ID:          7,
				UserID:      "u1",
				CheckInTime: time.Date(2026, time.August, 26, 9, 30, 0, 0, time.UTC),
			},
			DisplayName: "Asha",
		},
	}

	result, err := svc.RenderAttendance(rows, FormatPDF)
	require.NoError(t, err)

	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, strings.HasSuffix(result.Filename, ".pdf"))
	assert.NotEmpty(t, result.Data)
	assert.True(t, strings.HasPrefix(string(result.Data), "%PDF"), "output starts with the PDF magic")
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	svc := NewExportService(nil, nil, nil)

	_, err := svc.RenderMembers(sampleMembers(), ExportFormat("xlsx"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
