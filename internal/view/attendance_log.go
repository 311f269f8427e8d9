package view

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fitdesk/gym-console/internal/dto"
	"github.com/fitdesk/gym-console/internal/models"
	appErrors "github.com/fitdesk/gym-console/pkg/errors"
)

const (
	attendanceListError = "failed to load attendance records"
	nameTableError      = "failed to load member names"
	checkInFallback     = "check in failed, ensure the id is valid"
	unknownMemberName   = "Unknown User"
)

type attendanceAPI interface {
	ListMembers(ctx context.Context) ([]models.Member, error)
	ListAttendance(ctx context.Context) ([]models.AttendanceRecord, error)
	CheckIn(ctx context.Context, userID string) (*models.CheckInReceipt, error)
}

// AttendanceRow is a check-in record with its display name resolved.
type AttendanceRow struct {
	models.AttendanceRecord
	DisplayName string `json:"displayName"`
}

// AttendanceLogSnapshot is the rendered state of the attendance view.
type AttendanceLogSnapshot struct {
	Rows         []AttendanceRow `json:"rows"`
	ListError    string          `json:"listError,omitempty"`
	Banner       string          `json:"banner,omitempty"`
	Notice       string          `json:"notice,omitempty"`
	CheckInError string          `json:"checkInError,omitempty"`
	Submitting   bool            `json:"submitting"`
}

// AttendanceLog owns the check-in list and the id-to-name resolution table.
type AttendanceLog struct {
	mu       sync.Mutex
	api      attendanceAPI
	validate *validator.Validate
	logger   *zap.Logger

	names      map[string]string
	rows       []AttendanceRow
	listErr    string
	banner     string
	notice     string
	checkInErr string
	submitting bool
}

// NewAttendanceLog builds the attendance view.
func NewAttendanceLog(api attendanceAPI, validate *validator.Validate, logger *zap.Logger) *AttendanceLog {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceLog{
		api:      api,
		validate: validate,
		logger:   logger,
		names:    map[string]string{},
	}
}

// Snapshot returns the current state without touching the remote.
func (l *AttendanceLog) Snapshot() AttendanceLogSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

// Load runs the order-dependent mount sequence: the name table must be
// built before records are resolved. A failed name fetch raises the banner
// but does not block the attendance list.
func (l *AttendanceLog) Load(ctx context.Context) AttendanceLogSnapshot {
	members, err := l.api.ListMembers(ctx)

	l.mu.Lock()
	if err != nil {
		l.logger.Warn("name table load failed", zap.Error(err))
		l.banner = nameTableError
	} else {
		names := make(map[string]string, len(members))
		for _, m := range members {
			names[m.ID] = m.Name
		}
		l.names = names
		l.banner = ""
	}
	l.mu.Unlock()

	records, err := l.api.ListAttendance(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.logger.Warn("attendance list load failed", zap.Error(err))
		l.listErr = attendanceListError
	} else {
		l.rows = l.resolveLocked(records)
		l.listErr = ""
	}
	return l.snapshotLocked()
}

// CheckIn records a manual check-in and refetches the list on success. The
// success notice resolves the response's member id against the name table,
// falling back to a truncated id when the table has no entry.
func (l *AttendanceLog) CheckIn(ctx context.Context, req dto.CheckInRequest) (AttendanceLogSnapshot, error) {
	if err := l.validate.Struct(req); err != nil {
		l.mu.Lock()
		l.checkInErr = checkInFallback
		snap := l.snapshotLocked()
		l.mu.Unlock()
		return snap, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "member id is required")
	}

	l.mu.Lock()
	if l.submitting {
		snap := l.snapshotLocked()
		l.mu.Unlock()
		return snap, appErrors.ErrSubmitInFlight
	}
	l.submitting = true
	l.notice = ""
	l.checkInErr = ""
	l.mu.Unlock()

	receipt, err := l.api.CheckIn(ctx, req.UserID)

	if err != nil {
		appErr := appErrors.FromError(err)
		message := checkInFallback
		if appErr.Code == appErrors.CodeUpstreamRejected {
			// The remote sent a message field; surface it verbatim.
			message = appErr.Message
		}
		l.mu.Lock()
		l.submitting = false
		l.checkInErr = message
		snap := l.snapshotLocked()
		l.mu.Unlock()
		return snap, err
	}

	l.mu.Lock()
	l.submitting = false
	name, ok := l.names[receipt.UserID]
	if !ok || name == "" {
		name = truncateID(receipt.UserID)
	}
	l.notice = fmt.Sprintf("Checked in %s", name)
	l.mu.Unlock()

	records, loadErr := l.api.ListAttendance(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if loadErr != nil {
		l.listErr = attendanceListError
	} else {
		l.rows = l.resolveLocked(records)
		l.listErr = ""
	}
	return l.snapshotLocked(), nil
}

func (l *AttendanceLog) resolveLocked(records []models.AttendanceRecord) []AttendanceRow {
	rows := make([]AttendanceRow, 0, len(records))
	for _, r := range records {
		name := l.names[r.UserID]
		if name == "" {
			name = r.UserName
		}
		if name == "" {
			name = unknownMemberName
		}
		rows = append(rows, AttendanceRow{AttendanceRecord: r, DisplayName: name})
	}
	return rows
}

func (l *AttendanceLog) snapshotLocked() AttendanceLogSnapshot {
	return AttendanceLogSnapshot{
		Rows:         l.rows,
		ListError:    l.listErr,
		Banner:       l.banner,
		Notice:       l.notice,
		CheckInError: l.checkInErr,
		Submitting:   l.submitting,
	}
}

// truncateID shortens an opaque id for display: first 8 runes plus an
// ellipsis, or the whole id when it is already short.
func truncateID(id string) string {
	runes := []rune(id)
	if len(runes) <= 8 {
		return id
	}
	return string(runes[:8]) + "…"
}
