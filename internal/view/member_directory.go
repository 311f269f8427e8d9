package view

import (
	"context"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fitdesk/gym-console/internal/dto"
	"github.com/fitdesk/gym-console/internal/models"
	"github.com/fitdesk/gym-console/internal/upstream"
	appErrors "github.com/fitdesk/gym-console/pkg/errors"
)

const memberListError = "failed to load members"

type memberAPI interface {
	ListMembers(ctx context.Context) ([]models.Member, error)
	CreateMember(ctx context.Context, payload upstream.MemberPayload) error
	UpdateMember(ctx context.Context, id string, payload upstream.MemberPayload) error
	DeleteMember(ctx context.Context, id string) error
}

// MemberDirectorySnapshot is the rendered state of the directory view.
type MemberDirectorySnapshot struct {
	Members     []models.Member `json:"members"`
	ListError   string          `json:"listError,omitempty"`
	Form        dto.MemberForm  `json:"form"`
	FormError   string          `json:"formError,omitempty"`
	ActivePanel Panel           `json:"activePanel"`
	Submitting  bool            `json:"submitting"`
}

// MemberDirectory owns the member list and its editor form state.
type MemberDirectory struct {
	mu       sync.Mutex
	api      memberAPI
	validate *validator.Validate
	logger   *zap.Logger

	members    []models.Member
	listErr    string
	form       dto.MemberForm
	formErr    string
	panel      Panel
	submitting bool
}

// NewMemberDirectory builds the directory view.
func NewMemberDirectory(api memberAPI, validate *validator.Validate, logger *zap.Logger) *MemberDirectory {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemberDirectory{
		api:      api,
		validate: validate,
		logger:   logger,
		form:     dto.DefaultMemberForm(),
		panel:    PanelNone,
	}
}

// Snapshot returns the current state without touching the remote.
func (d *MemberDirectory) Snapshot() MemberDirectorySnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked()
}

// Load fetches the roster. On failure the previous list stays on screen
// with the fixed load error; there is no automatic retry.
func (d *MemberDirectory) Load(ctx context.Context) MemberDirectorySnapshot {
	members, err := d.api.ListMembers(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		d.logger.Warn("member list load failed", zap.Error(err))
		d.listErr = memberListError
	} else {
		d.members = members
		d.listErr = ""
	}
	return d.snapshotLocked()
}

// OpenEditor opens the edit panel pre-filled with the given draft.
func (d *MemberDirectory) OpenEditor(form dto.MemberForm) MemberDirectorySnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.panel = PanelEditMember
	d.form = form
	d.formErr = ""
	return d.snapshotLocked()
}

// CloseEditor closes the edit panel, discarding the draft.
func (d *MemberDirectory) CloseEditor() MemberDirectorySnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.panel = PanelNone
	d.form = dto.DefaultMemberForm()
	d.formErr = ""
	return d.snapshotLocked()
}

// Create submits a new full member record.
func (d *MemberDirectory) Create(ctx context.Context, form dto.MemberForm) (MemberDirectorySnapshot, error) {
	return d.submit(ctx, form, func(ctx context.Context) error {
		return d.api.CreateMember(ctx, memberPayload(form))
	})
}

// Update replaces the identified member record in full.
func (d *MemberDirectory) Update(ctx context.Context, id string, form dto.MemberForm) (MemberDirectorySnapshot, error) {
	if id == "" {
		return d.failValidation(form, "member id is required"), appErrors.Clone(appErrors.ErrValidation, "member id is required")
	}
	return d.submit(ctx, form, func(ctx context.Context) error {
		return d.api.UpdateMember(ctx, id, memberPayload(form))
	})
}

// Delete removes a member after interactive confirmation. On failure the
// list is left stale until the next manual refresh.
func (d *MemberDirectory) Delete(ctx context.Context, id string, confirmed bool) (MemberDirectorySnapshot, error) {
	if !confirmed {
		d.mu.Lock()
		snap := d.snapshotLocked()
		d.mu.Unlock()
		return snap, appErrors.Clone(appErrors.ErrValidation, "delete requires confirmation")
	}

	if err := d.api.DeleteMember(ctx, id); err != nil {
		d.logger.Warn("member delete failed", zap.String("member_id", id), zap.Error(err))
		d.mu.Lock()
		d.listErr = "failed to delete member"
		snap := d.snapshotLocked()
		d.mu.Unlock()
		return snap, err
	}
	return d.Load(ctx), nil
}

func (d *MemberDirectory) submit(ctx context.Context, form dto.MemberForm, call func(context.Context) error) (MemberDirectorySnapshot, error) {
	if err := d.validate.Struct(form); err != nil {
		return d.failValidation(form, "member name is required"), appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "member name is required")
	}

	d.mu.Lock()
	if d.submitting {
		snap := d.snapshotLocked()
		d.mu.Unlock()
		return snap, appErrors.ErrSubmitInFlight
	}
	d.submitting = true
	d.panel = PanelEditMember
	d.form = form
	d.mu.Unlock()

	err := call(ctx)

	if err != nil {
		// Keep the panel open with the entered values so nothing is lost.
		d.mu.Lock()
		d.submitting = false
		d.formErr = appErrors.FromError(err).Message
		snap := d.snapshotLocked()
		d.mu.Unlock()
		return snap, err
	}

	members, loadErr := d.api.ListMembers(ctx)

	d.mu.Lock()
	d.submitting = false
	d.formErr = ""
	d.panel = PanelNone
	d.form = dto.DefaultMemberForm()
	if loadErr != nil {
		d.listErr = memberListError
	} else {
		d.members = members
		d.listErr = ""
	}
	snap := d.snapshotLocked()
	d.mu.Unlock()
	return snap, nil
}

func (d *MemberDirectory) failValidation(form dto.MemberForm, message string) MemberDirectorySnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.panel = PanelEditMember
	d.form = form
	d.formErr = message
	return d.snapshotLocked()
}

func (d *MemberDirectory) snapshotLocked() MemberDirectorySnapshot {
	return MemberDirectorySnapshot{
		Members:     d.members,
		ListError:   d.listErr,
		Form:        d.form,
		FormError:   d.formErr,
		ActivePanel: d.panel,
		Submitting:  d.submitting,
	}
}
