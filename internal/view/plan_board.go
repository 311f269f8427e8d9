package view

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fitdesk/gym-console/internal/dto"
	"github.com/fitdesk/gym-console/internal/models"
	"github.com/fitdesk/gym-console/internal/upstream"
	appErrors "github.com/fitdesk/gym-console/pkg/errors"
)

const (
	planListError       = "failed to load plans"
	assignmentListError = "failed to load plan assignments"

	defaultFanoutConcurrency = 4
)

type planAPI interface {
	ListMembers(ctx context.Context) ([]models.Member, error)
	ListPlans(ctx context.Context) ([]models.Plan, error)
	CreatePlan(ctx context.Context, payload upstream.PlanPayload) error
	UpdatePlan(ctx context.Context, id int64, payload upstream.PlanPayload) error
	DeletePlan(ctx context.Context, id int64) error
	MemberAssignments(ctx context.Context, userID string) ([]models.Assignment, error)
	AssignPlan(ctx context.Context, payload upstream.AssignmentPayload) error
}

type fanoutObserver interface {
	ObserveFanout(legs int, duration time.Duration)
}

// PlanBoardSnapshot is the rendered state of the plan & assignment view.
type PlanBoardSnapshot struct {
	Plans            []models.Plan       `json:"plans"`
	PlanError        string              `json:"planError,omitempty"`
	Members          []models.Member     `json:"members"`
	Assignments      []models.Assignment `json:"assignments"`
	AssignmentsError string              `json:"assignmentsError,omitempty"`
	PlanForm         dto.PlanForm        `json:"planForm"`
	PlanFormError    string              `json:"planFormError,omitempty"`
	AssignForm       dto.AssignForm      `json:"assignForm"`
	AssignError      string              `json:"assignError,omitempty"`
	ActivePanel      Panel               `json:"activePanel"`
	PlanSubmitting   bool                `json:"planSubmitting"`
	AssignSubmitting bool                `json:"assignSubmitting"`
}

// PlanBoard owns the plan list, the member roster for the assign form, and
// the aggregated assignment list. The aggregation is the one fan-out in the
// console: the remote API only exposes assignments per member.
type PlanBoard struct {
	mu       sync.Mutex
	api      planAPI
	validate *validator.Validate
	logger   *zap.Logger
	metrics  fanoutObserver
	fanout   int

	plans      []models.Plan
	planErr    string
	members    []models.Member
	rows       []models.Assignment
	rowsErr    string
	planForm   dto.PlanForm
	planFrmErr string
	assignForm dto.AssignForm
	assignErr  string
	panel      Panel

	planSubmitting   bool
	assignSubmitting bool
}

// NewPlanBoard builds the plan & assignment view. fanout bounds the number
// of concurrent per-member assignment fetches.
func NewPlanBoard(api planAPI, fanout int, metrics fanoutObserver, validate *validator.Validate, logger *zap.Logger) *PlanBoard {
	if fanout <= 0 {
		fanout = defaultFanoutConcurrency
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanBoard{
		api:      api,
		validate: validate,
		logger:   logger,
		metrics:  metrics,
		fanout:   fanout,
		panel:    PanelNone,
	}
}

// Snapshot returns the current state without touching the remote.
func (b *PlanBoard) Snapshot() PlanBoardSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

// Load runs the mount sequence: plan list, then the assignment aggregation
// (which also refreshes the member roster used by the assign form).
func (b *PlanBoard) Load(ctx context.Context) PlanBoardSnapshot {
	b.loadPlans(ctx)
	b.refreshAssignments(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

// CreatePlan submits a new plan.
func (b *PlanBoard) CreatePlan(ctx context.Context, form dto.PlanForm) (PlanBoardSnapshot, error) {
	return b.submitPlan(ctx, form, func(ctx context.Context) error {
		return b.api.CreatePlan(ctx, planPayload(form))
	})
}

// UpdatePlan replaces the identified plan in full.
func (b *PlanBoard) UpdatePlan(ctx context.Context, id int64, form dto.PlanForm) (PlanBoardSnapshot, error) {
	return b.submitPlan(ctx, form, func(ctx context.Context) error {
		return b.api.UpdatePlan(ctx, id, planPayload(form))
	})
}

// DeletePlan removes a plan after confirmation. Deleting a plan may
// invalidate assignment rows remotely, so the aggregation is re-run along
// with the plan list.
func (b *PlanBoard) DeletePlan(ctx context.Context, id int64, confirmed bool) (PlanBoardSnapshot, error) {
	if !confirmed {
		b.mu.Lock()
		snap := b.snapshotLocked()
		b.mu.Unlock()
		return snap, appErrors.Clone(appErrors.ErrValidation, "delete requires confirmation")
	}

	if err := b.api.DeletePlan(ctx, id); err != nil {
		b.logger.Warn("plan delete failed", zap.Int64("plan_id", id), zap.Error(err))
		b.mu.Lock()
		b.planErr = "failed to delete plan"
		snap := b.snapshotLocked()
		b.mu.Unlock()
		return snap, err
	}

	b.loadPlans(ctx)
	b.refreshAssignments(ctx)

	b.mu.Lock()
	snap := b.snapshotLocked()
	b.mu.Unlock()
	return snap, nil
}

// Assign binds a member to a plan. Success re-runs the aggregation, which
// also refetches the roster: the remote may flip the member's displayed
// membership status.
func (b *PlanBoard) Assign(ctx context.Context, form dto.AssignForm) (PlanBoardSnapshot, error) {
	if err := b.validate.Struct(form); err != nil {
		b.mu.Lock()
		b.panel = PanelAssign
		b.assignForm = form
		b.assignErr = "member, plan and start date are required"
		snap := b.snapshotLocked()
		b.mu.Unlock()
		return snap, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "member, plan and start date are required")
	}

	b.mu.Lock()
	if b.assignSubmitting {
		snap := b.snapshotLocked()
		b.mu.Unlock()
		return snap, appErrors.ErrSubmitInFlight
	}
	b.assignSubmitting = true
	b.panel = PanelAssign
	b.assignForm = form
	b.mu.Unlock()

	err := b.api.AssignPlan(ctx, upstream.AssignmentPayload{
		UserID:    form.UserID,
		PlanID:    form.PlanID,
		StartDate: form.StartDate,
	})

	if err != nil {
		b.mu.Lock()
		b.assignSubmitting = false
		b.assignErr = appErrors.FromError(err).Message
		snap := b.snapshotLocked()
		b.mu.Unlock()
		return snap, err
	}

	b.mu.Lock()
	b.assignSubmitting = false
	b.assignErr = ""
	b.assignForm = dto.AssignForm{}
	b.panel = PanelNone
	b.mu.Unlock()

	b.refreshAssignments(ctx)

	b.mu.Lock()
	snap := b.snapshotLocked()
	b.mu.Unlock()
	return snap, nil
}

// Assignments re-runs the aggregation on demand without reloading the plan
// list.
func (b *PlanBoard) Assignments(ctx context.Context) PlanBoardSnapshot {
	b.refreshAssignments(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

// OpenPanel switches the exclusive form panel.
func (b *PlanBoard) OpenPanel(panel Panel) PlanBoardSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch panel {
	case PanelEditPlan, PanelAssign, PanelNone:
		b.panel = panel
	}
	return b.snapshotLocked()
}

func (b *PlanBoard) loadPlans(ctx context.Context) {
	plans, err := b.api.ListPlans(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.logger.Warn("plan list load failed", zap.Error(err))
		b.planErr = planListError
		return
	}
	b.plans = plans
	b.planErr = ""
}

// refreshAssignments aggregates assignments across the whole roster. Legs
// run concurrently but results are collected by member position, so the
// concatenation order is exactly member-fetch order. Any failed leg fails
// the aggregation and the previous rows stay on screen.
func (b *PlanBoard) refreshAssignments(ctx context.Context) {
	start := time.Now()

	members, err := b.api.ListMembers(ctx)
	if err != nil {
		b.logger.Warn("assignment aggregation: roster fetch failed", zap.Error(err))
		b.mu.Lock()
		b.rowsErr = assignmentListError
		b.mu.Unlock()
		return
	}

	ordered := make([][]models.Assignment, len(members))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.fanout)
	for i, m := range members {
		i, id := i, m.ID
		g.Go(func() error {
			rows, err := b.api.MemberAssignments(gctx, id)
			if err != nil {
				return fmt.Errorf("assignments for member %s: %w", id, err)
			}
			ordered[i] = rows
			return nil
		})
	}

	err = g.Wait()
	if b.metrics != nil {
		b.metrics.ObserveFanout(len(members), time.Since(start))
	}
	if err != nil {
		b.logger.Warn("assignment aggregation failed", zap.Error(err))
		b.mu.Lock()
		b.rowsErr = assignmentListError
		b.mu.Unlock()
		return
	}

	var all []models.Assignment
	for _, rows := range ordered {
		all = append(all, rows...)
	}

	b.mu.Lock()
	b.members = members
	b.rows = all
	b.rowsErr = ""
	b.mu.Unlock()
}

func (b *PlanBoard) submitPlan(ctx context.Context, form dto.PlanForm, call func(context.Context) error) (PlanBoardSnapshot, error) {
	if err := b.validate.Struct(form); err != nil {
		b.mu.Lock()
		b.panel = PanelEditPlan
		b.planForm = form
		b.planFrmErr = "plan name is required"
		snap := b.snapshotLocked()
		b.mu.Unlock()
		return snap, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "plan name is required")
	}

	b.mu.Lock()
	if b.planSubmitting {
		snap := b.snapshotLocked()
		b.mu.Unlock()
		return snap, appErrors.ErrSubmitInFlight
	}
	b.planSubmitting = true
	b.panel = PanelEditPlan
	b.planForm = form
	b.mu.Unlock()

	err := call(ctx)

	if err != nil {
		b.mu.Lock()
		b.planSubmitting = false
		b.planFrmErr = appErrors.FromError(err).Message
		snap := b.snapshotLocked()
		b.mu.Unlock()
		return snap, err
	}

	b.mu.Lock()
	b.planSubmitting = false
	b.planFrmErr = ""
	b.planForm = dto.PlanForm{}
	b.panel = PanelNone
	b.mu.Unlock()

	b.loadPlans(ctx)

	b.mu.Lock()
	snap := b.snapshotLocked()
	b.mu.Unlock()
	return snap, nil
}

func (b *PlanBoard) snapshotLocked() PlanBoardSnapshot {
	return PlanBoardSnapshot{
		Plans:            b.plans,
		PlanError:        b.planErr,
		Members:          b.members,
		Assignments:      b.rows,
		AssignmentsError: b.rowsErr,
		PlanForm:         b.planForm,
		PlanFormError:    b.planFrmErr,
		AssignForm:       b.assignForm,
		AssignError:      b.assignErr,
		ActivePanel:      b.panel,
		PlanSubmitting:   b.planSubmitting,
		AssignSubmitting: b.assignSubmitting,
	}
}
