package dto

import "github.com/fitdesk/gym-console/internal/models"

// PlanForm carries the plan editor fields. Price and duration are kept as
// the raw text-input strings, same pass-through policy as MemberForm.
type PlanForm struct {
	Name           string `json:"name" validate:"required"`
	Price          string `json:"price"`
	DurationMonths string `json:"durationMonths"`
	Features       string `json:"features"`
}

// AssignForm carries the plan-assignment fields.
type AssignForm struct {
	UserID    string          `json:"userId" validate:"required"`
	PlanID    int64           `json:"planId" validate:"required"`
	StartDate models.DateOnly `json:"startDate" validate:"required"`
}
