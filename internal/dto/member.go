package dto

import "github.com/fitdesk/gym-console/internal/models"

// MemberForm carries the member editor fields. Numeric fields arrive as
// text-input strings and are forwarded to the remote API without local
// validation; the remote rejects unparseable values.
type MemberForm struct {
	Name             string                  `json:"name" validate:"required"`
	Age              string                  `json:"age"`
	Gender           string                  `json:"gender"`
	Contact          string                  `json:"contact"`
	MembershipStatus models.MembershipStatus `json:"membershipStatus"`
	JoiningDate      models.DateOnly         `json:"joiningDate"`
}

// DefaultMemberForm returns the editor defaults applied after a successful
// submission: Inactive status and today's joining date.
func DefaultMemberForm() MemberForm {
	return MemberForm{
		MembershipStatus: models.StatusInactive,
		JoiningDate:      models.Today(),
	}
}
