// Package view holds the console's per-page state containers. Each view
// owns transient copies of the entities it displays, its error strings and
// its submitting flag; nothing is shared between views, so the same data
// may be fetched redundantly by two mounted views. Failures never escape a
// view as panics or bare errors: they become display strings in the
// snapshot, with a typed error returned only so the transport layer can map
// a status code.
package view

import (
	"strconv"
	"strings"

	"github.com/fitdesk/gym-console/internal/dto"
	"github.com/fitdesk/gym-console/internal/upstream"
)

// Panel identifies which form panel is open on a view. Panels are mutually
// exclusive; a single enum rules out the both-open state two booleans
// would allow.
type Panel string

const (
	PanelNone       Panel = "none"
	PanelEditMember Panel = "editMember"
	PanelEditPlan   Panel = "editPlan"
	PanelAssign     Panel = "assign"
)

// numericField forwards a text-input value: parsed number when possible,
// otherwise the raw string for the remote to reject.
func numericField(raw string) interface{} {
	trimmed := strings.TrimSpace(raw)
	if n, err := strconv.Atoi(trimmed); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return f
	}
	return raw
}

func memberPayload(form dto.MemberForm) upstream.MemberPayload {
	return upstream.MemberPayload{
		Name:             form.Name,
		Age:              numericField(form.Age),
		Gender:           form.Gender,
		Contact:          form.Contact,
		MembershipStatus: form.MembershipStatus,
		JoiningDate:      form.JoiningDate,
	}
}

func planPayload(form dto.PlanForm) upstream.PlanPayload {
	return upstream.PlanPayload{
		Name:           form.Name,
		Price:          numericField(form.Price),
		DurationMonths: numericField(form.DurationMonths),
		Features:       form.Features,
	}
}
