package models

// MembershipStatus enumerates the membership states shown in the directory.
type MembershipStatus string

const (
	StatusActive   MembershipStatus = "Active"
	StatusInactive MembershipStatus = "Inactive"
	StatusExpired  MembershipStatus = "Expired"
)

// Valid returns true when the status is a supported value.
func (s MembershipStatus) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusExpired:
		return true
	default:
		return false
	}
}

// Member represents a gym member as transferred by the remote API, which
// calls them "users" at the wire level.
type Member struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Age              int              `json:"age"`
	Gender           string           `json:"gender"`
	Contact          string           `json:"contact"`
	MembershipStatus MembershipStatus `json:"membershipStatus"`
	JoiningDate      DateOnly         `json:"joiningDate"`
}
