package dto

// CheckInRequest carries the manual check-in field.
type CheckInRequest struct {
	UserID string `json:"userId" validate:"required"`
}
