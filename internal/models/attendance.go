package models

import "time"

// AttendanceRecord is a check-in row, name-joined by the remote side.
type AttendanceRecord struct {
	ID          int64     `json:"id"`
	UserID      string    `json:"userId"`
	UserName    string    `json:"userName"`
	CheckInTime time.Time `json:"checkInTime"`
}

// CheckInReceipt is the remote response to a manual check-in.
type CheckInReceipt struct {
	UserID      string    `json:"userId"`
	CheckInTime time.Time `json:"checkInTime"`
}
