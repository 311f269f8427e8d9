package models

// Plan is a membership offering. Features stay a comma-separated string;
// the console never parses them structurally.
type Plan struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	DurationMonths int     `json:"durationMonths"`
	Features       string  `json:"features"`
}

// Assignment binds a member to a plan for a date range. The end date is
// computed by the remote side from the plan duration.
type Assignment struct {
	ID        int64    `json:"id"`
	UserID    string   `json:"userId"`
	UserName  string   `json:"userName"`
	PlanID    int64    `json:"planId"`
	PlanName  string   `json:"planName"`
	StartDate DateOnly `json:"startDate"`
	EndDate   DateOnly `json:"endDate"`
}
