package entity

// Status is the derived urgency classification of a part
type Status string

const (
	StatusNotTracked Status = "NOT_TRACKED"
	StatusOverdue    Status = "OVERDUE"
	StatusDueSoon    Status = "DUE_SOON"
	StatusOrdered    Status = "ORDERED"
	StatusOK         Status = "OK"
)

// PartStatusView pairs a part with its latest replacement event, if any.
// DaysUntilReplacement is nil for untracked parts.
type PartStatusView struct {
	Part                 *Part             `json:"part"`
	Latest               *ReplacementEvent `json:"latest,omitempty"`
	DaysUntilReplacement *int              `json:"daysUntilReplacement,omitempty"`
	Status               Status            `json:"status"`
}

// IsTracked reports whether the part has any replacement history
func (v PartStatusView) IsTracked() bool {
	return v.Latest != nil && v.DaysUntilReplacement != nil
}

// IsOverdue reports whether the next replacement date has passed
func (v PartStatusView) IsOverdue() bool {
	return v.DaysUntilReplacement != nil && *v.DaysUntilReplacement < 0
}

// Reminder is a part selected for notification together with its urgency
type Reminder struct {
	Part                 *Part
	DaysUntilReplacement int
}
