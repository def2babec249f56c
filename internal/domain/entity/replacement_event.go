package entity

import "time"

// ReplacementEvent is one historical record of a part being replaced.
// NextReplacementDate is computed once when the event is created and never recomputed.
type ReplacementEvent struct {
	ID                  uint       `json:"id"`
	PartID              uint       `json:"partId"`
	LastReplacedDate    time.Time  `json:"lastReplacedDate"`
	NextReplacementDate time.Time  `json:"nextReplacementDate"`
	IsOrdered           bool       `json:"isOrdered"`
	OrderDate           *time.Time `json:"orderDate,omitempty"`
	OrderNotes          string     `json:"orderNotes"`
	ReplacementNotes    string     `json:"replacementNotes"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// Clone returns a copy that shares no pointers with e
func (e *ReplacementEvent) Clone() *ReplacementEvent {
	if e == nil {
		return nil
	}
	c := *e
	if e.OrderDate != nil {
		d := *e.OrderDate
		c.OrderDate = &d
	}
	return &c
}

// Snapshot is a mutually consistent read of the catalog and the ledger
type Snapshot struct {
	Parts  []*Part
	Events []*ReplacementEvent
}
