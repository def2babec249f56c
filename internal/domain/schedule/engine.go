// Package schedule derives replacement due dates and statuses from a part's
// recommended interval and its replacement history. Every function is pure and
// takes "today" explicitly; nothing here reads the clock.
package schedule

import (
	"fmt"
	"time"

	"cpaptracker-service/internal/domain/entity"
	"cpaptracker-service/pkg/utils"
)

const (
	// DueSoonDays is the inclusive upper bound of the due-soon window
	DueSoonDays = 7

	// InitialSetupNotes is stored on events synthesized by InitializeSchedule
	InitialSetupNotes = "Initial setup"
)

// ComputeNextDueDate returns replacedOn + intervalDays
func ComputeNextDueDate(replacedOn time.Time, intervalDays int) (time.Time, error) {
	if intervalDays <= 0 {
		return time.Time{}, fmt.Errorf("%w: got %d", entity.ErrInvalidInterval, intervalDays)
	}
	return utils.AddDays(replacedOn, intervalDays), nil
}

// LatestEvent returns the event for partID with the greatest LastReplacedDate.
// Equal dates are broken by the highest ID. Returns nil when the part has no events.
func LatestEvent(events []*entity.ReplacementEvent, partID uint) *entity.ReplacementEvent {
	var latest *entity.ReplacementEvent
	for _, e := range events {
		if e == nil || e.PartID != partID {
			continue
		}
		if latest == nil || isNewer(e, latest) {
			latest = e
		}
	}
	return latest
}

func isNewer(a, b *entity.ReplacementEvent) bool {
	da, db := utils.DateOf(a.LastReplacedDate), utils.DateOf(b.LastReplacedDate)
	if da.Equal(db) {
		return a.ID > b.ID
	}
	return da.After(db)
}

// DaysUntilReplacement returns nextReplacementDate - today in signed days
func DaysUntilReplacement(latest *entity.ReplacementEvent, today time.Time) int {
	return utils.DaysBetween(today, latest.NextReplacementDate)
}

// DeriveStatus classifies a part. Precedence: not tracked, overdue, due soon, ordered, ok.
// Overdue wins over ordered so an order that has not arrived never hides a late part.
func DeriveStatus(part *entity.Part, latest *entity.ReplacementEvent, today time.Time) entity.Status {
	if latest == nil {
		return entity.StatusNotTracked
	}
	days := DaysUntilReplacement(latest, today)
	switch {
	case days < 0:
		return entity.StatusOverdue
	case days <= DueSoonDays:
		return entity.StatusDueSoon
	case latest.IsOrdered:
		return entity.StatusOrdered
	default:
		return entity.StatusOK
	}
}

// NewStatusView builds the derived view of a part at today
func NewStatusView(part *entity.Part, latest *entity.ReplacementEvent, today time.Time) entity.PartStatusView {
	view := entity.PartStatusView{
		Part:   part,
		Latest: latest,
		Status: DeriveStatus(part, latest, today),
	}
	if latest != nil {
		days := DaysUntilReplacement(latest, today)
		view.DaysUntilReplacement = &days
	}
	return view
}

// MarkReplaced builds a new ledger entry for part replaced on replacedOn.
// Prior events are left untouched; the caller persists the returned event.
func MarkReplaced(part *entity.Part, replacedOn time.Time, notes string) (*entity.ReplacementEvent, error) {
	if part == nil {
		return nil, entity.ErrUnknownPart
	}
	next, err := ComputeNextDueDate(replacedOn, part.RecommendedIntervalDays)
	if err != nil {
		return nil, fmt.Errorf("part %d (%s): %w", part.ID, part.Name, err)
	}
	return &entity.ReplacementEvent{
		PartID:              part.ID,
		LastReplacedDate:    utils.DateOf(replacedOn),
		NextReplacementDate: next,
		IsOrdered:           false,
		ReplacementNotes:    notes,
	}, nil
}

// MarkOrdered returns a copy of latest flagged as ordered on orderedOn
func MarkOrdered(latest *entity.ReplacementEvent, orderedOn time.Time, notes string) (*entity.ReplacementEvent, error) {
	if latest == nil {
		return nil, entity.ErrNoReplacementHistory
	}
	ordered := latest.Clone()
	orderDate := utils.DateOf(orderedOn)
	ordered.IsOrdered = true
	ordered.OrderDate = &orderDate
	ordered.OrderNotes = notes
	return ordered, nil
}

// InitializeSchedule seeds a baseline event dated startDate for a part with no history.
// Returns nil, nil when the part already has a latest event.
func InitializeSchedule(part *entity.Part, existingLatest *entity.ReplacementEvent, startDate time.Time) (*entity.ReplacementEvent, error) {
	if existingLatest != nil {
		return nil, nil
	}
	return MarkReplaced(part, startDate, InitialSetupNotes)
}
