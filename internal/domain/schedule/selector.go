package schedule

import (
	"sort"
	"time"

	"cpaptracker-service/internal/domain/entity"
)

const (
	// DefaultHorizonDays bounds the upcoming replacements list
	DefaultHorizonDays = 30

	// DefaultReminderWindowDays bounds which upcoming parts produce a notification
	DefaultReminderWindowDays = 7
)

// latestByPart reduces events to the latest event per part in one pass
func latestByPart(events []*entity.ReplacementEvent) map[uint]*entity.ReplacementEvent {
	latest := make(map[uint]*entity.ReplacementEvent)
	for _, e := range events {
		if e == nil {
			continue
		}
		if cur, ok := latest[e.PartID]; !ok || isNewer(e, cur) {
			latest[e.PartID] = e
		}
	}
	return latest
}

// Upcoming returns tracked parts due within horizonDays, most urgent first.
// There is no lower bound: parts overdue by any amount are included.
func Upcoming(parts []*entity.Part, events []*entity.ReplacementEvent, today time.Time, horizonDays int) []entity.PartStatusView {
	latest := latestByPart(events)

	views := make([]entity.PartStatusView, 0, len(parts))
	for _, part := range parts {
		if part == nil {
			continue
		}
		event, ok := latest[part.ID]
		if !ok {
			continue
		}
		view := NewStatusView(part, event, today)
		if *view.DaysUntilReplacement <= horizonDays {
			views = append(views, view)
		}
	}

	sortByUrgency(views)
	return views
}

// AllWithStatus returns every part with its status, most urgent first and untracked parts last
func AllWithStatus(parts []*entity.Part, events []*entity.ReplacementEvent, today time.Time) []entity.PartStatusView {
	latest := latestByPart(events)

	views := make([]entity.PartStatusView, 0, len(parts))
	for _, part := range parts {
		if part == nil {
			continue
		}
		views = append(views, NewStatusView(part, latest[part.ID], today))
	}

	sortByUrgency(views)
	return views
}

// SelectForNotification returns the upcoming parts due within windowDays, in urgency order
func SelectForNotification(parts []*entity.Part, events []*entity.ReplacementEvent, today time.Time, windowDays int) []entity.Reminder {
	var reminders []entity.Reminder
	for _, view := range Upcoming(parts, events, today, DefaultHorizonDays) {
		days := *view.DaysUntilReplacement
		if days > windowDays {
			continue
		}
		reminders = append(reminders, entity.Reminder{
			Part:                 view.Part,
			DaysUntilReplacement: days,
		})
	}
	return reminders
}

// sortByUrgency orders by ascending day delta with untracked views last.
// The sort is stable so catalog order breaks ties.
func sortByUrgency(views []entity.PartStatusView) {
	sort.SliceStable(views, func(i, j int) bool {
		di, dj := views[i].DaysUntilReplacement, views[j].DaysUntilReplacement
		switch {
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return *di < *dj
		}
	})
}
