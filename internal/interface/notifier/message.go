package notifier

import "fmt"

// Priority of a reminder message
type Priority string

const (
	PriorityHigh    Priority = "HIGH"
	PriorityDefault Priority = "DEFAULT"
)

// Message is the rendered form of one reminder
type Message struct {
	Title    string
	Body     string
	Priority Priority
}

// BuildMessage renders the reminder for a part by urgency tier:
// overdue, due today, due within a week, upcoming.
func BuildMessage(partName string, daysUntilReplacement int) Message {
	switch {
	case daysUntilReplacement < 0:
		return Message{
			Title:    fmt.Sprintf("OVERDUE: Replace %s", partName),
			Body:     fmt.Sprintf("Your %s is overdue for replacement by %d days", partName, -daysUntilReplacement),
			Priority: PriorityHigh,
		}
	case daysUntilReplacement == 0:
		return Message{
			Title:    fmt.Sprintf("Replace %s Today", partName),
			Body:     fmt.Sprintf("Time to replace your %s", partName),
			Priority: PriorityHigh,
		}
	case daysUntilReplacement <= 7:
		return Message{
			Title:    fmt.Sprintf("Replace %s Soon", partName),
			Body:     fmt.Sprintf("Replace your %s in %d days", partName, daysUntilReplacement),
			Priority: PriorityDefault,
		}
	default:
		return Message{
			Title:    fmt.Sprintf("Upcoming: Replace %s", partName),
			Body:     fmt.Sprintf("Replace your %s in %d days", partName, daysUntilReplacement),
			Priority: PriorityDefault,
		}
	}
}
