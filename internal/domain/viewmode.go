package domain

import "fmt"

// ViewMode selects which half of a checklist a filtered view shows.
type ViewMode string

const (
	ViewPending   ViewMode = "pending"
	ViewCompleted ViewMode = "completed"
)

// ParseViewMode validates a view mode string.
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(s) {
	case ViewPending, ViewCompleted:
		return ViewMode(s), nil
	default:
		return "", fmt.Errorf("unknown view mode %q (expected pending|completed)", s)
	}
}

// Matches reports whether a node with the given completion belongs to the view.
func (m ViewMode) Matches(completed bool) bool {
	if m == ViewCompleted {
		return completed
	}
	return !completed
}
