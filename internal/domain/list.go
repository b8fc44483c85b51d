package domain

import "time"

// DefaultListTitle is used when a list is created without a title.
const DefaultListTitle = "Sin nombre"

type List struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Position  int       `json:"-"`
	Items     Forest    `json:"items"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ListSummary is the navigation projection of a List.
type ListSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Summary returns the list without its items.
func (l *List) Summary() ListSummary {
	return ListSummary{ID: l.ID, Title: l.Title}
}
