package repository

import (
	"context"

	"github.com/alexanderramin/arbor/internal/domain"
)

// ListRepo persists lists together with their item trees.
type ListRepo interface {
	// List returns every list with its items, ordered by position.
	List(ctx context.Context) ([]*domain.List, error)
	ListSummaries(ctx context.Context) ([]domain.ListSummary, error)
	GetByID(ctx context.Context, id string) (*domain.List, error)
	// Create appends l after the existing lists and stores its items.
	Create(ctx context.Context, l *domain.List) error
	// Delete removes the list and cascades to its items. It reports whether a
	// list was removed.
	Delete(ctx context.Context, id string) (bool, error)
	UpdateTitle(ctx context.Context, id, title string) error
	// SaveItems replaces the stored tree of listID with forest, writing only
	// the rows that changed.
	SaveItems(ctx context.Context, listID string, forest domain.Forest) error
}
