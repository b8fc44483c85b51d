package service

import (
	"context"

	"github.com/alexanderramin/arbor/internal/domain"
)

// ListService owns every list and item use case. Item mutations return the
// new normalized forest; ErrNotFound reports an absent list, node or parent.
type ListService interface {
	GetLists(ctx context.Context) ([]*domain.List, error)
	GetListByID(ctx context.Context, id string) (*domain.List, error)
	GetListSummaries(ctx context.Context) ([]domain.ListSummary, error)
	// GetDefaultListID returns the first list's id, or "" when there are none.
	GetDefaultListID(ctx context.Context) (string, error)
	CreateList(ctx context.Context, title string) (*domain.List, error)
	DeleteList(ctx context.Context, id string) (bool, error)
	UpdateListTitle(ctx context.Context, id, title string) (*domain.List, error)
	GetNodeByID(ctx context.Context, listID, id string) (domain.ItemNode, error)

	ToggleItem(ctx context.Context, listID, id string, completed bool) (domain.Forest, error)
	CompleteParent(ctx context.Context, listID, id string) (domain.Forest, error)
	UncheckParent(ctx context.Context, listID, id string) (domain.Forest, error)
	ResetCompletedItems(ctx context.Context, listID string) (domain.Forest, error)
	// CreateItem inserts a pending leaf as the first root, or as the first
	// child of parentID when it is not empty.
	CreateItem(ctx context.Context, listID, title, parentID string) (domain.Forest, error)
	DeleteItem(ctx context.Context, listID, id string) (domain.Forest, error)
	UpdateItemTitle(ctx context.Context, listID, id, title string) (domain.Forest, error)
}
