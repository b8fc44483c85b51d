package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/arbor/internal/domain"
	"github.com/alexanderramin/arbor/internal/repository"
	"github.com/alexanderramin/arbor/internal/tree"
	"github.com/google/uuid"
)

type listService struct {
	lists    repository.ListRepo
	observer UseCaseObserver
	newID    func() string
}

func NewListService(lists repository.ListRepo, observers ...UseCaseObserver) ListService {
	return &listService{
		lists:    lists,
		observer: useCaseObserverOrNoop(observers),
		newID:    func() string { return uuid.New().String() },
	}
}

func (s *listService) observe(ctx context.Context, name string, startedAt time.Time, fields map[string]any, err error) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
	})
}

func (s *listService) GetLists(ctx context.Context) ([]*domain.List, error) {
	lists, err := s.lists.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading lists: %w", err)
	}
	return lists, nil
}

func (s *listService) GetListByID(ctx context.Context, id string) (*domain.List, error) {
	return s.lists.GetByID(ctx, id)
}

func (s *listService) GetListSummaries(ctx context.Context) ([]domain.ListSummary, error) {
	summaries, err := s.lists.ListSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading list summaries: %w", err)
	}
	return summaries, nil
}

func (s *listService) GetDefaultListID(ctx context.Context) (string, error) {
	summaries, err := s.GetListSummaries(ctx)
	if err != nil {
		return "", err
	}
	if len(summaries) == 0 {
		return "", nil
	}
	return summaries[0].ID, nil
}

func (s *listService) CreateList(ctx context.Context, title string) (l *domain.List, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() { s.observe(ctx, "create-list", startedAt, fields, err) }()

	title = strings.TrimSpace(title)
	if title == "" {
		title = domain.DefaultListTitle
	}
	now := time.Now().UTC()
	l = &domain.List{
		ID:        s.newID(),
		Title:     title,
		Items:     domain.Forest{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	fields["list_id"] = l.ID
	if err = s.lists.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("creating list: %w", err)
	}
	return l, nil
}

func (s *listService) DeleteList(ctx context.Context, id string) (deleted bool, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"list_id": id}
	defer func() {
		fields["deleted"] = deleted
		s.observe(ctx, "delete-list", startedAt, fields, err)
	}()

	deleted, err = s.lists.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("deleting list: %w", err)
	}
	return deleted, nil
}

func (s *listService) UpdateListTitle(ctx context.Context, id, title string) (l *domain.List, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"list_id": id}
	defer func() { s.observe(ctx, "update-list-title", startedAt, fields, err) }()

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, blankTitle()
	}
	l, err = s.lists.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.Title == title {
		fields["unchanged"] = true
		return l, nil
	}
	if err = s.lists.UpdateTitle(ctx, id, title); err != nil {
		return nil, err
	}
	l.Title = title
	l.UpdatedAt = time.Now().UTC()
	return l, nil
}

func (s *listService) GetNodeByID(ctx context.Context, listID, id string) (domain.ItemNode, error) {
	l, err := s.lists.GetByID(ctx, listID)
	if err != nil {
		return domain.ItemNode{}, err
	}
	n, ok := tree.FindNode(l.Items, id)
	if !ok {
		return domain.ItemNode{}, fmt.Errorf("item %s: %w", id, ErrNotFound)
	}
	return n, nil
}

// mutate runs the shared load, edit, normalize and save sequence. edit reports
// false when its target does not exist.
func (s *listService) mutate(ctx context.Context, name, listID string, fields map[string]any, edit func(domain.Forest) (domain.Forest, bool)) (forest domain.Forest, err error) {
	startedAt := time.Now().UTC()
	fields["list_id"] = listID
	defer func() { s.observe(ctx, name, startedAt, fields, err) }()

	l, err := s.lists.GetByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	next, ok := edit(l.Items)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	next = tree.NormalizeTree(next)
	if next == nil {
		next = domain.Forest{}
	}
	if err = s.lists.SaveItems(ctx, listID, next); err != nil {
		return nil, fmt.Errorf("saving items: %w", err)
	}
	fields["item_count"] = tree.CountNodes(next)
	return next, nil
}

func setCompletion(id string, completed bool) func(domain.Forest) (domain.Forest, bool) {
	return func(f domain.Forest) (domain.Forest, bool) {
		return tree.UpdateNode(f, id, func(n domain.ItemNode) domain.ItemNode {
			return tree.SetSubtreeCompletion(n, completed)
		})
	}
}

// ToggleItem sets a leaf's own flag. On a parent it forces the whole subtree,
// without asking for confirmation.
func (s *listService) ToggleItem(ctx context.Context, listID, id string, completed bool) (domain.Forest, error) {
	fields := map[string]any{"item_id": id, "completed": completed}
	return s.mutate(ctx, "toggle-item", listID, fields, setCompletion(id, completed))
}

func (s *listService) CompleteParent(ctx context.Context, listID, id string) (domain.Forest, error) {
	fields := map[string]any{"item_id": id}
	return s.mutate(ctx, "complete-parent", listID, fields, setCompletion(id, true))
}

func (s *listService) UncheckParent(ctx context.Context, listID, id string) (domain.Forest, error) {
	fields := map[string]any{"item_id": id}
	return s.mutate(ctx, "uncheck-parent", listID, fields, setCompletion(id, false))
}

func (s *listService) ResetCompletedItems(ctx context.Context, listID string) (domain.Forest, error) {
	return s.mutate(ctx, "reset-completed", listID, map[string]any{}, func(f domain.Forest) (domain.Forest, bool) {
		return tree.SetForestCompletion(f, false), true
	})
}

func (s *listService) CreateItem(ctx context.Context, listID, title, parentID string) (domain.Forest, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, blankTitle()
	}
	node := tree.NewNode(s.newID(), title)
	fields := map[string]any{"item_id": node.ID}
	if parentID != "" {
		fields["parent_id"] = parentID
	}
	return s.mutate(ctx, "create-item", listID, fields, func(f domain.Forest) (domain.Forest, bool) {
		if parentID == "" {
			return tree.InsertRoot(f, node), true
		}
		return tree.PrependChild(f, parentID, node)
	})
}

func (s *listService) DeleteItem(ctx context.Context, listID, id string) (domain.Forest, error) {
	fields := map[string]any{"item_id": id}
	return s.mutate(ctx, "delete-item", listID, fields, func(f domain.Forest) (domain.Forest, bool) {
		return tree.RemoveNode(f, id)
	})
}

func (s *listService) UpdateItemTitle(ctx context.Context, listID, id, title string) (domain.Forest, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, blankTitle()
	}
	fields := map[string]any{"item_id": id}
	return s.mutate(ctx, "update-item-title", listID, fields, func(f domain.Forest) (domain.Forest, bool) {
		return tree.SetTitle(f, id, title)
	})
}
