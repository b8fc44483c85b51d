package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/alexanderramin/arbor/internal/domain"
)

type memoryList struct {
	summary   domain.ListSummary
	position  int
	records   []ItemRecord
	createdAt time.Time
	updatedAt time.Time
}

// MemoryListRepo is an in-process ListRepo. Items are kept in their flattened
// record form so reads go through the same adapter as the SQLite store.
type MemoryListRepo struct {
	mu    sync.RWMutex
	lists map[string]*memoryList
	next  int
	now   func() time.Time
}

// NewMemoryListRepo creates an empty MemoryListRepo.
func NewMemoryListRepo() *MemoryListRepo {
	return &MemoryListRepo{
		lists: make(map[string]*memoryList),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryListRepo) ordered() []*memoryList {
	out := make([]*memoryList, 0, len(r.lists))
	for _, l := range r.lists {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].position != out[j].position {
			return out[i].position < out[j].position
		}
		return out[i].createdAt.Before(out[j].createdAt)
	})
	return out
}

func (l *memoryList) toDomain() *domain.List {
	return &domain.List{
		ID:        l.summary.ID,
		Title:     l.summary.Title,
		Position:  l.position,
		Items:     BuildTreeFromRecords(l.records),
		CreatedAt: l.createdAt,
		UpdatedAt: l.updatedAt,
	}
}

func (r *MemoryListRepo) List(ctx context.Context) ([]*domain.List, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var lists []*domain.List
	for _, l := range r.ordered() {
		lists = append(lists, l.toDomain())
	}
	return lists, nil
}

func (r *MemoryListRepo) ListSummaries(ctx context.Context) ([]domain.ListSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	summaries := []domain.ListSummary{}
	for _, l := range r.ordered() {
		summaries = append(summaries, l.summary)
	}
	return summaries, nil
}

func (r *MemoryListRepo) GetByID(ctx context.Context, id string) (*domain.List, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.lists[id]
	if !ok {
		return nil, fmt.Errorf("list: %w", ErrNotFound)
	}
	return l.toDomain(), nil
}

func (r *MemoryListRepo) Create(ctx context.Context, l *domain.List) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.lists[l.ID]; exists {
		return fmt.Errorf("inserting list: duplicate id %s", l.ID)
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = r.now()
	}
	if l.UpdatedAt.IsZero() {
		l.UpdatedAt = l.CreatedAt
	}
	l.Position = r.next
	r.next++
	r.lists[l.ID] = &memoryList{
		summary:   l.Summary(),
		position:  l.Position,
		records:   FlattenTreeToRecords(l.ID, l.Items),
		createdAt: l.CreatedAt,
		updatedAt: l.UpdatedAt,
	}
	return nil
}

func (r *MemoryListRepo) Delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.lists[id]; !ok {
		return false, nil
	}
	delete(r.lists, id)
	return true, nil
}

func (r *MemoryListRepo) UpdateTitle(ctx context.Context, id, title string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.lists[id]
	if !ok {
		return fmt.Errorf("list: %w", ErrNotFound)
	}
	l.summary.Title = title
	l.updatedAt = r.now()
	return nil
}

func (r *MemoryListRepo) SaveItems(ctx context.Context, listID string, forest domain.Forest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.lists[listID]
	if !ok {
		return fmt.Errorf("list: %w", ErrNotFound)
	}
	records := FlattenTreeToRecords(listID, forest)
	if recordsEqual(l.records, records) {
		return nil
	}
	l.records = records
	l.updatedAt = r.now()
	return nil
}

func recordsEqual(a, b []ItemRecord) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].equalRow(b[i]) {
			return false
		}
	}
	return true
}
