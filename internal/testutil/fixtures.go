package testutil

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/alexanderramin/arbor/internal/domain"
	"github.com/google/uuid"
)

// List options
type ListOption func(*domain.List)

func WithItems(items ...domain.ItemNode) ListOption {
	return func(l *domain.List) {
		l.Items = items
	}
}

func WithListID(id string) ListOption {
	return func(l *domain.List) {
		l.ID = id
	}
}

func NewTestList(title string, opts ...ListOption) *domain.List {
	now := time.Now().UTC().Truncate(time.Second)
	l := &domain.List{
		ID:        uuid.New().String(),
		Title:     title,
		Items:     domain.Forest{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Leaf builds a node without children.
func Leaf(id, title string, completed bool) domain.ItemNode {
	return domain.ItemNode{ID: id, Title: title, Completed: completed}
}

// Parent builds a node with the given children. Completed is left false;
// callers normalize when they need the derived value.
func Parent(id, title string, children ...domain.ItemNode) domain.ItemNode {
	return domain.ItemNode{ID: id, Title: title, Children: children}
}

// LeisureForest is the sample checklist used across packages:
//
//	entertainment
//	├─ book      (pending)
//	└─ movie     (completed)
//	chores       (pending)
//	shopping
//	└─ food
//	   ├─ bread  (completed)
//	   └─ milk   (completed)
func LeisureForest() domain.Forest {
	return domain.Forest{
		Parent("entertainment", "Entertainment",
			Leaf("book", "Read a book", false),
			Leaf("movie", "Watch a movie", true),
		),
		Leaf("chores", "Chores", false),
		Parent("shopping", "Shopping",
			Parent("food", "Food",
				Leaf("bread", "Bread", true),
				Leaf("milk", "Milk", true),
			),
		),
	}
}

// RandomForest generates a forest with unique ids and random completion
// flags. The same seed always yields the same forest.
func RandomForest(seed int64, maxDepth, maxWidth int) domain.Forest {
	r := rand.New(rand.NewSource(seed))
	next := 0
	var build func(depth int) []domain.ItemNode
	build = func(depth int) []domain.ItemNode {
		if depth > maxDepth {
			return nil
		}
		width := r.Intn(maxWidth + 1)
		if width == 0 {
			return nil
		}
		nodes := make([]domain.ItemNode, width)
		for i := range nodes {
			next++
			nodes[i] = domain.ItemNode{
				ID:        fmt.Sprintf("n%d", next),
				Title:     fmt.Sprintf("Node %d", next),
				Completed: r.Intn(2) == 0,
				Children:  build(depth + 1),
			}
		}
		return nodes
	}
	return domain.Forest(build(1))
}
