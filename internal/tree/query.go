package tree

import (
	"strings"

	"github.com/alexanderramin/arbor/internal/domain"
)

// CountByStatus counts nodes at every depth whose Completed equals completed.
func CountByStatus(forest domain.Forest, completed bool) int {
	count := 0
	for _, n := range forest {
		if n.Completed == completed {
			count++
		}
		count += CountByStatus(n.Children, completed)
	}
	return count
}

// CountNodes returns the total number of nodes in the forest.
func CountNodes(forest domain.Forest) int {
	count := 0
	for _, n := range forest {
		count += 1 + CountNodes(n.Children)
	}
	return count
}

// BuildParentOptions lists every node in pre-order with its full ancestor
// path as label.
func BuildParentOptions(forest domain.Forest) []domain.ParentOption {
	var opts []domain.ParentOption
	var walk func(nodes []domain.ItemNode, path []string)
	walk = func(nodes []domain.ItemNode, path []string) {
		for _, n := range nodes {
			p := append(path[:len(path):len(path)], n.Title)
			opts = append(opts, domain.ParentOption{ID: n.ID, Label: strings.Join(p, " / ")})
			walk(n.Children, p)
		}
	}
	walk(forest, nil)
	return opts
}

// Equal reports structural equality. Nil and empty child slices are
// considered equal.
func Equal(a, b domain.Forest) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !nodeEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func nodeEqual(a, b domain.ItemNode) bool {
	return a.ID == b.ID &&
		a.Title == b.Title &&
		a.Completed == b.Completed &&
		Equal(a.Children, b.Children)
}
