package tree

import "github.com/alexanderramin/arbor/internal/domain"

// BuildVisibleNode projects n into a filtered view. Leaves are kept only when
// they match mode. A parent is kept when it matches mode itself or when any of
// its descendants is visible; in the latter case without a match of its own it
// is marked context-only. The second return value is false when n is
// excluded.
func BuildVisibleNode(n domain.ItemNode, mode domain.ViewMode) (domain.VisibleNode, bool) {
	matches := mode.Matches(n.Completed)
	v := domain.VisibleNode{
		ID:        n.ID,
		Title:     n.Title,
		Completed: n.Completed,
	}
	if len(n.Children) == 0 {
		return v, matches
	}

	for _, c := range n.Children {
		if cv, ok := BuildVisibleNode(c, mode); ok {
			v.Children = append(v.Children, cv)
		}
	}
	if len(v.Children) == 0 && !matches {
		return domain.VisibleNode{}, false
	}
	v.IsContextOnly = !matches
	v.IsPartiallyCompleted = isPartiallyCompleted(n)
	return v, true
}

// BuildVisibleTree applies BuildVisibleNode to every root and drops the
// excluded ones.
func BuildVisibleTree(forest domain.Forest, mode domain.ViewMode) []domain.VisibleNode {
	var out []domain.VisibleNode
	for _, n := range forest {
		if v, ok := BuildVisibleNode(n, mode); ok {
			out = append(out, v)
		}
	}
	return out
}

func isPartiallyCompleted(n domain.ItemNode) bool {
	var completed, pending bool
	var walk func(nodes []domain.ItemNode) bool
	walk = func(nodes []domain.ItemNode) bool {
		for _, c := range nodes {
			if c.Completed {
				completed = true
			} else {
				pending = true
			}
			if completed && pending {
				return true
			}
			if walk(c.Children) {
				return true
			}
		}
		return false
	}
	return walk(n.Children)
}
