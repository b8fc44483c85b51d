// Package tree implements the pure completion-propagation engine for
// checklist forests. Every function returns new values and leaves its inputs
// untouched; unchanged subtrees are shared, never mutated.
package tree

import "github.com/alexanderramin/arbor/internal/domain"

// Normalize recomputes Completed bottom-up: a node with children is completed
// iff all of its children are. Leaves are returned as-is.
func Normalize(n domain.ItemNode) domain.ItemNode {
	if len(n.Children) == 0 {
		return n
	}
	children := make([]domain.ItemNode, len(n.Children))
	all := true
	for i, c := range n.Children {
		children[i] = Normalize(c)
		if !children[i].Completed {
			all = false
		}
	}
	n.Children = children
	n.Completed = all
	return n
}

// NormalizeTree normalizes every root of the forest.
func NormalizeTree(forest domain.Forest) domain.Forest {
	if forest == nil {
		return nil
	}
	out := make(domain.Forest, len(forest))
	for i, n := range forest {
		out[i] = Normalize(n)
	}
	return out
}

// SetSubtreeCompletion forces completed onto n and every descendant,
// regardless of their previous state.
func SetSubtreeCompletion(n domain.ItemNode, completed bool) domain.ItemNode {
	n.Completed = completed
	if len(n.Children) == 0 {
		return n
	}
	children := make([]domain.ItemNode, len(n.Children))
	for i, c := range n.Children {
		children[i] = SetSubtreeCompletion(c, completed)
	}
	n.Children = children
	return n
}

// SetForestCompletion applies SetSubtreeCompletion to every root.
func SetForestCompletion(forest domain.Forest, completed bool) domain.Forest {
	if forest == nil {
		return nil
	}
	out := make(domain.Forest, len(forest))
	for i, n := range forest {
		out[i] = SetSubtreeCompletion(n, completed)
	}
	return out
}

// Confirmation describes whether toggling a node has to be confirmed first.
type Confirmation int

const (
	ConfirmNone Confirmation = iota
	// ConfirmComplete: a pending parent would complete its whole subtree.
	ConfirmComplete
	// ConfirmUncheck: a completed parent would reopen its whole subtree.
	ConfirmUncheck
)

// ToggleConfirmation reports the confirmation a toggle of n to completed needs.
// Leaves never need one.
func ToggleConfirmation(n domain.ItemNode, completed bool) Confirmation {
	if !n.HasChildren() {
		return ConfirmNone
	}
	switch {
	case completed && !n.Completed:
		return ConfirmComplete
	case !completed && n.Completed:
		return ConfirmUncheck
	default:
		return ConfirmNone
	}
}
