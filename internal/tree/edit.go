package tree

import "github.com/alexanderramin/arbor/internal/domain"

// NewNode returns a pending leaf.
func NewNode(id, title string) domain.ItemNode {
	return domain.ItemNode{ID: id, Title: title}
}

// FindNode searches depth-first, parents before children, and returns the
// first node whose ID matches.
func FindNode(forest domain.Forest, id string) (domain.ItemNode, bool) {
	for _, n := range forest {
		if n.ID == id {
			return n, true
		}
		if found, ok := FindNode(n.Children, id); ok {
			return found, true
		}
	}
	return domain.ItemNode{}, false
}

// UpdateNode replaces the first node matching id with fn(node), rebuilding
// only the path from the root to it. When id is absent the input forest is
// returned as-is (same backing array) together with false, so callers can
// skip a write.
func UpdateNode(forest domain.Forest, id string, fn func(domain.ItemNode) domain.ItemNode) (domain.Forest, bool) {
	for i, n := range forest {
		if n.ID == id {
			out := clone(forest)
			out[i] = fn(n)
			return out, true
		}
		if len(n.Children) == 0 {
			continue
		}
		if children, ok := UpdateNode(n.Children, id, fn); ok {
			n.Children = children
			out := clone(forest)
			out[i] = n
			return out, true
		}
	}
	return forest, false
}

// RemoveNode deletes the first node matching id, together with its subtree,
// at any depth.
func RemoveNode(forest domain.Forest, id string) (domain.Forest, bool) {
	for i, n := range forest {
		if n.ID == id {
			out := make(domain.Forest, 0, len(forest)-1)
			out = append(out, forest[:i]...)
			return append(out, forest[i+1:]...), true
		}
		if len(n.Children) == 0 {
			continue
		}
		if children, ok := RemoveNode(n.Children, id); ok {
			if len(children) == 0 {
				children = nil
			}
			n.Children = children
			out := clone(forest)
			out[i] = n
			return out, true
		}
	}
	return forest, false
}

// InsertRoot prepends n as the new first root.
func InsertRoot(forest domain.Forest, n domain.ItemNode) domain.Forest {
	out := make(domain.Forest, 0, len(forest)+1)
	out = append(out, n)
	return append(out, forest...)
}

// PrependChild inserts n as the first child of parentID.
func PrependChild(forest domain.Forest, parentID string, n domain.ItemNode) (domain.Forest, bool) {
	return UpdateNode(forest, parentID, func(parent domain.ItemNode) domain.ItemNode {
		children := make([]domain.ItemNode, 0, len(parent.Children)+1)
		children = append(children, n)
		parent.Children = append(children, parent.Children...)
		return parent
	})
}

// SetTitle replaces only the title of id; descendants are untouched.
func SetTitle(forest domain.Forest, id, title string) (domain.Forest, bool) {
	return UpdateNode(forest, id, func(n domain.ItemNode) domain.ItemNode {
		n.Title = title
		return n
	})
}

func clone(forest domain.Forest) domain.Forest {
	out := make(domain.Forest, len(forest))
	copy(out, forest)
	return out
}
