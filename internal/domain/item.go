package domain

// ItemNode is one checklist entry. A node with children derives Completed
// from them after normalization; a leaf's Completed is authoritative.
type ItemNode struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Completed bool       `json:"completed"`
	Children  []ItemNode `json:"children"`
}

// Forest is the ordered sequence of root items owned by a list.
type Forest []ItemNode

// HasChildren reports whether n is a parent node.
func (n ItemNode) HasChildren() bool {
	return len(n.Children) > 0
}

// VisibleNode is the per-render projection of an ItemNode in a filtered view.
type VisibleNode struct {
	ID                   string        `json:"id"`
	Title                string        `json:"title"`
	Completed            bool          `json:"completed"`
	Children             []VisibleNode `json:"children"`
	IsPartiallyCompleted bool          `json:"isPartiallyCompleted"`
	IsContextOnly        bool          `json:"isContextOnly"`
}

// ParentOption is an entry of the parent picker. Label is the full
// " / "-joined ancestor path including the node's own title.
type ParentOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}
