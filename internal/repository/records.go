package repository

import (
	"sort"

	"github.com/alexanderramin/arbor/internal/domain"
)

// ItemRecord is the flat row form of one ItemNode.
type ItemRecord struct {
	ID        string
	ListID    string
	ParentID  *string
	Title     string
	Completed bool
	Position  int
}

func sameParent(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// equalRow reports whether two records would be stored identically.
func (r ItemRecord) equalRow(o ItemRecord) bool {
	return r.ID == o.ID &&
		r.ListID == o.ListID &&
		sameParent(r.ParentID, o.ParentID) &&
		r.Title == o.Title &&
		r.Completed == o.Completed &&
		r.Position == o.Position
}

// FlattenTreeToRecords emits one record per node in pre-order. Positions are
// zero-based among siblings and roots carry a nil ParentID.
func FlattenTreeToRecords(listID string, forest domain.Forest) []ItemRecord {
	var out []ItemRecord
	var walk func(nodes []domain.ItemNode, parentID *string)
	walk = func(nodes []domain.ItemNode, parentID *string) {
		for i, n := range nodes {
			out = append(out, ItemRecord{
				ID:        n.ID,
				ListID:    listID,
				ParentID:  parentID,
				Title:     n.Title,
				Completed: n.Completed,
				Position:  i,
			})
			if len(n.Children) > 0 {
				id := n.ID
				walk(n.Children, &id)
			}
		}
	}
	walk(forest, nil)
	return out
}

// BuildTreeFromRecords rebuilds the forest from flat records. Siblings are
// ordered by Position (stable for ties). Records whose parent is not present
// are dropped along with their descendants.
func BuildTreeFromRecords(records []ItemRecord) domain.Forest {
	byParent := make(map[string][]ItemRecord)
	var roots []ItemRecord
	for _, r := range records {
		if r.ParentID == nil {
			roots = append(roots, r)
			continue
		}
		byParent[*r.ParentID] = append(byParent[*r.ParentID], r)
	}

	visiting := make(map[string]bool)
	var build func(rs []ItemRecord) []domain.ItemNode
	build = func(rs []ItemRecord) []domain.ItemNode {
		if len(rs) == 0 {
			return nil
		}
		sort.SliceStable(rs, func(i, j int) bool { return rs[i].Position < rs[j].Position })
		nodes := make([]domain.ItemNode, 0, len(rs))
		for _, r := range rs {
			if visiting[r.ID] {
				continue
			}
			visiting[r.ID] = true
			nodes = append(nodes, domain.ItemNode{
				ID:        r.ID,
				Title:     r.Title,
				Completed: r.Completed,
				Children:  build(byParent[r.ID]),
			})
			visiting[r.ID] = false
		}
		return nodes
	}

	forest := domain.Forest(build(roots))
	if forest == nil {
		forest = domain.Forest{}
	}
	return forest
}
