package formatter

import (
	"strings"

	"github.com/alexanderramin/arbor/internal/domain"
)

// TreeItem is one rendered row of a checklist tree.
type TreeItem struct {
	ID          string
	Title       string
	Level       int
	Completed   bool
	Partial     bool
	ContextOnly bool
	// Guides holds one entry per ancestor level: true when that ancestor
	// still has siblings below it, so a vertical guide continues.
	Guides []bool
	IsLast bool
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeBlank  = "   "
)

// FlattenVisible lays out a filtered forest as rows in display order.
func FlattenVisible(nodes []domain.VisibleNode) []TreeItem {
	var items []TreeItem
	var walk func(nodes []domain.VisibleNode, level int, guides []bool)
	walk = func(nodes []domain.VisibleNode, level int, guides []bool) {
		for i, n := range nodes {
			last := i == len(nodes)-1
			items = append(items, TreeItem{
				ID:          n.ID,
				Title:       n.Title,
				Level:       level,
				Completed:   n.Completed,
				Partial:     n.IsPartiallyCompleted,
				ContextOnly: n.IsContextOnly,
				Guides:      append([]bool(nil), guides...),
				IsLast:      last,
			})
			if len(n.Children) > 0 {
				next := guides
				if level > 0 {
					next = append(append([]bool(nil), guides...), !last)
				}
				walk(n.Children, level+1, next)
			}
		}
	}
	walk(nodes, 0, nil)
	return items
}

// Prefix returns the box-drawing connector for item.
func Prefix(item TreeItem) string {
	if item.Level == 0 {
		return ""
	}
	var b strings.Builder
	for _, cont := range item.Guides {
		if cont {
			b.WriteString(treePipe)
		} else {
			b.WriteString(treeBlank)
		}
	}
	if item.IsLast {
		b.WriteString(treeCorner)
	} else {
		b.WriteString(treeBranch)
	}
	return b.String()
}

// Checkbox renders the completion marker: done, partial or open.
func Checkbox(item TreeItem) string {
	switch {
	case item.Completed:
		return StyleGreen.Render("[x]")
	case item.Partial:
		return StyleYellow.Render("[~]")
	default:
		return "[ ]"
	}
}

// RenderTreeLines renders each item on its own line. Context-only rows are
// dimmed; they are shown only to place their descendants.
func RenderTreeLines(items []TreeItem) []string {
	lines := make([]string, len(items))
	for i, item := range items {
		title := item.Title
		if item.ContextOnly {
			title = Dim(title)
		}
		lines[i] = Prefix(item) + Checkbox(item) + " " + title
	}
	return lines
}

func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}
	return strings.Join(RenderTreeLines(items), "\n") + "\n"
}
