package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/arbor/internal/domain"
	"github.com/alexanderramin/arbor/internal/tree"
)

// FormatListSummaries renders the navigation table.
func FormatListSummaries(lists []domain.ListSummary) string {
	if len(lists) == 0 {
		return Dim("No lists yet. Create one with: arbor list add <title>") + "\n"
	}
	rows := make([][]string, len(lists))
	for i, l := range lists {
		rows[i] = []string{Dim(TruncID(l.ID)), l.Title}
	}
	return RenderTable([]string{"ID", "TITLE"}, rows)
}

// FormatList renders one list filtered to mode, followed by its counts.
func FormatList(l *domain.List, mode domain.ViewMode) string {
	var b strings.Builder
	b.WriteString(Header(l.Title))
	b.WriteString("\n")

	items := FlattenVisible(tree.BuildVisibleTree(l.Items, mode))
	if len(items) == 0 {
		if mode == domain.ViewCompleted {
			b.WriteString(Dim("Nothing completed yet."))
		} else {
			b.WriteString(Dim("Nothing pending."))
		}
		b.WriteString("\n")
	} else {
		b.WriteString(RenderTree(items))
	}

	completed := tree.CountByStatus(l.Items, true)
	b.WriteString("\n")
	b.WriteString(RenderProgress(completed, tree.CountNodes(l.Items), progressWidth))
	b.WriteString("\n")
	b.WriteString(FormatCounts(tree.CountByStatus(l.Items, false), completed))
	b.WriteString("\n")
	return b.String()
}

func FormatCounts(pending, completed int) string {
	return fmt.Sprintf("%s pending · %s completed",
		StyleYellow.Render(fmt.Sprint(pending)), StyleGreen.Render(fmt.Sprint(completed)))
}

// FormatParentOptions renders the parent picker choices.
func FormatParentOptions(opts []domain.ParentOption) string {
	if len(opts) == 0 {
		return Dim("No items.") + "\n"
	}
	rows := make([][]string, len(opts))
	for i, o := range opts {
		rows[i] = []string{Dim(o.ID), o.Label}
	}
	return RenderTable([]string{"ID", "PATH"}, rows)
}
