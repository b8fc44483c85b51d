package optimistic

import (
	"strings"

	"github.com/alexanderramin/arbor/internal/contract"
	"github.com/alexanderramin/arbor/internal/domain"
	"github.com/alexanderramin/arbor/internal/tree"
)

// Predict applies req to view the way the server will, without I/O. newID
// names an item or list the request creates. Requests the server would
// defer (a parent toggle that needs confirmation) or reject predict no
// change. The input view is never modified.
func Predict(view View, req contract.MutationRequest, newID string) View {
	switch req.Action {
	case contract.ActionCreateList:
		title := req.Optional(contract.KeyTitle)
		if title == "" {
			title = domain.DefaultListTitle
		}
		lists := make([]domain.ListSummary, 0, len(view.Lists)+1)
		lists = append(lists, view.Lists...)
		view.Lists = append(lists, domain.ListSummary{ID: newID, Title: title})
		return view
	}

	if view.ActiveList == nil {
		return view
	}
	listID := view.ActiveList.ID
	itemID := req.Optional(contract.KeyItemID)

	switch req.Action {
	case contract.ActionToggleItem:
		completed, err := req.Bool(contract.KeyCompleted)
		if err != nil {
			return view
		}
		node, ok := tree.FindNode(view.ActiveList.Items, itemID)
		if !ok || tree.ToggleConfirmation(node, completed) != tree.ConfirmNone {
			return view
		}
		return withItems(view, completeSubtree(view.ActiveList.Items, itemID, completed))

	case contract.ActionConfirmParent:
		return withItems(view, completeSubtree(view.ActiveList.Items, itemID, true))

	case contract.ActionConfirmUncheckParent:
		return withItems(view, completeSubtree(view.ActiveList.Items, itemID, false))

	case contract.ActionResetCompleted:
		return withItems(view, tree.SetForestCompletion(view.ActiveList.Items, false))

	case contract.ActionCreateItem:
		title := req.Optional(contract.KeyTitle)
		if title == "" {
			return view
		}
		node := tree.NewNode(newID, title)
		parentID := req.Optional(contract.KeyParentID)
		if parentID == "" {
			return withItems(view, tree.InsertRoot(view.ActiveList.Items, node))
		}
		f, _ := tree.PrependChild(view.ActiveList.Items, parentID, node)
		return withItems(view, f)

	case contract.ActionDeleteItem:
		f, _ := tree.RemoveNode(view.ActiveList.Items, itemID)
		return withItems(view, f)

	case contract.ActionEditItemTitle:
		title := req.Optional(contract.KeyTitle)
		if title == "" {
			return view
		}
		f, _ := tree.SetTitle(view.ActiveList.Items, itemID, title)
		return withItems(view, f)

	case contract.ActionEditListTitle:
		title := req.Optional(contract.KeyTitle)
		if title == "" || title == view.ActiveList.Title {
			return view
		}
		l := *view.ActiveList
		l.Title = title
		view.ActiveList = &l
		view.Lists = replaceSummary(view.Lists, l.Summary())
		return view

	case contract.ActionDeleteList:
		lists := make([]domain.ListSummary, 0, len(view.Lists))
		for _, s := range view.Lists {
			if s.ID != listID {
				lists = append(lists, s)
			}
		}
		view.Lists = lists
		view.ActiveList = nil
		return view
	}
	return view
}

func completeSubtree(f domain.Forest, id string, completed bool) domain.Forest {
	next, _ := tree.UpdateNode(f, id, func(n domain.ItemNode) domain.ItemNode {
		return tree.SetSubtreeCompletion(n, completed)
	})
	return next
}

// withItems returns view with a copy of its active list holding the
// normalized forest f.
func withItems(view View, f domain.Forest) View {
	l := *view.ActiveList
	l.Items = tree.NormalizeTree(f)
	if l.Items == nil {
		l.Items = domain.Forest{}
	}
	view.ActiveList = &l
	return view
}

func replaceSummary(lists []domain.ListSummary, s domain.ListSummary) []domain.ListSummary {
	out := make([]domain.ListSummary, len(lists))
	for i, cur := range lists {
		if cur.ID == s.ID {
			cur.Title = strings.TrimSpace(s.Title)
		}
		out[i] = cur
	}
	return out
}
