package optimistic

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/alexanderramin/arbor/internal/contract"
	"github.com/alexanderramin/arbor/internal/domain"
	"github.com/alexanderramin/arbor/internal/repository"
	"github.com/alexanderramin/arbor/internal/service"
	"github.com/alexanderramin/arbor/internal/testutil"
	"github.com/alexanderramin/arbor/internal/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leisureView() View {
	l := testutil.NewTestList("Leisure", testutil.WithListID("list-1"),
		testutil.WithItems(tree.NormalizeTree(testutil.LeisureForest())...))
	return View{
		Lists:      []domain.ListSummary{{ID: "list-0", Title: "Work"}, l.Summary()},
		ActiveList: l,
	}
}

func mustFind(t *testing.T, v View, id string) domain.ItemNode {
	t.Helper()
	require.NotNil(t, v.ActiveList)
	n, ok := tree.FindNode(v.ActiveList.Items, id)
	require.True(t, ok, "node %s not found", id)
	return n
}

func TestPredict_ToggleLeafRecomputesAncestors(t *testing.T) {
	before := leisureView()
	after := Predict(before, contract.NewMutationRequest(contract.ActionToggleItem,
		contract.KeyItemID, "book", contract.KeyCompleted, "true"), "")

	assert.True(t, mustFind(t, after, "book").Completed)
	assert.True(t, mustFind(t, after, "entertainment").Completed)
	assert.False(t, mustFind(t, before, "book").Completed, "input view must not change")
}

func TestPredict_ToggleNeedingConfirmationIsNoop(t *testing.T) {
	before := leisureView()

	complete := Predict(before, contract.NewMutationRequest(contract.ActionToggleItem,
		contract.KeyItemID, "entertainment", contract.KeyCompleted, "true"), "")
	assert.Same(t, before.ActiveList, complete.ActiveList)

	uncheck := Predict(before, contract.NewMutationRequest(contract.ActionToggleItem,
		contract.KeyItemID, "shopping", contract.KeyCompleted, "false"), "")
	assert.Same(t, before.ActiveList, uncheck.ActiveList)
}

func TestPredict_ToggleMalformedOrMissingIsNoop(t *testing.T) {
	before := leisureView()

	malformed := Predict(before, contract.NewMutationRequest(contract.ActionToggleItem,
		contract.KeyItemID, "book", contract.KeyCompleted, "yes"), "")
	assert.Same(t, before.ActiveList, malformed.ActiveList)

	missing := Predict(before, contract.NewMutationRequest(contract.ActionToggleItem,
		contract.KeyItemID, "ghost", contract.KeyCompleted, "true"), "")
	assert.Same(t, before.ActiveList, missing.ActiveList)
}

func TestPredict_ConfirmParentFlipsSubtree(t *testing.T) {
	after := Predict(leisureView(), contract.NewMutationRequest(contract.ActionConfirmParent,
		contract.KeyItemID, "entertainment"), "")
	assert.True(t, mustFind(t, after, "book").Completed)
	assert.True(t, mustFind(t, after, "movie").Completed)

	after = Predict(leisureView(), contract.NewMutationRequest(contract.ActionConfirmUncheckParent,
		contract.KeyItemID, "shopping"), "")
	assert.False(t, mustFind(t, after, "bread").Completed)
	assert.False(t, mustFind(t, after, "food").Completed)
}

func TestPredict_ResetCompleted(t *testing.T) {
	after := Predict(leisureView(), contract.NewMutationRequest(contract.ActionResetCompleted), "")
	assert.Zero(t, tree.CountByStatus(after.ActiveList.Items, true))
	assert.Equal(t, 8, tree.CountNodes(after.ActiveList.Items))
}

func TestPredict_CreateItem(t *testing.T) {
	root := Predict(leisureView(), contract.NewMutationRequest(contract.ActionCreateItem,
		contract.KeyTitle, "  Walk  "), "tmp-1")
	require.NotEmpty(t, root.ActiveList.Items)
	assert.Equal(t, "tmp-1", root.ActiveList.Items[0].ID)
	assert.Equal(t, "Walk", root.ActiveList.Items[0].Title)

	child := Predict(leisureView(), contract.NewMutationRequest(contract.ActionCreateItem,
		contract.KeyTitle, "Eggs", contract.KeyParentID, "food"), "tmp-2")
	food := mustFind(t, child, "food")
	assert.Equal(t, "tmp-2", food.Children[0].ID)
	assert.False(t, food.Completed, "a new pending child reopens its parent")
	assert.False(t, mustFind(t, child, "shopping").Completed)

	orphan := Predict(leisureView(), contract.NewMutationRequest(contract.ActionCreateItem,
		contract.KeyTitle, "Eggs", contract.KeyParentID, "ghost"), "tmp-3")
	_, found := tree.FindNode(orphan.ActiveList.Items, "tmp-3")
	assert.False(t, found)
}

func TestPredict_DeleteAndEditItem(t *testing.T) {
	deleted := Predict(leisureView(), contract.NewMutationRequest(contract.ActionDeleteItem,
		contract.KeyItemID, "book"), "")
	_, found := tree.FindNode(deleted.ActiveList.Items, "book")
	assert.False(t, found)
	assert.True(t, mustFind(t, deleted, "entertainment").Completed)

	edited := Predict(leisureView(), contract.NewMutationRequest(contract.ActionEditItemTitle,
		contract.KeyItemID, "chores", contract.KeyTitle, "Laundry"), "")
	assert.Equal(t, "Laundry", mustFind(t, edited, "chores").Title)
}

func TestPredict_ListActions(t *testing.T) {
	created := Predict(leisureView(), contract.NewMutationRequest(contract.ActionCreateList), "tmp-list")
	require.Len(t, created.Lists, 3)
	assert.Equal(t, domain.ListSummary{ID: "tmp-list", Title: domain.DefaultListTitle}, created.Lists[2])

	renamed := Predict(leisureView(), contract.NewMutationRequest(contract.ActionEditListTitle,
		contract.KeyTitle, "Weekend"), "")
	assert.Equal(t, "Weekend", renamed.ActiveList.Title)
	assert.Equal(t, "Weekend", renamed.Lists[1].Title)
	assert.Equal(t, "Work", renamed.Lists[0].Title)

	gone := Predict(leisureView(), contract.NewMutationRequest(contract.ActionDeleteList), "")
	assert.Nil(t, gone.ActiveList)
	assert.Equal(t, []domain.ListSummary{{ID: "list-0", Title: "Work"}}, gone.Lists)
}

func TestPredict_NoActiveListOnlyCreatesLists(t *testing.T) {
	v := View{Lists: []domain.ListSummary{}}
	after := Predict(v, contract.NewMutationRequest(contract.ActionResetCompleted), "")
	assert.Nil(t, after.ActiveList)
	assert.Empty(t, after.Lists)
}

// The prediction of every deterministic item action must equal what the
// service stores for the same request.
func TestPredict_MatchesService(t *testing.T) {
	ctx := context.Background()
	for seed := int64(1); seed <= 25; seed++ {
		t.Run(fmt.Sprintf("seed-%d", seed), func(t *testing.T) {
			forest := tree.NormalizeTree(testutil.RandomForest(seed, 3, 3))
			if len(forest) == 0 {
				t.Skip("empty forest")
			}
			repo := repository.NewMemoryListRepo()
			svc := service.NewListService(repo)
			l := testutil.NewTestList("Random", testutil.WithListID("list-r"), testutil.WithItems(forest...))
			require.NoError(t, repo.Create(ctx, l))

			r := rand.New(rand.NewSource(seed))
			ids := collectIDs(forest)
			id := ids[r.Intn(len(ids))]
			completed := r.Intn(2) == 0

			view := View{ActiveList: l}
			var req contract.MutationRequest
			var got domain.Forest
			var err error

			node := mustFind(t, view, id)
			switch {
			case tree.ToggleConfirmation(node, completed) == tree.ConfirmNone:
				req = contract.NewMutationRequest(contract.ActionToggleItem,
					contract.KeyItemID, id, contract.KeyCompleted, fmt.Sprint(completed))
				got, err = svc.ToggleItem(ctx, l.ID, id, completed)
			case completed:
				req = contract.NewMutationRequest(contract.ActionConfirmParent, contract.KeyItemID, id)
				got, err = svc.CompleteParent(ctx, l.ID, id)
			default:
				req = contract.NewMutationRequest(contract.ActionConfirmUncheckParent, contract.KeyItemID, id)
				got, err = svc.UncheckParent(ctx, l.ID, id)
			}
			require.NoError(t, err)
			predicted := Predict(view, req, "")
			assert.True(t, tree.Equal(got, predicted.ActiveList.Items), "action %s on %s", req.Action, id)

			gotDel, err := svc.DeleteItem(ctx, l.ID, id)
			require.NoError(t, err)
			predicted = Predict(View{ActiveList: &domain.List{ID: l.ID, Items: got}},
				contract.NewMutationRequest(contract.ActionDeleteItem, contract.KeyItemID, id), "")
			assert.True(t, tree.Equal(gotDel, predicted.ActiveList.Items))
		})
	}
}

func collectIDs(f domain.Forest) []string {
	var ids []string
	var walk func([]domain.ItemNode)
	walk = func(nodes []domain.ItemNode) {
		for _, n := range nodes {
			ids = append(ids, n.ID)
			walk(n.Children)
		}
	}
	walk(f)
	return ids
}
