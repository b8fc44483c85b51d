package tree

import (
	"testing"

	"github.com/alexanderramin/arbor/internal/domain"
	"github.com/alexanderramin/arbor/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildVisibleTree_Pending(t *testing.T) {
	forest := NormalizeTree(testutil.LeisureForest())

	got := BuildVisibleTree(forest, domain.ViewPending)

	require.Len(t, got, 2)
	entertainment := got[0]
	assert.Equal(t, "entertainment", entertainment.ID)
	assert.False(t, entertainment.IsContextOnly)
	assert.True(t, entertainment.IsPartiallyCompleted)
	require.Len(t, entertainment.Children, 1)
	assert.Equal(t, "book", entertainment.Children[0].ID)

	assert.Equal(t, "chores", got[1].ID)
}

func TestBuildVisibleTree_Completed(t *testing.T) {
	forest := NormalizeTree(testutil.LeisureForest())

	got := BuildVisibleTree(forest, domain.ViewCompleted)

	require.Len(t, got, 2)
	entertainment := got[0]
	assert.True(t, entertainment.IsContextOnly, "pending parent kept only for its completed child")
	require.Len(t, entertainment.Children, 1)
	assert.Equal(t, "movie", entertainment.Children[0].ID)

	shopping := got[1]
	assert.Equal(t, "shopping", shopping.ID)
	assert.False(t, shopping.IsContextOnly)
	assert.False(t, shopping.IsPartiallyCompleted)
	require.Len(t, shopping.Children, 1)
	assert.Len(t, shopping.Children[0].Children, 2)
}

func TestBuildVisibleNode_CompletedContextInPendingMode(t *testing.T) {
	// Not normalized on purpose: a completed parent with a pending child.
	n := testutil.Parent("p", "P", testutil.Leaf("c", "C", false))
	n.Completed = true

	v, ok := BuildVisibleNode(n, domain.ViewPending)

	require.True(t, ok)
	assert.True(t, v.IsContextOnly)
}

func TestBuildVisibleNode_LeafExclusion(t *testing.T) {
	_, ok := BuildVisibleNode(testutil.Leaf("l", "L", true), domain.ViewPending)
	assert.False(t, ok)
	_, ok = BuildVisibleNode(testutil.Leaf("l", "L", false), domain.ViewCompleted)
	assert.False(t, ok)
}

// Every node is exactly one of excluded, match or context per mode, and the
// partial flag does not depend on the mode.
func TestBuildVisibleTree_Partition(t *testing.T) {
	for seed := int64(1); seed <= 40; seed++ {
		forest := NormalizeTree(testutil.RandomForest(seed, 4, 3))
		pending := index(BuildVisibleTree(forest, domain.ViewPending))
		completed := index(BuildVisibleTree(forest, domain.ViewCompleted))

		var walk func(nodes []domain.ItemNode)
		walk = func(nodes []domain.ItemNode) {
			for _, n := range nodes {
				for mode, seen := range map[domain.ViewMode]map[string]domain.VisibleNode{
					domain.ViewPending:   pending,
					domain.ViewCompleted: completed,
				} {
					v, ok := seen[n.ID]
					if !ok {
						continue
					}
					if mode.Matches(n.Completed) {
						assert.False(t, v.IsContextOnly, "seed %d node %s", seed, n.ID)
					} else {
						assert.True(t, v.IsContextOnly, "seed %d node %s", seed, n.ID)
					}
				}
				if p, ok := pending[n.ID]; ok {
					if c, ok := completed[n.ID]; ok {
						assert.Equal(t, p.IsPartiallyCompleted, c.IsPartiallyCompleted)
					}
				}
				if len(n.Children) == 0 {
					_, inPending := pending[n.ID]
					_, inCompleted := completed[n.ID]
					assert.NotEqual(t, inPending, inCompleted, "leaf %s must appear in exactly one view", n.ID)
				}
				walk(n.Children)
			}
		}
		walk(forest)
	}
}

func index(nodes []domain.VisibleNode) map[string]domain.VisibleNode {
	out := make(map[string]domain.VisibleNode)
	var walk func(ns []domain.VisibleNode)
	walk = func(ns []domain.VisibleNode) {
		for _, n := range ns {
			out[n.ID] = n
			walk(n.Children)
		}
	}
	walk(nodes)
	return out
}
