package tree

import (
	"testing"

	"github.com/alexanderramin/arbor/internal/domain"
	"github.com/alexanderramin/arbor/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCountByStatus_CountsEveryDepth(t *testing.T) {
	forest := NormalizeTree(testutil.LeisureForest())

	// completed: movie, shopping, food, bread, milk
	assert.Equal(t, 5, CountByStatus(forest, true))
	// pending: entertainment, book, chores
	assert.Equal(t, 3, CountByStatus(forest, false))
}

func TestCountByStatus_Consistency(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		f := testutil.RandomForest(seed, 4, 3)
		assert.Equal(t, CountNodes(f), CountByStatus(f, true)+CountByStatus(f, false), "seed %d", seed)
	}
}

func TestBuildParentOptions_PreOrderWithPaths(t *testing.T) {
	got := BuildParentOptions(testutil.LeisureForest())

	want := []domain.ParentOption{
		{ID: "entertainment", Label: "Entertainment"},
		{ID: "book", Label: "Entertainment / Read a book"},
		{ID: "movie", Label: "Entertainment / Watch a movie"},
		{ID: "chores", Label: "Chores"},
		{ID: "shopping", Label: "Shopping"},
		{ID: "food", Label: "Shopping / Food"},
		{ID: "bread", Label: "Shopping / Food / Bread"},
		{ID: "milk", Label: "Shopping / Food / Milk"},
	}
	assert.Equal(t, want, got)
}

func TestBuildParentOptions_Empty(t *testing.T) {
	assert.Empty(t, BuildParentOptions(nil))
}

func TestEqual_NilAndEmptyChildren(t *testing.T) {
	a := domain.Forest{{ID: "x", Title: "X"}}
	b := domain.Forest{{ID: "x", Title: "X", Children: []domain.ItemNode{}}}

	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, domain.Forest{{ID: "x", Title: "Y"}}))
}
