package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alexanderramin/arbor/internal/db"
	"github.com/alexanderramin/arbor/internal/domain"
	"github.com/alexanderramin/arbor/internal/testutil"
	"github.com/alexanderramin/arbor/internal/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newConcurrentTestDB creates a file-backed SQLite database in a temp directory.
// Unlike :memory:, a file-backed DB shares state across all pooled connections.
func newConcurrentTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(filepath.Join(t.TempDir(), "concurrent_test.db"))
	require.NoError(t, err, "failed to create concurrent test database")
	t.Cleanup(func() { database.Close() })
	return database
}

// Readers must always observe one whole saved tree, never a mix of two.
func TestConcurrentAccess_ReadDuringSave(t *testing.T) {
	repo := NewSQLiteListRepo(newConcurrentTestDB(t))
	ctx := context.Background()

	before := tree.NormalizeTree(testutil.LeisureForest())
	after, ok := tree.UpdateNode(before, "chores", func(n domain.ItemNode) domain.ItemNode {
		n.Completed = true
		return n
	})
	require.True(t, ok)
	after = tree.NormalizeTree(after)

	l := testutil.NewTestList("Concurrent", testutil.WithItems(before...))
	require.NoError(t, repo.Create(ctx, l))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			next := after
			if i%2 == 1 {
				next = before
			}
			if err := repo.SaveItems(ctx, l.ID, next); err != nil {
				t.Errorf("writer: save %d: %v", i, err)
				return
			}
		}
	}()

	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				got, err := repo.GetByID(ctx, l.ID)
				if err != nil {
					t.Errorf("reader %d: get: %v", reader, err)
					return
				}
				if !tree.Equal(got.Items, before) && !tree.Equal(got.Items, after) {
					t.Errorf("reader %d: observed a partially saved tree", reader)
					return
				}
			}
		}(r)
	}
	wg.Wait()

	final, err := repo.GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.True(t, tree.Equal(final.Items, before), "last save restores the original tree")
}
