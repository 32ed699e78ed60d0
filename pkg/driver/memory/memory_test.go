package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relayfs/relayfs/pkg/driver"
)

func TestMemoryDriver(t *testing.T) {
	ctx := context.Background()

	t.Run("RootAlwaysExists", func(t *testing.T) {
		d := New()
		assert.True(t, d.Exists("/"))

		err := d.RemoveDirectory(ctx, "/", false)
		assert.True(t, driver.IsCode(err, driver.CodeIO), "got %v", err)
	})

	t.Run("MakeThenRemove", func(t *testing.T) {
		d := New()
		require.NoError(t, d.MakeDirectory(ctx, "/a", 0755))
		require.NoError(t, d.RemoveDirectory(ctx, "/a", false))
		assert.False(t, d.Exists("/a"))
	})

	t.Run("MakeRequiresParent", func(t *testing.T) {
		d := New()
		err := d.MakeDirectory(ctx, "/a/b", 0755)
		assert.True(t, driver.IsCode(err, driver.CodeNotFound), "got %v", err)
	})

	t.Run("MakeExistingFails", func(t *testing.T) {
		d := New()
		require.NoError(t, d.MakeDirectory(ctx, "/a", 0755))

		err := d.MakeDirectory(ctx, "/a", 0755)
		assert.True(t, driver.IsCode(err, driver.CodeAlreadyExists), "got %v", err)
	})

	t.Run("NonRecursiveFailsOnNonEmpty", func(t *testing.T) {
		d := New()
		require.NoError(t, d.MakeDirectory(ctx, "/a", 0755))
		require.NoError(t, d.MakeDirectory(ctx, "/a/b", 0755))

		err := d.RemoveDirectory(ctx, "/a", false)
		assert.True(t, driver.IsCode(err, driver.CodeNotEmpty), "got %v", err)
		assert.True(t, d.Exists("/a/b"), "failed removal must not delete anything")
	})

	t.Run("RecursiveRemovesSubtree", func(t *testing.T) {
		d := New()
		require.NoError(t, d.MakeDirectory(ctx, "/a", 0755))
		require.NoError(t, d.MakeDirectory(ctx, "/a/b", 0755))
		require.NoError(t, d.MakeDirectory(ctx, "/a/b/c", 0755))

		require.NoError(t, d.RemoveDirectory(ctx, "/a", true))

		assert.False(t, d.Exists("/a"))
		assert.False(t, d.Exists("/a/b"))
		assert.False(t, d.Exists("/a/b/c"))
	})

	t.Run("SimilarPrefixIsNotAChild", func(t *testing.T) {
		d := New()
		require.NoError(t, d.MakeDirectory(ctx, "/data", 0755))
		require.NoError(t, d.MakeDirectory(ctx, "/database", 0755))

		require.NoError(t, d.RemoveDirectory(ctx, "/data", false))
		assert.True(t, d.Exists("/database"))
	})

	t.Run("MissingDirectoryIsNotFound", func(t *testing.T) {
		d := New()
		for i := 0; i < 3; i++ {
			err := d.RemoveDirectory(ctx, "/missing", false)
			assert.True(t, driver.IsCode(err, driver.CodeNotFound), "got %v", err)
		}
	})
}
