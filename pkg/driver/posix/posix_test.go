package posix

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relayfs/relayfs/pkg/driver"
)

func TestRemoveDirectory(t *testing.T) {
	ctx := context.Background()

	t.Run("RemovesEmptyDirectory", func(t *testing.T) {
		d := New(t.TempDir())
		require.NoError(t, d.MakeDirectory(ctx, "/empty", 0755))

		require.NoError(t, d.RemoveDirectory(ctx, "/empty", false))

		_, err := os.Stat(filepath.Join(d.root, "empty"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("NonRecursiveFailsOnNonEmpty", func(t *testing.T) {
		root := t.TempDir()
		d := New(root)
		require.NoError(t, d.MakeDirectory(ctx, "/data", 0755))
		require.NoError(t, os.WriteFile(filepath.Join(root, "data", "file.txt"), []byte("x"), 0644))

		err := d.RemoveDirectory(ctx, "/data", false)
		assert.True(t, driver.IsCode(err, driver.CodeNotEmpty), "got %v", err)

		// Nothing was deleted
		_, statErr := os.Stat(filepath.Join(root, "data", "file.txt"))
		assert.NoError(t, statErr)
	})

	t.Run("RecursiveRemovesTree", func(t *testing.T) {
		root := t.TempDir()
		d := New(root)
		require.NoError(t, d.MakeDirectory(ctx, "/data", 0755))
		require.NoError(t, d.MakeDirectory(ctx, "/data/sub", 0755))
		require.NoError(t, os.WriteFile(filepath.Join(root, "data", "sub", "file.txt"), []byte("x"), 0644))

		require.NoError(t, d.RemoveDirectory(ctx, "/data", true))

		_, err := os.Stat(filepath.Join(root, "data"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("MissingDirectoryIsNotFound", func(t *testing.T) {
		d := New(t.TempDir())

		// Same outcome on every repeated call
		for i := 0; i < 3; i++ {
			err := d.RemoveDirectory(ctx, "/nope", false)
			assert.True(t, driver.IsCode(err, driver.CodeNotFound), "got %v", err)
		}
	})

	t.Run("FileTargetIsIOFailure", func(t *testing.T) {
		root := t.TempDir()
		d := New(root)
		require.NoError(t, os.WriteFile(filepath.Join(root, "plain"), []byte("x"), 0644))

		err := d.RemoveDirectory(ctx, "/plain", false)
		assert.True(t, driver.IsCode(err, driver.CodeIO), "got %v", err)
	})
}

func TestMakeDirectory(t *testing.T) {
	ctx := context.Background()

	t.Run("CreatesDirectory", func(t *testing.T) {
		root := t.TempDir()
		d := New(root)

		require.NoError(t, d.MakeDirectory(ctx, "/fresh", 0755))

		info, err := os.Stat(filepath.Join(root, "fresh"))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("ExistingDirectoryIsAlreadyExists", func(t *testing.T) {
		d := New(t.TempDir())
		require.NoError(t, d.MakeDirectory(ctx, "/dup", 0755))

		err := d.MakeDirectory(ctx, "/dup", 0755)
		assert.True(t, driver.IsCode(err, driver.CodeAlreadyExists), "got %v", err)
	})

	t.Run("MissingParentIsNotFound", func(t *testing.T) {
		d := New(t.TempDir())

		err := d.MakeDirectory(ctx, "/a/b/c", 0755)
		assert.True(t, driver.IsCode(err, driver.CodeNotFound), "got %v", err)
	})
}

func TestType(t *testing.T) {
	assert.Equal(t, driver.TypePosix, New("").Type())
}
