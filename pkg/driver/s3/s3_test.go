package s3

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/relayfs/relayfs/pkg/driver"
)

func TestDirectoryKey(t *testing.T) {
	t.Run("WithPrefix", func(t *testing.T) {
		d := NewWithClient(nil, "bucket", "fs/")

		assert.Equal(t, "fs/a/b/", d.DirectoryKey("/a/b"))
		assert.Equal(t, "fs/a/", d.DirectoryKey("/a"))
		assert.Equal(t, "fs/a/", d.DirectoryKey("/a/"))
	})

	t.Run("WithoutPrefix", func(t *testing.T) {
		d := NewWithClient(nil, "bucket", "")

		assert.Equal(t, "a/b/", d.DirectoryKey("/a/b"))
	})

	t.Run("RootMapsToPrefix", func(t *testing.T) {
		d := NewWithClient(nil, "bucket", "fs/")

		assert.Equal(t, "fs/", d.DirectoryKey("/"))
	})
}

func TestS3Type(t *testing.T) {
	assert.Equal(t, driver.TypeS3, NewWithClient(nil, "bucket", "").Type())
}
