package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDisk(t *testing.T) *localDisk {
	t.Helper()
	return &localDisk{root: t.TempDir(), baseURL: "http://localhost:3000/static"}
}

func TestLocalPutGetDelete(t *testing.T) {
	d := newTestDisk(t)

	require.NoError(t, d.Put("images/p-1.jpg", []byte("jpeg bytes")))
	assert.True(t, d.Exists("images/p-1.jpg"))
	assert.False(t, d.Missing("images/p-1.jpg"))

	got, err := d.Get("images/p-1.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg bytes"), got)

	size, err := d.Size("images/p-1.jpg")
	require.NoError(t, err)
	assert.Equal(t, int64(len("jpeg bytes")), size)

	require.NoError(t, d.Delete("images/p-1.jpg"))
	assert.True(t, d.Missing("images/p-1.jpg"))
}

func TestLocalPutCreatesNestedDirs(t *testing.T) {
	d := newTestDisk(t)

	require.NoError(t, d.Put("a/b/c/file.png", []byte("x")))
	_, err := os.Stat(filepath.Join(d.root, "a", "b", "c", "file.png"))
	assert.NoError(t, err)
}

func TestLocalPutStream(t *testing.T) {
	d := newTestDisk(t)

	require.NoError(t, d.PutStream("images/s.webp", strings.NewReader("stream")))
	got, err := d.Get("images/s.webp")
	require.NoError(t, err)
	assert.Equal(t, "stream", string(got))
}

func TestLocalURL(t *testing.T) {
	d := newTestDisk(t)
	assert.Equal(t, "http://localhost:3000/static/images/p-1.jpg", d.URL("images/p-1.jpg"))
}

func TestDefaultDiskHelpers(t *testing.T) {
	d := newTestDisk(t)
	RegisterDisk("testlocal", d)
	SetDefault("testlocal")
	t.Cleanup(func() { SetDefault("local") })

	require.NoError(t, Put("images/h.gif", []byte("gif")))
	assert.True(t, Exists("images/h.gif"))
	assert.Equal(t, d.URL("images/h.gif"), URL("images/h.gif"))
	require.NoError(t, Delete("images/h.gif"))
}
