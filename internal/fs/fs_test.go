package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, Default.MkdirAll(dir, 0o755))

	f, err := Default.CreateTemp(dir, ".x-*")
	require.NoError(t, err)
	_, err = f.Write([]byte("data"))
	require.NoError(t, err)
	require.NoError(t, f.Sync())
	require.NoError(t, f.Close())

	target := filepath.Join(dir, "x")
	require.NoError(t, Default.Rename(f.Name(), target))
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))

	require.NoError(t, Default.Remove(target))
}

func TestFaultyFS_Write(t *testing.T) {
	dir := t.TempDir()
	ffs := NewFaultyFS(nil)
	ffs.AddRule(".bad", Fault{FailAfterBytes: 4})

	f, err := ffs.CreateTemp(dir, ".bad-*")
	require.NoError(t, err)
	defer f.Close()

	_, err = f.Write([]byte("1234"))
	require.NoError(t, err)
	_, err = f.Write([]byte("5"))
	assert.ErrorIs(t, err, ErrInjected)

	good, err := ffs.CreateTemp(dir, ".good-*")
	require.NoError(t, err)
	_, err = good.Write(make([]byte, 1024))
	require.NoError(t, err)
	require.NoError(t, good.Close())
}

func TestFaultyFS_SyncCloseRename(t *testing.T) {
	dir := t.TempDir()
	custom := os.ErrPermission
	ffs := NewFaultyFS(LocalFS{})
	ffs.AddRule("sync", Fault{FailAfterBytes: -1, FailOnSync: true})
	ffs.AddRule("close", Fault{FailAfterBytes: -1, FailOnClose: true, Err: custom})
	ffs.AddRule("target", Fault{FailAfterBytes: -1, FailOnRename: true})

	f, err := ffs.CreateTemp(dir, "sync-*")
	require.NoError(t, err)
	assert.ErrorIs(t, f.Sync(), ErrInjected)
	require.NoError(t, f.Close())

	f, err = ffs.CreateTemp(dir, "close-*")
	require.NoError(t, err)
	assert.ErrorIs(t, f.Close(), custom)

	assert.ErrorIs(t, ffs.Rename(f.Name(), filepath.Join(dir, "target")), ErrInjected)
	require.NoError(t, ffs.Rename(f.Name(), filepath.Join(dir, "renamed")))
}
