package blobstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStoreSaveAndDelete(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	ref, err := store.Save(context.Background(), strings.NewReader("jpeg bytes"), "holiday.jpg")
	require.NoError(t, err)
	assert.Equal(t, ".jpg", filepath.Ext(ref))
	assert.Equal(t, "/uploads/"+ref, store.URL(ref))

	data, err := os.ReadFile(filepath.Join(store.dir, ref))
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(data))

	require.NoError(t, store.Delete(ref))
	_, err = os.Stat(filepath.Join(store.dir, ref))
	assert.True(t, os.IsNotExist(err))
}

func TestDiskStoreSaveDistinctRefs(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	first, err := store.Save(context.Background(), strings.NewReader("one"), "pic.png")
	require.NoError(t, err)
	second, err := store.Save(context.Background(), strings.NewReader("two"), "pic.png")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("stream broke")
}

func TestDiskStoreSaveFailureLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir)
	require.NoError(t, err)

	_, err = store.Save(context.Background(), failingReader{}, "pic.jpg")
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDiskStoreSaveCancelledContext(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = store.Save(ctx, strings.NewReader("jpeg bytes"), "pic.jpg")
	require.ErrorIs(t, err, context.Canceled)
}

func TestDiskStoreDeleteAbsent(t *testing.T) {
	store, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Delete("no-such-file.png"))
}

func TestNewDiskStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")

	_, err := NewDiskStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
