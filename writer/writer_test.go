package writer

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureExtension(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"sorted_master", "sorted_master.m3u8"},
		{"sorted_master.m3u8", "sorted_master.m3u8"},
		{"out/master.M3U8", "out/master.M3U8.m3u8"},
		{"playlist.m3u", "playlist.m3u.m3u8"},
		{"", ".m3u8"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EnsureExtension(tt.in), tt.in)
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	f := New(filepath.Join(dir, "sorted_master"))
	assert.Equal(t, filepath.Join(dir, "sorted_master.m3u8"), f.Name())

	content := []byte("#EXTM3U\n\n#EXT-X-STREAM-INF:BANDWIDTH=1\nv.m3u8\n\n\n\n")
	require.NoError(t, f.Write(content))

	got, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.Equal(t, content, got)

	info, err := os.Stat(f.Name())
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0644), info.Mode().Perm())
}

func TestWriteReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	f := New(filepath.Join(dir, "out.m3u8"))
	require.NoError(t, os.WriteFile(f.Name(), []byte("old contents that are longer"), 0644))

	require.NoError(t, f.Write([]byte("new")))

	got, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	f := New(filepath.Join(dir, "out"))
	require.NoError(t, f.Write([]byte("#EXTM3U\n")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".out.m3u8."), "leftover temp file %s", e.Name())
	}
}

func TestWriteMissingDirectory(t *testing.T) {
	f := New(filepath.Join(t.TempDir(), "missing", "out"))
	err := f.Write([]byte("#EXTM3U\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist), "got %v", err)
}

func TestWriteWaitsForLock(t *testing.T) {
	dir := t.TempDir()
	f := New(filepath.Join(dir, "out"))

	held := flock.New(f.LockPath())
	require.NoError(t, held.Lock())

	done := make(chan error, 1)
	go func() { done <- f.Write([]byte("after unlock")) }()

	select {
	case err := <-done:
		t.Fatalf("Write finished while lock was held: %v", err)
	default:
	}

	require.NoError(t, held.Unlock())
	require.NoError(t, <-done)

	got, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.Equal(t, "after unlock", string(got))
}

func TestConcurrentWritersNeverInterleave(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "out")
	payloads := []string{
		strings.Repeat("a", 64<<10),
		strings.Repeat("b", 64<<10),
		strings.Repeat("c", 64<<10),
	}

	var wg sync.WaitGroup
	for _, p := range payloads {
		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			assert.NoError(t, New(name).Write([]byte(p)))
		}(p)
	}
	wg.Wait()

	got, err := os.ReadFile(EnsureExtension(name))
	require.NoError(t, err)
	assert.Contains(t, payloads, string(got))
}
