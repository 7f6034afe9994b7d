// Package writer persists serialized playlists to disk.
package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

// Extension is appended to output names that do not already end in it.
const Extension = ".m3u8"

// EnsureExtension returns name with the playlist extension. The check is
// case-sensitive, so "out.M3U8" becomes "out.M3U8.m3u8".
func EnsureExtension(name string) string {
	if strings.HasSuffix(name, Extension) {
		return name
	}
	return name + Extension
}

// File is a playlist output target.
type File struct {
	name string
	perm os.FileMode
}

// New returns a File for name, normalized with EnsureExtension.
func New(name string) *File {
	return &File{name: EnsureExtension(name), perm: 0644}
}

// Name returns the normalized output path.
func (f *File) Name() string {
	return f.name
}

// LockPath returns the advisory lock file guarding the output.
func (f *File) LockPath() string {
	return f.name + ".lock"
}

// Write replaces the file's contents. An exclusive lock on LockPath is held
// for the duration, and the content lands in a temporary file in the same
// directory before being renamed over the target, so readers see either the
// old or the new playlist in full.
func (f *File) Write(content []byte) (err error) {
	lock := flock.New(f.LockPath())
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("acquire lock %s: %w", f.LockPath(), err)
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil && err == nil {
			err = fmt.Errorf("release lock %s: %w", f.LockPath(), unlockErr)
		}
	}()

	tmp, err := os.CreateTemp(filepath.Dir(f.name), "."+filepath.Base(f.name)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", f.name, err)
	}
	if err := tmp.Chmod(f.perm); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod %s: %w", f.name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", f.name, err)
	}
	if err := os.Rename(tmp.Name(), f.name); err != nil {
		return fmt.Errorf("rename into %s: %w", f.name, err)
	}
	return nil
}
