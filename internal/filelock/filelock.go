// Package filelock writes report files so that readers never observe a
// partial file, and so that two dupfind runs targeting the same path do not
// interleave their output.
package filelock

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// FileLock wraps a flock file lock for coordinating access to files.
type FileLock struct {
	flock *flock.Flock
	path  string
}

// NewFileLock creates a new file lock for the given path.
func NewFileLock(path string) *FileLock {
	return &FileLock{
		flock: flock.New(path),
		path:  path,
	}
}

// Path returns the lock file path.
func (fl *FileLock) Path() string {
	return fl.path
}

// Lock acquires an exclusive lock, blocking until it is available.
func (fl *FileLock) Lock() error {
	if err := fl.flock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", fl.path, err)
	}
	return nil
}

// Unlock releases the lock.
func (fl *FileLock) Unlock() error {
	if err := fl.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", fl.path, err)
	}
	return nil
}

// AtomicWriteFunc streams content produced by write into a temp file next to
// path, then renames it over path. The writer passed to write is buffered.
func AtomicWriteFunc(path string, write func(w io.Writer) error) error {
	return AtomicReplace(path, func(tempPath string) error {
		f, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("failed to open temp file: %w", err)
		}

		bw := bufio.NewWriter(f)
		if err := write(bw); err != nil {
			f.Close()
			return err
		}
		if err := bw.Flush(); err != nil {
			f.Close()
			return fmt.Errorf("failed to write to temp file: %w", err)
		}
		if err := f.Sync(); err != nil {
			f.Close()
			return fmt.Errorf("failed to sync temp file: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to close temp file: %w", err)
		}
		return nil
	})
}

// AtomicReplace reserves an empty temp file in the directory of path, lets
// build fill it by name, and renames it over path when build succeeds.
// Used for outputs such as SQLite databases that must be written by path.
func AtomicReplace(path string, build func(tempPath string) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	// Same directory keeps the rename on one filesystem
	tempFile, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()
	if err := tempFile.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	renamed := false
	defer func() {
		if !renamed {
			os.Remove(tempPath)
		}
	}()

	if err := build(tempPath); err != nil {
		return err
	}

	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}
	renamed = true

	return nil
}

// LockAndWrite holds path+".lock" while streaming write into path atomically.
// The lock file is removed afterwards, whether or not the write succeeded.
func LockAndWrite(path string, write func(w io.Writer) error) error {
	return withLock(path, func() error {
		return AtomicWriteFunc(path, write)
	})
}

// LockAndReplace is LockAndWrite for outputs built by path.
func LockAndReplace(path string, build func(tempPath string) error) error {
	return withLock(path, func() error {
		return AtomicReplace(path, build)
	})
}

func withLock(path string, fn func() error) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	lock := NewFileLock(path + ".lock")
	if err := lock.Lock(); err != nil {
		return err
	}
	defer func() {
		lock.Unlock()
		os.Remove(lock.Path())
	}()

	return fn()
}
