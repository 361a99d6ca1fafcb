package output

import (
	"fmt"
	"os"
	"sync"
)

// BackupSuffix is appended to the destination path when a pre-existing
// file is moved aside. An existing backup at that name is replaced.
const BackupSuffix = ".bak"

// File is a report destination with an idempotent Close.
//
// Design decision: The run closes the handle on every exit path, and
// some paths overlap (deferred cleanup plus explicit close after a
// successful write). Making Close idempotent keeps "closed exactly
// once" a property of the type instead of a property every caller must
// re-establish.
type File struct {
	f         *os.File
	closeOnce sync.Once
	closeErr  error
}

// Write implements io.Writer.
func (s *File) Write(p []byte) (int, error) {
	return s.f.Write(p)
}

// Name returns the path of the underlying file.
func (s *File) Name() string {
	return s.f.Name()
}

// Close closes the underlying file. Subsequent calls are no-ops that
// return the first close's error.
func (s *File) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.f.Close()
	})
	return s.closeErr
}

// OpenWithBackup opens path for writing, first preserving any existing
// file at that location as path+".bak".
//
// If the rename fails, no new file is created and the previous output
// remains untouched; the caller is expected to continue without file
// output. Reports may contain internal taxonomy details, so the fresh
// file is created with 0600 permissions.
func OpenWithBackup(path string) (*File, error) {
	if _, err := os.Stat(path); err == nil {
		backup := path + BackupSuffix
		if err := os.Rename(path, backup); err != nil {
			return nil, fmt.Errorf("failed to back up existing file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to check output path %s: %w", path, err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %s: %w", path, err)
	}

	return &File{f: f}, nil
}
