package storage

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteFileAtomic writes to a temporary file next to path and renames it
// over path once write succeeds, so readers never observe a partial file.
func WriteFileAtomic(path string, write func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file in %s: %v", ErrWriteFailure, dir, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err = write(bw); err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrWriteFailure, path, err)
	}
	if err = bw.Flush(); err != nil {
		return fmt.Errorf("%w: flush %s: %v", ErrWriteFailure, path, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("%w: sync %s: %v", ErrWriteFailure, path, err)
	}
	if err = tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("%w: chmod %s: %v", ErrWriteFailure, path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %v", ErrWriteFailure, path, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: rename to %s: %v", ErrWriteFailure, path, err)
	}
	return nil
}
