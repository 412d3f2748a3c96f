// Package files holds the small filesystem helpers shared by the generator
// stages.
package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adnsv/go-utils/fs"
)

// IsDir reports whether fn exists and is a directory.
func IsDir(fn string) bool {
	stat, err := os.Stat(fn)
	return err == nil && stat.IsDir()
}

// IsFile reports whether fn exists and is a regular file.
func IsFile(fn string) bool {
	stat, err := os.Stat(fn)
	return err == nil && stat.Mode().IsRegular()
}

// Mkdir creates dir together with every missing ancestor. Ancestors are
// collected walking up from dir and then created from the root down.
func Mkdir(dir string) error {
	dir = filepath.Clean(dir)

	var missing []string
	for cur := dir; ; {
		stat, err := os.Stat(cur)
		if err == nil {
			if !stat.IsDir() {
				return fmt.Errorf("path '%s' points to a file instead of a directory", cur)
			}
			break
		}
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		missing = append(missing, cur)
		parent := filepath.Dir(cur)
		if parent == cur {
			break
		}
		cur = parent
	}

	for i := len(missing) - 1; i >= 0; i-- {
		err := os.Mkdir(missing[i], 0755)
		if err != nil && !errors.Is(err, os.ErrExist) {
			return err
		}
	}
	return nil
}

// Remove deletes fn if it is a regular file. It reports whether a file was
// actually removed; a missing file is not an error.
func Remove(fn string) (bool, error) {
	if !IsFile(fn) {
		return false, nil
	}
	err := os.Remove(fn)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// Write stores buf at fn, leaving the file untouched when the content is
// already identical.
func Write(fn string, buf []byte) error {
	return fs.WriteFileIfChanged(fn, buf)
}
