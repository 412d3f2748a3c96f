// Package manifest records the files produced by a build so that the next
// build can remove them first.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adnsv/go-utils/fs"
	"github.com/adnsv/iconfont/files"
	"github.com/adnsv/iconfont/glyph"
	"github.com/sirupsen/logrus"
)

// FileName is the manifest location relative to the build directory.
const FileName = ".iconfont-manifest.json"

type Manifest struct {
	Stamp  int64         `json:"stamp"` // unix milliseconds
	Hash   string        `json:"hash"`
	Glyphs []glyph.Glyph `json:"glyphs"`
	Files  []string      `json:"files"`
}

// Path returns the manifest file of cwd.
func Path(cwd string) string {
	return filepath.Join(cwd, FileName)
}

// Read loads the manifest of cwd. A missing manifest yields (nil, nil).
func Read(cwd string) (*Manifest, error) {
	fn := Path(cwd)
	if !fs.FileExists(fn) {
		return nil, nil
	}
	m := &Manifest{}
	if err := fs.ReadJSON(fn, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Clean deletes every file listed in the manifest of cwd. Files that no
// longer exist are skipped. Only the file list is decoded, so a manifest
// with damaged metadata still gets cleaned; an unreadable one is logged and
// ignored.
func Clean(cwd string, log logrus.FieldLogger) error {
	fn := Path(cwd)
	if !fs.FileExists(fn) {
		return nil
	}
	var listed struct {
		Files []string `json:"files"`
	}
	if err := fs.ReadJSON(fn, &listed); err != nil {
		log.Errorf("corrupt manifest: %v", err)
		return nil
	}

	var errs []error
	for _, fn := range listed.Files {
		removed, err := files.Remove(fn)
		if err != nil {
			errs = append(errs, fmt.Errorf("removing %s: %w", fn, err))
			continue
		}
		if removed {
			log.Debugf("removed %s", fn)
		}
	}
	return errors.Join(errs...)
}

// Write replaces the manifest of cwd.
func Write(cwd string, glyphs []glyph.Glyph, hash string, outputs []string, now time.Time) error {
	m := Manifest{
		Stamp:  now.UnixMilli(),
		Hash:   hash,
		Glyphs: glyphs,
		Files:  outputs,
	}
	buf, err := json.MarshalIndent(m, "", "    ")
	if err != nil {
		return err
	}
	buf = append(buf, '\n')
	if err = os.WriteFile(Path(cwd), buf, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
