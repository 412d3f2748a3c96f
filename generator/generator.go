// Package generator runs the icon font build: it cleans the outputs of the
// previous build, scans the icons, and writes the fonts, the stylesheet, the
// optional preview page and the manifest.
package generator

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"time"

	"github.com/adnsv/iconfont/config"
	"github.com/adnsv/iconfont/fonts"
	"github.com/adnsv/iconfont/glyph"
	"github.com/adnsv/iconfont/manifest"
	"github.com/adnsv/iconfont/preview"
	"github.com/adnsv/iconfont/style"
	"github.com/sirupsen/logrus"
)

// Hash returns the md5 digest of buf in lowercase hex.
func Hash(buf []byte) string {
	sum := md5.Sum(buf)
	return hex.EncodeToString(sum[:])
}

type Generator struct {
	Options config.Options // unresolved user options
	Log     logrus.FieldLogger
	Now     func() time.Time // defaults to time.Now
}

// Build describes the outcome of a successful run.
type Build struct {
	Options *config.Options
	Hash    string
	Glyphs  []glyph.Glyph
	Files   []string
}

func New(opts config.Options, log logrus.FieldLogger) *Generator {
	return &Generator{Options: opts, Log: log, Now: time.Now}
}

// Run performs one complete build. Concurrent runs on the same working
// directory are not coordinated.
func (g *Generator) Run(ctx context.Context) (*Build, error) {
	log := g.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	now := g.Now
	if now == nil {
		now = time.Now
	}

	opts, err := config.Resolve(g.Options)
	if err != nil {
		return nil, err
	}
	log.Info("generating, please wait")

	if err = manifest.Clean(opts.Cwd, log); err != nil {
		return nil, err
	}

	scan, err := glyph.Scan(ctx, opts, log)
	if err != nil {
		return nil, err
	}
	hash := Hash(scan.Buffer)
	log.Debugf("build hash %s", hash)

	outputs, err := fonts.Emit(scan.Buffer, hash, opts, log)
	if err != nil {
		return nil, err
	}

	fn, err := style.Write(scan.Glyphs, hash, opts, log)
	if err != nil {
		return nil, err
	}
	outputs = append(outputs, fn)

	if opts.Preview {
		fn, err = preview.Write(scan.Glyphs, hash, opts, log)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, fn)
	}

	if err = manifest.Write(opts.Cwd, scan.Glyphs, hash, outputs, now()); err != nil {
		return nil, err
	}
	log.Info("mission accomplished")

	return &Build{
		Options: opts,
		Hash:    hash,
		Glyphs:  scan.Glyphs,
		Files:   outputs,
	}, nil
}
