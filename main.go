package main

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/adnsv/go-utils/fs"
	"github.com/adnsv/iconfont/config"
	"github.com/adnsv/iconfont/generator"
	"github.com/adnsv/iconfont/glyph"
	cli "github.com/jawher/mow.cli"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	workdir := ""
	configFN := config.DefaultConfigFile
	logFN := ""
	verbose := false

	app := cli.App("iconfont", "SVG icons -> web icon font converter")
	app.Version("version", appVersion())
	app.StringOptPtr(&workdir, "d dir", "", "build directory (defaults to the current directory)")
	app.StringOptPtr(&configFN, "c config", config.DefaultConfigFile, "yaml config file, relative to the build directory")
	app.StringOptPtr(&logFN, "log-file", "", "also write the log into a rotated file")
	app.BoolOptPtr(&verbose, "v verbose", false, "print per-glyph diagnostics")

	log := logrus.New()
	setup := func() {
		lf := &logFormatter{color: term.IsTerminal(int(os.Stdout.Fd()))}
		var out io.Writer = os.Stdout
		if logFN != "" {
			lf.color = false
			out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
				Filename:   logFN,
				MaxSize:    10,
				MaxBackups: 3,
				MaxAge:     28,
			})
		}
		log.SetFormatter(lf)
		log.SetOutput(out)
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	}

	loadOptions := func() config.Options {
		cwd := workdir
		if cwd == "" {
			var err error
			if cwd, err = os.Getwd(); err != nil {
				log.Fatal(err)
			}
		}
		fn := config.NormalizePath(cwd, configFN)
		if !fs.FileExists(fn) {
			log.Warnf("missing config file %s", fn)
			cli.Exit(1)
		}
		opts, err := config.Load(fn)
		if err != nil {
			log.Fatal(err)
		}
		opts.Cwd = cwd
		return opts
	}

	app.Command("compile", "generate the icon font, the stylesheet and the preview page", func(cmd *cli.Cmd) {
		cmd.Action = func() {
			setup()
			g := generator.New(loadOptions(), log)
			_, err := g.Run(context.Background())
			if errors.Is(err, glyph.ErrNoIcons) {
				log.Warn(err)
				cli.Exit(1)
			}
			if err != nil {
				log.Fatal(err)
			}
		}
	})

	app.Command("preview", "locate the preview page of the last build", func(cmd *cli.Cmd) {
		cmd.Action = func() {
			setup()
			opts, err := config.Resolve(loadOptions())
			if err != nil {
				log.Fatal(err)
			}
			fn := opts.PreviewFile()
			if !fs.FileExists(fn) {
				log.Fatalf("preview file %s does not exist, enable 'preview' and run compile first", fn)
			}
			log.Infof("preview page: %s", fn)
		}
	})

	app.Run(os.Args)
}
