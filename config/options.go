package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adnsv/go-utils/fs"
	"gopkg.in/yaml.v3"
)

// ErrConfig marks configuration problems detected before any file is written.
var ErrConfig = errors.New("configuration error")

// DefaultConfigFile is the name of the config file the CLI looks up in the
// working directory.
const DefaultConfigFile = "iconfont.yml"

type Options struct {
	Cwd string `yaml:"-"`

	Compile CompileOptions `yaml:"compile"`
	Hash    HashOptions    `yaml:"hash"`
	Format  FormatOptions  `yaml:"format"`
	Input   InputOptions   `yaml:"input"`
	Output  OutputOptions  `yaml:"output"`

	Preview   bool `yaml:"preview"`
	Global    bool `yaml:"global"` // css module scoping
	Stylelint bool `yaml:"stylelint"`
}

type CompileOptions struct {
	Syntax        string `yaml:"syntax"` // css, scss or less
	StartPoint    int    `yaml:"startPoint"`
	FontName      string `yaml:"fontName"`
	StyleFileName string `yaml:"styleFileName"`

	// Selector must contain {{glyph}} preceded by a separator character,
	// e.g. ".cw-icon-{{glyph}}".
	Selector string `yaml:"selector"`
}

type HashOptions struct {
	Font  bool `yaml:"font"`
	Style bool `yaml:"style"`
	Len   int  `yaml:"len"`
}

type FormatOptions struct {
	PrintWidth int    `yaml:"printWidth"`
	TabWidth   int    `yaml:"tabWidth"`
	UseTabs    bool   `yaml:"useTabs"`
	Semi       bool   `yaml:"semi"`
	EndOfLine  string `yaml:"endOfLine"` // lf, crlf or cr
}

type InputOptions struct {
	SvgsDir    string `yaml:"svgsDir"`
	StyleTpl   string `yaml:"styleTpl"`
	PreviewTpl string `yaml:"previewTpl"`
}

type OutputOptions struct {
	Font    string `yaml:"font"`
	Style   string `yaml:"style"`
	Preview string `yaml:"preview"`
}

// Default returns the built-in option tree. Boolean switches are off.
func Default() Options {
	return Options{
		Compile: CompileOptions{
			Syntax:        "css",
			StartPoint:    51666,
			FontName:      "chowa-iconfont",
			StyleFileName: "chowa-iconfont",
			Selector:      ".cw-icon-{{glyph}}",
		},
		Hash: HashOptions{
			Len: 8,
		},
		Format: FormatOptions{
			PrintWidth: 120,
			TabWidth:   4,
			Semi:       true,
			EndOfLine:  "lf",
		},
		Input: InputOptions{
			SvgsDir: "./svg-icons",
		},
		Output: OutputOptions{
			Font:    "./",
			Style:   "./",
			Preview: "./",
		},
	}
}

// Load reads a yaml config file on top of the defaults, so that only the keys
// present in the file override the built-in values.
func Load(fn string) (Options, error) {
	opts := Default()
	buf, err := os.ReadFile(fn)
	if err != nil {
		return opts, err
	}
	if err = yaml.Unmarshal(buf, &opts); err != nil {
		return opts, fmt.Errorf("%w: parsing %s: %v", ErrConfig, fn, err)
	}
	return opts, nil
}

// Resolve validates user options and returns a copy with every path made
// absolute against Cwd. Empty strings and non-positive format widths fall
// back to the defaults, a negative hash length selects the default length;
// templates that do not point to an existing file are cleared so
// that the built-in ones are used.
func Resolve(user Options) (*Options, error) {
	def := Default()
	o := user

	if o.Cwd == "" {
		return nil, fmt.Errorf("%w: execution directory is not specified", ErrConfig)
	}
	cwd, err := filepath.Abs(o.Cwd)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	if !isDir(cwd) {
		return nil, fmt.Errorf("%w: execution directory %s does not exist", ErrConfig, cwd)
	}
	o.Cwd = cwd

	mergeString(&o.Compile.Syntax, def.Compile.Syntax)
	mergeString(&o.Compile.FontName, def.Compile.FontName)
	mergeString(&o.Compile.StyleFileName, def.Compile.StyleFileName)
	mergeString(&o.Compile.Selector, def.Compile.Selector)
	if o.Hash.Len < 0 {
		o.Hash.Len = def.Hash.Len
	}
	mergeInt(&o.Format.PrintWidth, def.Format.PrintWidth)
	mergeInt(&o.Format.TabWidth, def.Format.TabWidth)
	mergeString(&o.Format.EndOfLine, def.Format.EndOfLine)
	mergeString(&o.Input.SvgsDir, def.Input.SvgsDir)
	mergeString(&o.Output.Font, def.Output.Font)
	mergeString(&o.Output.Style, def.Output.Style)
	mergeString(&o.Output.Preview, def.Output.Preview)

	switch o.Compile.Syntax {
	case "css", "scss", "less":
	default:
		return nil, fmt.Errorf("%w: unsupported style syntax %q", ErrConfig, o.Compile.Syntax)
	}
	switch o.Format.EndOfLine {
	case "lf", "crlf", "cr":
	default:
		return nil, fmt.Errorf("%w: unsupported endOfLine %q", ErrConfig, o.Format.EndOfLine)
	}
	if o.Compile.StartPoint < 0 || o.Compile.StartPoint > 0x10FFFF {
		return nil, fmt.Errorf("%w: startPoint %d is outside of the unicode range", ErrConfig, o.Compile.StartPoint)
	}

	o.Input.SvgsDir = NormalizePath(cwd, o.Input.SvgsDir)
	if !isDir(o.Input.SvgsDir) {
		return nil, fmt.Errorf("%w: svg file directory %s does not exist", ErrConfig, o.Input.SvgsDir)
	}
	o.Input.StyleTpl = templatePath(cwd, o.Input.StyleTpl)
	o.Input.PreviewTpl = templatePath(cwd, o.Input.PreviewTpl)

	o.Output.Font = NormalizePath(cwd, o.Output.Font)
	o.Output.Style = NormalizePath(cwd, o.Output.Style)
	o.Output.Preview = NormalizePath(cwd, o.Output.Preview)

	return &o, nil
}

// NormalizePath makes fn absolute against dir and cleans it.
func NormalizePath(dir string, fn string) string {
	if fn == "" {
		return fn
	}
	if !filepath.IsAbs(fn) {
		fn = filepath.Join(dir, fn)
	}
	return filepath.Clean(fn)
}

func templatePath(cwd, fn string) string {
	if fn == "" {
		return ""
	}
	fn = NormalizePath(cwd, fn)
	if fs.ValidateFileExists(fn) != nil || isDir(fn) {
		return ""
	}
	return fn
}

func mergeString(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

func mergeInt(dst *int, def int) {
	if *dst <= 0 {
		*dst = def
	}
}

func isDir(fn string) bool {
	stat, err := os.Stat(fn)
	return err == nil && stat.IsDir()
}
