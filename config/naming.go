package config

import "path/filepath"

// HashedName builds "{base}{_hash}.{ext}". The hash suffix is only present
// when bind is set; it is truncated to n characters (n <= 0 keeps the whole
// hash). An empty ext yields the name without a dot.
func HashedName(base, ext string, bind bool, hash string, n int) string {
	name := base
	if bind && hash != "" {
		if n > 0 && n < len(hash) {
			hash = hash[:n]
		}
		name += "_" + hash
	}
	if ext != "" {
		name += "." + ext
	}
	return name
}

// FontBase is the absolute path of the font files without extension.
func (o *Options) FontBase(hash string) string {
	return filepath.Join(o.Output.Font, HashedName(o.Compile.FontName, "", o.Hash.Font, hash, o.Hash.Len))
}

// FontFile is the absolute path of the font file with the given extension.
func (o *Options) FontFile(ext, hash string) string {
	return filepath.Join(o.Output.Font, HashedName(o.Compile.FontName, ext, o.Hash.Font, hash, o.Hash.Len))
}

// StyleFile is the absolute path of the generated stylesheet.
func (o *Options) StyleFile(hash string) string {
	return filepath.Join(o.Output.Style, HashedName(o.Compile.StyleFileName, o.Compile.Syntax, o.Hash.Style, hash, o.Hash.Len))
}

// EOL returns the line terminator selected by Format.EndOfLine.
func (f FormatOptions) EOL() string {
	switch f.EndOfLine {
	case "crlf":
		return "\r\n"
	case "cr":
		return "\r"
	default:
		return "\n"
	}
}

// Indent returns one level of indentation.
func (f FormatOptions) Indent() string {
	if f.UseTabs {
		return "\t"
	}
	n := f.TabWidth
	if n <= 0 {
		n = 4
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

// PreviewFileName is the fixed name of the generated preview page.
const PreviewFileName = "iconfont-preview.html"

// PreviewFile is the absolute path of the preview page.
func (o *Options) PreviewFile() string {
	return filepath.Join(o.Output.Preview, PreviewFileName)
}
