package fonts

import (
	"bytes"

	"github.com/andybalholm/brotli"
)

const woff2Signature = 0x774F4632 // 'wOF2'

// woff2Tags are the tags with a predefined index in the WOFF2 table
// directory.
var woff2Tags = []string{
	"cmap", "head", "hhea", "hmtx", "maxp", "name", "OS/2", "post",
	"cvt ", "fpgm", "glyf", "loca", "prep", "CFF ", "VORG", "EBDT",
	"EBLC", "gasp", "hdmx", "kern", "LTSH", "PCLT", "VDMX", "vhea",
	"vmtx", "BASE", "GDEF", "GPOS", "GSUB", "EBSC", "JSTF", "MATH",
	"CBDT", "CBLC", "COLR", "CPAL", "SVG ", "sbix", "acnt", "avar",
	"bdat", "bloc", "bsln", "cvar", "fdsc", "feat", "fmtx", "fvar",
	"gvar", "hsty", "just", "lcar", "mort", "morx", "opbd", "prop",
	"trak", "Zapf", "Silf", "Glat", "Gloc", "Feat", "Sill",
}

func woff2TagIndex(tag string) int {
	for i, t := range woff2Tags {
		if t == tag {
			return i
		}
	}
	return 63
}

// base128 appends v in the UIntBase128 encoding.
func (b *buffer) base128(v uint32) {
	var tmp [5]byte
	n := 0
	for {
		tmp[4-n] = byte(v & 0x7F)
		v >>= 7
		n++
		if v == 0 {
			break
		}
	}
	for i := 5 - n; i < 4; i++ {
		tmp[i] |= 0x80
	}
	b.bytes(tmp[5-n:])
}

// TTFToWOFF2 converts a TrueType font into WOFF 2.0. Tables are stored with
// the null transform and compressed together in a single brotli stream.
func TTFToWOFF2(ttf []byte) ([]byte, error) {
	tables, err := parseSFNT(ttf)
	if err != nil {
		return nil, err
	}

	// loca goes right after glyf
	ordered := make([]table, 0, len(tables))
	for _, t := range tables {
		if t.Tag == "loca" {
			continue
		}
		ordered = append(ordered, t)
		if t.Tag == "glyf" {
			if loca := findTable(tables, "loca"); loca != nil {
				ordered = append(ordered, table{Tag: "loca", Data: loca})
			}
		}
	}

	dir := buffer{}
	stream := buffer{}
	for _, t := range ordered {
		idx := woff2TagIndex(t.Tag)
		flags := byte(idx)
		if t.Tag == "glyf" || t.Tag == "loca" {
			flags |= 3 << 6 // null transform for glyf and loca
		}
		dir.u8(flags)
		if idx == 63 {
			dir.tag(t.Tag)
		}
		dir.base128(uint32(len(t.Data)))
		stream.bytes(t.Data)
	}

	comp := bytes.Buffer{}
	w := brotli.NewWriterLevel(&comp, brotli.BestCompression)
	if _, err := w.Write(stream); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	total := 48 + len(dir) + comp.Len()
	total = padded(total)

	out := buffer{}
	out.u32(woff2Signature)
	out.u32(0x00010000)
	out.u32(uint32(total))
	out.u16(uint16(len(tables)))
	out.u16(0) // reserved
	out.u32(uint32(sfntSize(tables)))
	out.u32(uint32(comp.Len()))
	out.u16(1) // majorVersion
	out.u16(0)
	for i := 0; i < 5; i++ {
		out.u32(0) // no metadata or private block
	}
	out.bytes(dir)
	out.bytes(comp.Bytes())
	out.pad4()
	return out, nil
}
