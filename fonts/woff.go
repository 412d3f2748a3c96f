package fonts

import (
	"bytes"
	"compress/zlib"
)

const woffSignature = 0x774F4646 // 'wOFF'

// TTFToWOFF converts a TrueType font into WOFF 1.0. Each table is zlib
// compressed and stored raw when compression does not make it smaller.
func TTFToWOFF(ttf []byte) ([]byte, error) {
	tables, err := parseSFNT(ttf)
	if err != nil {
		return nil, err
	}

	type entry struct {
		table
		comp []byte
	}
	entries := make([]entry, len(tables))
	for i, t := range tables {
		comp, err := deflate(t.Data)
		if err != nil {
			return nil, err
		}
		if len(comp) >= len(t.Data) {
			comp = t.Data
		}
		entries[i] = entry{table: t, comp: comp}
	}

	n := len(entries)
	offset := 44 + 20*n
	dir := buffer{}
	data := buffer{}
	for _, e := range entries {
		dir.tag(e.Tag)
		dir.u32(uint32(offset + len(data)))
		dir.u32(uint32(len(e.comp)))
		dir.u32(uint32(len(e.Data)))
		dir.u32(e.Checksum)
		data.bytes(e.comp)
		data.pad4()
	}

	out := buffer{}
	out.u32(woffSignature)
	out.u32(0x00010000)
	out.u32(uint32(offset + len(data)))
	out.u16(uint16(n))
	out.u16(0) // reserved
	out.u32(uint32(sfntSize(tables)))
	out.u16(1) // majorVersion
	out.u16(0)
	for i := 0; i < 5; i++ {
		out.u32(0) // no metadata or private block
	}
	out.bytes(dir)
	out.bytes(data)
	return out, nil
}

func deflate(p []byte) ([]byte, error) {
	buf := bytes.Buffer{}
	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err = w.Write(p); err != nil {
		return nil, err
	}
	if err = w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
