package fonts

import (
	"encoding/binary"
	"errors"
	"unicode/utf16"
)

const (
	eotVersion = 0x00020001
	eotMagic   = 0x504C
)

// TTFToEOT wraps a TrueType font into an Embedded OpenType container. The
// font data is stored uncompressed.
func TTFToEOT(ttf []byte) ([]byte, error) {
	tables, err := parseSFNT(ttf)
	if err != nil {
		return nil, err
	}
	os2 := findTable(tables, "OS/2")
	head := findTable(tables, "head")
	name := findTable(tables, "name")
	if len(os2) < 86 || len(head) < 12 || name == nil {
		return nil, errors.New("eot: font lacks OS/2, head or name table")
	}

	le := binary.LittleEndian
	b := []byte{}
	u16 := func(v uint16) { b = le.AppendUint16(b, v) }
	u32 := func(v uint32) { b = le.AppendUint32(b, v) }
	be16 := func(p []byte) uint16 { return binary.BigEndian.Uint16(p) }
	be32 := func(p []byte) uint32 { return binary.BigEndian.Uint32(p) }

	u32(0) // EOTSize, patched below
	u32(uint32(len(ttf)))
	u32(eotVersion)
	u32(0) // flags
	b = append(b, os2[32:42]...)
	b = append(b, 1)                  // DEFAULT_CHARSET
	b = append(b, byte(os2[63]&0x01)) // italic
	u32(uint32(be16(os2[4:])))        // weight
	u16(be16(os2[8:]))                // fsType
	u16(eotMagic)
	for i := 0; i < 4; i++ {
		u32(be32(os2[42+4*i:]))
	}
	u32(be32(os2[78:]))
	u32(be32(os2[82:]))
	u32(be32(head[8:])) // checkSumAdjustment
	for i := 0; i < 4; i++ {
		u32(0)
	}
	u16(0) // padding1

	for _, id := range []uint16{1, 2, 5, 4} { // family, style, version, full name
		s := utf16LE(windowsName(name, id))
		u16(uint16(len(s)))
		b = append(b, s...)
		u16(0) // padding
	}
	u16(0) // root string size

	b = append(b, ttf...)
	le.PutUint32(b, uint32(len(b)))
	return b, nil
}

// windowsName returns the Windows unicode entry for a name id, decoded from
// UTF-16BE.
func windowsName(name []byte, id uint16) string {
	if len(name) < 6 {
		return ""
	}
	be := binary.BigEndian
	count := int(be.Uint16(name[2:]))
	storage := int(be.Uint16(name[4:]))
	for i := 0; i < count; i++ {
		rec := name[6+12*i:]
		if len(rec) < 12 {
			return ""
		}
		if be.Uint16(rec) != 3 || be.Uint16(rec[2:]) != 1 || be.Uint16(rec[6:]) != id {
			continue
		}
		length, off := int(be.Uint16(rec[8:])), int(be.Uint16(rec[10:]))
		start := storage + off
		if start+length > len(name) {
			return ""
		}
		raw := name[start : start+length]
		units := make([]uint16, len(raw)/2)
		for j := range units {
			units[j] = be.Uint16(raw[2*j:])
		}
		return string(utf16.Decode(units))
	}
	return ""
}

func utf16LE(s string) []byte {
	var b []byte
	for _, u := range utf16.Encode([]rune(s)) {
		b = binary.LittleEndian.AppendUint16(b, u)
	}
	return b
}
