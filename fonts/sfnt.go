package fonts

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
)

var errTruncated = errors.New("truncated font data")

// table is one sfnt table. Checksum is only meaningful for tables read from
// an existing font.
type table struct {
	Tag      string
	Data     []byte
	Checksum uint32
}

// buffer appends big-endian values.
type buffer []byte

func (b *buffer) u8(v uint8)   { *b = append(*b, v) }
func (b *buffer) u16(v uint16) { *b = binary.BigEndian.AppendUint16(*b, v) }
func (b *buffer) u32(v uint32) { *b = binary.BigEndian.AppendUint32(*b, v) }
func (b *buffer) i16(v int16)  { b.u16(uint16(v)) }
func (b *buffer) i64(v int64)  { *b = binary.BigEndian.AppendUint64(*b, uint64(v)) }
func (b *buffer) tag(s string) { *b = append(*b, s[:4]...) }
func (b *buffer) bytes(p []byte) {
	*b = append(*b, p...)
}

// pad4 appends zero bytes up to a 4-byte boundary.
func (b *buffer) pad4() {
	for len(*b)%4 != 0 {
		*b = append(*b, 0)
	}
}

func padded(n int) int {
	return (n + 3) &^ 3
}

func checksum(p []byte) uint32 {
	var sum uint32
	for i := 0; i < len(p); i += 4 {
		var w [4]byte
		copy(w[:], p[i:])
		sum += binary.BigEndian.Uint32(w[:])
	}
	return sum
}

// searchParams returns the binary search hints used by the sfnt header and
// the cmap format 4 subtable, for n entries of the given size.
func searchParams(n, size int) (searchRange, entrySelector, rangeShift uint16) {
	pow, log := 1, 0
	for pow*2 <= n {
		pow *= 2
		log++
	}
	return uint16(pow * size), uint16(log), uint16(n*size - pow*size)
}

// assemble writes an sfnt file with the tables sorted by tag and fixes up the
// head checkSumAdjustment.
func assemble(tables []table) []byte {
	sort.Slice(tables, func(i, j int) bool { return tables[i].Tag < tables[j].Tag })

	n := len(tables)
	out := buffer{}
	out.u32(0x00010000)
	out.u16(uint16(n))
	sr, es, rs := searchParams(n, 16)
	out.u16(sr)
	out.u16(es)
	out.u16(rs)

	offset := 12 + 16*n
	headOffset := -1
	for _, t := range tables {
		if t.Tag == "head" {
			headOffset = offset
			// the adjustment is computed with this field set to zero
			binary.BigEndian.PutUint32(t.Data[8:], 0)
		}
		out.tag(t.Tag)
		out.u32(checksum(t.Data))
		out.u32(uint32(offset))
		out.u32(uint32(len(t.Data)))
		offset += padded(len(t.Data))
	}
	for _, t := range tables {
		out.bytes(t.Data)
		out.pad4()
	}

	if headOffset >= 0 {
		adj := 0xB1B0AFBA - checksum(out)
		binary.BigEndian.PutUint32(out[headOffset+8:], adj)
	}
	return out
}

// parseSFNT reads the table directory of a TrueType font. Tables are
// returned in tag order.
func parseSFNT(buf []byte) ([]table, error) {
	if len(buf) < 12 {
		return nil, errTruncated
	}
	switch v := binary.BigEndian.Uint32(buf); v {
	case 0x00010000, 0x74727565: // 1.0, 'true'
	default:
		return nil, fmt.Errorf("unsupported sfnt version 0x%08x", v)
	}
	n := int(binary.BigEndian.Uint16(buf[4:]))
	if len(buf) < 12+16*n {
		return nil, errTruncated
	}
	tables := make([]table, 0, n)
	for i := 0; i < n; i++ {
		rec := buf[12+16*i:]
		off := int(binary.BigEndian.Uint32(rec[8:]))
		length := int(binary.BigEndian.Uint32(rec[12:]))
		if off < 0 || length < 0 || off+length > len(buf) {
			return nil, fmt.Errorf("table %q: %w", rec[:4], errTruncated)
		}
		tables = append(tables, table{
			Tag:      string(rec[:4]),
			Checksum: binary.BigEndian.Uint32(rec[4:]),
			Data:     buf[off : off+length],
		})
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].Tag < tables[j].Tag })
	return tables, nil
}

func findTable(tables []table, tag string) []byte {
	for _, t := range tables {
		if t.Tag == tag {
			return t.Data
		}
	}
	return nil
}

// sfntSize is the size of the font reassembled from tables.
func sfntSize(tables []table) int {
	n := 12 + 16*len(tables)
	for _, t := range tables {
		n += padded(len(t.Data))
	}
	return n
}
