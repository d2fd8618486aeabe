package succinct

import (
	"encoding/binary"
	"fmt"
)

// Extract returns the text bytes in [offset, min(offset+length, Size())).
// The walk starts at the nearest preceding ISA sample and follows psi
// forward, one step per emitted byte.
func (f *File) Extract(offset, length int64) ([]byte, error) {
	if err := f.checkOffset(offset, int64(f.n)); err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, fmt.Errorf("succinct: negative extract length %d", length)
	}
	m := int64(f.n) - offset
	if length < m {
		m = length
	}
	out := make([]byte, m)
	pos := lookupISA(f, int(offset))
	for k := range out {
		b, _ := f.byteAt(pos)
		out[k] = b
		pos = lookupPsi(f, pos)
	}
	return out, nil
}

// ExtractUntil returns the text bytes from offset up to, and not including,
// the first occurrence of delim, or to the end of the text if delim does
// not occur.
func (f *File) ExtractUntil(offset int64, delim byte) ([]byte, error) {
	if err := f.checkOffset(offset, int64(f.n)); err != nil {
		return nil, err
	}
	pos := lookupISA(f, int(offset))
	var out []byte
	for {
		b, ok := f.byteAt(pos)
		if !ok || b == delim {
			return out, nil
		}
		out = append(out, b)
		pos = lookupPsi(f, pos)
	}
}

// CharAt returns the text byte at index i.
func (f *File) CharAt(i int64) (byte, error) {
	if err := f.checkOffset(i, int64(f.n)-1); err != nil {
		return 0, err
	}
	b, _ := f.byteAt(lookupISA(f, int(i)))
	return b, nil
}

func (f *File) extractExact(offset int64, width int64) ([]byte, error) {
	b, err := f.Extract(offset, width)
	if err != nil {
		return nil, err
	}
	if int64(len(b)) < width {
		return nil, fmt.Errorf("succinct: cannot extract %d bytes at offset %d", width, offset)
	}
	return b, nil
}

// ExtractShort reads a big-endian 16-bit integer at offset.
func (f *File) ExtractShort(offset int64) (int16, error) {
	b, err := f.extractExact(offset, 2)
	if err != nil {
		return 0, err
	}
	return int16(binary.BigEndian.Uint16(b)), nil
}

// ExtractInt reads a big-endian 32-bit integer at offset.
func (f *File) ExtractInt(offset int64) (int32, error) {
	b, err := f.extractExact(offset, 4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

// ExtractLong reads a big-endian 64-bit integer at offset.
func (f *File) ExtractLong(offset int64) (int64, error) {
	b, err := f.extractExact(offset, 8)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}
