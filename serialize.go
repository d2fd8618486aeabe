package succinct

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrCorrupt indicates a serialized index that cannot be read back.
var ErrCorrupt = errors.New("succinct: corrupt index data")

// The serialized layout is a fixed big-endian concatenation:
//
//	n (8B), sigma (4B), alphabet (sigma x 4B), counts (sigma x 8B),
//	wavelet tree (internal nodes in preorder: bit length 8B, raw words,
//	rank directories), sample rate (4B), sampledSA words, sampledISA words.
//
// Word counts, directory lengths and sample widths are derived from n,
// sigma and the sample rate, so reading is the strict inverse of writing
// and a round trip reproduces the bytes exactly.

type sectionWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (sw *sectionWriter) write(v any) {
	if sw.err != nil {
		return
	}
	sw.err = binary.Write(sw.w, binary.BigEndian, v)
	if sw.err == nil {
		sw.n += int64(binary.Size(v))
	}
}

type sectionReader struct {
	r   io.Reader
	err error
}

func (sr *sectionReader) read(v any) {
	if sr.err != nil {
		return
	}
	sr.err = binary.Read(sr.r, binary.BigEndian, v)
}

// WriteTo serializes the index. It implements io.WriterTo.
func (f *File) WriteTo(w io.Writer) (int64, error) {
	sw := &sectionWriter{w: w}
	sw.write(int64(f.n))
	sw.write(int32(len(f.alphabet)))
	sw.write(f.alphabet)
	sw.write(f.counts)
	f.l.walk(func(nd *waveletNode) {
		sw.write(int64(nd.bv.m))
		sw.write(nd.bv.words)
		sw.write(nd.bv.super)
		sw.write(nd.bv.blocks)
	})
	sw.write(int32(f.sampleRate))
	sw.write(f.sampledSA.words)
	sw.write(f.sampledISA.words)
	return sw.n, sw.err
}

// CompressedSize returns the size of the serialized index in bytes.
func (f *File) CompressedSize() int64 {
	size := int64(8 + 4 + len(f.alphabet)*4 + len(f.counts)*8)
	f.l.walk(func(nd *waveletNode) {
		size += 8 + int64(len(nd.bv.words))*8 +
			int64(len(nd.bv.super))*8 + int64(len(nd.bv.blocks))*2
	})
	size += 4
	size += int64(len(f.sampledSA.words))*8 + int64(len(f.sampledISA.words))*8
	return size
}

// Read deserializes an index previously written with WriteTo. The returned
// File is fully constructed and immutable, like a freshly built one.
func Read(r io.Reader) (*File, error) {
	sr := &sectionReader{r: r}

	var n int64
	var sigma int32
	sr.read(&n)
	sr.read(&sigma)
	if sr.err != nil {
		return nil, sr.err
	}
	if n < 0 || sigma < 1 || sigma > 257 {
		return nil, ErrCorrupt
	}
	m := int(n) + 1

	alphabet := make([]int32, sigma)
	counts := make([]int64, sigma)
	sr.read(alphabet)
	sr.read(counts)

	wt, err := readWaveletTree(sr, m, int(sigma))
	if err != nil {
		return nil, err
	}

	var rate int32
	sr.read(&rate)
	if sr.err != nil {
		return nil, sr.err
	}
	if rate <= 0 || rate&(rate-1) != 0 {
		return nil, ErrCorrupt
	}

	num := (m + int(rate) - 1) / int(rate)
	width := valueWidth(uint64(m - 1))
	ssa := newIntVector(num, width)
	sisa := newIntVector(num, width)
	sr.read(ssa.words)
	sr.read(sisa.words)
	if sr.err != nil {
		return nil, sr.err
	}

	return &File{
		n:          int(n),
		alphabet:   alphabet,
		counts:     counts,
		l:          wt,
		sampledSA:  ssa,
		sampledISA: sisa,
		sampleRate: int(rate),
	}, nil
}

func readWaveletTree(sr *sectionReader, m, sigma int) (*waveletTree, error) {
	root, err := readWaveletNode(sr, 0, sigma, m)
	if err != nil {
		return nil, err
	}
	if root.bv != nil && root.bv.m != m {
		return nil, ErrCorrupt
	}
	return &waveletTree{root: root, len: m, sigma: sigma}, nil
}

func readWaveletNode(sr *sectionReader, lo, hi, max int) (*waveletNode, error) {
	nd := &waveletNode{lo: lo, hi: hi}
	if hi-lo == 1 {
		return nd, nil
	}
	var bl int64
	sr.read(&bl)
	if sr.err != nil {
		return nil, sr.err
	}
	if bl < 0 || bl > int64(max) {
		return nil, fmt.Errorf("%w: node bit length %d", ErrCorrupt, bl)
	}
	bv := newBitVector(int(bl))
	bv.super = make([]uint64, int(bl)/superBits+1)
	bv.blocks = make([]uint16, int(bl)/blockBits+1)
	sr.read(bv.words)
	sr.read(bv.super)
	sr.read(bv.blocks)
	if sr.err != nil {
		return nil, sr.err
	}
	bv.ones = bv.rank1(bv.m)
	nd.bv = bv

	mid := (lo + hi) / 2
	var err error
	if nd.left, err = readWaveletNode(sr, lo, mid, int(bl)); err != nil {
		return nil, err
	}
	if nd.right, err = readWaveletNode(sr, mid, hi, int(bl)); err != nil {
		return nil, err
	}
	return nd, nil
}
