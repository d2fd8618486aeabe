// Package succinct implements a self-indexing compressed text store: a
// compressed suffix-array index that answers substring count, locate,
// random-access extract and bounded regular-expression search directly on
// the compressed representation.
//
// A [File] is built once from a byte slice and is immutable afterwards. All
// query methods are pure reads and safe for concurrent use without
// synchronization.
package succinct

import (
	"errors"
	"fmt"
	"sort"

	"golang.org/x/exp/slices"

	"github.com/succinctdata/succinct/suffix"
)

// DefaultSampleRate is the default spacing of SA/ISA samples.
const DefaultSampleRate = 32

// ErrSampleRate indicates an invalid Config.SampleRate.
var ErrSampleRate = errors.New("succinct: sample rate must be a positive power of two")

// ErrTextTooLong indicates input beyond the addressable size.
var ErrTextTooLong = errors.New("succinct: input text too long")

// Config holds the build-time parameters of a File.
type Config struct {
	// SampleRate is the spacing at which suffix-array and inverse
	// suffix-array entries are materialized. Larger rates shrink the
	// index and slow down locate and extract proportionally. Must be a
	// power of two.
	SampleRate int
}

// ApplyDefaults sets the default sample rate unless one has been given.
func (cfg *Config) ApplyDefaults() {
	if cfg.SampleRate == 0 {
		cfg.SampleRate = DefaultSampleRate
	}
}

// Verify checks the configuration.
func (cfg *Config) Verify() error {
	s := cfg.SampleRate
	if s <= 0 || s&(s-1) != 0 {
		return ErrSampleRate
	}
	return nil
}

// File is the compressed suffix-array index over one input text. The text
// is stored only through its Burrows-Wheeler transform plus sampled
// suffix-array entries; every query runs on that representation.
//
// Internally the text is extended by a sentinel smaller than any byte: byte
// b is handled as symbol b+1 and the sentinel as symbol 0. The sentinel is
// never visible to callers.
type File struct {
	n          int     // input length, without the sentinel
	alphabet   []int32 // sorted distinct symbols, alphabet[0] == 0
	counts     []int64 // counts[j] = positions with symbol < alphabet[j]
	l          *waveletTree
	sampledSA  *intVector
	sampledISA *intVector
	sampleRate int
}

// New builds the index for data. The data slice is not retained.
func New(data []byte, cfg Config) (*File, error) {
	cfg.ApplyDefaults()
	if err := cfg.Verify(); err != nil {
		return nil, err
	}
	if len(data) > suffix.MaxText {
		return nil, ErrTextTooLong
	}

	n := len(data)
	m := n + 1
	sa := make([]int32, m)
	suffix.Sort(data, sa)
	isa := make([]int32, m)
	suffix.InvertSA(sa, isa)

	var freq [257]int64
	freq[0] = 1
	for _, c := range data {
		freq[int(c)+1]++
	}
	var alphabet []int32
	for sym, f := range freq {
		if f > 0 {
			alphabet = append(alphabet, int32(sym))
		}
	}
	counts := make([]int64, len(alphabet))
	var symIdx [257]uint16
	var total int64
	for j, sym := range alphabet {
		counts[j] = total
		total += freq[sym]
		symIdx[sym] = uint16(j)
	}

	// BWT column: the symbol preceding each sorted suffix.
	bwt := make([]uint16, m)
	for i, p := range sa {
		q := int(p) - 1
		if q < 0 {
			q = m - 1
		}
		if q == n {
			bwt[i] = symIdx[0]
		} else {
			bwt[i] = symIdx[int(data[q])+1]
		}
	}

	f := &File{
		n:          n,
		alphabet:   alphabet,
		counts:     counts,
		l:          newWaveletTree(bwt, len(alphabet)),
		sampleRate: cfg.SampleRate,
	}
	f.sample(sa, isa)
	return f, nil
}

// NewString builds the index for the bytes of s. It is a thin adapter over
// New; queries against the result operate on the same byte alphabet.
func NewString(s string, cfg Config) (*File, error) {
	return New([]byte(s), cfg)
}

func (f *File) sample(sa, isa []int32) {
	m := f.n + 1
	s := f.sampleRate
	num := (m + s - 1) / s
	width := valueWidth(uint64(m - 1))
	f.sampledSA = newIntVector(num, width)
	f.sampledISA = newIntVector(num, width)
	for j := 0; j < num; j++ {
		f.sampledSA.set(j, uint64(sa[j*s]))
		f.sampledISA.set(j, uint64(isa[j*s]))
	}
}

// Size returns the length of the indexed text in bytes.
func (f *File) Size() int64 { return int64(f.n) }

// SampleRate returns the SA/ISA sampling rate the index was built with.
func (f *File) SampleRate() int { return f.sampleRate }

// Alphabet returns the distinct byte values occurring in the text, sorted.
func (f *File) Alphabet() []byte {
	out := make([]byte, 0, len(f.alphabet)-1)
	for _, sym := range f.alphabet[1:] {
		out = append(out, byte(sym-1))
	}
	return out
}

// SameRecord reports whether two offsets belong to the same record. The
// plain file has no record notion, so this is always true; IndexedFile
// overrides it.
func (f *File) SameRecord(a, b int64) bool { return true }

// total is the internal text length including the sentinel.
func (f *File) total() int { return f.n + 1 }

// cEnd returns the end of the suffix-array bucket of alphabet index j.
func (f *File) cEnd(j int) int64 {
	if j+1 < len(f.counts) {
		return f.counts[j+1]
	}
	return int64(f.total())
}

// symIndex maps a query byte to its alphabet index.
func (f *File) symIndex(c byte) (int, bool) {
	return slices.BinarySearch(f.alphabet, int32(c)+1)
}

// symbolAt returns the alphabet index of the first symbol of the suffix
// with rank i, located by binary search over the cumulative counts.
func (f *File) symbolAt(i int) int {
	return sort.Search(len(f.counts), func(j int) bool {
		return f.counts[j] > int64(i)
	}) - 1
}

// byteAt converts the alphabet index at suffix rank i to the text byte it
// stands for. The second result is false for the sentinel.
func (f *File) byteAt(i int) (byte, bool) {
	c := f.symbolAt(i)
	if c == 0 {
		return 0, false
	}
	return byte(f.alphabet[c] - 1), true
}

// lookupLF maps suffix rank i to the rank of the suffix one text position
// earlier. LF and psi are free functions over the shared structure; neither
// owns the other.
func lookupLF(f *File, i int) int {
	c := f.l.access(i)
	return int(f.counts[c]) + f.l.rank(c, i)
}

// lookupPsi is the inverse of lookupLF: it maps suffix rank i to the rank
// of the suffix one text position later.
func lookupPsi(f *File, i int) int {
	c := f.symbolAt(i)
	return f.l.sel(c, i-int(f.counts[c]))
}

// lookupSA recovers SA[i] by walking LF until a sampled rank is reached;
// every hop moves the suffix start one position back in the text.
func lookupSA(f *File, i int) int {
	hops := 0
	for i%f.sampleRate != 0 {
		i = lookupLF(f, i)
		hops++
	}
	v := int(f.sampledSA.get(i/f.sampleRate)) + hops
	if m := f.total(); v >= m {
		v -= m
	}
	return v
}

// lookupISA recovers ISA[p] from the nearest preceding text sample by at
// most sampleRate-1 psi steps.
func lookupISA(f *File, p int) int {
	base := p / f.sampleRate
	i := int(f.sampledISA.get(base))
	for k := base * f.sampleRate; k < p; k++ {
		i = lookupPsi(f, i)
	}
	return i
}

func (f *File) checkOffset(offset int64, max int64) error {
	if offset < 0 || offset > max {
		return fmt.Errorf("succinct: offset %d out of range [0, %d]", offset, max)
	}
	return nil
}
