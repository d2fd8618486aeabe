package succinct

import (
	"fmt"
	"sort"
)

// Range is a half-open interval [Begin, End) of suffix-array positions. All
// suffixes in the interval share the prefix that produced it.
type Range struct {
	Begin, End int64
}

// Empty reports whether the range contains no positions.
func (r Range) Empty() bool { return r.End <= r.Begin }

// Count returns the number of positions in the range.
func (r Range) Count() int64 {
	if r.Empty() {
		return 0
	}
	return r.End - r.Begin
}

// BwdSearch returns the suffix-array range of all suffixes prefixed by q.
// The empty query matches at every text position.
func (f *File) BwdSearch(q []byte) Range {
	if len(q) == 0 {
		// Rank 0 is the sentinel suffix; everything after it is a
		// real text position.
		return Range{1, int64(f.total())}
	}
	j, ok := f.symIndex(q[len(q)-1])
	if !ok {
		return Range{}
	}
	rng := Range{f.counts[j], f.cEnd(j)}
	return f.refine(q[:len(q)-1], rng)
}

// ContinueBwdSearch extends a previously obtained range by the whole of q,
// prepended to the pattern the range stands for.
func (f *File) ContinueBwdSearch(q []byte, rng Range) Range {
	if rng.Empty() {
		return Range{}
	}
	return f.refine(q, rng)
}

// refine runs the backward-search inner loop, consuming q right to left.
func (f *File) refine(q []byte, rng Range) Range {
	for k := len(q) - 1; k >= 0; k-- {
		j, ok := f.symIndex(q[k])
		if !ok {
			return Range{}
		}
		rng.Begin = f.counts[j] + int64(f.l.rank(j, int(rng.Begin)))
		rng.End = f.counts[j] + int64(f.l.rank(j, int(rng.End)))
		if rng.Empty() {
			return Range{}
		}
	}
	return rng
}

// FwdSearch returns the same range as BwdSearch but walks the pattern left
// to right, locating the bounds by comparison against suffixes.
func (f *File) FwdSearch(q []byte) Range {
	if len(q) == 0 {
		return Range{1, int64(f.total())}
	}
	return f.ContinueFwdSearch(q, Range{0, int64(f.total())}, 0)
}

// ContinueFwdSearch narrows rng to the suffixes matching q beyond the first
// offset bytes, which the caller has already matched. The refinement is a
// binary search inside rng; suffixes there agree on their first offset
// symbols, so the remaining symbols are ordered.
func (f *File) ContinueFwdSearch(q []byte, rng Range, offset int) Range {
	if rng.Empty() || offset >= len(q) {
		return rng
	}
	begin, width := int(rng.Begin), int(rng.End-rng.Begin)
	lo := begin + sort.Search(width, func(j int) bool {
		return compareRank(f, q, begin+j, offset) <= 0
	})
	hi := begin + sort.Search(width, func(j int) bool {
		return compareRank(f, q, begin+j, offset) < 0
	})
	return Range{int64(lo), int64(hi)}
}

// RangeSearch returns the suffix-array range spanning every suffix that is
// >= lo and does not sort past the suffixes prefixed by hi. Absent
// endpoints still yield the spanning range.
func (f *File) RangeSearch(lo, hi []byte) Range {
	m := f.total()
	a := sort.Search(m, func(r int) bool {
		return compareRank(f, lo, r, 0) <= 0
	})
	b := sort.Search(m, func(r int) bool {
		return compareRank(f, hi, r, 0) < 0
	})
	return Range{int64(a), int64(b)}
}

// compareRank compares q[offset:] against the suffix of rank r with its
// first offset symbols skipped. The result is negative when q sorts before
// the suffix, zero when q is a prefix of it.
func compareRank(f *File, q []byte, r, offset int) int {
	pos := r
	for k := 0; k < offset; k++ {
		if f.symbolAt(pos) == 0 {
			// Suffix shorter than the skipped prefix.
			return 1
		}
		pos = lookupPsi(f, pos)
	}
	for _, c := range q[offset:] {
		b, ok := f.byteAt(pos)
		if !ok {
			return 1
		}
		if c != b {
			if c < b {
				return -1
			}
			return 1
		}
		pos = lookupPsi(f, pos)
	}
	return 0
}

// Count returns the number of occurrences of q in the text.
func (f *File) Count(q []byte) int64 {
	return f.BwdSearch(q).Count()
}

// CountString is a byte-encoding adapter for Count.
func (f *File) CountString(q string) int64 { return f.Count([]byte(q)) }

// Search returns the offsets of all occurrences of q, in no particular
// order.
func (f *File) Search(q []byte) []int64 {
	rng := f.BwdSearch(q)
	out := make([]int64, 0, rng.Count())
	for r := rng.Begin; r < rng.End; r++ {
		out = append(out, int64(lookupSA(f, int(r))))
	}
	return out
}

// SearchString is a byte-encoding adapter for Search.
func (f *File) SearchString(q string) []int64 { return f.Search([]byte(q)) }

// SearchIterator returns a lazy, single-pass iterator over the occurrence
// offsets of q. Restart by calling SearchIterator again.
func (f *File) SearchIterator(q []byte) *SearchIterator {
	rng := f.BwdSearch(q)
	return &SearchIterator{f: f, next: rng.Begin, end: rng.End}
}

// SearchIterator yields occurrence offsets one at a time.
type SearchIterator struct {
	f         *File
	next, end int64
}

// Next returns the next occurrence offset. The second result is false once
// the iterator is exhausted.
func (it *SearchIterator) Next() (int64, bool) {
	if it.next >= it.end {
		return 0, false
	}
	off := int64(lookupSA(it.f, int(it.next)))
	it.next++
	return off, true
}

// Compare compares buf lexicographically with the text starting at offset
// i, returning -1, 0 or +1. Text shorter than buf sorts first.
func (f *File) Compare(buf []byte, i int64) (int, error) {
	return f.CompareFrom(buf, i, 0)
}

// CompareFrom compares buf[offset:] with the text starting at i+offset.
func (f *File) CompareFrom(buf []byte, i int64, offset int) (int, error) {
	if offset < 0 || offset > len(buf) {
		return 0, fmt.Errorf("succinct: compare offset %d out of range [0, %d]", offset, len(buf))
	}
	if err := f.checkOffset(i, int64(f.n)); err != nil {
		return 0, err
	}
	rest := buf[offset:]
	p := int(i) + offset
	if p >= f.total() {
		if len(rest) == 0 {
			return 0, nil
		}
		return 1, nil
	}
	pos := lookupISA(f, p)
	for _, c := range rest {
		b, ok := f.byteAt(pos)
		if !ok {
			return 1, nil
		}
		if c != b {
			if c < b {
				return -1, nil
			}
			return 1, nil
		}
		pos = lookupPsi(f, pos)
	}
	return 0, nil
}
