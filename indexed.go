package succinct

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/exp/slices"
)

// ErrRecordOffsets indicates an invalid record-start array.
var ErrRecordOffsets = errors.New("succinct: record offsets must start at 0 and be strictly increasing within the text")

// IndexedFile is a File whose text is a concatenation of records. The only
// addition over the core is a sorted array of record-start offsets; queries
// can be answered per record and SameRecord becomes meaningful.
type IndexedFile struct {
	*File
	recordOffsets []int64
}

// NewIndexed builds an indexed file from data and the offsets at which its
// records start. offsets must begin at 0 and be strictly increasing.
func NewIndexed(data []byte, offsets []int64, cfg Config) (*IndexedFile, error) {
	if err := checkRecordOffsets(offsets, int64(len(data))); err != nil {
		return nil, err
	}
	f, err := New(data, cfg)
	if err != nil {
		return nil, err
	}
	return &IndexedFile{File: f, recordOffsets: slices.Clone(offsets)}, nil
}

func checkRecordOffsets(offsets []int64, n int64) error {
	for i, o := range offsets {
		switch {
		case i == 0 && o != 0:
			return ErrRecordOffsets
		case o < 0 || o >= n:
			return ErrRecordOffsets
		case i > 0 && o <= offsets[i-1]:
			return ErrRecordOffsets
		}
	}
	return nil
}

// RecordCount returns the number of records.
func (x *IndexedFile) RecordCount() int { return len(x.recordOffsets) }

// RecordOf returns the id of the record containing offset.
func (x *IndexedFile) RecordOf(offset int64) (int, error) {
	if err := x.checkOffset(offset, x.Size()-1); err != nil {
		return 0, err
	}
	j, found := slices.BinarySearch(x.recordOffsets, offset)
	if !found {
		j--
	}
	return j, nil
}

// RecordOffset returns the text offset at which record id starts.
func (x *IndexedFile) RecordOffset(id int) (int64, error) {
	if id < 0 || id >= len(x.recordOffsets) {
		return 0, fmt.Errorf("succinct: record %d out of range [0, %d)", id, len(x.recordOffsets))
	}
	return x.recordOffsets[id], nil
}

// ExtractRecord returns the raw bytes of record id.
func (x *IndexedFile) ExtractRecord(id int) ([]byte, error) {
	start, err := x.RecordOffset(id)
	if err != nil {
		return nil, err
	}
	end := x.Size()
	if id+1 < len(x.recordOffsets) {
		end = x.recordOffsets[id+1]
	}
	return x.Extract(start, end-start)
}

// SearchRecords returns the ids of all records containing q, sorted and
// deduplicated.
func (x *IndexedFile) SearchRecords(q []byte) []int {
	seen := make(map[int]struct{})
	it := x.SearchIterator(q)
	for {
		off, ok := it.Next()
		if !ok {
			break
		}
		id, err := x.RecordOf(off)
		if err != nil {
			continue
		}
		seen[id] = struct{}{}
	}
	out := make([]int, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// SameRecord reports whether both offsets fall into the same record.
func (x *IndexedFile) SameRecord(a, b int64) bool {
	ra, err := x.RecordOf(a)
	if err != nil {
		return false
	}
	rb, err := x.RecordOf(b)
	if err != nil {
		return false
	}
	return ra == rb
}

// WriteTo serializes the indexed file: the core layout followed by the
// record count (4B) and the record offsets (8B each).
func (x *IndexedFile) WriteTo(w io.Writer) (int64, error) {
	n, err := x.File.WriteTo(w)
	if err != nil {
		return n, err
	}
	sw := &sectionWriter{w: w, n: n}
	sw.write(int32(len(x.recordOffsets)))
	sw.write(x.recordOffsets)
	return sw.n, sw.err
}

// ReadIndexed deserializes an indexed file written with WriteTo.
func ReadIndexed(r io.Reader) (*IndexedFile, error) {
	f, err := Read(r)
	if err != nil {
		return nil, err
	}
	sr := &sectionReader{r: r}
	var count int32
	sr.read(&count)
	if sr.err != nil {
		return nil, sr.err
	}
	if count < 0 {
		return nil, ErrCorrupt
	}
	offsets := make([]int64, count)
	sr.read(offsets)
	if sr.err != nil {
		return nil, sr.err
	}
	if err := checkRecordOffsets(offsets, f.Size()); err != nil {
		return nil, ErrCorrupt
	}
	return &IndexedFile{File: f, recordOffsets: offsets}, nil
}
