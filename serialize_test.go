package succinct

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"golang.org/x/exp/slices"
)

func TestRoundTrip(t *testing.T) {
	texts := [][]byte{
		[]byte("a"),
		[]byte("mississippi"),
		randomText(3000, "abcdefgh", 71),
	}
	for _, text := range texts {
		f := mustBuild(t, text, 8)

		var buf bytes.Buffer
		n, err := f.WriteTo(&buf)
		if err != nil {
			t.Fatalf("WriteTo returned %v", err)
		}
		if n != int64(buf.Len()) {
			t.Fatalf("WriteTo reported %d bytes; wrote %d", n, buf.Len())
		}
		if n != f.CompressedSize() {
			t.Fatalf("CompressedSize is %d; serialized %d", f.CompressedSize(), n)
		}

		g, err := Read(bytes.NewReader(buf.Bytes()))
		if err != nil {
			t.Fatalf("Read returned %v", err)
		}

		// Byte-exact round trip.
		var buf2 bytes.Buffer
		if _, err := g.WriteTo(&buf2); err != nil {
			t.Fatalf("WriteTo of deserialized index returned %v", err)
		}
		if !bytes.Equal(buf.Bytes(), buf2.Bytes()) {
			t.Fatalf("round trip is not byte-exact")
		}

		// Identical answers.
		queries := [][]byte{nil, []byte("a"), []byte("ss"),
			text[:min(3, len(text))], text[min(1, len(text)):min(6, len(text))]}
		for _, q := range queries {
			if f.Count(q) != g.Count(q) {
				t.Fatalf("Count(%q) differs after round trip", q)
			}
			a, b := sortedSearch(f, q), sortedSearch(g, q)
			if d := cmp.Diff(a, b, cmpopts.EquateEmpty()); d != "" {
				t.Fatalf("Search(%q) differs after round trip:\n%s", q, d)
			}
		}
		for o := int64(0); o < f.Size(); o += 7 {
			x, _ := f.Extract(o, 5)
			y, _ := g.Extract(o, 5)
			if !bytes.Equal(x, y) {
				t.Fatalf("Extract(%d, 5) differs after round trip", o)
			}
		}
	}
}

func TestRoundTripScenarios(t *testing.T) {
	// The seed scenarios must hold on a deserialized index too.
	tests := []struct {
		text  string
		query string
		count int64
	}{
		{"mississippi", "issi", 2},
		{"abracadabra", "a", 5},
		{"banana", "an", 2},
		{"aaaaaa", "aa", 5},
		{"The quick brown fox", "quick", 1},
	}
	for _, tc := range tests {
		f := mustBuild(t, []byte(tc.text), 4)
		var buf bytes.Buffer
		if _, err := f.WriteTo(&buf); err != nil {
			t.Fatalf("WriteTo returned %v", err)
		}
		g, err := Read(&buf)
		if err != nil {
			t.Fatalf("Read returned %v", err)
		}
		if n := g.Count([]byte(tc.query)); n != tc.count {
			t.Errorf("deserialized Count(%q, %q) returned %d; want %d",
				tc.text, tc.query, n, tc.count)
		}
		if d := cmp.Diff(sortedSearch(f, []byte(tc.query)),
			sortedSearch(g, []byte(tc.query))); d != "" {
			t.Errorf("deserialized Search(%q, %q) mismatch:\n%s",
				tc.text, tc.query, d)
		}
		x, _ := f.Extract(1, 4)
		y, err := g.Extract(1, 4)
		if err != nil || !bytes.Equal(x, y) {
			t.Errorf("deserialized Extract(%q) returned %q, %v; want %q",
				tc.text, y, err, x)
		}
	}
}

func TestReadErrors(t *testing.T) {
	f := mustBuild(t, []byte("banana"), 4)
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo returned %v", err)
	}

	// Truncation at any point must fail, not panic.
	data := buf.Bytes()
	for _, cut := range []int{0, 4, 11, len(data) / 2, len(data) - 1} {
		if _, err := Read(bytes.NewReader(data[:cut])); err == nil {
			t.Fatalf("Read of %d-byte prefix did not fail", cut)
		}
	}

	// A mangled header must be rejected.
	bad := slices.Clone(data)
	bad[8], bad[9], bad[10], bad[11] = 0xff, 0xff, 0xff, 0xff
	if _, err := Read(bytes.NewReader(bad)); err == nil {
		t.Fatalf("Read of mangled header did not fail")
	}
}

func TestSampleRateInvariance(t *testing.T) {
	text := randomText(800, "abcde", 81)
	f1 := mustBuild(t, text, 4)
	f2 := mustBuild(t, text, 64)
	queries := [][]byte{nil, []byte("a"), []byte("abc"), []byte("ee"), text[13:19]}
	for _, q := range queries {
		if f1.Count(q) != f2.Count(q) {
			t.Fatalf("Count(%q) differs across sample rates", q)
		}
		if d := cmp.Diff(sortedSearch(f1, q), sortedSearch(f2, q),
			cmpopts.EquateEmpty()); d != "" {
			t.Fatalf("Search(%q) differs across sample rates:\n%s", q, d)
		}
	}
	for o := int64(0); o < f1.Size(); o += 13 {
		x, _ := f1.Extract(o, 9)
		y, _ := f2.Extract(o, 9)
		if !bytes.Equal(x, y) {
			t.Fatalf("Extract(%d, 9) differs across sample rates", o)
		}
	}
}
