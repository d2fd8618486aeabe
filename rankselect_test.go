package succinct

import (
	"math/rand"
	"testing"
)

func randomBitVector(t *testing.T, m int, p float64, seed int64) (*bitVector, []bool) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	b := newBitVector(m)
	ref := make([]bool, m)
	for i := range ref {
		if rng.Float64() < p {
			ref[i] = true
			b.setBit(i)
		}
	}
	b.index()
	return b, ref
}

func TestRank1(t *testing.T) {
	for _, m := range []int{1, 63, 64, 65, 511, 512, 513, 2048, 5000, 10001} {
		b, ref := randomBitVector(t, m, 0.4, int64(m))
		var want uint64
		for i := 0; i <= m; i++ {
			if g := b.rank1(i); g != want {
				t.Fatalf("m=%d: rank1(%d) returned %d; want %d",
					m, i, g, want)
			}
			if i < m && ref[i] {
				want++
			}
		}
	}
}

func TestSelect(t *testing.T) {
	for _, m := range []int{1, 64, 513, 3000, 10001} {
		b, ref := randomBitVector(t, m, 0.3, int64(m)+1)
		var k1, k0 uint64
		for i, set := range ref {
			if set {
				if g := b.select1(k1); g != i {
					t.Fatalf("m=%d: select1(%d) returned %d; want %d",
						m, k1, g, i)
				}
				k1++
			} else {
				if g := b.select0(k0); g != i {
					t.Fatalf("m=%d: select0(%d) returned %d; want %d",
						m, k0, g, i)
				}
				k0++
			}
		}
	}
}

func TestRankSelectInverse(t *testing.T) {
	b, _ := randomBitVector(t, 7777, 0.5, 99)
	for k := uint64(0); k < b.ones; k++ {
		i := b.select1(k)
		if g := b.rank1(i); g != k {
			t.Fatalf("rank1(select1(%d)) returned %d; want %d", k, g, k)
		}
		if b.bit(i) != 1 {
			t.Fatalf("select1(%d) returned unset position %d", k, i)
		}
	}
}

func TestSelectWord(t *testing.T) {
	tests := []struct {
		w    uint64
		k    uint64
		want int
	}{
		{1 << 63, 0, 0},
		{1, 0, 63},
		{1<<63 | 1, 1, 63},
		{0xF0, 2, 58},
	}
	for _, tc := range tests {
		if g := selectWord(tc.w, tc.k); g != tc.want {
			t.Errorf("selectWord(%#x, %d) returned %d; want %d",
				tc.w, tc.k, g, tc.want)
		}
	}
}
