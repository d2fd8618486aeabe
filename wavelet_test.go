package succinct

import (
	"math/rand"
	"testing"
)

func randomSequence(n, sigma int, seed int64) []uint16 {
	rng := rand.New(rand.NewSource(seed))
	seq := make([]uint16, n)
	// Guarantee every symbol occurs at least once.
	for i := range seq {
		if i < sigma {
			seq[i] = uint16(i)
		} else {
			seq[i] = uint16(rng.Intn(sigma))
		}
	}
	rng.Shuffle(n, func(i, j int) { seq[i], seq[j] = seq[j], seq[i] })
	return seq
}

func TestWaveletAccess(t *testing.T) {
	for _, sigma := range []int{1, 2, 3, 16, 257} {
		seq := randomSequence(1000, sigma, int64(sigma))
		wt := newWaveletTree(seq, sigma)
		for i, c := range seq {
			if g := wt.access(i); g != int(c) {
				t.Fatalf("sigma=%d: access(%d) returned %d; want %d",
					sigma, i, g, c)
			}
		}
	}
}

func TestWaveletRank(t *testing.T) {
	for _, sigma := range []int{2, 5, 257} {
		seq := randomSequence(800, sigma, 100+int64(sigma))
		wt := newWaveletTree(seq, sigma)
		counts := make([]int, sigma)
		for i := 0; i <= len(seq); i++ {
			for c := 0; c < sigma; c++ {
				if g := wt.rank(c, i); g != counts[c] {
					t.Fatalf("sigma=%d: rank(%d, %d) returned %d; want %d",
						sigma, c, i, g, counts[c])
				}
			}
			if i < len(seq) {
				counts[seq[i]]++
			}
		}
	}
}

func TestWaveletRankPartition(t *testing.T) {
	// The per-symbol ranks at any position must sum to the position.
	seq := randomSequence(600, 7, 3)
	wt := newWaveletTree(seq, 7)
	for i := 0; i <= len(seq); i++ {
		sum := 0
		for c := 0; c < 7; c++ {
			sum += wt.rank(c, i)
		}
		if sum != i {
			t.Fatalf("rank sum at %d is %d; want %d", i, sum, i)
		}
	}
}

func TestWaveletSelect(t *testing.T) {
	for _, sigma := range []int{2, 9, 100} {
		seq := randomSequence(700, sigma, 200+int64(sigma))
		wt := newWaveletTree(seq, sigma)
		seen := make([]int, sigma)
		for i, c := range seq {
			if g := wt.sel(int(c), seen[c]); g != i {
				t.Fatalf("sigma=%d: sel(%d, %d) returned %d; want %d",
					sigma, c, seen[c], g, i)
			}
			seen[c]++
		}
	}
}
