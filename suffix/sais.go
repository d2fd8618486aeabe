// Package suffix computes suffix arrays for byte strings extended by an
// implicit sentinel smaller than any byte. The construction uses the
// induced-sorting algorithm of Nong, Zhang and Chen (SA-IS) and runs in
// linear time with linear transient space.
package suffix

// MaxText is the largest supported text length. Work arrays are int32
// indexed, including the sentinel slot.
const MaxText = 1<<31 - 2

// Sort fills sa with the suffix array of t over the alphabet extended by an
// implicit smallest sentinel. sa must have length len(t)+1; the entry for
// the sentinel suffix always sorts first.
func Sort(t []byte, sa []int32) {
	if len(sa) != len(t)+1 {
		panic("suffix: sa must have length len(t)+1")
	}
	if len(t) > MaxText {
		panic("suffix: text too long")
	}
	s := make([]int32, len(t)+1)
	for i, c := range t {
		s[i] = int32(c) + 1
	}
	sais(s, 257, sa)
}

// InvertSA fills isa with the inverse of the permutation sa.
func InvertSA(sa, isa []int32) {
	for i, j := range sa {
		isa[j] = int32(i)
	}
}

// sais computes the suffix array of s into sa. The symbols of s must lie in
// [0, k) and s must end in a unique smallest symbol.
func sais(s []int32, k int32, sa []int32) {
	n := len(s)
	if n == 0 {
		return
	}
	if n == 1 {
		sa[0] = 0
		return
	}

	// Type scan. stype[i] reports whether suffix i is S-type.
	stype := make([]bool, n)
	stype[n-1] = true
	for i := n - 2; i >= 0; i-- {
		switch {
		case s[i] < s[i+1]:
			stype[i] = true
		case s[i] > s[i+1]:
			stype[i] = false
		default:
			stype[i] = stype[i+1]
		}
	}

	var lms []int32
	for i := int32(1); i < int32(n); i++ {
		if stype[i] && !stype[i-1] {
			lms = append(lms, i)
		}
	}

	// First induce pass sorts the LMS substrings.
	induce(s, k, sa, stype, lms)

	sorted := make([]int32, 0, len(lms))
	for _, p := range sa {
		if p > 0 && stype[p] && !stype[p-1] {
			sorted = append(sorted, p)
		}
	}

	// Name the LMS substrings in sorted order; equal substrings share a
	// name.
	names := make([]int32, n)
	name := int32(0)
	prev := int32(-1)
	for _, p := range sorted {
		if prev >= 0 && !lmsEqual(s, stype, prev, p) {
			name++
		}
		names[p] = name
		prev = p
	}

	if int(name)+1 < len(lms) {
		// Names collide; recurse on the reduced string to rank the
		// LMS suffixes exactly. The reduced string ends in the unique
		// smallest name, the sentinel-only substring.
		reduced := make([]int32, len(lms))
		for i, p := range lms {
			reduced[i] = names[p]
		}
		rsa := make([]int32, len(reduced))
		sais(reduced, name+1, rsa)
		ordered := make([]int32, len(lms))
		for i, ri := range rsa {
			ordered[i] = lms[ri]
		}
		induce(s, k, sa, stype, ordered)
	} else {
		induce(s, k, sa, stype, sorted)
	}
}

// induce fills sa from the LMS positions in lmsOrdered: LMS suffixes are
// dropped at their bucket tails, then L-type suffixes are induced left to
// right and S-type suffixes right to left.
func induce(s []int32, k int32, sa []int32, stype []bool, lmsOrdered []int32) {
	freq := make([]int32, k)
	for _, c := range s {
		freq[c]++
	}
	heads := make([]int32, k)
	tails := make([]int32, k)
	var sum int32
	for c, f := range freq {
		heads[c] = sum
		sum += f
		tails[c] = sum - 1
	}

	for i := range sa {
		sa[i] = -1
	}
	for i := len(lmsOrdered) - 1; i >= 0; i-- {
		p := lmsOrdered[i]
		c := s[p]
		sa[tails[c]] = p
		tails[c]--
	}

	for i := 0; i < len(sa); i++ {
		p := sa[i]
		if p > 0 && !stype[p-1] {
			c := s[p-1]
			sa[heads[c]] = p - 1
			heads[c]++
		}
	}

	sum = 0
	for c, f := range freq {
		sum += f
		tails[c] = sum - 1
	}
	for i := len(sa) - 1; i >= 0; i-- {
		p := sa[i]
		if p > 0 && stype[p-1] {
			c := s[p-1]
			sa[tails[c]] = p - 1
			tails[c]--
		}
	}
}

// lmsEqual reports whether the LMS substrings starting at i and j are
// identical. An LMS substring runs from its start up to and including the
// next LMS position.
func lmsEqual(s []int32, stype []bool, i, j int32) bool {
	if s[i] != s[j] {
		return false
	}
	n := int32(len(s))
	for {
		i++
		j++
		if i >= n || j >= n {
			return false
		}
		iLMS := stype[i] && !stype[i-1]
		jLMS := stype[j] && !stype[j-1]
		if iLMS && jLMS {
			return s[i] == s[j]
		}
		if iLMS != jLMS || s[i] != s[j] {
			return false
		}
	}
}
