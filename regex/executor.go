package regex

import "golang.org/x/exp/slices"

// Index is the query surface the executor needs. *succinct.File implements
// it.
type Index interface {
	// Size returns the length of the indexed text.
	Size() int64
	// Alphabet returns the distinct byte values occurring in the text.
	Alphabet() []byte
	// Search returns the offsets of all occurrences of q.
	Search(q []byte) []int64
}

// Match is one regex occurrence in the text.
type Match struct {
	Offset, Length int64
}

// Search evaluates pattern against idx and returns the deduplicated set of
// matches, sorted by offset and then length. Matches are never zero-width:
// a repetition that could match the empty string contributes its non-empty
// expansions only.
func Search(idx Index, pattern string) ([]Match, error) {
	ast, err := parse(pattern)
	if err != nil {
		return nil, err
	}
	res := eval(idx, ast)
	out := make([]Match, 0, len(res.matches))
	for m := range res.matches {
		out = append(out, m)
	}
	slices.SortFunc(out, func(a, b Match) int {
		switch {
		case a.Offset < b.Offset:
			return -1
		case a.Offset > b.Offset:
			return 1
		case a.Length < b.Length:
			return -1
		case a.Length > b.Length:
			return 1
		}
		return 0
	})
	return out, nil
}

type matchSet map[Match]struct{}

// result is the evaluation of a subexpression: its non-empty matches plus
// whether the subexpression can also match the empty string.
type result struct {
	matches   matchSet
	emptyable bool
}

func eval(idx Index, nd node) result {
	switch nd := nd.(type) {
	case *literalNode:
		ms := make(matchSet)
		for _, off := range idx.Search(nd.b) {
			ms[Match{off, int64(len(nd.b))}] = struct{}{}
		}
		return result{matches: ms}
	case *classNode:
		ms := make(matchSet)
		for _, b := range idx.Alphabet() {
			if !nd.set[b] {
				continue
			}
			for _, off := range idx.Search([]byte{b}) {
				ms[Match{off, 1}] = struct{}{}
			}
		}
		return result{matches: ms}
	case *unionNode:
		ms := make(matchSet)
		emptyable := false
		for _, part := range nd.parts {
			r := eval(idx, part)
			for m := range r.matches {
				ms[m] = struct{}{}
			}
			emptyable = emptyable || r.emptyable
		}
		return result{matches: ms, emptyable: emptyable}
	case *concatNode:
		res := eval(idx, nd.parts[0])
		for _, part := range nd.parts[1:] {
			res = join(res, eval(idx, part))
		}
		return res
	case *repeatNode:
		child := eval(idx, nd.child)
		switch nd.op {
		case '?':
			return result{matches: child.matches, emptyable: true}
		case '+':
			return result{matches: closure(child.matches), emptyable: child.emptyable}
		default: // '*'
			return result{matches: closure(child.matches), emptyable: true}
		}
	}
	panic("regex: unknown node")
}

// join concatenates two match sets: a match of the left followed
// immediately by a match of the right. Emptyable sides pass the other
// side's matches through unchanged.
func join(a, b result) result {
	byStart := index(b.matches)
	out := make(matchSet)
	for m := range a.matches {
		for _, bm := range byStart[m.Offset+m.Length] {
			out[Match{m.Offset, m.Length + bm.Length}] = struct{}{}
		}
	}
	if a.emptyable {
		for m := range b.matches {
			out[m] = struct{}{}
		}
	}
	if b.emptyable {
		for m := range a.matches {
			out[m] = struct{}{}
		}
	}
	return result{matches: out, emptyable: a.emptyable && b.emptyable}
}

// closure computes the one-or-more closure of base: repeated
// self-concatenation until no new match appears. The text is finite, so the
// iteration terminates.
func closure(base matchSet) matchSet {
	byStart := index(base)
	all := make(matchSet, len(base))
	frontier := make([]Match, 0, len(base))
	for m := range base {
		all[m] = struct{}{}
		frontier = append(frontier, m)
	}
	for len(frontier) > 0 {
		var next []Match
		for _, m := range frontier {
			for _, bm := range byStart[m.Offset+m.Length] {
				cand := Match{m.Offset, m.Length + bm.Length}
				if _, ok := all[cand]; ok {
					continue
				}
				all[cand] = struct{}{}
				next = append(next, cand)
			}
		}
		frontier = next
	}
	return all
}

func index(ms matchSet) map[int64][]Match {
	byStart := make(map[int64][]Match)
	for m := range ms {
		byStart[m.Offset] = append(byStart[m.Offset], m)
	}
	return byStart
}
