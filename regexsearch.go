package succinct

import "github.com/succinctdata/succinct/regex"

// RegexSearch evaluates a regular expression against the index and returns
// every match as an (offset, length) pair, deduplicated and sorted. See
// package regex for the supported dialect; malformed patterns yield a
// *regex.ParseError.
func (f *File) RegexSearch(pattern string) ([]regex.Match, error) {
	return regex.Search(f, pattern)
}
