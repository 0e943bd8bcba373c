package match

import (
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize applies NFKC normalization and lower-cases the text
func Normalize(s string) string {
	return strings.ToLower(norm.NFKC.String(s))
}

// PartialRatio scores how well the shorter string aligns inside the longer
// one, 0-100, with fuzzywuzzy's partial_ratio semantics. Each matching block
// anchors a window of the longer string as long as the shorter one, clipped
// at the end, and the best window ratio wins. Equal strings score 100, and
// otherwise an empty input scores 0. Inputs are compared as given; callers
// normalize case.
func PartialRatio(a, b string) int {
	if a == b {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}

	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}

	best := 0.0
	for _, blk := range newSequenceMatcher(short, long).matchingBlocks() {
		start := blk.B - blk.A
		if start < 0 {
			start = 0
		}
		end := start + len(short)
		if end > len(long) {
			end = len(long)
		}

		r := newSequenceMatcher(short, long[start:end]).ratio()
		if r > 0.995 {
			return 100
		}
		if r > best {
			best = r
		}
	}

	// Half-way scores round to even
	return int(math.RoundToEven(100 * best))
}
