package match

import "sort"

// matchBlock is a run of equal runes: a[A:A+Size] == b[B:B+Size]
type matchBlock struct {
	A, B, Size int
}

// sequenceMatcher finds matching blocks the way Python's difflib does:
// greedily take the longest common run, then recurse on both sides of it.
// The blocks are not an optimal alignment, and scores depend on that.
type sequenceMatcher struct {
	a, b []rune
	b2j  map[rune][]int // positions of each rune in b, ascending
}

// autojunkMinLen is the length of b from which runes filling more than 1% of
// it no longer anchor a match
const autojunkMinLen = 200

func newSequenceMatcher(a, b []rune) *sequenceMatcher {
	b2j := make(map[rune][]int)
	for i, r := range b {
		b2j[r] = append(b2j[r], i)
	}

	if n := len(b); n >= autojunkMinLen {
		ntest := n/100 + 1
		for r, idx := range b2j {
			if len(idx) > ntest {
				delete(b2j, r)
			}
		}
	}

	return &sequenceMatcher{a: a, b: b, b2j: b2j}
}

// longestMatch returns the longest block in a[alo:ahi] x b[blo:bhi], the
// earliest one in a on ties
func (m *sequenceMatcher) longestMatch(alo, ahi, blo, bhi int) matchBlock {
	besti, bestj, bestSize := alo, blo, 0

	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		next := make(map[int]int)
		for _, j := range m.b2j[m.a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			next[j] = k
			if k > bestSize {
				besti, bestj, bestSize = i-k+1, j-k+1, k
			}
		}
		j2len = next
	}

	// Grow through runes that were dropped from b2j
	for besti > alo && bestj > blo && m.a[besti-1] == m.b[bestj-1] {
		besti, bestj, bestSize = besti-1, bestj-1, bestSize+1
	}
	for besti+bestSize < ahi && bestj+bestSize < bhi && m.a[besti+bestSize] == m.b[bestj+bestSize] {
		bestSize++
	}

	return matchBlock{A: besti, B: bestj, Size: bestSize}
}

// matchingBlocks returns non-adjacent blocks ordered by position, ending with
// the sentinel {len(a), len(b), 0}
func (m *sequenceMatcher) matchingBlocks() []matchBlock {
	la, lb := len(m.a), len(m.b)

	queue := [][4]int{{0, la, 0, lb}}
	var blocks []matchBlock
	for len(queue) > 0 {
		q := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		alo, ahi, blo, bhi := q[0], q[1], q[2], q[3]

		x := m.longestMatch(alo, ahi, blo, bhi)
		if x.Size == 0 {
			continue
		}
		blocks = append(blocks, x)
		if alo < x.A && blo < x.B {
			queue = append(queue, [4]int{alo, x.A, blo, x.B})
		}
		if x.A+x.Size < ahi && x.B+x.Size < bhi {
			queue = append(queue, [4]int{x.A + x.Size, ahi, x.B + x.Size, bhi})
		}
	}

	sort.Slice(blocks, func(i, j int) bool { return blocks[i].A < blocks[j].A })

	out := make([]matchBlock, 0, len(blocks)+1)
	var cur matchBlock
	for _, blk := range blocks {
		if cur.A+cur.Size == blk.A && cur.B+cur.Size == blk.B {
			cur.Size += blk.Size
			continue
		}
		if cur.Size > 0 {
			out = append(out, cur)
		}
		cur = blk
	}
	if cur.Size > 0 {
		out = append(out, cur)
	}
	return append(out, matchBlock{A: la, B: lb})
}

// ratio is 2*M/T where M is the number of matched runes and T the total
// length of both sequences
func (m *sequenceMatcher) ratio() float64 {
	total := len(m.a) + len(m.b)
	if total == 0 {
		return 1
	}
	matched := 0
	for _, blk := range m.matchingBlocks() {
		matched += blk.Size
	}
	return 2 * float64(matched) / float64(total)
}
