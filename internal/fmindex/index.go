/*
Package fmindex implements the FM-index backward-search primitive: an
L2/occ table over a Burrows-Wheeler transform of the concatenated
reference text, supporting backward_search, occ/occ2, and sa2pos.

The BWT is built over the reverse of the reference text rather than the
text itself, so that feeding BackwardSearch a k-mer in its natural
left-to-right read order extends the match by appending a character on
the right (what a sliding window needs) instead of prepending on the left
(what the classic recurrence does directly). SA2Pos returns a row's
position in the mirrored text; MatchStart accounts for the mirroring when
translating a row back to a reference position.

The occurrence table is a bitvec.WaveletTree built directly over the BWT
bytes, following the same RSA-backed design poly's search/bwt package uses
for its run-length-compressed BWT — the difference is this BWT is over a
4-symbol-plus-sentinel DNA alphabet and is stored without run-length
compression, since DNA references do not have bzip2-style long runs the
way poly's general-purpose BWT.Count/Locate/Extract API is tuned for.
*/
package fmindex

import (
	"fmt"

	"github.com/clade-bio/kmerscan/internal/bitvec"
	"github.com/clade-bio/kmerscan/internal/seqcode"
)

// Interval is an SA interval [K, L]. It is empty iff K > L.
type Interval struct {
	K, L int
}

// Empty reports whether the interval contains no SA positions.
func (iv Interval) Empty() bool {
	return iv.K > iv.L
}

// Size returns the number of SA positions represented by the interval.
func (iv Interval) Size() int {
	if iv.Empty() {
		return 0
	}
	return iv.L - iv.K + 1
}

// internal BWT alphabet: sentinel sorts before all four bases.
const sentinelInternal byte = 0

func toInternal(base byte) byte { return base + 1 }

// Index is the immutable FM-index of a concatenated reference text.
type Index struct {
	seqLen     int // length of T, excluding the sentinel
	l2         [4]int
	bwt        bitvec.WaveletTree // length seqLen+1, internal alphabet
	sampleRate int
	marked     bitvec.RSA // length seqLen+1; marked[i] iff SA[i] % sampleRate == 0
	sampled    []int      // SA values for marked rows, in row order
}

// SeqLen returns the length of the concatenated reference text T.
func (idx *Index) SeqLen() int {
	return idx.seqLen
}

// ColdInterval returns the SA interval of every suffix, the starting point
// for a cold-start backward search.
func (idx *Index) ColdInterval() Interval {
	return Interval{K: 0, L: idx.seqLen}
}

// occ returns the number of occurrences of base in bwt[0..i], the closed
// prefix through row i. i == -1 denotes the empty prefix (0 occurrences),
// which falls out of the same Rank call (Rank(c, 0) == 0) without a
// special case, since backward search's k-1 term reaches -1 on its first
// step from a cold k=0.
func (idx *Index) occ(base byte, i int) int {
	return idx.bwt.Rank(toInternal(base), i+1)
}

// occ2 returns (occ(base, i), occ(base, j)) resolved in a single
// traversal of the occurrence table.
func (idx *Index) occ2(base byte, i, j int) (int, int) {
	return idx.bwt.Rank2(toInternal(base), i+1, j+1)
}

// BackwardSearch processes the characters of pattern in left-to-right read
// order, refining start into the SA interval of pattern. It returns the
// resulting interval and the number of leading characters of pattern that
// were actually consumed before either an N was seen or the interval
// collapsed; on a full match that count equals len(pattern).
func (idx *Index) BackwardSearch(pattern []byte, start Interval) (Interval, int) {
	k, l := start.K, start.L
	for i, c := range pattern {
		if c > seqcode.T {
			return Interval{K: k, L: l}, i
		}
		ok, ol := idx.occ2(c, k-1, l)
		k = idx.l2[c] + ok + 1
		l = idx.l2[c] + ol
		if k > l {
			return Interval{K: k, L: l}, i
		}
	}
	return Interval{K: k, L: l}, len(pattern)
}

// sa2pos resolves a suffix-array index to its position in the mirrored
// text the BWT was built over, by walking LF steps until a sampled row is
// reached.
func (idx *Index) sa2pos(i int) int {
	steps := 0
	for !idx.marked.Access(i) {
		i = idx.lf(i)
		steps++
	}
	rank := idx.marked.Rank(true, i+1) - 1
	return idx.sampled[rank] + steps
}

// SA2Pos is the exported form of sa2pos: the row's position in the
// mirrored text the BWT indexes, not in the original reference. Use
// MatchStart to recover a position in the original reference.
func (idx *Index) SA2Pos(i int) int {
	return idx.sa2pos(i)
}

// MatchStart converts SA row i, known to anchor a match of length
// matchLen, into the position in the original (un-mirrored) reference
// text where that match begins.
func (idx *Index) MatchStart(i, matchLen int) int {
	return idx.seqLen - idx.sa2pos(i) - matchLen
}

// lf computes the LF-mapping step for row i: the row i' such that
// SA[i'] == SA[i]-1 (with the usual circular wraparound through the
// sentinel row).
func (idx *Index) lf(i int) int {
	c := idx.bwt.Access(i)
	if c == sentinelInternal {
		return 0
	}
	base := c - 1
	before := idx.bwt.Rank(c, i)
	return idx.l2[base] + 1 + before
}

func validateInternalAlphabet(bwt []byte) error {
	for _, b := range bwt {
		if b > toInternal(seqcode.T) {
			return fmt.Errorf("fmindex: bwt byte %d outside the sentinel+ACGT alphabet", b)
		}
	}
	return nil
}
