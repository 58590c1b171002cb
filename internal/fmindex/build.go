package fmindex

import (
	"fmt"
	"sort"

	"github.com/clade-bio/kmerscan/internal/bitvec"
	"github.com/clade-bio/kmerscan/internal/seqcode"
)

// DefaultSampleRate is the SA-sampling interval used when Build is called
// without an explicit rate.
const DefaultSampleRate = 16

// Build constructs an FM-index over refText, a concatenated reference
// sequence already restricted to base codes seqcode.A..seqcode.T (Build
// rejects any other code, so an N must be resolved to a concrete base by
// the caller).
//
// The index is built over the reverse of refText, not refText itself.
// BackwardSearch's recurrence prepends characters one at a time, so to let
// a caller feed a k-mer in its own left-to-right read order and have that
// extend a match by appending on the right, the underlying BWT has to be
// of the mirrored text; sa2pos and SA2Pos return positions in that
// mirrored text accordingly, and MatchStart converts a row back to a
// position in the original refText given the length of the match. See
// DESIGN.md for the worked derivation.
//
// This mirrors the suffix-sort construction poly's search/bwt.New uses for
// plain-text BWTs (full suffix sort, no linear-time SA construction). BWT
// construction is treated as an external collaborator elsewhere in this
// module; Build exists so this package is self-contained for tests and
// small references, while production references are expected to arrive
// with an FM-index already built by an external tool.
func Build(refText []byte, sampleRate int) (*Index, error) {
	if len(refText) == 0 {
		return nil, fmt.Errorf("fmindex: cannot build an index over an empty reference")
	}
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	for i, b := range refText {
		if b > seqcode.T {
			return nil, fmt.Errorf("fmindex: reference base code %d at position %d is not in A..T", b, i)
		}
	}

	n := len(refText)
	text := make([]byte, n)
	for i, b := range refText {
		text[n-1-i] = b
	}

	positions := make([]int, n+1)
	for i := range positions {
		positions[i] = i
	}
	// Position n denotes the empty suffix (the sentinel "$"), which sorts
	// before every non-empty suffix; ties are broken by the shorter suffix
	// (closer to n) sorting first, the usual convention for a suffix array
	// with a unique minimal terminator.
	sort.Slice(positions, func(a, b int) bool {
		pa, pb := positions[a], positions[b]
		for pa < n && pb < n {
			if text[pa] != text[pb] {
				return text[pa] < text[pb]
			}
			pa++
			pb++
		}
		return pa == n && pb != n
	})

	bwtBytes := make([]byte, n+1)
	marks := bitvec.New(n + 1)
	var sampled []int
	for row, pos := range positions {
		if pos == 0 {
			bwtBytes[row] = sentinelInternal
		} else {
			bwtBytes[row] = toInternal(text[pos-1])
		}
		if pos%sampleRate == 0 {
			marks.Set(row, true)
			sampled = append(sampled, pos)
		}
	}

	wt, err := bitvec.NewWaveletTree(bwtBytes)
	if err != nil {
		return nil, fmt.Errorf("fmindex: build occurrence table: %w", err)
	}

	var counts [4]int
	for _, b := range text {
		counts[b]++
	}
	var l2 [4]int
	running := 0
	for c := seqcode.A; c <= seqcode.T; c++ {
		l2[c] = running
		running += counts[c]
	}

	return &Index{
		seqLen:     n,
		l2:         l2,
		bwt:        wt,
		sampleRate: sampleRate,
		marked:     bitvec.NewRSA(marks),
		sampled:    sampled,
	}, nil
}
