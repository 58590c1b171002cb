/*
Package resolver implements the hit resolver: given an SA interval and a
k-mer length, it emits the distinct set of reference ids the interval's
matches fall in, in SA-scan order, using a reusable scratch bitmap so a
caller processing many k-mers pays only for the distinct ids touched by
each one.
*/
package resolver

import (
	"github.com/clade-bio/kmerscan/internal/fmindex"
	"github.com/clade-bio/kmerscan/internal/reference"
)

// Resolver holds the seen-bitmap scratch space reused across calls to
// Resolve. It is not safe for concurrent use; a parallel driver should
// give each worker its own Resolver over the shared, read-only index and
// layout, the same per-worker ownership split used for seen-bitmap scratch.
type Resolver struct {
	idx     *fmindex.Index
	layout  *reference.Layout
	seen    []byte
	touched []int
}

// New builds a Resolver over idx and layout, which must describe the same
// reference text.
func New(idx *fmindex.Index, layout *reference.Layout) *Resolver {
	return &Resolver{
		idx:    idx,
		layout: layout,
		seen:   make([]byte, layout.NSeqs()),
	}
}

// Resolve returns the distinct reference ids matched by iv (an SA interval
// of some k-mer of length k), ordered by first occurrence while scanning
// SA indices from iv.K upward. Matches that cross a reference boundary are
// discarded. The returned slice is reused by Resolver and is only valid
// until the next call to Resolve.
func (r *Resolver) Resolve(iv fmindex.Interval, k int) []int {
	r.touched = r.touched[:0]
	if iv.Empty() {
		return r.touched
	}
	for t := iv.K; t <= iv.L; t++ {
		pos := r.idx.MatchStart(t, k)
		rid := r.layout.Pos2Rid(pos)
		if rid == -1 {
			continue
		}
		if r.layout.SpansBoundary(pos, k) {
			continue
		}
		if r.seen[rid] == 0 {
			r.seen[rid] = 1
			r.touched = append(r.touched, rid)
		}
	}
	for _, rid := range r.touched {
		r.seen[rid] = 0
	}
	return r.touched
}
