/*
Package reference implements the BNS reference layout: the table that
maps a position in the concatenated reference text to the chromosome it
belongs to.

The lookup itself is a binary search over sorted offsets, in the style of
poly's search/bwt.runInfo.FindNearestRunStartPosition (which finds the run
containing a given text offset by the same kind of search); here the
"runs" are whole reference sequences instead of BWT runs.
*/
package reference

import "fmt"

// Entry describes one reference sequence ("chromosome") in the
// concatenated text.
type Entry struct {
	Name   string
	Offset int // start offset in the concatenated text
	Length int // length of this sequence, excluding any separator
}

// Layout is the immutable BNS table for a concatenated reference text of
// length SeqLen.
type Layout struct {
	entries []Entry
	seqLen  int
}

// New builds a Layout from reference entries. Entries must already be
// sorted by Offset and must not overlap; New does not sort them, since the
// offsets are fixed by how the reference text was concatenated.
func New(entries []Entry, seqLen int) (*Layout, error) {
	for i := 1; i < len(entries); i++ {
		if entries[i].Offset < entries[i-1].Offset+entries[i-1].Length {
			return nil, fmt.Errorf("reference: entry %q at offset %d overlaps preceding entry %q", entries[i].Name, entries[i].Offset, entries[i-1].Name)
		}
	}
	return &Layout{entries: entries, seqLen: seqLen}, nil
}

// NSeqs returns the number of reference sequences.
func (l *Layout) NSeqs() int {
	return len(l.entries)
}

// SeqLen returns the length of the concatenated text.
func (l *Layout) SeqLen() int {
	return l.seqLen
}

// Name returns the name of reference id rid.
func (l *Layout) Name(rid int) string {
	return l.entries[rid].Name
}

// Entries returns the reference sequence entries backing the layout, in
// offset order. The returned slice is owned by the caller.
func (l *Layout) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Pos2Rid resolves a text position to a reference id, or -1 if pos falls
// in an inter-sequence separator (or is out of range).
func (l *Layout) Pos2Rid(pos int) int {
	if pos < 0 || pos >= l.seqLen || len(l.entries) == 0 {
		return -1
	}
	lo, hi := 0, len(l.entries)-1
	for lo <= hi {
		mid := lo + (hi-lo)/2
		e := l.entries[mid]
		switch {
		case pos < e.Offset:
			hi = mid - 1
		case pos >= e.Offset+e.Length:
			lo = mid + 1
		default:
			return mid
		}
	}
	return -1
}

// SpansBoundary reports whether a match of length matchLen starting at
// text position pos crosses a reference boundary (including running off
// the end of T), in which case the match should be discarded by the hit
// resolver.
func (l *Layout) SpansBoundary(pos, matchLen int) bool {
	rid := l.Pos2Rid(pos)
	if rid == -1 {
		return true
	}
	e := l.entries[rid]
	return pos+matchLen > e.Offset+e.Length
}
