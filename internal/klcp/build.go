package klcp

import (
	"bytes"
	"fmt"

	"github.com/clade-bio/kmerscan/internal/bitvec"
	"github.com/clade-bio/kmerscan/internal/fmindex"
)

// Build constructs the KLCP boundary bit vector for k-mer length k over an
// already-built FM-index, using refText (the same concatenated reference
// idx was built from, in its original, un-mirrored order) for the
// (k-1)-character prefix comparisons.
//
// idx's BWT is built over the reverse of refText (see the fmindex package
// doc), and SA2Pos returns positions in that mirrored text; the
// comparisons here mirror refText once up front so a row's SA2Pos value
// can be used directly, without re-deriving a reference position per row.
//
// This mirrors how poly's search/bwt derives run boundaries from direct
// text comparison rather than repeated LF-stepping: for a one-shot builder,
// a single sa2pos call per SA row plus a text slice comparison is simpler
// to verify than walking LF steps.
func Build(idx *fmindex.Index, refText []byte, k int) (Klcp, error) {
	if k <= 0 {
		return Klcp{}, fmt.Errorf("klcp: k-mer length must be positive, got %d", k)
	}
	seqLen := idx.SeqLen()
	if len(refText) != seqLen {
		return Klcp{}, fmt.Errorf("klcp: reference text length %d does not match index seq_len %d", len(refText), seqLen)
	}

	mirrored := make([]byte, seqLen)
	for i, base := range refText {
		mirrored[seqLen-1-i] = base
	}

	// Two adjacent rows share a class when their suffixes agree on the
	// first k-1 characters: widening a k-mer's interval over its class then
	// yields the interval of the k-mer's last k-1 bases (a prefix in the
	// mirrored text), which one BackwardSearch step extends to the next
	// window's k-mer.
	m := k - 1
	b := bitvec.New(seqLen + 1)
	for i := 0; i < seqLen; i++ {
		pi := idx.SA2Pos(i)
		pj := idx.SA2Pos(i + 1)
		if pi+m > seqLen || pj+m > seqLen {
			continue
		}
		if bytes.Equal(mirrored[pi:pi+m], mirrored[pj:pj+m]) {
			b.Set(i, true)
		}
	}
	// b[seqLen] is left 0: boundary bits outside [0, seqLen-1] are always 0.

	return New(k, seqLen, b), nil
}
