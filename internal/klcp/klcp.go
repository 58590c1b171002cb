/*
Package klcp implements the KLCP sibling structure: a bit vector over
suffix-array positions marking k-equivalence classes, with
decrease_k/increase_l navigation in O(1) expected time. For k-mer length
k, a k-equivalence class is a maximal run of adjacent SA positions whose
suffixes share their first k-1 characters, so widening a k-mer's interval
over its class gives the interval of the (k-1)-mer it overlaps with the
next window.

The bit vector itself is an RSA-backed bitvec.BitVector, the same
structure fmindex uses for its occurrence table; decrease_k and
increase_l are expressed purely in terms of Rank(false, ...) and
Select(false, ...) over that structure, following poly's search/bwt
convention of building every positional query on top of the shared
rank/select primitive rather than a bespoke scan.
*/
package klcp

import "github.com/clade-bio/kmerscan/internal/bitvec"

// Klcp answers decrease_k and increase_l queries for a fixed k-mer length
// K against a reference of length SeqLen.
type Klcp struct {
	k      int
	seqLen int
	b      bitvec.RSA
}

// New wraps a precomputed boundary bit vector. b must have length
// seqLen+1, with b[i] == 1 iff the (K-1)-length prefixes of the suffixes
// at SA positions i and i+1 are identical; the caller is responsible for
// producing b (see Build).
func New(k, seqLen int, b bitvec.BitVector) Klcp {
	return Klcp{k: k, seqLen: seqLen, b: bitvec.NewRSA(b)}
}

// K returns the k-mer length this structure was built for.
func (kl Klcp) K() int {
	return kl.k
}

// SeqLen returns the length of the reference text this structure indexes.
func (kl Klcp) SeqLen() int {
	return kl.seqLen
}

// DecreaseK returns the smallest SA index j <= i such that j is the start
// of i's k-equivalence class: the largest j <= i with B[j-1] == 0, or 0
// if no such j exists.
func (kl Klcp) DecreaseK(i int) int {
	zerosBeforeI := kl.b.Rank(false, i)
	if zerosBeforeI == 0 {
		return 0
	}
	p, ok := kl.b.Select(false, zerosBeforeI-1)
	if !ok {
		return 0
	}
	return p + 1
}

// IncreaseL returns the largest SA index j >= i such that j is the end of
// i's k-equivalence class: the smallest j >= i with B[j] == 0.
func (kl Klcp) IncreaseL(i int) int {
	zerosBeforeI := kl.b.Rank(false, i)
	q, ok := kl.b.Select(false, zerosBeforeI)
	if !ok {
		return kl.seqLen
	}
	return q
}
