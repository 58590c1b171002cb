package bitvec

import "math/bits"

// RSA answers Rank, Select, and Access queries over an immutable BitVector
// in O(1) (Rank, Access) or O(1) expected (Select) time, using a two-level
// Jacobson rank structure plus position maps for select. This is the same
// design poly's search/bwt.rsaBitVector uses to accelerate BWT run-length
// lookups; here it backs both the FM-index's per-base occurrence counts and
// the KLCP bit vector's decrease_k/increase_l navigation.
type RSA struct {
	bv            BitVector
	totalOnesRank int
	chunks        []chunk
	subPerChunk   int
	bitsPerChunk  int
	bitsPerSub    int
	oneSelect     map[int]int
	zeroSelect    map[int]int
}

type chunk struct {
	subChunks []subChunk
	onesRank  int
}

type subChunk struct {
	onesRank int
}

// NewRSA builds the rank/select acceleration structures over bv. bv must
// not be mutated afterwards; doing so desynchronizes the RSA from it.
func NewRSA(bv BitVector) RSA {
	chunks, subPerChunk, bitsPerSub, totalOnes := buildJacobsonRank(bv)
	ones, zeros := buildSelectMaps(bv)
	return RSA{
		bv:            bv,
		totalOnesRank: totalOnes,
		chunks:        chunks,
		subPerChunk:   subPerChunk,
		bitsPerChunk:  subPerChunk * bitsPerSub,
		bitsPerSub:    bitsPerSub,
		oneSelect:     ones,
		zeroSelect:    zeros,
	}
}

// Len returns the number of bits in the underlying vector.
func (r RSA) Len() int {
	return r.bv.Len()
}

// Rank returns the number of bits equal to val in [0, i).
//
// Example: for bit vector 001000100001, Rank(true, 3) == 1 and
// Rank(false, 8) == 6.
func (r RSA) Rank(val bool, i int) int {
	if i == r.bv.Len() {
		if val {
			return r.totalOnesRank
		}
		return r.bv.Len() - r.totalOnesRank
	}

	chunkPos := i / r.bitsPerChunk
	c := r.chunks[chunkPos]

	subPos := (i % r.bitsPerChunk) / r.bitsPerSub
	sub := c.subChunks[subPos]

	bitOffset := i % r.bitsPerSub
	word := r.bv.GetWord(chunkPos*r.subPerChunk + subPos)
	shift := uint(r.bitsPerSub - bitOffset)

	if val {
		remaining := word >> shift
		return c.onesRank + sub.onesRank + bits.OnesCount64(remaining)
	}
	remaining := ^word >> shift
	return (chunkPos*r.bitsPerChunk - c.onesRank) + (subPos*r.bitsPerSub - sub.onesRank) + bits.OnesCount64(remaining)
}

// Select returns the position of the rank-th (0-indexed) bit equal to val.
//
// Example: for bit vector 001000100001, Select(true, 1) == 6.
func (r RSA) Select(val bool, rank int) (int, bool) {
	if val {
		i, ok := r.oneSelect[rank]
		return i, ok
	}
	i, ok := r.zeroSelect[rank]
	return i, ok
}

// Access returns the bit at offset i.
func (r RSA) Access(i int) bool {
	return r.bv.Get(i)
}

// buildJacobsonRank precomputes cumulative one-counts at two granularities
// (chunk, sub-chunk) so Rank needs at most one OnesCount64 over the
// remaining partial word. Sub-chunks are exactly one 64-bit word wide.
func buildJacobsonRank(bv BitVector) (chunks []chunk, subPerChunk, bitsPerSub, totalRank int) {
	const subChunksPerChunk = 4
	subPerChunk = subChunksPerChunk
	bitsPerSub = wordSize

	chunkRank := 0
	subRank := 0
	var cur []subChunk
	for i := 0; i < bv.NumWords(); i++ {
		if len(cur) == subChunksPerChunk {
			chunks = append(chunks, chunk{subChunks: cur, onesRank: chunkRank})
			chunkRank += subRank
			cur = nil
			subRank = 0
		}
		cur = append(cur, subChunk{onesRank: subRank})
		ones := bits.OnesCount64(bv.GetWord(i))
		subRank += ones
		totalRank += ones
	}
	if cur != nil {
		chunks = append(chunks, chunk{subChunks: cur, onesRank: chunkRank})
	}
	return chunks, subPerChunk, bitsPerSub, totalRank
}

// buildSelectMaps builds exact position lookups for Select. This trades
// memory for simplicity; a rank-select-optimized structure would use
// Clark's select instead, but a direct map keeps the KLCP and FM-index
// navigation logic easy to verify against the cold-path brute force.
func buildSelectMaps(bv BitVector) (ones, zeros map[int]int) {
	ones = make(map[int]int)
	zeros = make(map[int]int)
	oneCount, zeroCount := 0, 0
	for i := 0; i < bv.Len(); i++ {
		if bv.Get(i) {
			ones[oneCount] = i
			oneCount++
		} else {
			zeros[zeroCount] = i
			zeroCount++
		}
	}
	ones[oneCount] = bv.Len()
	zeros[zeroCount] = bv.Len()
	return ones, zeros
}
