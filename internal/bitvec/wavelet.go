package bitvec

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// WaveletTree indexes a byte sequence over a small alphabet so that Rank
// and Access queries run in O(log|alphabet|) using RSA-backed
// internal nodes. This is the same multi-symbol RSA structure poly's
// search/bwt package builds over BWT run characters; here it is built
// directly over the (un-run-length-compressed) BWT bytes of the reference
// text, and serves as the "bucketed rank structure" backing FM-index
// occ/occ2 queries.
type WaveletTree struct {
	root   *wtNode
	alpha  []charInfo
	length int
}

type wtNode struct {
	data   RSA
	char   *byte
	parent *wtNode
	left   *wtNode
	right  *wtNode
}

func (n *wtNode) isLeaf() bool {
	return n.char != nil
}

type charInfo struct {
	char byte
	path BitVector
}

// NewWaveletTree builds a WaveletTree over data. data's alphabet must be
// non-empty.
func NewWaveletTree(data []byte) (WaveletTree, error) {
	if len(data) == 0 {
		return WaveletTree{}, fmt.Errorf("bitvec: cannot build wavelet tree over empty data")
	}
	alpha := alphabetByFirstAppearance(data)
	root := buildWaveletNode(0, alpha, data)
	if root.isLeaf() {
		bv := New(len(data))
		for i := 0; i < bv.Len(); i++ {
			bv.Set(i, true)
		}
		root.data = NewRSA(bv)
	}
	return WaveletTree{root: root, alpha: alpha, length: len(data)}, nil
}

// Len returns the number of symbols the tree was built from.
func (wt WaveletTree) Len() int {
	return wt.length
}

// Access returns the i-th byte of the original sequence.
func (wt WaveletTree) Access(i int) byte {
	if wt.root.isLeaf() {
		return *wt.root.char
	}
	curr := wt.root
	for !curr.isLeaf() {
		bit := curr.data.Access(i)
		i = curr.data.Rank(bit, i)
		if bit {
			curr = curr.right
		} else {
			curr = curr.left
		}
	}
	return *curr.char
}

// Rank returns the number of occurrences of char in the first i symbols.
func (wt WaveletTree) Rank(char byte, i int) int {
	if !isInAlpha(wt.alpha, char) {
		return 0
	}
	if wt.root.isLeaf() {
		return wt.root.data.Rank(true, i)
	}
	curr := wt.root
	ci := wt.lookupCharInfo(char)
	level := 0
	var rank int
	for !curr.isLeaf() {
		pathBit := ci.path.Get(ci.path.Len() - 1 - level)
		rank = curr.data.Rank(pathBit, i)
		if pathBit {
			curr = curr.right
		} else {
			curr = curr.left
		}
		level++
		i = rank
	}
	return rank
}

// Rank2 returns (Rank(char, i), Rank(char, j)) computed with a single
// descent of the tree, mirroring the FM-index's occ2 contract of resolving
// both interval endpoints in one traversal.
func (wt WaveletTree) Rank2(char byte, i, j int) (int, int) {
	if !isInAlpha(wt.alpha, char) {
		return 0, 0
	}
	if wt.root.isLeaf() {
		return wt.root.data.Rank(true, i), wt.root.data.Rank(true, j)
	}
	curr := wt.root
	ci := wt.lookupCharInfo(char)
	level := 0
	var ri, rj int
	for !curr.isLeaf() {
		pathBit := ci.path.Get(ci.path.Len() - 1 - level)
		ri = curr.data.Rank(pathBit, i)
		rj = curr.data.Rank(pathBit, j)
		if pathBit {
			curr = curr.right
		} else {
			curr = curr.left
		}
		level++
		i, j = ri, rj
	}
	return ri, rj
}

func (wt WaveletTree) lookupCharInfo(char byte) charInfo {
	for i := range wt.alpha {
		if wt.alpha[i].char == char {
			return wt.alpha[i]
		}
	}
	panic(fmt.Sprintf("bitvec: character %d not present in wavelet tree alphabet", char))
}

func buildWaveletNode(level int, alpha []charInfo, data []byte) *wtNode {
	if len(alpha) == 0 {
		return nil
	}
	if len(alpha) == 1 {
		return &wtNode{char: &alpha[0].char}
	}

	leftAlpha, rightAlpha := partitionAlpha(level, alpha)

	var leftData, rightData []byte
	bv := New(len(data))
	for i := range data {
		if isInAlpha(rightAlpha, data[i]) {
			bv.Set(i, true)
			rightData = append(rightData, data[i])
		} else {
			leftData = append(leftData, data[i])
		}
	}

	root := &wtNode{data: NewRSA(bv)}
	root.left = buildWaveletNode(level+1, leftAlpha, leftData)
	root.right = buildWaveletNode(level+1, rightAlpha, rightData)
	if root.left != nil {
		root.left.parent = root
	}
	if root.right != nil {
		root.right.parent = root
	}
	return root
}

func isInAlpha(alpha []charInfo, b byte) bool {
	for _, a := range alpha {
		if a.char == b {
			return true
		}
	}
	return false
}

func partitionAlpha(level int, alpha []charInfo) (left, right []charInfo) {
	for _, a := range alpha {
		if a.path.Get(a.path.Len() - 1 - level) {
			right = append(right, a)
		} else {
			left = append(left, a)
		}
	}
	return left, right
}

// alphabetByFirstAppearance collects the distinct bytes of data and assigns
// each a path encoding in ascending byte order. The FM-index alphabet is
// tiny and fixed ($, A, C, G, T), so, unlike poly's frequency-sorted
// wavelet tree, a plain sorted order is enough; it keeps the tree shape
// stable across builds of the same reference.
func alphabetByFirstAppearance(data []byte) []charInfo {
	seen := map[byte]bool{}
	var chars []byte
	for _, b := range data {
		if !seen[b] {
			seen[b] = true
			chars = append(chars, b)
		}
	}
	slices.Sort(chars)

	height := 0
	for 1<<height < len(chars) {
		height++
	}
	if height == 0 {
		height = 1
	}

	out := make([]charInfo, len(chars))
	for i, c := range chars {
		bv := New(height)
		encodePath(bv, uint64(i))
		out[i] = charInfo{char: c, path: bv}
	}
	return out
}

func encodePath(bv BitVector, n uint64) {
	for shift := 0; n>>uint(shift) > 0; shift++ {
		bv.Set(bv.Len()-1-shift, n>>uint(shift)%2 == 1)
	}
}
