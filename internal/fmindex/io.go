package fmindex

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/clade-bio/kmerscan/internal/bitvec"
	"github.com/koeng101/svb"
	"lukechampine.com/blake3"
)

const fmiMagic = "FMI1"
const fmiChecksumLen = 32

// Save writes the index to <prefix>.fmi, followed by a trailing blake3
// checksum of the header+body (the same corruption check
// internal/klcp's own file format uses). SA samples are compressed with
// StreamVByte (the same integer-array compression poly's bio/slow5 package
// uses for raw nanopore signal), since the sampled array is a sequence of
// small non-negative integers, the kind svb is built for.
func (idx *Index) Save(prefix string) error {
	var body bytes.Buffer
	if err := idx.writeBody(&body); err != nil {
		return err
	}
	sum := blake3.Sum256(body.Bytes())

	f, err := os.Create(prefix + ".fmi")
	if err != nil {
		return fmt.Errorf("fmindex: create %s.fmi: %w", prefix, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := w.Write(body.Bytes()); err != nil {
		return err
	}
	if _, err := w.Write(sum[:]); err != nil {
		return err
	}
	return w.Flush()
}

func (idx *Index) writeBody(w io.Writer) error {
	if _, err := io.WriteString(w, fmiMagic); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(idx.seqLen)); err != nil {
		return err
	}
	for _, c := range idx.l2 {
		if err := binary.Write(w, binary.LittleEndian, uint64(c)); err != nil {
			return err
		}
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(idx.sampleRate)); err != nil {
		return err
	}

	bwtBytes := make([]byte, idx.seqLen+1)
	for i := range bwtBytes {
		bwtBytes[i] = idx.bwt.Access(i)
	}
	if _, err := w.Write(bwtBytes); err != nil {
		return err
	}

	markBytes := marksBitVector(idx.marked, idx.seqLen+1).Bytes()
	if _, err := w.Write(markBytes); err != nil {
		return err
	}

	sampledU32 := make([]uint32, len(idx.sampled))
	for i, v := range idx.sampled {
		sampledU32[i] = uint32(v)
	}
	mask, data := svb.Uint32Encode(sampledU32)
	if err := binary.Write(w, binary.LittleEndian, uint64(len(idx.sampled))); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(len(mask))); err != nil {
		return err
	}
	if _, err := w.Write(mask); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(len(data))); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	return nil
}

// Load reads an Index previously written by Save, verifying its trailing
// blake3 checksum before parsing the body.
func Load(prefix string) (*Index, error) {
	path := prefix + ".fmi"
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fmindex: open %s: %w", path, err)
	}
	if len(raw) < len(fmiMagic)+fmiChecksumLen {
		return nil, fmt.Errorf("fmindex: %s is truncated", path)
	}
	body, footer := raw[:len(raw)-fmiChecksumLen], raw[len(raw)-fmiChecksumLen:]
	sum := blake3.Sum256(body)
	for i := range footer {
		if footer[i] != sum[i] {
			return nil, fmt.Errorf("fmindex: %s failed checksum verification", path)
		}
	}

	r := bufio.NewReader(bytes.NewReader(body))
	magic := make([]byte, len(fmiMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("fmindex: read magic: %w", err)
	}
	if string(magic) != fmiMagic {
		return nil, fmt.Errorf("fmindex: %s.fmi has bad magic %q", prefix, magic)
	}

	var seqLen uint64
	if err := binary.Read(r, binary.LittleEndian, &seqLen); err != nil {
		return nil, fmt.Errorf("fmindex: read seq_len: %w", err)
	}
	var l2 [4]int
	for i := range l2 {
		var v uint64
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return nil, fmt.Errorf("fmindex: read L2[%d]: %w", i, err)
		}
		l2[i] = int(v)
	}
	var sampleRate uint32
	if err := binary.Read(r, binary.LittleEndian, &sampleRate); err != nil {
		return nil, fmt.Errorf("fmindex: read sample rate: %w", err)
	}

	bwtBytes := make([]byte, seqLen+1)
	if _, err := io.ReadFull(r, bwtBytes); err != nil {
		return nil, fmt.Errorf("fmindex: read bwt: %w", err)
	}
	if err := validateInternalAlphabet(bwtBytes); err != nil {
		return nil, err
	}

	markBytes := make([]byte, (seqLen+1+7)/8)
	if _, err := io.ReadFull(r, markBytes); err != nil {
		return nil, fmt.Errorf("fmindex: read sample marks: %w", err)
	}

	var nSampled, maskLen, dataLen uint64
	if err := binary.Read(r, binary.LittleEndian, &nSampled); err != nil {
		return nil, fmt.Errorf("fmindex: read sample count: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &maskLen); err != nil {
		return nil, fmt.Errorf("fmindex: read sample mask length: %w", err)
	}
	mask := make([]byte, maskLen)
	if _, err := io.ReadFull(r, mask); err != nil {
		return nil, fmt.Errorf("fmindex: read sample mask: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &dataLen); err != nil {
		return nil, fmt.Errorf("fmindex: read sample data length: %w", err)
	}
	data := make([]byte, dataLen)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("fmindex: read sample data: %w", err)
	}

	sampledU32 := make([]uint32, nSampled)
	svb.Uint32Decode32(mask, data, sampledU32)
	sampled := make([]int, nSampled)
	for i, v := range sampledU32 {
		sampled[i] = int(v)
	}

	wt, err := bitvec.NewWaveletTree(bwtBytes)
	if err != nil {
		return nil, fmt.Errorf("fmindex: rebuild occurrence table: %w", err)
	}

	marked := bitvec.NewRSA(bitvec.FromBytes(markBytes, int(seqLen+1)))

	return &Index{
		seqLen:     int(seqLen),
		l2:         l2,
		bwt:        wt,
		sampleRate: int(sampleRate),
		marked:     marked,
		sampled:    sampled,
	}, nil
}

func marksBitVector(marked bitvec.RSA, n int) bitvec.BitVector {
	bv := bitvec.New(n)
	for i := 0; i < n; i++ {
		if marked.Access(i) {
			bv.Set(i, true)
		}
	}
	return bv
}
