package fmindex

import (
	"encoding/binary"
	"fmt"
	"os"
)

const pacMagic = "PAC1"

// SavePac writes the raw 2-bit-packed reference text to <prefix>.pac,
// alongside the FM-index proper. Tools that only need backward_search and
// sa2pos never touch this file; it exists so a one-shot KLCP build can
// recover the reference bytes without re-parsing the original FASTA, the
// same role the .pac file plays next to a BWA index.
func SavePac(refText []byte, prefix string) error {
	packed := make([]byte, (len(refText)+3)/4)
	for i, b := range refText {
		packed[i/4] |= b << uint(6-2*(i%4))
	}

	out := make([]byte, 0, len(pacMagic)+8+len(packed))
	out = append(out, pacMagic...)
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(refText)))
	out = append(out, lenBuf[:]...)
	out = append(out, packed...)

	if err := os.WriteFile(prefix+".pac", out, 0o644); err != nil {
		return fmt.Errorf("fmindex: write %s.pac: %w", prefix, err)
	}
	return nil
}

// LoadPac reads a reference text previously written by SavePac.
func LoadPac(prefix string) ([]byte, error) {
	raw, err := os.ReadFile(prefix + ".pac")
	if err != nil {
		return nil, fmt.Errorf("fmindex: open %s.pac: %w", prefix, err)
	}
	if len(raw) < len(pacMagic)+8 {
		return nil, fmt.Errorf("fmindex: %s.pac is truncated", prefix)
	}
	if string(raw[:len(pacMagic)]) != pacMagic {
		return nil, fmt.Errorf("fmindex: %s.pac has bad magic %q", prefix, raw[:len(pacMagic)])
	}
	seqLen := binary.LittleEndian.Uint64(raw[len(pacMagic) : len(pacMagic)+8])
	packed := raw[len(pacMagic)+8:]

	refText := make([]byte, seqLen)
	for i := range refText {
		refText[i] = (packed[i/4] >> uint(6-2*(i%4))) & 0x3
	}
	return refText, nil
}
