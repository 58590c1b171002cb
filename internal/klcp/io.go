package klcp

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/clade-bio/kmerscan/internal/bitvec"
	"lukechampine.com/blake3"
)

// FileName returns the on-disk KLCP file name for the given FM-index
// prefix and k-mer length: "<prefix>.<K>.bit.klcp".
func FileName(prefix string, k int) string {
	return fmt.Sprintf("%s.%d.bit.klcp", prefix, k)
}

// Save writes kl to its canonical file under prefix. A trailing blake3
// checksum of the header+bit vector lets Load detect silent corruption,
// the same role poly's seqhash content hashes play for its own file
// formats.
func (kl Klcp) Save(prefix string) error {
	path := FileName(prefix, kl.k)

	var body bytes.Buffer
	if err := binary.Write(&body, binary.LittleEndian, uint64(kl.seqLen)); err != nil {
		return err
	}
	if err := binary.Write(&body, binary.LittleEndian, uint32(kl.k)); err != nil {
		return err
	}
	bits := make([]byte, (kl.seqLen+1+7)/8)
	for i := 0; i <= kl.seqLen; i++ {
		if kl.b.Access(i) {
			bits[i/8] |= 1 << uint(7-i%8)
		}
	}
	body.Write(bits)

	sum := blake3.Sum256(body.Bytes())
	if err := os.WriteFile(path, append(body.Bytes(), sum[:]...), 0o644); err != nil {
		return fmt.Errorf("klcp: write %s: %w", path, err)
	}
	return nil
}

// Load reads a KLCP structure written by Save, verifying it was built for
// wantK against a reference of length wantSeqLen.
func Load(prefix string, wantSeqLen, wantK int) (Klcp, error) {
	path := FileName(prefix, wantK)
	raw, err := os.ReadFile(path)
	if err != nil {
		return Klcp{}, fmt.Errorf("klcp: open %s: %w", path, err)
	}

	const footerLen = 32
	if len(raw) < 8+4+footerLen {
		return Klcp{}, fmt.Errorf("klcp: %s is truncated", path)
	}
	body, footer := raw[:len(raw)-footerLen], raw[len(raw)-footerLen:]

	sum := blake3.Sum256(body)
	for i := range footer {
		if footer[i] != sum[i] {
			return Klcp{}, fmt.Errorf("klcp: %s failed checksum verification", path)
		}
	}

	seqLen := int(binary.LittleEndian.Uint64(body[0:8]))
	k := int(binary.LittleEndian.Uint32(body[8:12]))
	if seqLen != wantSeqLen || k != wantK {
		return Klcp{}, fmt.Errorf("klcp: %s was built for (seq_len=%d, k=%d), want (seq_len=%d, k=%d)", path, seqLen, k, wantSeqLen, wantK)
	}

	bits := body[12:]
	if len(bits) != (seqLen+1+7)/8 {
		return Klcp{}, fmt.Errorf("klcp: %s has a bit vector of the wrong length", path)
	}
	b := bitvec.FromBytes(bits, seqLen+1)
	return New(k, seqLen, b), nil
}

// PathExists reports whether the canonical KLCP file for prefix/k exists.
func PathExists(prefix string, k int) bool {
	_, err := os.Stat(FileName(prefix, k))
	return err == nil
}
