package reference

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

const bnsMagic = "BNS1"

// Save writes the layout to <prefix>.bns. Integers are little-endian, the
// same convention used by the KLCP and FM-index files.
func (l *Layout) Save(prefix string) error {
	f, err := os.Create(prefix + ".bns")
	if err != nil {
		return fmt.Errorf("reference: create %s.bns: %w", prefix, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := w.WriteString(bnsMagic); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(l.seqLen)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(len(l.entries))); err != nil {
		return err
	}
	for _, e := range l.entries {
		if err := binary.Write(w, binary.LittleEndian, uint32(len(e.Name))); err != nil {
			return err
		}
		if _, err := w.WriteString(e.Name); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint64(e.Offset)); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint64(e.Length)); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Load reads a Layout previously written by Save.
func Load(prefix string) (*Layout, error) {
	f, err := os.Open(prefix + ".bns")
	if err != nil {
		return nil, fmt.Errorf("reference: open %s.bns: %w", prefix, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	magic := make([]byte, len(bnsMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("reference: read magic: %w", err)
	}
	if string(magic) != bnsMagic {
		return nil, fmt.Errorf("reference: %s.bns has bad magic %q", prefix, magic)
	}

	var seqLen, nSeqs uint64
	if err := binary.Read(r, binary.LittleEndian, &seqLen); err != nil {
		return nil, fmt.Errorf("reference: read seq_len: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &nSeqs); err != nil {
		return nil, fmt.Errorf("reference: read n_seqs: %w", err)
	}

	entries := make([]Entry, nSeqs)
	for i := range entries {
		var nameLen uint32
		if err := binary.Read(r, binary.LittleEndian, &nameLen); err != nil {
			return nil, fmt.Errorf("reference: read name length for entry %d: %w", i, err)
		}
		name := make([]byte, nameLen)
		if _, err := io.ReadFull(r, name); err != nil {
			return nil, fmt.Errorf("reference: read name for entry %d: %w", i, err)
		}
		var offset, length uint64
		if err := binary.Read(r, binary.LittleEndian, &offset); err != nil {
			return nil, fmt.Errorf("reference: read offset for entry %d: %w", i, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
			return nil, fmt.Errorf("reference: read length for entry %d: %w", i, err)
		}
		entries[i] = Entry{Name: string(name), Offset: int(offset), Length: int(length)}
	}

	return New(entries, int(seqLen))
}
