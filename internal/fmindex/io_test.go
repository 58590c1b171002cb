package fmindex

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	encoded := encode("ACGTACGTACGTACGTACGT")
	idx, err := Build(encoded, 4)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	prefix := filepath.Join(t.TempDir(), "ref")
	if err := idx.Save(prefix); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(prefix)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.SeqLen() != idx.SeqLen() {
		t.Fatalf("SeqLen() = %d, want %d", loaded.SeqLen(), idx.SeqLen())
	}
	for k := 1; k <= 3; k++ {
		for start := 0; start+k <= len(encoded); start++ {
			pattern := encoded[start : start+k]
			want, _ := idx.BackwardSearch(pattern, idx.ColdInterval())
			got, _ := loaded.BackwardSearch(pattern, loaded.ColdInterval())
			if got != want {
				t.Fatalf("pattern %v: loaded interval %+v, want %+v", pattern, got, want)
			}
		}
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	dir := t.TempDir()
	prefix := filepath.Join(dir, "bogus")
	if _, err := Load(prefix); err == nil {
		t.Errorf("Load of a nonexistent index should fail")
	}
}

// TestLoadRejectsCorruption flips a byte in the middle of a saved index
// file and confirms the trailing blake3 checksum catches it.
func TestLoadRejectsCorruption(t *testing.T) {
	idx, err := Build(encode("ACGTACGTACGTACGTACGT"), 4)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	prefix := filepath.Join(t.TempDir(), "ref")
	if err := idx.Save(prefix); err != nil {
		t.Fatalf("Save: %v", err)
	}
	raw, err := os.ReadFile(prefix + ".fmi")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	raw[len(raw)/2] ^= 0xFF
	if err := os.WriteFile(prefix+".fmi", raw, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(prefix); err == nil {
		t.Errorf("Load of a corrupted index should fail checksum verification")
	}
}
