package reference

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func twoChromosomeLayout(t *testing.T) *Layout {
	t.Helper()
	entries := []Entry{
		{Name: "chr1", Offset: 0, Length: 4},
		{Name: "chr2", Offset: 4, Length: 4},
	}
	l, err := New(entries, 8)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return l
}

func TestPos2Rid(t *testing.T) {
	l := twoChromosomeLayout(t)
	cases := []struct {
		pos  int
		want int
	}{
		{0, 0}, {3, 0}, {4, 1}, {7, 1}, {-1, -1}, {8, -1},
	}
	for _, c := range cases {
		if got := l.Pos2Rid(c.pos); got != c.want {
			t.Errorf("Pos2Rid(%d) = %d, want %d", c.pos, got, c.want)
		}
	}
}

func TestSpansBoundary(t *testing.T) {
	l := twoChromosomeLayout(t)
	cases := []struct {
		pos, matchLen int
		want          bool
	}{
		{0, 4, false},  // fits entirely within chr1
		{1, 4, true},   // runs into chr2
		{3, 1, false},  // last base of chr1
		{3, 2, true},   // spans chr1/chr2 boundary
		{4, 4, false},  // fits entirely within chr2
	}
	for _, c := range cases {
		if got := l.SpansBoundary(c.pos, c.matchLen); got != c.want {
			t.Errorf("SpansBoundary(%d, %d) = %v, want %v", c.pos, c.matchLen, got, c.want)
		}
	}
}

func TestNewRejectsOverlappingEntries(t *testing.T) {
	entries := []Entry{
		{Name: "a", Offset: 0, Length: 5},
		{Name: "b", Offset: 3, Length: 5},
	}
	if _, err := New(entries, 8); err == nil {
		t.Errorf("expected an error for overlapping entries")
	}
}

// TestSaveLoadRoundTrip checks that a Layout written to disk and reloaded
// describes exactly the same reference entries, the same way the
// teacher's own commands_test.go uses cmp.Diff to confirm a pipeline's
// output matches its input after a round trip.
func TestSaveLoadRoundTrip(t *testing.T) {
	entries := []Entry{
		{Name: "chr1", Offset: 0, Length: 4},
		{Name: "chr2", Offset: 4, Length: 4},
	}
	l, err := New(entries, 8)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	prefix := filepath.Join(t.TempDir(), "ref")
	if err := l.Save(prefix); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(prefix)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(entries, loaded.Entries()); diff != "" {
		t.Errorf("Load produced a different layout than was saved (-want +got):\n%s", diff)
	}
	if loaded.SeqLen() != l.SeqLen() {
		t.Errorf("SeqLen() = %d, want %d", loaded.SeqLen(), l.SeqLen())
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Errorf("Load of a missing file should fail")
	}
}

func TestNSeqsAndName(t *testing.T) {
	l := twoChromosomeLayout(t)
	if l.NSeqs() != 2 {
		t.Errorf("NSeqs() = %d, want 2", l.NSeqs())
	}
	if l.Name(1) != "chr2" {
		t.Errorf("Name(1) = %q, want chr2", l.Name(1))
	}
}
