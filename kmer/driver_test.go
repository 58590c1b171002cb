package kmer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/clade-bio/kmerscan/internal/fmindex"
	"github.com/clade-bio/kmerscan/internal/klcp"
	"github.com/clade-bio/kmerscan/internal/reference"
	"github.com/clade-bio/kmerscan/internal/resolver"
	"github.com/clade-bio/kmerscan/internal/seqcode"
)

func encode(s string) []byte {
	return seqcode.EncodeString(s)
}

type testFixture struct {
	idx    *fmindex.Index
	kl     klcp.Klcp
	layout *reference.Layout
}

func buildFixture(t *testing.T, k int) testFixture {
	t.Helper()
	text := encode("ACGTACGTACGTACGTACGT")
	idx, err := fmindex.Build(text, 4)
	if err != nil {
		t.Fatalf("fmindex.Build: %v", err)
	}
	kl, err := klcp.Build(idx, text, k)
	if err != nil {
		t.Fatalf("klcp.Build: %v", err)
	}
	layout, err := reference.New([]reference.Entry{{Name: "ref", Offset: 0, Length: len(text)}}, len(text))
	if err != nil {
		t.Fatalf("reference.New: %v", err)
	}
	return testFixture{idx: idx, kl: kl, layout: layout}
}

func TestMatchReadColdCountsPerWindow(t *testing.T) {
	k := 4
	fx := buildFixture(t, k)
	d, err := NewDriver(fx.idx, nil, resolver.New(fx.idx, fx.layout), Options{K: k})
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}
	var buf bytes.Buffer
	read := Read{Name: "r1", Bases: encode("ACGTACGT")}
	if err := d.MatchRead(&buf, read); err != nil {
		t.Fatalf("MatchRead: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	wantWindows := len(read.Bases) - k + 1
	if len(lines) != wantWindows {
		t.Fatalf("got %d lines, want %d", len(lines), wantWindows)
	}
	for _, line := range lines {
		if line == "0" {
			t.Errorf("expected a nonzero match count for a window drawn from the reference, got %q", line)
		}
	}
}

func TestMatchReadWarmMatchesCold(t *testing.T) {
	k := 4
	fx := buildFixture(t, k)
	coldDriver, err := NewDriver(fx.idx, nil, resolver.New(fx.idx, fx.layout), Options{K: k, ShowIDs: true})
	if err != nil {
		t.Fatalf("NewDriver (cold): %v", err)
	}
	warmDriver, err := NewDriver(fx.idx, &fx.kl, resolver.New(fx.idx, fx.layout), Options{K: k, Warm: true, ShowIDs: true})
	if err != nil {
		t.Fatalf("NewDriver (warm): %v", err)
	}

	read := Read{Name: "r1", Bases: encode("ACGTACGTACGTACGT")}
	var coldBuf, warmBuf bytes.Buffer
	if err := coldDriver.MatchRead(&coldBuf, read); err != nil {
		t.Fatalf("cold MatchRead: %v", err)
	}
	if err := warmDriver.MatchRead(&warmBuf, read); err != nil {
		t.Fatalf("warm MatchRead: %v", err)
	}
	if coldBuf.String() != warmBuf.String() {
		t.Errorf("warm continue output differs from cold search:\ncold: %q\nwarm: %q", coldBuf.String(), warmBuf.String())
	}
}

func TestMatchReadShortReadProducesNoOutput(t *testing.T) {
	k := 8
	fx := buildFixture(t, k)
	d, err := NewDriver(fx.idx, nil, resolver.New(fx.idx, fx.layout), Options{K: k})
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}
	var buf bytes.Buffer
	read := Read{Name: "short", Bases: encode("ACG")}
	if err := d.MatchRead(&buf, read); err != nil {
		t.Fatalf("MatchRead: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output for a read shorter than k, got %q", buf.String())
	}
}

func TestMatchReadHeaderLine(t *testing.T) {
	k := 4
	fx := buildFixture(t, k)
	d, err := NewDriver(fx.idx, nil, resolver.New(fx.idx, fx.layout), Options{K: k, Header: true})
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}
	var buf bytes.Buffer
	read := Read{Name: "r1", Bases: encode("ACGTACGT")}
	if err := d.MatchRead(&buf, read); err != nil {
		t.Fatalf("MatchRead: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if lines[0] != "#ACGTACGT" {
		t.Errorf("first line = %q, want %q", lines[0], "#ACGTACGT")
	}
}

func TestMatchReadShowIDsAppendsIDs(t *testing.T) {
	k := 4
	fx := buildFixture(t, k)
	d, err := NewDriver(fx.idx, nil, resolver.New(fx.idx, fx.layout), Options{K: k, ShowIDs: true})
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}
	var buf bytes.Buffer
	read := Read{Name: "r1", Bases: encode("ACGT")}
	if err := d.MatchRead(&buf, read); err != nil {
		t.Fatalf("MatchRead: %v", err)
	}
	line := strings.TrimRight(buf.String(), "\n")
	fields := strings.Fields(line)
	if len(fields) < 2 {
		t.Fatalf("expected a count followed by ids, got %q", line)
	}
	if fields[0] != "1" {
		t.Fatalf("expected exactly one distinct reference id, got count %q", fields[0])
	}
}

func TestNewDriverRejectsWarmWithoutKlcp(t *testing.T) {
	k := 4
	fx := buildFixture(t, k)
	if _, err := NewDriver(fx.idx, nil, resolver.New(fx.idx, fx.layout), Options{K: k, Warm: true}); err == nil {
		t.Errorf("expected an error requesting warm continue without a KLCP structure")
	}
}

func TestNewDriverRejectsMismatchedKlcpK(t *testing.T) {
	k := 4
	fx := buildFixture(t, k)
	if _, err := NewDriver(fx.idx, &fx.kl, resolver.New(fx.idx, fx.layout), Options{K: k + 1, Warm: true}); err == nil {
		t.Errorf("expected an error for a KLCP structure built with a different k")
	}
}
