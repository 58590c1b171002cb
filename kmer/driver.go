/*
Package kmer implements the streaming k-mer driver: given reads already
decoded into the seqcode alphabet, it slides a fixed-length window across
each read, resolves the window's SA interval to a set of reference ids via
cold backward search or KLCP-accelerated warm continue, and writes one
output line per window.

This is the glue poly's cmd/poly commands keep thin: the driver owns no
I/O beyond an io.Writer, following the same "commands stay thin, logic
lives in a package" split poly/main.go uses for its own subcommands.
*/
package kmer

import (
	"fmt"
	"io"

	"github.com/clade-bio/kmerscan/internal/fmindex"
	"github.com/clade-bio/kmerscan/internal/klcp"
	"github.com/clade-bio/kmerscan/internal/resolver"
	"github.com/clade-bio/kmerscan/internal/seqcode"
)

// Read is a single decoded query sequence: bytes in the seqcode alphabet
// (A,C,G,T,N). The driver does not retain reads across calls to MatchRead;
// a caller's read producer can dispose of each Read once matched.
type Read struct {
	Name  string
	Bases []byte
}

// Options configures a Driver's matching behavior, mirroring the match
// subcommand's flags.
type Options struct {
	K int // k-mer length

	// Warm enables KLCP-accelerated warm continue between successive
	// windows. Requires a non-nil Klcp at NewDriver time.
	Warm bool

	// ShowIDs appends the resolved reference ids after the count on each
	// output line. When false, only the count is printed.
	ShowIDs bool

	// SkipAfterFailure enables the skip-after-failure heuristic.
	SkipAfterFailure bool

	// Header, when set, precedes each read's output with a "#<bases>"
	// line decoding the read back to nucleotide characters.
	Header bool
}

// Driver matches a stream of reads against a fixed FM-index, optionally
// accelerated by a KLCP sibling structure.
type Driver struct {
	idx  *fmindex.Index
	kl   *klcp.Klcp
	res  *resolver.Resolver
	opts Options
}

// NewDriver builds a Driver. kl may be nil only if opts.Warm is false.
func NewDriver(idx *fmindex.Index, kl *klcp.Klcp, res *resolver.Resolver, opts Options) (*Driver, error) {
	if opts.K <= 0 {
		return nil, fmt.Errorf("kmer: k-mer length must be positive, got %d", opts.K)
	}
	if opts.Warm && kl == nil {
		return nil, fmt.Errorf("kmer: warm continue requested but no KLCP structure was loaded")
	}
	if opts.Warm && kl.K() != opts.K {
		return nil, fmt.Errorf("kmer: loaded KLCP was built for k=%d, matching requested k=%d", kl.K(), opts.K)
	}
	return &Driver{idx: idx, kl: kl, res: res, opts: opts}, nil
}

// MatchRead slides a length-K window across read and writes one line per
// window to w, in window order. Reads shorter than K produce no output
// lines (and no header, since there are no windows to report).
func (d *Driver) MatchRead(w io.Writer, read Read) error {
	k := d.opts.K
	l := len(read.Bases)
	if l < k {
		return nil
	}
	if d.opts.Header {
		if _, err := fmt.Fprintf(w, "#%s\n", seqcode.DecodeString(read.Bases)); err != nil {
			return err
		}
	}

	var cur fmindex.Interval
	prevEmpty := true
	wasOne := false
	zeroStreak := 0

	p := 0
	for p <= l-k {
		var iv fmindex.Interval
		var matched, want int
		if p == 0 || prevEmpty || !d.opts.Warm {
			iv, matched = d.idx.BackwardSearch(read.Bases[p:p+k], d.idx.ColdInterval())
			want = k
		} else {
			start := fmindex.Interval{K: d.kl.DecreaseK(cur.K), L: d.kl.IncreaseL(cur.L)}
			iv, matched = d.idx.BackwardSearch(read.Bases[p+k-1:p+k], start)
			want = 1
		}
		// A search stopped by an N returns the interval of the partial
		// match before it; the window itself has no hit.
		if matched < want {
			iv = fmindex.Interval{K: 1, L: 0}
		}

		if err := d.emit(w, iv); err != nil {
			return err
		}
		cur = iv
		prevEmpty = iv.Empty()

		if iv.Empty() {
			if d.opts.SkipAfterFailure && wasOne && zeroStreak == 0 {
				extra := k - 2
				if remaining := (l - k) - p; extra > remaining {
					extra = remaining
				}
				for i := 0; i < extra; i++ {
					if err := d.emitEmpty(w); err != nil {
						return err
					}
				}
				if extra > 0 {
					p += extra
				}
			}
			zeroStreak++
		} else {
			wasOne = true
			zeroStreak = 0
		}
		p++
	}
	return nil
}

func (d *Driver) emit(w io.Writer, iv fmindex.Interval) error {
	ids := d.res.Resolve(iv, d.opts.K)
	if !d.opts.ShowIDs || len(ids) == 0 {
		_, err := fmt.Fprintln(w, len(ids))
		return err
	}
	if _, err := fmt.Fprint(w, len(ids)); err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := fmt.Fprintf(w, " %d", id); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

func (d *Driver) emitEmpty(w io.Writer) error {
	_, err := fmt.Fprintln(w, 0)
	return err
}
