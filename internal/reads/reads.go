/*
Package reads adapts poly's bio/fasta and bio/fastq parsers into a producer
of seqcode-encoded reads, the default implementation of the read-producer
contract: a source of decoded reads, each a byte array over {0..4} with
4 meaning N. Callers needing another format (BAM, say) can write their own
producer; the driver only depends on the kmer.Read type, not on this
package.
*/
package reads

import (
	"errors"
	"fmt"
	"io"

	"github.com/clade-bio/kmerscan/bio/fasta"
	"github.com/clade-bio/kmerscan/bio/fastq"
	"github.com/clade-bio/kmerscan/internal/seqcode"
	"github.com/clade-bio/kmerscan/kmer"
)

// Format selects which underlying parser a Producer wraps.
type Format int

const (
	FASTA Format = iota
	FASTQ
)

// maxLineSize mirrors the 2x32KB default poly's own Parse wrappers use.
const maxLineSize = 2 * 32 * 1024

// Producer yields a stream of kmer.Read values decoded from a FASTA or
// FASTQ source.
type Producer struct {
	format Format
	fastaP *fasta.Parser
	fastqP *fastq.Parser
}

// NewProducer wraps r, parsed according to format.
func NewProducer(r io.Reader, format Format) *Producer {
	p := &Producer{format: format}
	switch format {
	case FASTA:
		p.fastaP = fasta.NewParser(r, maxLineSize)
	case FASTQ:
		p.fastqP = fastq.NewParser(r, maxLineSize)
	}
	return p
}

// Next returns the next read, or io.EOF when the source is exhausted.
func (p *Producer) Next() (kmer.Read, error) {
	switch p.format {
	case FASTA:
		rec, err := p.fastaP.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return kmer.Read{}, io.EOF
			}
			return kmer.Read{}, fmt.Errorf("reads: parse fasta record: %w", err)
		}
		return kmer.Read{Name: rec.Identifier, Bases: seqcode.EncodeString(rec.Sequence)}, nil
	case FASTQ:
		rec, _, err := p.fastqP.ParseNext()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return kmer.Read{}, fmt.Errorf("reads: parse fastq record: %w", err)
			}
			// A final record without a trailing newline arrives together
			// with io.EOF; only an empty record marks the end of input.
			if rec.Sequence == "" {
				return kmer.Read{}, io.EOF
			}
		}
		return kmer.Read{Name: rec.Identifier, Bases: seqcode.EncodeString(rec.Sequence)}, nil
	default:
		return kmer.Read{}, fmt.Errorf("reads: unknown format %d", p.format)
	}
}

// All drains the producer into a slice, mainly useful for small inputs and
// tests; streaming callers should use Next in a loop instead.
func All(p *Producer) ([]kmer.Read, error) {
	var out []kmer.Read
	for {
		r, err := p.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, err
		}
		out = append(out, r)
	}
}
