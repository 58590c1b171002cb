package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/clade-bio/kmerscan/internal/fmindex"
	"github.com/clade-bio/kmerscan/internal/klcp"
	"github.com/clade-bio/kmerscan/internal/reads"
	"github.com/clade-bio/kmerscan/internal/reference"
	"github.com/clade-bio/kmerscan/internal/resolver"
	"github.com/clade-bio/kmerscan/kmer"
)

func indexCommand() *cli.Command {
	return &cli.Command{
		Name:      "index",
		Usage:     "Build the KLCP sibling structure for a pre-existing FM-index.",
		ArgsUsage: "<prefix>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:     "k",
				Usage:    "k-mer length to build the KLCP for.",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			prefix := c.Args().First()
			if prefix == "" {
				return fmt.Errorf("kmerscan: index requires a <prefix> argument")
			}
			k := c.Int("k")

			idx, err := fmindex.Load(prefix)
			if err != nil {
				return fmt.Errorf("kmerscan: loading FM-index: %w", err)
			}
			refText, err := fmindex.LoadPac(prefix)
			if err != nil {
				return fmt.Errorf("kmerscan: loading reference text: %w", err)
			}
			kl, err := klcp.Build(idx, refText, k)
			if err != nil {
				return fmt.Errorf("kmerscan: building KLCP: %w", err)
			}
			if err := kl.Save(prefix); err != nil {
				return fmt.Errorf("kmerscan: saving KLCP: %w", err)
			}
			return nil
		},
	}
}

func matchCommand() *cli.Command {
	return &cli.Command{
		Name:      "match",
		Usage:     "Stream reads against an FM-indexed reference, emitting per-k-mer hit sets.",
		ArgsUsage: "<prefix> <reads>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:     "k",
				Usage:    "k-mer length.",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "u",
				Usage: "Use the KLCP warm-continue acceleration (requires a prior index -k run).",
			},
			&cli.BoolFlag{
				Name:  "v",
				Usage: "Verbose: print the resolved reference ids and a read header line.",
			},
			&cli.BoolFlag{
				Name:  "s",
				Usage: "Enable the skip-after-failure heuristic.",
			},
			&cli.StringFlag{
				Name:  "f",
				Usage: "Write output to PATH instead of stdout.",
			},
			&cli.StringFlag{
				Name:  "t",
				Value: "fasta",
				Usage: "Input format of the reads file: fasta or fastq.",
			},
		},
		Action: func(c *cli.Context) error {
			prefix := c.Args().Get(0)
			readsPath := c.Args().Get(1)
			if prefix == "" || readsPath == "" {
				return fmt.Errorf("kmerscan: match requires <prefix> and <reads> arguments")
			}
			k := c.Int("k")

			idx, err := fmindex.Load(prefix)
			if err != nil {
				return fmt.Errorf("kmerscan: loading FM-index: %w", err)
			}
			layout, err := reference.Load(prefix)
			if err != nil {
				return fmt.Errorf("kmerscan: loading reference layout: %w", err)
			}

			var kl *klcp.Klcp
			if c.Bool("u") {
				loaded, err := klcp.Load(prefix, idx.SeqLen(), k)
				if err != nil {
					return fmt.Errorf("kmerscan: loading KLCP: %w", err)
				}
				kl = &loaded
			}

			res := resolver.New(idx, layout)
			driver, err := kmer.NewDriver(idx, kl, res, kmer.Options{
				K:                k,
				Warm:             c.Bool("u"),
				ShowIDs:          c.Bool("v"),
				SkipAfterFailure: c.Bool("s"),
				Header:           c.Bool("v"),
			})
			if err != nil {
				return fmt.Errorf("kmerscan: %w", err)
			}

			var format reads.Format
			switch c.String("t") {
			case "fasta":
				format = reads.FASTA
			case "fastq":
				format = reads.FASTQ
			default:
				return fmt.Errorf("kmerscan: unknown input format %q", c.String("t"))
			}

			in, err := os.Open(readsPath)
			if err != nil {
				return fmt.Errorf("kmerscan: opening reads file: %w", err)
			}
			defer in.Close()

			out := os.Stdout
			if path := c.String("f"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("kmerscan: opening output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			producer := reads.NewProducer(in, format)
			for {
				read, err := producer.Next()
				if err != nil {
					if errors.Is(err, io.EOF) {
						break
					}
					return fmt.Errorf("kmerscan: reading input: %w", err)
				}
				if err := driver.MatchRead(out, read); err != nil {
					return fmt.Errorf("kmerscan: matching read %q: %w", read.Name, err)
				}
			}
			return nil
		},
	}
}
