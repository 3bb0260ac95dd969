// Package fasta reads the sequences to simulate from FASTA or FASTQ
// files, optionally gzipped. The file name "-" is the standard input.
package fasta

import (
	"fmt"
	"io"

	"github.com/avilella/simNGS/oligo"
	"github.com/shenwei356/bio/seqio/fastx"
)

// Reads all the sequences of the file. Sequences with symbols other than
// A, C, G and T are skipped if ignoreBad is true, otherwise they are an
// error.
func Read(fname string, ignoreBad bool) ([]*oligo.Sequence, error) {
	var seqs []*oligo.Sequence

	err := Parse(fname, func(name string, sequence []byte) error {
		s, err := oligo.FromBytes(name, sequence)
		if err != nil {
			if ignoreBad {
				// skip
				return nil
			}

			return err
		}

		seqs = append(seqs, s)
		return nil
	})

	return seqs, err
}

// Calls process for every record of the file, in order. The sequence
// slice is only valid until process returns.
func Parse(fname string, process func(name string, sequence []byte) error) error {
	r, err := fastx.NewDefaultReader(fname)
	if err != nil {
		return err
	}
	defer r.Close()

	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return fmt.Errorf("%s: %v", fname, err)
		}

		if err := process(string(rec.ID), rec.Seq.Seq); err != nil {
			return err
		}
	}

	return nil
}
