// Package csv reads plain sequence lists: one sequence per line,
// optionally followed by a comma (or space) and the sequence name.
// Gzipped files are detected automatically.
package csv

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/avilella/simNGS/oligo"
)

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

// Calls process for every line of the file. Lines without a name get
// their line number as name. The file name "-" is the standard input.
func Parse(fname string, process func(name string, sequence []byte) error) error {
	var r io.Reader

	if fname == "-" {
		r = bufio.NewReader(os.Stdin)
	} else {
		f, err := os.Open(fname)
		if err != nil {
			return err
		}
		defer f.Close()

		if cf, err := gzip.NewReader(f); err == nil {
			r = cf
		} else {
			f.Seek(0, 0)
			r = f
		}
	}

	return parse(r, process)
}

func parse(r io.Reader, process func(name string, sequence []byte) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for lnum := 1; sc.Scan(); lnum++ {
		l := strings.TrimSpace(sc.Text())
		if l == "" {
			continue
		}

		ls := strings.Split(l, ",")
		if len(ls) == 1 {
			ls = strings.Fields(l)
		}

		seq := strings.TrimSpace(ls[0])
		name := fmt.Sprintf("L%d", lnum)
		if len(ls) > 1 {
			name = strings.TrimSpace(ls[1])
		}

		if err := process(name, []byte(seq)); err != nil {
			return err
		}
	}

	return sc.Err()
}
