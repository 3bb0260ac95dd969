package sim

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/avilella/simNGS/matrix"
	"github.com/golang/snappy"
)

type output struct {
	w	*bufio.Writer
	cs	[]io.Closer	// closed in reverse order
}

func (o *output) Write(p []byte) (int, error) {
	return o.w.Write(p)
}

func (o *output) Close() (err error) {
	err = o.w.Flush()
	for i := len(o.cs) - 1; i >= 0; i-- {
		if cerr := o.cs[i].Close(); err == nil {
			err = cerr
		}
	}
	o.cs = nil

	return
}

// Creates an output file. Files ending with .gz are gzipped, files ending
// with .sz are snappy compressed. The file name "-" is the standard
// output, which isn't closed by Close.
func CreateOutput(fname string) (io.WriteCloser, error) {
	o := new(output)

	var w io.Writer
	if fname == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(fname)
		if err != nil {
			return nil, err
		}

		w = f
		o.cs = append(o.cs, f)
	}

	switch {
	case strings.HasSuffix(fname, ".gz"):
		zw := gzip.NewWriter(w)
		o.cs = append(o.cs, zw)
		w = zw

	case strings.HasSuffix(fname, ".sz"):
		sw := snappy.NewBufferedWriter(w)
		o.cs = append(o.cs, sw)
		w = sw
	}

	o.w = bufio.NewWriter(w)
	return o, nil
}

// Appends the record header: lane, tile and cluster coordinates
func appendHeader(b []byte, lane, tile, x, y uint32) []byte {
	b = strconv.AppendUint(b, uint64(lane), 10)
	b = append(b, '\t')
	b = strconv.AppendUint(b, uint64(tile), 10)
	b = append(b, '\t')
	b = strconv.AppendUint(b, uint64(x), 10)
	b = append(b, '\t')
	b = strconv.AppendUint(b, uint64(y), 10)
	return b
}

// Appends every element of m, cycle by cycle, each preceded by a tab
func appendValues(b []byte, m *matrix.Matrix) []byte {
	for _, v := range m.Data() {
		b = append(b, '\t')
		b = strconv.AppendFloat(b, v, 'f', 6, 64)
	}

	return b
}
