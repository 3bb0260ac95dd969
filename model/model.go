// Package model holds the calibrated noise model of a sequencing run: for
// every cycle of every end of a read, the Cholesky factor of the 4x4
// covariance of the channel intensities and its inverse, plus the
// parameters of the cluster brightness distribution.
package model

import (
	"errors"
	"fmt"
	"io"

	"github.com/avilella/simNGS/matrix"
	"github.com/avilella/simNGS/oligo"
	"gonum.org/v1/gonum/mat"
)

// number of channels, one per nucleotide
const ChanNum = oligo.NtNum

var Emodel = errors.New("invalid model")

// Noise factors of one end of a read, one entry per cycle.
// The factors are symmetrized, their lower triangle holds the actual
// factor.
type End struct {
	Chol	[]*matrix.Matrix
	InvChol	[]*matrix.Matrix
}

type Model struct {
	NCycle	int
	Shape	float64		// brightness distribution (Weibull)
	Scale	float64
	Lane	uint32
	Tile	uint32
	Label	string

	// CRC-32 of the runfile the model was loaded from, 0 if not loaded
	Checksum	uint32

	// one end for single-ended runs, two for paired-end runs
	ends	[]*End
}

// Creates a new model from the noise factors of one (single-ended) or two
// (paired-end) ends.
func New(ncycle int, ends ...*End) (*Model, error) {
	if ncycle <= 0 {
		return nil, fmt.Errorf("%d cycles: %w", ncycle, Emodel)
	}

	if len(ends) != 1 && len(ends) != 2 {
		return nil, fmt.Errorf("%d ends: %w", len(ends), Emodel)
	}

	for i, e := range ends {
		if err := e.check(ncycle); err != nil {
			return nil, fmt.Errorf("end %d: %w", i+1, err)
		}
	}

	return &Model{NCycle: ncycle, ends: ends}, nil
}

func (e *End) check(ncycle int) error {
	if len(e.Chol) != ncycle || len(e.InvChol) != ncycle {
		return fmt.Errorf("%d/%d factors for %d cycles: %w", len(e.Chol), len(e.InvChol), ncycle, Emodel)
	}

	for i := 0; i < ncycle; i++ {
		for _, f := range []*matrix.Matrix{e.Chol[i], e.InvChol[i]} {
			if f == nil || f.Rows() != ChanNum || f.Cols() != ChanNum {
				return fmt.Errorf("cycle %d: factor is not %dx%d: %w", i+1, ChanNum, ChanNum, Emodel)
			}
		}
	}

	return nil
}

// Creates an independent copy of the factors
func (e *End) Copy() *End {
	c := &End{make([]*matrix.Matrix, len(e.Chol)), make([]*matrix.Matrix, len(e.InvChol))}
	for i, f := range e.Chol {
		c.Chol[i] = f.Copy()
	}

	for i, f := range e.InvChol {
		c.InvChol[i] = f.Copy()
	}

	return c
}

func (m *Model) Paired() bool {
	return len(m.ends) == 2
}

// Returns the factors of end 1 or 2, nil if the model doesn't have
// the end.
func (m *Model) End(e int) *End {
	if e < 1 || e > len(m.ends) {
		return nil
	}

	return m.ends[e-1]
}

// Returns a copy of the model with new ends, keeping the parameters
func (m *Model) with(ncycle int, ends ...*End) *Model {
	nm := *m
	nm.NCycle = ncycle
	nm.ends = ends
	return &nm
}

// Creates an independent copy of the model
func (m *Model) Copy() *Model {
	ends := make([]*End, len(m.ends))
	for i, e := range m.ends {
		ends[i] = e.Copy()
	}

	return m.with(m.NCycle, ends...)
}

// Returns a paired-end version of the model. For single-ended models the
// factors of end 1 are duplicated for end 2.
func (m *Model) AsPaired() *Model {
	if m.Paired() {
		return m.with(m.NCycle, m.ends[0].Copy(), m.ends[1].Copy())
	}

	return m.with(m.NCycle, m.ends[0].Copy(), m.ends[0].Copy())
}

// Returns a single-ended version of the model, end 2 is dropped.
func (m *Model) AsSingle() *Model {
	return m.with(m.NCycle, m.ends[0].Copy())
}

// Returns a copy of the model restricted to its first ncycle cycles
func (m *Model) Trim(ncycle int) (*Model, error) {
	if ncycle <= 0 || ncycle > m.NCycle {
		return nil, fmt.Errorf("trim %d cycles to %d: %w", m.NCycle, ncycle, Emodel)
	}

	ends := make([]*End, len(m.ends))
	for i, e := range m.ends {
		te := &End{e.Chol[0:ncycle], e.InvChol[0:ncycle]}
		ends[i] = te.Copy()
	}

	return m.with(ncycle, ends...), nil
}

// Prints a description of the model
func (m *Model) Describe(w io.Writer) {
	fmt.Fprintf(w, "Description:\n%s\n", m.Label)
	fmt.Fprintf(w, "ncycle\t%d\n", m.NCycle)
	fmt.Fprintf(w, "paired\t%v\n", m.Paired())
	fmt.Fprintf(w, "brightness\tshape %g\tscale %g\n", m.Shape, m.Scale)
	fmt.Fprintf(w, "lane\t%d\ttile\t%d\n", m.Lane, m.Tile)
	if m.Checksum != 0 {
		fmt.Fprintf(w, "checksum\t%08x\n", m.Checksum)
	}

	for i, e := range m.ends {
		// full factors, so print them without the mirrored upper triangle
		l := lowerDense(e.Chol[0])
		il := lowerDense(e.InvChol[0])
		fmt.Fprintf(w, "end %d cycle 1 cholesky:\n%v\n", i+1, mat.Formatted(l, mat.Prefix("  "), mat.Squeeze()))
		fmt.Fprintf(w, "end %d cycle 1 inverse cholesky:\n%v\n", i+1, mat.Formatted(il, mat.Prefix("  "), mat.Squeeze()))
	}
}

func lowerDense(f *matrix.Matrix) *mat.Dense {
	d := f.Dense()
	n, _ := d.Dims()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d.Set(i, j, 0)
		}
	}

	return d
}
