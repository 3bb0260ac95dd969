// Package matrix implements the dense matrices used by the simulator.
// Elements are stored in column-major order: element (row, col) is at
// index col*nrow + row of the element slice.
package matrix

import (
	"errors"
	"fmt"
	"math"
)

type Matrix struct {
	nrow	int
	ncol	int

	// elements, nil if nrow or ncol is zero
	x	[]float64
}

var Eshape = errors.New("invalid matrix shape")
var Esquare = errors.New("matrix is not square")
var Eindivisible = errors.New("dimension not divisible")
var Erange = errors.New("index out of range")
var Edim = errors.New("dimension mismatch")
var Enotpd = errors.New("matrix is not positive definite")
var Esingular = errors.New("matrix is singular")
var Eunsupported = errors.New("operation not supported")

// Creates a new zero-filled matrix.
// A matrix with no rows or no columns is valid but has no elements.
func New(nrow, ncol int) (*Matrix, error) {
	n, err := size(nrow, ncol)
	if err != nil {
		return nil, err
	}

	m := &Matrix{nrow: nrow, ncol: ncol}
	if n != 0 {
		m.x = make([]float64, n)
	}

	return m, nil
}

// number of elements of an nrow by ncol matrix
func size(nrow, ncol int) (int, error) {
	if nrow < 0 || ncol < 0 || (ncol != 0 && nrow > math.MaxInt/ncol) {
		return 0, fmt.Errorf("new %dx%d: %w", nrow, ncol, Eshape)
	}

	return nrow * ncol, nil
}

// for when the dimensions are known to be valid
func New1(nrow, ncol int) *Matrix {
	m, err := New(nrow, ncol)
	if err != nil {
		panic(err)
	}

	return m
}

// Creates a new matrix holding a copy of the column-major array x.
func FromArray(nrow, ncol int, x []float64) (*Matrix, error) {
	n, err := size(nrow, ncol)
	if err != nil {
		return nil, err
	}

	if len(x) != n {
		return nil, fmt.Errorf("from array %dx%d with %d elements: %w", nrow, ncol, len(x), Edim)
	}

	m := New1(nrow, ncol)
	copy(m.x, x)
	return m, nil
}

// Creates an n by n identity matrix
func Identity(n int) (*Matrix, error) {
	m, err := New(n, n)
	if err != nil {
		return nil, err
	}

	for i := 0; i < n; i++ {
		m.x[i*n+i] = 1
	}

	return m, nil
}

func (m *Matrix) Rows() int {
	return m.nrow
}

func (m *Matrix) Cols() int {
	return m.ncol
}

// Returns the element at (row, col). Panics if out of bounds, like
// indexing a slice does.
func (m *Matrix) At(row, col int) float64 {
	if row < 0 || row >= m.nrow || col < 0 || col >= m.ncol {
		panic(fmt.Sprintf("matrix: At(%d, %d) of %dx%d", row, col, m.nrow, m.ncol))
	}

	return m.x[col*m.nrow+row]
}

func (m *Matrix) Set(row, col int, v float64) {
	if row < 0 || row >= m.nrow || col < 0 || col >= m.ncol {
		panic(fmt.Sprintf("matrix: Set(%d, %d) of %dx%d", row, col, m.nrow, m.ncol))
	}

	m.x[col*m.nrow+row] = v
}

// Returns the column-major element slice. The slice is shared with the
// matrix.
func (m *Matrix) Data() []float64 {
	return m.x
}

// Returns the elements of column col. The slice is shared with the matrix.
func (m *Matrix) Col(col int) []float64 {
	if col < 0 || col >= m.ncol {
		panic(fmt.Sprintf("matrix: Col(%d) of %dx%d", col, m.nrow, m.ncol))
	}

	return m.x[col*m.nrow : (col+1)*m.nrow]
}

// Creates an independent copy of the matrix
func (m *Matrix) Copy() *Matrix {
	c := &Matrix{nrow: m.nrow, ncol: m.ncol}
	if m.x != nil {
		c.x = make([]float64, len(m.x))
		copy(c.x, m.x)
	}

	return c
}

// Copies the elements of m into dst, which must have the same shape.
func (m *Matrix) CopyInto(dst *Matrix) error {
	if dst.nrow != m.nrow || dst.ncol != m.ncol {
		return fmt.Errorf("copy %dx%d into %dx%d: %w", m.nrow, m.ncol, dst.nrow, dst.ncol, Edim)
	}

	copy(dst.x, m.x)
	return nil
}

func (m *Matrix) IsSquare() bool {
	return m.nrow == m.ncol
}

// Copies the lower triangle of a square matrix into its upper triangle.
func (m *Matrix) Symmetrize() (*Matrix, error) {
	if !m.IsSquare() {
		return nil, fmt.Errorf("symmetrize %dx%d: %w", m.nrow, m.ncol, Esquare)
	}

	n := m.ncol
	for col := 0; col < n; col++ {
		for row := col + 1; row < n; row++ {
			m.x[row*n+col] = m.x[col*n+row]
		}
	}

	return m, nil
}

// Changes the number of rows to nrow, keeping the elements in the same
// column-major order. The number of elements must be divisible by nrow.
func (m *Matrix) Reshape(nrow int) (*Matrix, error) {
	if nrow <= 0 {
		return nil, fmt.Errorf("reshape to %d rows: %w", nrow, Eshape)
	}

	nelt := m.nrow * m.ncol
	if nelt%nrow != 0 {
		return nil, fmt.Errorf("reshape %dx%d to %d rows: %w", m.nrow, m.ncol, nrow, Eindivisible)
	}

	m.ncol = nelt / nrow
	m.nrow = nrow
	return m, nil
}

// Truncates the matrix to its leading mrow rows and mcol columns.
// Only forward truncation is implemented, forwards == false returns
// Eunsupported.
func (m *Matrix) Trim(mrow, mcol int, forwards bool) (*Matrix, error) {
	if mrow < 0 || mcol < 0 || mrow > m.nrow || mcol > m.ncol {
		return nil, fmt.Errorf("trim %dx%d to %dx%d: %w", m.nrow, m.ncol, mrow, mcol, Erange)
	}

	if !forwards {
		return nil, fmt.Errorf("trim from the trailing end: %w", Eunsupported)
	}

	// destination never overtakes the source, so copying column by
	// column in increasing order is safe
	for col := 0; col < mcol; col++ {
		copy(m.x[col*mrow:(col+1)*mrow], m.x[col*m.nrow:col*m.nrow+mrow])
	}

	if mrow == 0 || mcol == 0 {
		m.x = nil
	} else {
		m.x = m.x[0 : mrow*mcol]
	}

	m.nrow = mrow
	m.ncol = mcol
	return m, nil
}

// Vec-transpose operation. Each column of the matrix is split into
// sub-columns of length p; the sub-columns of column j form rows
// j*p .. j*p+p-1 of the result, which is (p*ncol)x(nrow/p).
// Applying the operation twice with the same p gives back the original
// matrix.
func (m *Matrix) VecTranspose(p int) (*Matrix, error) {
	if p <= 0 || m.nrow%p != 0 {
		return nil, fmt.Errorf("vec-transpose(%d) of %dx%d: %w", p, m.nrow, m.ncol, Eindivisible)
	}

	nsub := m.nrow / p
	vt, err := New(p*m.ncol, nsub)
	if err != nil {
		return nil, err
	}

	for col := 0; col < m.ncol; col++ {
		offset := col * p
		for sub := 0; sub < nsub; sub++ {
			for i := 0; i < p; i++ {
				vt.x[sub*vt.nrow+offset+i] = m.x[col*m.nrow+sub*p+i]
			}
		}
	}

	return vt, nil
}

// Extracts the n by n blocks on the diagonal of a square matrix.
func (m *Matrix) BlockDiagonal(n int) ([]*Matrix, error) {
	if !m.IsSquare() {
		return nil, fmt.Errorf("block diagonal of %dx%d: %w", m.nrow, m.ncol, Esquare)
	}

	if n <= 0 || m.ncol%n != 0 {
		return nil, fmt.Errorf("block diagonal(%d) of %dx%d: %w", n, m.nrow, m.ncol, Eindivisible)
	}

	nblk := m.ncol / n
	blks := make([]*Matrix, nblk)
	for b := 0; b < nblk; b++ {
		blk := New1(n, n)
		for col := 0; col < n; col++ {
			oc := b*n + col
			for row := 0; row < n; row++ {
				blk.x[col*n+row] = m.x[oc*m.nrow+b*n+row]
			}
		}

		blks[b] = blk
	}

	return blks, nil
}

// Multiplies every element by f
func (m *Matrix) Scale(f float64) *Matrix {
	for i := range m.x {
		m.x[i] *= f
	}

	return m
}

// Computes dst = L*v where L is the lower triangle (including the
// diagonal) of the square matrix m. The upper triangle is ignored, so
// it works on the symmetrized factors returned by Cholesky and
// InvertCholesky. If dst is nil or too short, a new slice is allocated.
func (m *Matrix) MulLower(v, dst []float64) ([]float64, error) {
	n := m.nrow
	if !m.IsSquare() {
		return nil, fmt.Errorf("lower product with %dx%d: %w", m.nrow, m.ncol, Esquare)
	}

	if len(v) != n {
		return nil, fmt.Errorf("lower product %dx%d by %d vector: %w", n, n, len(v), Edim)
	}

	if cap(dst) < n {
		dst = make([]float64, n)
	}
	dst = dst[0:n]

	// backwards, so dst can be the same slice as v
	for row := n - 1; row >= 0; row-- {
		var s float64
		for col := 0; col <= row; col++ {
			s += m.x[col*n+row] * v[col]
		}

		dst[row] = s
	}

	return dst, nil
}
