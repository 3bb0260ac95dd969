package matrix

// Factorizations go through gonum's LAPACK implementation, which works on
// row-major storage. A column-major lower triangle read as row-major is
// the upper triangle of the transpose, so the factors are requested as
// upper triangular and come back as the lower triangular factors in our
// layout.
import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/lapack/lapack64"
)

// Cholesky factorization of a symmetric positive-definite matrix, in
// place. Only the lower triangle of the matrix is read. On return the
// lower triangle holds L with A = L*Lᵗ and the upper triangle is a
// mirror of it.
func (m *Matrix) Cholesky() (*Matrix, error) {
	if !m.IsSquare() {
		return nil, fmt.Errorf("cholesky of %dx%d: %w", m.nrow, m.ncol, Esquare)
	}

	if m.nrow == 0 {
		return m, nil
	}

	_, ok := lapack64.Potrf(blas64.Symmetric{
		Uplo:   blas.Upper,
		N:      m.nrow,
		Stride: m.nrow,
		Data:   m.x,
	})

	if !ok {
		return nil, fmt.Errorf("cholesky of %dx%d: %w", m.nrow, m.ncol, Enotpd)
	}

	return m.Symmetrize()
}

// Inverts a Cholesky factor in place. Only the lower triangle is read,
// the result is the inverse lower triangular factor, mirrored into the
// upper triangle.
func (m *Matrix) InvertCholesky() (*Matrix, error) {
	if !m.IsSquare() {
		return nil, fmt.Errorf("invert cholesky of %dx%d: %w", m.nrow, m.ncol, Esquare)
	}

	n := m.nrow
	for i := 0; i < n; i++ {
		if m.x[i*n+i] == 0 {
			return nil, fmt.Errorf("invert cholesky: zero diagonal at %d: %w", i, Esingular)
		}
	}

	if n == 0 {
		return m, nil
	}

	ok := lapack64.Trtri(blas64.Triangular{
		Uplo:   blas.Upper,
		Diag:   blas.NonUnit,
		N:      n,
		Stride: n,
		Data:   m.x,
	})

	if !ok {
		return nil, fmt.Errorf("invert cholesky of %dx%d: %w", n, n, Esingular)
	}

	return m.Symmetrize()
}
