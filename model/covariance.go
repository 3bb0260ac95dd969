package model

import (
	"fmt"

	"github.com/avilella/simNGS/matrix"
)

// Creates the noise factors of one end from its covariance matrix.
// Two layouts are accepted:
//   - the full (4*ncycle)x(4*ncycle) covariance of all the intensities of
//     the read; only the 4x4 blocks on the diagonal are used.
//   - the per-cycle 4x4 covariances stacked on top of each other,
//     (4*ncycle)x4.
//
// The covariance matrix is not modified.
func NewEnd(cov *matrix.Matrix, ncycle int) (*End, error) {
	blks, err := cycleBlocks(cov, ncycle)
	if err != nil {
		return nil, err
	}

	e := &End{make([]*matrix.Matrix, ncycle), make([]*matrix.Matrix, ncycle)}
	for i, blk := range blks {
		l, err := blk.Cholesky()
		if err != nil {
			return nil, fmt.Errorf("cycle %d: %w", i+1, err)
		}

		il, err := l.Copy().InvertCholesky()
		if err != nil {
			return nil, fmt.Errorf("cycle %d: %w", i+1, err)
		}

		e.Chol[i] = l
		e.InvChol[i] = il
	}

	return e, nil
}

// Splits the covariance into per-cycle 4x4 blocks. The blocks don't
// share storage with cov.
func cycleBlocks(cov *matrix.Matrix, ncycle int) ([]*matrix.Matrix, error) {
	n := ChanNum * ncycle
	if ncycle <= 0 || cov.Rows() != n {
		return nil, fmt.Errorf("%dx%d covariance for %d cycles: %w", cov.Rows(), cov.Cols(), ncycle, Emodel)
	}

	switch cov.Cols() {
	case n:
		return cov.BlockDiagonal(ChanNum)

	case ChanNum:
		// after the vec-transpose, column i holds the 16 elements of
		// the block of cycle i
		vt, err := cov.VecTranspose(ChanNum)
		if err != nil {
			return nil, err
		}

		blks := make([]*matrix.Matrix, ncycle)
		for i := 0; i < ncycle; i++ {
			blk, err := matrix.FromArray(ChanNum*ChanNum, 1, vt.Col(i))
			if err != nil {
				return nil, err
			}

			if blks[i], err = blk.Reshape(ChanNum); err != nil {
				return nil, err
			}
		}

		return blks, nil
	}

	return nil, fmt.Errorf("%dx%d covariance for %d cycles: %w", cov.Rows(), cov.Cols(), ncycle, Emodel)
}

// Creates a model from the covariance matrices of one or two ends.
func FromCovariance(ncycle int, covs ...*matrix.Matrix) (*Model, error) {
	ends := make([]*End, len(covs))
	for i, cov := range covs {
		e, err := NewEnd(cov, ncycle)
		if err != nil {
			return nil, fmt.Errorf("end %d: %w", i+1, err)
		}

		ends[i] = e
	}

	return New(ncycle, ends...)
}
