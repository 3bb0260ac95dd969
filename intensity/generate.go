// Package intensity simulates the per-cycle channel intensities of a read
// and turns them back into base calls: likelihood of each base, purity
// filter and maximum-likelihood caller.
//
// Intensities and likelihoods are 4 x ncycle matrices, one column per
// cycle, one row per channel (A, C, G, T).
package intensity

import (
	"errors"
	"fmt"

	"github.com/avilella/simNGS/dist"
	"github.com/avilella/simNGS/matrix"
	"github.com/avilella/simNGS/oligo"
)

var Eshort = errors.New("sequence shorter than the number of cycles")
var Esequence = errors.New("invalid sequence")

const chanNum = oligo.NtNum

// Returns dst if it has the right shape for ncycle cycles, otherwise a new
// matrix.
func scratch(dst *matrix.Matrix, ncycle int) *matrix.Matrix {
	if dst != nil && dst.Rows() == chanNum && dst.Cols() == ncycle {
		return dst
	}

	return matrix.New1(chanNum, ncycle)
}

// Generates the intensities of the first len(chol) cycles of nts, for a
// cluster of brightness lambda. For every cycle the channel of the true
// base gets lambda, plus noise with the covariance L*Lᵗ of the cycle,
// scaled by sdfact.
// The result is stored in dst if it has the right shape.
func Generate(sdfact, lambda float64, nts []byte, chol []*matrix.Matrix, rnd *dist.Rand, dst *matrix.Matrix) (*matrix.Matrix, error) {
	ncycle := len(chol)
	if len(nts) < ncycle {
		return nil, fmt.Errorf("%d nts for %d cycles: %w", len(nts), ncycle, Eshort)
	}

	ints := scratch(dst, ncycle)
	for cycle := 0; cycle < ncycle; cycle++ {
		v := ints.Col(cycle)
		for i := range v {
			v[i] = rnd.StdNorm()
		}

		if _, err := chol[cycle].MulLower(v, v); err != nil {
			return nil, fmt.Errorf("cycle %d: %w", cycle+1, err)
		}

		for i := range v {
			v[i] *= sdfact
		}

		nt := nts[cycle]
		if int(nt) >= chanNum {
			return nil, fmt.Errorf("cycle %d: nucleotide %d: %w", cycle+1, nt, Esequence)
		}

		v[nt] += lambda
	}

	return ints, nil
}
