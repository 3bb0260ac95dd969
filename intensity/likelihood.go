package intensity

import (
	"fmt"
	"math"

	"github.com/avilella/simNGS/matrix"
	"gonum.org/v1/gonum/floats"
)

// Computes the log-likelihood of each base for every cycle of the
// intensities ints, for a cluster of brightness lambda. The inverse
// Cholesky factors whiten the noise of each cycle, so the log-likelihood
// of base b is -½‖W(I - lambda*e_b)‖²/sdfact².
// If mu is positive, each value is replaced by log(exp(ll) + mu), which
// keeps outliers from sending a cycle to -Inf.
// The result is stored in dst if it has the right shape.
func Likelihood(sdfact, mu, lambda float64, ints *matrix.Matrix, invchol []*matrix.Matrix, dst *matrix.Matrix) (*matrix.Matrix, error) {
	ncycle := len(invchol)
	if ints.Rows() != chanNum || ints.Cols() != ncycle {
		return nil, fmt.Errorf("%dx%d intensities for %d cycles: %w", ints.Rows(), ints.Cols(), ncycle, matrix.Edim)
	}

	ll := scratch(dst, ncycle)
	logmu := math.Log(mu)
	var wi [chanNum]float64
	for cycle := 0; cycle < ncycle; cycle++ {
		w := invchol[cycle]
		if _, err := w.MulLower(ints.Col(cycle), wi[:]); err != nil {
			return nil, fmt.Errorf("cycle %d: %w", cycle+1, err)
		}

		v := ll.Col(cycle)
		for b := 0; b < chanNum; b++ {
			// W*(lambda*e_b) is lambda times column b of the lower
			// triangle of W
			var d float64
			for i := 0; i < chanNum; i++ {
				x := wi[i]
				if i >= b {
					x -= lambda * w.At(i, b)
				}

				d += x * x
			}

			v[b] = loglike(d, sdfact)
			if mu > 0 {
				v[b] = logAddExp(v[b], logmu)
			}
		}
	}

	return ll, nil
}

// Gaussian log-likelihood (up to a constant) of a squared whitened
// distance d
func loglike(d, sdfact float64) float64 {
	if sdfact == 0 {
		if d == 0 {
			return 0
		}

		return math.Inf(-1)
	}

	return -0.5 * d / (sdfact * sdfact)
}

// log(exp(a) + exp(b))
func logAddExp(a, b float64) float64 {
	return floats.LogSumExp([]float64{a, b})
}
