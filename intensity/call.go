package intensity

import (
	"fmt"

	"github.com/avilella/simNGS/matrix"
)

// Purity filter parameters
type Purity struct {
	MaxImpure	int		// maximum number of impure cycles of a passing read
	Window		int		// number of leading cycles checked
	Threshold	float64
}

// Returns the number of impure cycles among the first window cycles.
// A cycle is impure if its largest channel carries no more than threshold
// of the total intensity, or if the total is not positive.
func ImpureCycles(ints *matrix.Matrix, window int, threshold float64) int {
	if window > ints.Cols() {
		window = ints.Cols()
	}

	n := 0
	for cycle := 0; cycle < window; cycle++ {
		v := ints.Col(cycle)
		max, sum := v[0], 0.0
		for _, x := range v {
			sum += x
			if x > max {
				max = x
			}
		}

		if sum <= 0 || max/sum <= threshold {
			n++
		}
	}

	return n
}

// Returns true if the read passes the filter
func (p *Purity) Pass(ints *matrix.Matrix) bool {
	return ImpureCycles(ints, p.Window, p.Threshold) <= p.MaxImpure
}

// Calls the base of every cycle: the channel with the largest
// log-likelihood, the lowest channel on ties.
// The calls are stored in dst if it is large enough.
func Call(ll *matrix.Matrix, dst []byte) ([]byte, error) {
	if ll.Rows() != chanNum {
		return nil, fmt.Errorf("%dx%d likelihoods: %w", ll.Rows(), ll.Cols(), matrix.Edim)
	}

	ncycle := ll.Cols()
	if cap(dst) < ncycle {
		dst = make([]byte, ncycle)
	}
	dst = dst[0:ncycle]

	for cycle := 0; cycle < ncycle; cycle++ {
		v := ll.Col(cycle)
		best := 0
		for b := 1; b < chanNum; b++ {
			if v[b] > v[best] {
				best = b
			}
		}

		dst[cycle] = byte(best)
	}

	return dst, nil
}
