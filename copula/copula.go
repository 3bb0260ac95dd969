// Package copula draws the brightness of the two ends of a read. The
// two values are Weibull distributed and correlated through a bivariate
// Gaussian copula.
package copula

import (
	"errors"
	"fmt"
	"math"

	"github.com/avilella/simNGS/dist"
)

var Ecorr = errors.New("correlation not in [-1, 1]")
var Eparam = errors.New("invalid brightness parameters")

type Sampler struct {
	corr	float64
	shape	float64
	scale	float64

	// sqrt(1 - corr²)
	cscale	float64
}

// One draw of the sampler, with the intermediate values
type Draw struct {
	X, Y	float64		// correlated standard normals
	PX, PY	float64		// their upper tail probabilities
	L1, L2	float64		// brightness of end 1 and 2
}

func New(corr, shape, scale float64) (*Sampler, error) {
	if !(corr >= -1 && corr <= 1) {
		return nil, fmt.Errorf("%g: %w", corr, Ecorr)
	}

	if !(shape > 0 && scale > 0) || math.IsInf(shape, 0) || math.IsInf(scale, 0) {
		return nil, fmt.Errorf("shape %g scale %g: %w", shape, scale, Eparam)
	}

	return &Sampler{corr, shape, scale, math.Sqrt(1 - corr*corr)}, nil
}

func (s *Sampler) Corr() float64 {
	return s.corr
}

// Draws the brightness of both ends. Both normal deviates are always
// drawn, so the stream advances the same way for every correlation.
func (s *Sampler) Sample(rnd *dist.Rand) (d Draw) {
	d.X = rnd.StdNorm()
	d.Y = s.corr*d.X + s.cscale*rnd.StdNorm()

	d.PX = dist.PStdNorm(d.X, false)
	d.PY = dist.PStdNorm(d.Y, false)
	d.L1 = dist.QWeibull(d.PX, s.shape, s.scale, false)
	d.L2 = dist.QWeibull(d.PY, s.shape, s.scale, false)
	return
}
