// Package dist provides the probability distributions used by the
// simulator and the random generator that drives them.
//
// All CDF and quantile functions take a lower flag: if true they work on
// the lower tail P(X <= x), otherwise on the upper tail P(X > x). Using
// the upper tail directly keeps precision when the lower tail
// probability is close to one.
package dist

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Standard normal CDF
func PStdNorm(x float64, lower bool) float64 {
	if !lower {
		x = -x
	}

	// distuv's CDF uses erfc and is accurate in both tails
	return distuv.UnitNormal.CDF(x)
}

// Standard normal quantile. Returns NaN if p is not in [0, 1].
func QStdNorm(p float64, lower bool) float64 {
	if !(p >= 0 && p <= 1) {
		return math.NaN()
	}

	q := distuv.UnitNormal.Quantile(p)
	if !lower {
		q = -q
	}

	return q
}

// Weibull CDF with the specified shape and scale
func PWeibull(x, shape, scale float64, lower bool) float64 {
	if !(shape > 0 && scale > 0) {
		return math.NaN()
	}

	w := distuv.Weibull{K: shape, Lambda: scale}
	if lower {
		return w.CDF(x)
	}

	if x < 0 {
		return 1
	}

	return w.Survival(x)
}

// Weibull quantile: scale*(-log(1-p))^(1/shape) for the lower tail.
// Returns NaN if p is not in [0, 1] or the parameters are not positive.
func QWeibull(p, shape, scale float64, lower bool) float64 {
	if !(p >= 0 && p <= 1) || !(shape > 0 && scale > 0) {
		return math.NaN()
	}

	if lower {
		return distuv.Weibull{K: shape, Lambda: scale}.Quantile(p)
	}

	return scale * math.Pow(-math.Log(p), 1/shape)
}
