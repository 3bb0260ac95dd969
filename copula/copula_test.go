package copula

import (
	"errors"
	"flag"
	"math"
	"os"
	"testing"

	"github.com/avilella/simNGS/dist"
	"gonum.org/v1/gonum/stat"
)

var iternum = flag.Int("n", 5, "number of iterations")

func TestMain(m *testing.M) {
	flag.Parse()
	os.Exit(m.Run())
}

func TestNew(t *testing.T) {
	for _, c := range []float64{-1.5, 1.0001, math.NaN()} {
		if _, err := New(c, 1, 1); !errors.Is(err, Ecorr) {
			t.Fatalf("correlation %g accepted", c)
		}
	}

	for _, p := range [][2]float64{{0, 1}, {1, 0}, {-1, 1}, {math.Inf(1), 1}} {
		if _, err := New(0, p[0], p[1]); !errors.Is(err, Eparam) {
			t.Fatalf("shape %g scale %g accepted", p[0], p[1])
		}
	}
}

func TestFullCorrelation(t *testing.T) {
	s, err := New(1, 6.5, 1100)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rnd := dist.NewRand(1)
	for i := 0; i < 100**iternum; i++ {
		d := s.Sample(rnd)
		if d.L1 != d.L2 || d.L1 <= 0 {
			t.Fatalf("lambda1 %v lambda2 %v", d.L1, d.L2)
		}
	}
}

func correlation(t *testing.T, corr float64, n int) (float64, float64) {
	s, err := New(corr, 2, 100)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rnd := dist.NewRand(17)
	xs := make([]float64, n)
	ys := make([]float64, n)
	l1 := make([]float64, n)
	l2 := make([]float64, n)
	for i := 0; i < n; i++ {
		d := s.Sample(rnd)
		xs[i], ys[i] = d.X, d.Y
		l1[i], l2[i] = d.L1, d.L2
	}

	return stat.Correlation(xs, ys, nil), stat.Correlation(l1, l2, nil)
}

func TestCorrelation(t *testing.T) {
	n := 20000
	if c, _ := correlation(t, 0, n); math.Abs(c) > 0.05 {
		t.Fatalf("independent draws correlated: %v", c)
	}

	if c, lc := correlation(t, 0.8, n); math.Abs(c-0.8) > 0.05 || lc < 0.5 {
		t.Fatalf("correlation 0.8: normals %v brightness %v", c, lc)
	}

	if c, lc := correlation(t, -1, n); c > -0.999 || lc > 0 {
		t.Fatalf("anti-correlated draws: normals %v brightness %v", c, lc)
	}
}

func TestWeibullMarginal(t *testing.T) {
	// shape 1 is the exponential distribution, mean is the scale
	s, _ := New(0.3, 1, 5)
	rnd := dist.NewRand(3)
	n := 20000
	l := make([]float64, n)
	for i := range l {
		l[i] = s.Sample(rnd).L2
	}

	if m := stat.Mean(l, nil); math.Abs(m-5) > 0.2 {
		t.Fatalf("end 2 brightness mean %v, expected 5", m)
	}
}
