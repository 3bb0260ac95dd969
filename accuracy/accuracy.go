// Package accuracy tallies the base calling errors of the simulated reads
// and summarizes them per cycle as Phred scores with Wilson confidence
// intervals.
package accuracy

import (
	"errors"
	"fmt"
	"io"
	"math"
)

// 97.5% quantile of the standard normal (95% two-sided interval)
const Z = 1.959964

var Eread = errors.New("read doesn't match the accumulator")

// Per-cycle error counts of one or two ends. Only reads that pass the
// filter are added.
type Accumulator struct {
	ncycle	int
	errs	[][]uint64	// per end, per cycle
	reads	uint64
}

// Summary of one cycle of one end
type Cycle struct {
	Errors	uint64
	Rate	float64		// NaN if there are no reads

	// Phred score of the rate and the bounds of its confidence
	// interval. The lower bound of the score comes from the upper bound
	// of the rate.
	Phred	float64
	Lower	float64
	Upper	float64
}

func New(ncycle, nend int) *Accumulator {
	a := &Accumulator{ncycle: ncycle, errs: make([][]uint64, nend)}
	for i := range a.errs {
		a.errs[i] = make([]uint64, ncycle)
	}

	return a
}

func (a *Accumulator) Ends() int {
	return len(a.errs)
}

func (a *Accumulator) Reads() uint64 {
	return a.reads
}

// Adds a read. calls and truth hold the called and the true nts of each
// end.
func (a *Accumulator) Add(calls, truth [][]byte) error {
	if len(calls) != len(a.errs) || len(truth) != len(a.errs) {
		return fmt.Errorf("%d/%d ends, expected %d: %w", len(calls), len(truth), len(a.errs), Eread)
	}

	for e := range a.errs {
		if len(calls[e]) < a.ncycle || len(truth[e]) < a.ncycle {
			return fmt.Errorf("end %d: %d calls, %d nts for %d cycles: %w", e+1, len(calls[e]), len(truth[e]), a.ncycle, Eread)
		}
	}

	for e, errs := range a.errs {
		c, t := calls[e], truth[e]
		for i := range errs {
			if c[i] != t[i] {
				errs[i]++
			}
		}
	}

	a.reads++
	return nil
}

// Errors of every cycle of end (1 or 2)
func (a *Accumulator) Errors(end int) []uint64 {
	return a.errs[end-1]
}

// Returns the summary of every cycle of end (1 or 2)
func (a *Accumulator) Summary(end int) []Cycle {
	s := make([]Cycle, a.ncycle)
	for i, n := range a.errs[end-1] {
		s[i].Errors = n
		if a.reads == 0 {
			s[i].Rate, s[i].Phred, s[i].Lower, s[i].Upper = math.NaN(), math.NaN(), math.NaN(), math.NaN()
			continue
		}

		p := float64(n) / float64(a.reads)
		lo, hi := Wilson(p, a.reads)
		s[i].Rate = p
		s[i].Phred = Phred(p)
		s[i].Lower = Phred(hi)
		s[i].Upper = Phred(lo)
	}

	return s
}

func Phred(p float64) float64 {
	return -10 * math.Log10(p)
}

// Wilson score interval of a proportion p observed over n trials
func Wilson(p float64, n uint64) (lower, upper float64) {
	fn := float64(n)
	z2 := Z * Z
	d := math.Sqrt(p*(1-p)/fn + z2/(4*fn*fn))
	c := p + z2/(2*fn)
	f := 1 + z2/fn

	lower, upper = (c-Z*d)/f, (c+Z*d)/f

	// the bounds are exact at 0 and 1, rounding would move them
	if p <= 0 {
		lower = 0
	}

	if p >= 1 {
		upper = 1
	}

	return math.Max(0, lower), math.Min(1, upper)
}

// Prints the error summary table
func (a *Accumulator) Report(w io.Writer) {
	fmt.Fprintln(w, "Summary of errors, calling by maximum likelihood")
	fmt.Fprint(w, "Cycle  Count  Phred   lower, upper")
	for e := 1; e < len(a.errs); e++ {
		fmt.Fprint(w, "   Count  Phred   lower, upper")
	}

	sums := make([][]Cycle, len(a.errs))
	for e := range sums {
		sums[e] = a.Summary(e + 1)
	}

	for i := 0; i < a.ncycle; i++ {
		fmt.Fprintf(w, "\n%3d:", i+1)
		for _, s := range sums {
			c := &s[i]
			if a.reads == 0 {
				fmt.Fprintf(w, " %7d %6s (%6s,%6s)", c.Errors, "NA", "NA", "NA")
			} else {
				fmt.Fprintf(w, " %7d %6.2f (%6.2f,%6.2f)", c.Errors, c.Phred, c.Lower, c.Upper)
			}
		}
	}

	fmt.Fprintln(w)
}
