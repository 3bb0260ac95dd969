// Package sim runs the simulation: for every input sequence it draws the
// cluster brightness, generates the intensities of each end, computes the
// base likelihoods, applies the purity filter, calls the bases and tallies
// the errors.
package sim

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/avilella/simNGS/accuracy"
	"github.com/avilella/simNGS/copula"
	"github.com/avilella/simNGS/dist"
	"github.com/avilella/simNGS/intensity"
	"github.com/avilella/simNGS/matrix"
	"github.com/avilella/simNGS/model"
	"github.com/avilella/simNGS/oligo"
	"github.com/montanaflynn/stats"
	"github.com/sirupsen/logrus"
)

var Eshort = intensity.Eshort
var Esequence = intensity.Esequence

// cluster coordinates are uniform over the tile
const (
	TileWidth	= 1794
	TileHeight	= 2048
)

type Simulator struct {
	model	*model.Model
	opts	Options
	sdfact	float64
	rnd	*dist.Rand
	sampler	*copula.Sampler
	acc	*accuracy.Accumulator
	log	logrus.FieldLogger
	metrics	*Metrics

	out	*bufio.Writer
	dump	*bufio.Writer

	// reused by every read
	ints	*matrix.Matrix
	ll	*matrix.Matrix
	calls	[][]byte
	truth	[][]byte
	rec	[]byte

	nseq		uint64
	nskipped	uint64
	npassed		uint64
	bright		stats.Float64Data	// brightness of end 1, one per read
}

// Creates a simulator for an already resolved model and options (see
// Resolve). The records are written to out.
func New(m *model.Model, opts Options, out io.Writer, log logrus.FieldLogger) (*Simulator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	if opts.NCycle != m.NCycle {
		return nil, fmt.Errorf("options for %d cycles, model has %d: %w", opts.NCycle, m.NCycle, Eoption)
	}

	sampler, err := copula.New(opts.Corr, m.Shape, m.Scale)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, Eoption)
	}

	nend := 1
	if m.Paired() {
		nend = 2
	}

	s := &Simulator{
		model:		m,
		opts:		opts,
		sdfact:		math.Sqrt(opts.Variance),
		rnd:		dist.NewRand(opts.Seed),
		sampler:	sampler,
		acc:		accuracy.New(m.NCycle, nend),
		log:		log,
		metrics:	NewMetrics(nil),
		out:		bufio.NewWriter(out),
		calls:		make([][]byte, nend),
		truth:		make([][]byte, nend),
	}

	return s, nil
}

// Writes the intensities of every read to w
func (s *Simulator) SetDump(w io.Writer) {
	s.dump = bufio.NewWriter(w)
}

func (s *Simulator) SetMetrics(m *Metrics) {
	s.metrics = m
}

func (s *Simulator) Accumulator() *accuracy.Accumulator {
	return s.acc
}

// Simulates the read of a sequence given as text
func (s *Simulator) SimulateBytes(name string, sequence []byte) error {
	seq, err := oligo.FromBytes(name, sequence)
	if err != nil {
		s.skip(OutcomeInvalid)
		return fmt.Errorf("%v: %w", err, Esequence)
	}

	return s.Simulate(seq)
}

func (s *Simulator) skip(outcome string) {
	s.nskipped++
	s.metrics.read(outcome)
}

// Simulates the read of a sequence and writes its record. Sequences
// shorter than the number of cycles are skipped, returning Eshort.
func (s *Simulator) Simulate(seq *oligo.Sequence) error {
	m := s.model
	if seq.Len() < m.NCycle {
		s.skip(OutcomeShort)
		return fmt.Errorf("sequence %s: length %d, %d cycles: %w", seq.Name, seq.Len(), m.NCycle, Eshort)
	}

	s.nseq++
	d := s.sampler.Sample(s.rnd)
	s.log.WithFields(logrus.Fields{
		"x":		d.X,
		"y":		d.Y,
		"px":		d.PX,
		"py":		d.PY,
		"lambda1":	d.L1,
		"lambda2":	d.L2,
	}).Debug("brightness")
	s.bright = append(s.bright, d.L1)
	s.metrics.Brightness.Observe(d.L1)

	if err := s.simulateEnd(1, d.L1, seq.Nts); err != nil {
		return err
	}

	x := uint32(TileWidth * s.rnd.Unif())
	y := uint32(TileHeight * s.rnd.Unif())

	if s.dump != nil {
		fmt.Fprintf(s.dump, "%d\t%d\t%d\t%d\n", m.Lane, m.Tile, x, y)
		if err := s.ints.Print(s.dump); err != nil {
			return err
		}
	}

	s.rec = appendHeader(s.rec[:0], m.Lane, m.Tile, x, y)
	if s.opts.Purity == nil || s.opts.Purity.Pass(s.ints) {
		s.rec = appendValues(s.rec, s.ll)
		if err := s.call(1, seq.Nts); err != nil {
			return err
		}

		if m.Paired() {
			rc := seq.RevComp()
			if err := s.simulateEnd(2, d.L2, rc.Nts); err != nil {
				return err
			}

			if s.dump != nil {
				if err := s.ints.Print(s.dump); err != nil {
					return err
				}
			}

			s.rec = appendValues(s.rec, s.ll)
			if err := s.call(2, rc.Nts); err != nil {
				return err
			}
		}

		if err := s.acc.Add(s.calls, s.truth); err != nil {
			return err
		}

		for e := range s.calls {
			s.metrics.miscalls(e+1, mismatches(s.calls[e], s.truth[e]))
		}

		s.npassed++
		s.metrics.read(OutcomePassed)
	} else {
		s.metrics.read(OutcomeFiltered)
	}

	s.rec = append(s.rec, '\n')
	if _, err := s.out.Write(s.rec); err != nil {
		return err
	}

	if s.dump != nil {
		if _, err := s.dump.WriteString("//\n"); err != nil {
			return err
		}
	}

	if s.nseq%1000 == 0 {
		s.log.WithField("count", s.nseq).Debug("done")
	}

	return nil
}

// Generates the intensities and the likelihoods of end e
func (s *Simulator) simulateEnd(e int, lambda float64, nts []byte) (err error) {
	end := s.model.End(e)
	s.ints, err = intensity.Generate(s.sdfact, lambda, nts, end.Chol, s.rnd, s.ints)
	if err != nil {
		return fmt.Errorf("end %d: %w", e, err)
	}

	s.ll, err = intensity.Likelihood(s.sdfact, s.opts.Mu, lambda, s.ints, end.InvChol, s.ll)
	if err != nil {
		return fmt.Errorf("end %d: %w", e, err)
	}

	return nil
}

func (s *Simulator) call(e int, nts []byte) (err error) {
	s.calls[e-1], err = intensity.Call(s.ll, s.calls[e-1])
	s.truth[e-1] = nts[0:s.model.NCycle]
	return err
}

func mismatches(a, b []byte) int {
	n := 0
	for i := range a {
		if a[i] != b[i] {
			n++
		}
	}

	return n
}

// Flushes the buffered records
func (s *Simulator) Flush() error {
	if s.dump != nil {
		if err := s.dump.Flush(); err != nil {
			return err
		}
	}

	return s.out.Flush()
}

// Simulates every sequence of fname, read with parse (fasta.Parse or
// csv.Parse). Skipped sequences are logged and the run goes on, any
// other error stops it.
func (s *Simulator) Run(fname string, parse func(fname string, process func(name string, sequence []byte) error) error) error {
	err := parse(fname, func(name string, sequence []byte) error {
		err := s.SimulateBytes(name, sequence)
		switch {
		case errors.Is(err, Eshort):
			s.log.WithFields(logrus.Fields{"name": name, "length": len(sequence), "ncycle": s.model.NCycle}).Warn("sequence shorter than number of cycles, skipping")
			return nil

		case errors.Is(err, Esequence):
			s.log.WithFields(logrus.Fields{"name": name, "reason": err}).Warn("invalid sequence, skipping")
			return nil
		}

		return err
	})

	if ferr := s.Flush(); err == nil {
		err = ferr
	}

	return err
}

// Writes the summary of the run
func (s *Simulator) Summary(w io.Writer) {
	fmt.Fprintf(w, "Finished generating %8d sequences\n", s.nseq)
	if s.nskipped > 0 {
		fmt.Fprintf(w, "%8d sequences skipped.\n", s.nskipped)
	}

	if s.opts.Purity != nil {
		fmt.Fprintf(w, "%8d sequences passed filter.\n", s.npassed)
	}

	if len(s.bright) > 0 {
		// sample stddev, NaN for a single read
		mean, _ := stats.Mean(s.bright)
		sd, _ := stats.StandardDeviationSample(s.bright)
		fmt.Fprintf(w, "Brightness mean %.2f stddev %.2f\n", mean, sd)
	}

	s.acc.Report(w)
}
