package sim

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/avilella/simNGS/dist"
	"github.com/avilella/simNGS/intensity"
	"github.com/avilella/simNGS/model"
	"github.com/sirupsen/logrus"
)

var Eoption = errors.New("invalid option")

type PairedMode int

const (
	PairedAsModel PairedMode = iota
	PairedOn
	PairedOff
)

// Simulation parameters. Zero values of Shape, Scale, NCycle, Lane, Tile
// and Seed mean "as the model" (wall clock for the seed).
type Options struct {
	Shape		float64
	Scale		float64
	Corr		float64		// correlation of the brightness of the two ends
	NCycle		int
	Paired		PairedMode
	Purity		*intensity.Purity	// nil if reads are not filtered
	Mu		float64
	Seed		int64
	Lane		uint32
	Tile		uint32
	Variance	float64		// noise is scaled by its square root
}

func DefaultOptions() Options {
	return Options{
		Corr:		1,
		Variance:	1,
	}
}

func (o *Options) Validate() error {
	if !(o.Corr >= -1 && o.Corr <= 1) {
		return fmt.Errorf("correlation %g not in [-1, 1]: %w", o.Corr, Eoption)
	}

	if !(o.Shape >= 0) || !(o.Scale >= 0) || math.IsInf(o.Shape, 0) || math.IsInf(o.Scale, 0) {
		return fmt.Errorf("brightness shape %g scale %g: %w", o.Shape, o.Scale, Eoption)
	}

	if o.NCycle < 0 {
		return fmt.Errorf("%d cycles: %w", o.NCycle, Eoption)
	}

	if o.Paired < PairedAsModel || o.Paired > PairedOff {
		return fmt.Errorf("paired mode %d: %w", o.Paired, Eoption)
	}

	if p := o.Purity; p != nil {
		if p.MaxImpure < 0 || p.Window < 0 {
			return fmt.Errorf("purity filter %d:%d: %w", p.MaxImpure, p.Window, Eoption)
		}

		if !(p.Threshold >= 0 && p.Threshold <= 1) {
			return fmt.Errorf("purity threshold %g not in [0, 1]: %w", p.Threshold, Eoption)
		}
	}

	if !(o.Mu >= 0) || math.IsInf(o.Mu, 0) {
		return fmt.Errorf("mu %g: %w", o.Mu, Eoption)
	}

	if !(o.Variance >= 0) || math.IsInf(o.Variance, 0) {
		return fmt.Errorf("variance %g: %w", o.Variance, Eoption)
	}

	return nil
}

// Parses the brightness option, "shape:scale"
func ParseBrightness(s string) (shape, scale float64, err error) {
	f := strings.Split(s, ":")
	if len(f) != 2 {
		return 0, 0, fmt.Errorf("brightness '%s' is not shape:scale: %w", s, Eoption)
	}

	if shape, err = strconv.ParseFloat(f[0], 64); err != nil {
		return 0, 0, fmt.Errorf("brightness shape '%s': %w", f[0], Eoption)
	}

	if scale, err = strconv.ParseFloat(f[1], 64); err != nil {
		return 0, 0, fmt.Errorf("brightness scale '%s': %w", f[1], Eoption)
	}

	if !(shape > 0 && scale > 0) {
		return 0, 0, fmt.Errorf("brightness %g:%g must be positive: %w", shape, scale, Eoption)
	}

	return shape, scale, nil
}

// Parses the purity filter option, "maximpure:window:threshold"
func ParsePurity(s string) (*intensity.Purity, error) {
	f := strings.Split(s, ":")
	if len(f) != 3 {
		return nil, fmt.Errorf("purity filter '%s' is not maximpure:window:threshold: %w", s, Eoption)
	}

	maxi, err := strconv.Atoi(f[0])
	if err != nil || maxi < 0 {
		return nil, fmt.Errorf("purity filter impure cycles '%s': %w", f[0], Eoption)
	}

	win, err := strconv.Atoi(f[1])
	if err != nil || win < 0 {
		return nil, fmt.Errorf("purity filter window '%s': %w", f[1], Eoption)
	}

	th, err := strconv.ParseFloat(f[2], 64)
	if err != nil || !(th >= 0 && th <= 1) {
		return nil, fmt.Errorf("purity threshold '%s' not in [0, 1]: %w", f[2], Eoption)
	}

	return &intensity.Purity{MaxImpure: maxi, Window: win, Threshold: th}, nil
}

// Parses the paired option: "on", "off" or "model"
func ParsePaired(s string) (PairedMode, error) {
	switch strings.ToLower(s) {
	case "", "model":
		return PairedAsModel, nil
	case "on", "true", "yes":
		return PairedOn, nil
	case "off", "false", "no":
		return PairedOff, nil
	}

	return 0, fmt.Errorf("paired '%s': %w", s, Eoption)
}

// Resolves the options against the model. Returns the model to simulate
// with and updates the options to the values actually used. The model passed
// is not modified.
func Resolve(m *model.Model, o *Options, log logrus.FieldLogger) (*model.Model, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	m = m.Copy()
	if o.Shape != 0 {
		m.Shape = o.Shape
	}
	o.Shape = m.Shape

	if o.Scale != 0 {
		m.Scale = o.Scale
	}
	o.Scale = m.Scale

	if !(o.Shape > 0 && o.Scale > 0) {
		return nil, fmt.Errorf("brightness shape %g scale %g: %w", o.Shape, o.Scale, Eoption)
	}

	switch {
	case o.Paired == PairedOff && m.Paired():
		log.Info("treating paired-end model as single-ended")
		m = m.AsSingle()

	case o.Paired == PairedOn && !m.Paired():
		log.Info("treating single-ended model as paired-end")
		m = m.AsPaired()
	}

	if o.NCycle > m.NCycle {
		log.WithFields(logrus.Fields{"ncycle": o.NCycle, "max": m.NCycle}).Warn("asked for more cycles than the model has")
	} else if o.NCycle != 0 && o.NCycle != m.NCycle {
		tm, err := m.Trim(o.NCycle)
		if err != nil {
			return nil, err
		}

		m = tm
	}
	o.NCycle = m.NCycle

	if o.Lane != 0 {
		m.Lane = o.Lane
	}
	o.Lane = m.Lane

	if o.Tile != 0 {
		m.Tile = o.Tile
	}
	o.Tile = m.Tile

	if o.Seed == 0 {
		o.Seed = dist.ClockSeed()
		log.WithField("seed", o.Seed).Info("using seed from the clock")
	}

	return m, nil
}
