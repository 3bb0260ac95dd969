// The rungen tool writes a synthetic runfile, for testing the simulator
// without a calibrated run. The noise of each cycle has cross-talk between
// the A/C and the G/T channels and grows linearly with the cycle.
package main

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/avilella/simNGS/dist"
	"github.com/avilella/simNGS/matrix"
	"github.com/avilella/simNGS/model"
	flag "github.com/spf13/pflag"
)

var ncycle = flag.IntP("ncycle", "n", 36, "number of cycles")
var shape = flag.Float64("shape", 6.5, "brightness shape")
var scale = flag.Float64("scale", 1100, "brightness scale")
var sigma = flag.Float64("sigma", 30, "noise standard deviation of the first cycle")
var growth = flag.Float64("growth", 0.02, "increase of the noise standard deviation per cycle")
var xtalk = flag.Float64("xtalk", 0.4, "correlation between the A/C and the G/T channels")
var jitter = flag.Float64("jitter", 0.1, "random variation of the noise between channels")
var paired = flag.BoolP("paired", "p", false, "paired-end run")
var lane = flag.Uint32P("lane", "l", 1, "lane number")
var tile = flag.Uint32P("tile", "t", 1, "tile number")
var seed = flag.Int64P("seed", "s", 0, "seed for the random generator")
var out = flag.StringP("output", "o", "-", "output file (.gz gzipped)")

// Stacked per-cycle covariances of one end
func covariance(rnd *dist.Rand) (*matrix.Matrix, error) {
	cov, err := matrix.New(model.ChanNum * *ncycle, model.ChanNum)
	if err != nil {
		return nil, err
	}

	for c := 0; c < *ncycle; c++ {
		var sd [model.ChanNum]float64
		for i := range sd {
			sd[i] = *sigma * (1 + *growth*float64(c)) * (1 + *jitter*(rnd.Unif()-0.5))
		}

		for i := 0; i < model.ChanNum; i++ {
			for j := 0; j < model.ChanNum; j++ {
				v := 0.0
				switch {
				case i == j:
					v = sd[i] * sd[i]
				case i/2 == j/2:
					v = *xtalk * sd[i] * sd[j]
				}

				cov.Set(c*model.ChanNum+i, j, v)
			}
		}
	}

	return cov, nil
}

func main() {
	flag.Parse()

	if *ncycle <= 0 {
		fmt.Fprintf(os.Stderr, "Expecting positive number of cycles\n")
		os.Exit(1)
	}

	if *xtalk <= -1 || *xtalk >= 1 || *jitter < 0 || *jitter >= 2 {
		fmt.Fprintf(os.Stderr, "Cross-talk must be in (-1, 1) and jitter in [0, 2)\n")
		os.Exit(1)
	}

	rnd := dist.NewRand(*seed)
	rf := &model.Runfile{
		Label:		fmt.Sprintf("synthetic run, sigma %g growth %g xtalk %g seed %d", *sigma, *growth, *xtalk, rnd.Seed()),
		NCycle:		*ncycle,
		Lane:		*lane,
		Tile:		*tile,
		Brightness:	model.Brightness{Shape: *shape, Scale: *scale},
	}

	ends := 1
	if *paired {
		ends = 2
	}

	for e := 0; e < ends; e++ {
		cov, err := covariance(rnd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if e == 0 {
			rf.End1 = model.CovarianceOf(cov)
		} else {
			rf.End2 = model.CovarianceOf(cov)
		}
	}

	// check that the simulator accepts it
	if _, err := rf.Model(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var w io.Writer = os.Stdout
	if *out != "-" {
		f, err := os.Create(*out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()

		w = f
		if strings.HasSuffix(*out, ".gz") {
			zw := gzip.NewWriter(f)
			defer zw.Close()
			w = zw
		}
	}

	if err := rf.Write(w); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
