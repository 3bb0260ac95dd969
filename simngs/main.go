// The simngs tool simulates the reads of a sequencing run. It reads the
// noise model from a runfile and the sequences from a FASTA/FASTQ (or csv)
// file, writes one record of base likelihoods per sequence and prints a
// summary of the calling errors.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/avilella/simNGS/io/csv"
	"github.com/avilella/simNGS/io/fasta"
	"github.com/avilella/simNGS/model"
	"github.com/avilella/simNGS/sim"
	"github.com/google/uuid"
	"github.com/pkg/profile"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var log = logrus.New()

var rootCmd = &cobra.Command{
	Use:		"simngs [flags] runfile [sequences]",
	Short:		"Simulate the reads of a sequencing run",
	Long:		"Simulates the intensities of the sequences (standard input if not specified)\nusing the noise model of the runfile, calls the bases and reports the errors.",
	Args:		cobra.RangeArgs(1, 2),
	SilenceUsage:	true,
	SilenceErrors:	true,
	RunE:		run,
}

func init() {
	f := rootCmd.Flags()
	f.StringP("brightness", "b", "", "brightness distribution, shape:scale (default as runfile)")
	f.Float64P("correlation", "c", 1, "correlation of the brightness of the two ends, in [-1, 1]")
	f.BoolP("describe", "d", false, "print the description of the runfile and exit")
	f.StringP("filter", "f", "", "purity filter, maximpure:ncycle:threshold")
	f.StringP("intensities", "i", "", "file to write the simulated intensities to")
	f.Uint32P("lane", "l", 0, "lane number (default as runfile)")
	f.IntP("ncycle", "n", 0, "number of cycles to simulate (default as runfile)")
	f.StringP("paired", "p", "model", "paired-end reads: on, off or model")
	f.Lookup("paired").NoOptDefVal = "on"
	f.Float64P("robust", "r", 0, "robustness floor mu of the likelihoods")
	f.Int64P("seed", "s", 0, "seed for the random generator (default from the clock)")
	f.Uint32P("tile", "t", 0, "tile number (default as runfile)")
	f.Float64P("variance", "v", 1, "factor the noise variance is scaled by")
	f.StringP("output", "o", "-", "output file (.gz gzipped, .sz snappy compressed)")
	f.String("format", "fasta", "format of the sequences: fasta or csv")
	f.String("config", "", "YAML configuration file")
	f.String("metrics", "", "file to write the run metrics to, in prometheus text format")
	f.String("log-level", "info", "log level: debug, info, warn or error")
	f.String("profile", "", "profile the run: cpu or mem")

	viper.SetEnvPrefix("simngs")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	cobra.CheckErr(viper.BindPFlags(f))
}

func options() (opts sim.Options, err error) {
	opts = sim.DefaultOptions()
	if b := viper.GetString("brightness"); b != "" {
		if opts.Shape, opts.Scale, err = sim.ParseBrightness(b); err != nil {
			return
		}
	}

	if p := viper.GetString("filter"); p != "" {
		if opts.Purity, err = sim.ParsePurity(p); err != nil {
			return
		}
	}

	if opts.Paired, err = sim.ParsePaired(viper.GetString("paired")); err != nil {
		return
	}

	opts.Corr = viper.GetFloat64("correlation")
	opts.Lane = viper.GetUint32("lane")
	opts.Tile = viper.GetUint32("tile")
	opts.NCycle = viper.GetInt("ncycle")
	opts.Mu = viper.GetFloat64("robust")
	opts.Seed = viper.GetInt64("seed")
	opts.Variance = viper.GetFloat64("variance")
	err = opts.Validate()
	return
}

func run(cmd *cobra.Command, args []string) error {
	if cfg := viper.GetString("config"); cfg != "" {
		viper.SetConfigFile(cfg)
		viper.SetConfigType("yaml")
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("config %s: %v", cfg, err)
		}
	}

	lvl, err := logrus.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		return err
	}
	log.SetLevel(lvl)

	switch viper.GetString("profile") {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	default:
		return fmt.Errorf("profile '%s': %w", viper.GetString("profile"), sim.Eoption)
	}

	rlog := log.WithField("run", uuid.New().String())

	opts, err := options()
	if err != nil {
		return err
	}

	m, err := model.Load(args[0])
	if err != nil {
		return err
	}

	if viper.GetBool("describe") {
		m.Describe(os.Stderr)
		return nil
	}
	rlog.WithField("label", m.Label).Info("runfile loaded")

	m, err = sim.Resolve(m, &opts, rlog)
	if err != nil {
		return err
	}
	rlog.WithFields(logrus.Fields{
		"ncycle":	opts.NCycle,
		"paired":	m.Paired(),
		"shape":	opts.Shape,
		"scale":	opts.Scale,
		"seed":		opts.Seed,
	}).Info("simulating")

	parse := fasta.Parse
	switch viper.GetString("format") {
	case "fasta":
	case "csv":
		parse = csv.Parse
	default:
		return fmt.Errorf("format '%s': %w", viper.GetString("format"), sim.Eoption)
	}

	out, err := sim.CreateOutput(viper.GetString("output"))
	if err != nil {
		return err
	}
	defer out.Close()

	s, err := sim.New(m, opts, out, rlog)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	s.SetMetrics(sim.NewMetrics(reg))

	if ifn := viper.GetString("intensities"); ifn != "" {
		dump, err := sim.CreateOutput(ifn)
		if err != nil {
			return err
		}
		defer dump.Close()

		s.SetDump(dump)
		rlog.WithField("file", ifn).Info("writing intensities")
	}

	seqs := "-"
	if len(args) > 1 {
		seqs = args[1]
	}

	if err := s.Run(seqs, parse); err != nil {
		return err
	}

	s.Summary(os.Stderr)

	if mfn := viper.GetString("metrics"); mfn != "" {
		if err := prometheus.WriteToTextfile(mfn, reg); err != nil {
			return err
		}
	}

	return out.Close()
}

func main() {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:		true,
		DisableLevelTruncation:	true,
	})

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, sim.Eoption) || errors.Is(err, model.Emodel) {
			log.WithError(err).Error("invalid configuration")
		} else {
			log.WithError(err).Error("simulation failed")
		}

		os.Exit(1)
	}
}
