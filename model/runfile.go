package model

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/avilella/simNGS/matrix"
	"github.com/snksoft/crc"
	"gopkg.in/yaml.v3"
)

// Content of a runfile: the run parameters and the intensity covariance
// of each end
type Runfile struct {
	Label		string		`yaml:"label"`
	NCycle		int		`yaml:"ncycle"`
	Lane		uint32		`yaml:"lane"`
	Tile		uint32		`yaml:"tile"`
	Brightness	Brightness	`yaml:"brightness"`
	End1		*Covariance	`yaml:"end1"`
	End2		*Covariance	`yaml:"end2,omitempty"`
}

type Brightness struct {
	Shape	float64	`yaml:"shape"`
	Scale	float64	`yaml:"scale"`
}

// Column-major covariance matrix, either (4*ncycle)x(4*ncycle) or
// (4*ncycle)x4 (see NewEnd)
type Covariance struct {
	NRow	int		`yaml:"nrow"`
	NCol	int		`yaml:"ncol"`
	Data	[]float64	`yaml:"data,flow"`
}

func CovarianceOf(m *matrix.Matrix) *Covariance {
	return &Covariance{m.Rows(), m.Cols(), append([]float64(nil), m.Data()...)}
}

// Loads a model from a runfile. Files ending with .gz are decompressed.
func Load(fname string) (*Model, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(fname, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %v", fname, err)
		}
		defer zr.Close()
		r = zr
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", fname, err)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}

	return m, nil
}

// Creates a model from the content of a runfile
func Parse(data []byte) (*Model, error) {
	var rf Runfile

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&rf); err != nil {
		return nil, fmt.Errorf("%v: %w", err, Emodel)
	}

	m, err := rf.Model()
	if err != nil {
		return nil, err
	}

	m.Checksum = uint32(crc.CalculateCRC(crc.CRC32, data))
	return m, nil
}

// Creates the model described by the runfile
func (rf *Runfile) Model() (*Model, error) {
	if rf.Brightness.Shape <= 0 || rf.Brightness.Scale <= 0 {
		return nil, fmt.Errorf("brightness shape %g scale %g: %w", rf.Brightness.Shape, rf.Brightness.Scale, Emodel)
	}

	if rf.End1 == nil {
		return nil, fmt.Errorf("no covariance for end 1: %w", Emodel)
	}

	covs := []*Covariance{rf.End1}
	if rf.End2 != nil {
		covs = append(covs, rf.End2)
	}

	ends := make([]*End, len(covs))
	for i, c := range covs {
		cov, err := matrix.FromArray(c.NRow, c.NCol, c.Data)
		if err != nil {
			return nil, fmt.Errorf("end %d: %v: %w", i+1, err, Emodel)
		}

		if ends[i], err = NewEnd(cov, rf.NCycle); err != nil {
			return nil, fmt.Errorf("end %d: %w", i+1, err)
		}
	}

	m, err := New(rf.NCycle, ends...)
	if err != nil {
		return nil, err
	}

	m.Label = rf.Label
	m.Lane = rf.Lane
	m.Tile = rf.Tile
	m.Shape = rf.Brightness.Shape
	m.Scale = rf.Brightness.Scale
	return m, nil
}

// Writes the runfile
func (rf *Runfile) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rf); err != nil {
		return err
	}

	return enc.Close()
}
