package model

import (
	"bytes"
	"compress/gzip"
	"errors"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/avilella/simNGS/matrix"
	"gonum.org/v1/gonum/mat"
)

var iternum = flag.Int("n", 5, "number of iterations")

func TestMain(m *testing.M) {
	flag.Parse()
	os.Exit(m.Run())
}

// random 4x4 covariance: A*Aᵗ + I
func randomCov() *mat.SymDense {
	a := mat.NewDense(ChanNum, ChanNum, nil)
	for i := 0; i < ChanNum; i++ {
		for j := 0; j < ChanNum; j++ {
			a.Set(i, j, rand.NormFloat64())
		}
	}

	var s mat.SymDense
	s.SymOuterK(1, a)
	for i := 0; i < ChanNum; i++ {
		s.SetSym(i, i, s.At(i, i)+1)
	}

	return &s
}

// builds the full and the stacked layouts of the same per-cycle blocks
func layouts(blks []*mat.SymDense) (full, stacked *matrix.Matrix) {
	n := len(blks) * ChanNum
	full = matrix.New1(n, n)
	stacked = matrix.New1(n, ChanNum)
	for c, b := range blks {
		for i := 0; i < ChanNum; i++ {
			for j := 0; j < ChanNum; j++ {
				full.Set(c*ChanNum+i, c*ChanNum+j, b.At(i, j))
				stacked.Set(c*ChanNum+i, j, b.At(i, j))
			}
		}
	}

	// off-diagonal blocks are ignored
	if len(blks) > 1 {
		full.Set(0, n-1, 1e6)
		full.Set(n-1, 0, 1e6)
	}

	return
}

func checkFactors(t *testing.T, e *End, blks []*mat.SymDense) {
	for c, b := range blks {
		l := lowerDense(e.Chol[c])
		il := lowerDense(e.InvChol[c])

		var llt mat.Dense
		llt.Mul(l, l.T())
		if !mat.EqualApprox(&llt, b, 1e-9) {
			t.Fatalf("cycle %d: L*Lᵗ differs from the covariance", c)
		}

		var id mat.Dense
		id.Mul(l, il)
		if !mat.EqualApprox(&id, mat.NewDiagDense(ChanNum, []float64{1, 1, 1, 1}), 1e-9) {
			t.Fatalf("cycle %d: inverse factor is wrong", c)
		}
	}
}

func TestNewEnd(t *testing.T) {
	for i := 0; i < *iternum; i++ {
		ncycle := 1 + rand.Intn(6)
		blks := make([]*mat.SymDense, ncycle)
		for c := range blks {
			blks[c] = randomCov()
		}

		full, stacked := layouts(blks)
		fe, err := NewEnd(full, ncycle)
		if err != nil {
			t.Fatalf("full layout: %v", err)
		}
		checkFactors(t, fe, blks)

		se, err := NewEnd(stacked, ncycle)
		if err != nil {
			t.Fatalf("stacked layout: %v", err)
		}
		checkFactors(t, se, blks)
	}
}

func TestNewEndErrors(t *testing.T) {
	_, stacked := layouts([]*mat.SymDense{randomCov(), randomCov()})
	if _, err := NewEnd(stacked, 3); !errors.Is(err, Emodel) {
		t.Fatalf("wrong number of cycles accepted: %v", err)
	}

	bad := matrix.New1(ChanNum, ChanNum)
	bad.Set(0, 0, -1)
	if _, err := NewEnd(bad, 1); !errors.Is(err, matrix.Enotpd) {
		t.Fatalf("non positive-definite covariance accepted: %v", err)
	}
}

func testModel(t *testing.T, ncycle int, paired bool) *Model {
	var covs []*matrix.Matrix
	ends := 1
	if paired {
		ends = 2
	}

	for e := 0; e < ends; e++ {
		blks := make([]*mat.SymDense, ncycle)
		for c := range blks {
			blks[c] = randomCov()
		}

		_, stacked := layouts(blks)
		covs = append(covs, stacked)
	}

	m, err := FromCovariance(ncycle, covs...)
	if err != nil {
		t.Fatalf("FromCovariance: %v", err)
	}

	m.Shape = 6
	m.Scale = 1000
	m.Label = "test"
	return m
}

func TestPairedSingle(t *testing.T) {
	m := testModel(t, 4, false)
	if m.Paired() || m.End(1) == nil || m.End(2) != nil {
		t.Fatalf("single-ended model has wrong ends")
	}

	p := m.AsPaired()
	if !p.Paired() || p.Shape != m.Shape || p.Label != m.Label {
		t.Fatalf("AsPaired: wrong model")
	}

	for c := 0; c < 4; c++ {
		if !mat.Equal(p.End(2).Chol[c].Dense(), m.End(1).Chol[c].Dense()) {
			t.Fatalf("AsPaired: end 2 differs from end 1")
		}
	}

	// copies don't share storage
	p.End(2).Chol[0].Set(0, 0, 1234)
	if p.End(1).Chol[0].At(0, 0) == 1234 || m.End(1).Chol[0].At(0, 0) == 1234 {
		t.Fatalf("AsPaired: ends share storage")
	}

	s := p.AsSingle()
	if s.Paired() || s.End(2) != nil {
		t.Fatalf("AsSingle: model still paired")
	}
}

func TestTrim(t *testing.T) {
	m := testModel(t, 6, true)
	tm, err := m.Trim(4)
	if err != nil {
		t.Fatalf("Trim: %v", err)
	}

	if tm.NCycle != 4 || m.NCycle != 6 || len(tm.End(2).InvChol) != 4 {
		t.Fatalf("Trim: wrong number of cycles")
	}

	if !mat.Equal(tm.End(2).InvChol[3].Dense(), m.End(2).InvChol[3].Dense()) {
		t.Fatalf("Trim: factors changed")
	}

	if _, err := m.Trim(7); !errors.Is(err, Emodel) {
		t.Fatalf("Trim beyond the model accepted")
	}
}

func printYaml(m *matrix.Matrix) string {
	var b strings.Builder
	fmt.Fprintf(&b, "{nrow: %d, ncol: %d, data: [", m.Rows(), m.Cols())
	for i, v := range m.Data() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%v", v)
	}
	b.WriteString("]}")
	return b.String()
}

func TestLoad(t *testing.T) {
	blks := []*mat.SymDense{randomCov(), randomCov(), randomCov()}
	full, stacked := layouts(blks)
	rf := fmt.Sprintf("label: \"test run\"\nncycle: 3\nlane: 2\ntile: 7\nbrightness: {shape: 6.5, scale: 1100}\nend1: %s\nend2: %s\n",
		printYaml(full), printYaml(stacked))

	dir := t.TempDir()
	fname := filepath.Join(dir, "run.yaml.gz")
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	zw.Write([]byte(rf))
	zw.Close()
	if err := os.WriteFile(fname, buf.Bytes(), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	m, err := Load(fname)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !m.Paired() || m.NCycle != 3 || m.Lane != 2 || m.Tile != 7 || m.Shape != 6.5 || m.Scale != 1100 || m.Label != "test run" {
		t.Fatalf("Load: wrong parameters: %+v", m)
	}

	if m.Checksum == 0 {
		t.Fatalf("Load: no checksum")
	}

	checkFactors(t, m.End(1), blks)
	checkFactors(t, m.End(2), blks)

	var d bytes.Buffer
	m.Describe(&d)
	if !strings.Contains(d.String(), "test run") || !strings.Contains(d.String(), "end 2 cycle 1 cholesky") {
		t.Fatalf("Describe: %s", d.String())
	}
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		"ncycle: 1\nbrightness: {shape: 1, scale: 1}\n",
		"ncycle: 1\nbrightness: {shape: 0, scale: 1}\nend1: {nrow: 4, ncol: 4, data: [1,0,0,0, 0,1,0,0, 0,0,1,0, 0,0,0,1]}\n",
		"ncycle: 1\nbrightness: {shape: 1, scale: 1}\nend1: {nrow: 4, ncol: 4, data: [1,0,0]}\n",
		"ncycle: 1\nbogus: 1\n",
	}

	for i, c := range cases {
		if _, err := Parse([]byte(c)); !errors.Is(err, Emodel) {
			t.Fatalf("case %d: invalid runfile accepted: %v", i, err)
		}
	}

	m, err := Parse([]byte("ncycle: 1\nbrightness: {shape: 1, scale: 1}\nend1: {nrow: 4, ncol: 4, data: [4,0,0,0, 0,4,0,0, 0,0,4,0, 0,0,0,4]}\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if math.Abs(m.End(1).Chol[0].At(2, 2)-2) > 1e-12 || math.Abs(m.End(1).InvChol[0].At(3, 3)-0.5) > 1e-12 {
		t.Fatalf("Parse: wrong factors")
	}
}

func TestRunfileWrite(t *testing.T) {
	blks := []*mat.SymDense{randomCov(), randomCov()}
	_, stacked := layouts(blks)
	rf := &Runfile{
		Label:		"written",
		NCycle:		2,
		Lane:		1,
		Tile:		3,
		Brightness:	Brightness{Shape: 2, Scale: 50},
		End1:		CovarianceOf(stacked),
	}

	var b bytes.Buffer
	if err := rf.Write(&b); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if strings.Contains(b.String(), "end2") {
		t.Fatalf("single-ended runfile has end 2:\n%s", b.String())
	}

	m, err := Parse(b.Bytes())
	if err != nil {
		t.Fatalf("Parse: %v\n%s", err, b.String())
	}

	if m.Paired() || m.NCycle != 2 || m.Label != "written" || m.Scale != 50 {
		t.Fatalf("wrong model: %+v", m)
	}

	checkFactors(t, m.End(1), blks)
}
