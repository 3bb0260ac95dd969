package oligo

import (
	"flag"
	"math/rand"
	"os"
	"testing"
)

var iternum = flag.Int("n", 5, "number of iterations")

func TestMain(m *testing.M) {
	flag.Parse()
	os.Exit(m.Run())
}

func randomString(l int) string {
	so := ""
	for i := 0; i < l; i++ {
		so += Nt2String(rand.Intn(4))
	}

	return so
}

func TestString(t *testing.T) {
	for i := 0; i < *iternum; i++ {
		so := randomString(rand.Intn(100))
		s, err := FromString("r", so)
		if err != nil {
			t.Fatalf("FromString failed: %v", err)
		}

		if s.String() != so || s.Len() != len(so) {
			t.Fatalf("String() fails: %v: %v", so, s)
		}
	}

	s, _ := FromString("lower", "acgt")
	if s.String() != "ACGT" {
		t.Fatalf("lower case not accepted: %v", s)
	}

	if _, err := FromString("bad", "ACNT"); err == nil {
		t.Fatalf("N accepted as a nucleotide")
	}
}

func TestRevComp(t *testing.T) {
	s := FromString1("r", "AACGTTG")
	if rc := s.RevComp().String(); rc != "CAACGTT" {
		t.Fatalf("RevComp() fails: %v", rc)
	}

	for i := 0; i < *iternum; i++ {
		s := FromString1("r", randomString(rand.Intn(100)))
		if s.RevComp().RevComp().String() != s.String() {
			t.Fatalf("double reverse complement differs: %v", s)
		}
	}
}

func TestNt(t *testing.T) {
	for nt := 0; nt < NtNum; nt++ {
		if String2Nt(Nt2String(nt)) != nt {
			t.Fatalf("nt %d doesn't convert back", nt)
		}
	}

	if Nt2String(4) != "?" || String2Nt("N") != -1 {
		t.Fatalf("invalid nt converted")
	}
}
