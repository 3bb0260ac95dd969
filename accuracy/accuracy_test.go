package accuracy

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
)

func TestAdd(t *testing.T) {
	a := New(4, 2)
	truth := [][]byte{{0, 1, 2, 3}, {3, 2, 1, 0}}

	if err := a.Add([][]byte{{0, 1, 2, 3}, {3, 2, 1, 1}}, truth); err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := a.Add([][]byte{{1, 1, 2, 0}, {3, 2, 1, 1}}, truth); err != nil {
		t.Fatalf("Add: %v", err)
	}

	e1, e2 := a.Errors(1), a.Errors(2)
	if a.Reads() != 2 || e1[0] != 1 || e1[1] != 0 || e1[3] != 1 || e2[3] != 2 || e2[0] != 0 {
		t.Fatalf("wrong counts: %d reads %v %v", a.Reads(), e1, e2)
	}

	if err := a.Add([][]byte{{0, 1, 2, 3}}, truth[0:1]); !errors.Is(err, Eread) {
		t.Fatalf("single end accepted by paired accumulator: %v", err)
	}

	if err := a.Add([][]byte{{0, 1}, {0, 1}}, truth); !errors.Is(err, Eread) {
		t.Fatalf("short calls accepted: %v", err)
	}

	if a.Reads() != 2 {
		t.Fatalf("rejected reads counted")
	}
}

func TestWilson(t *testing.T) {
	// 10 errors out of 100
	lo, hi := Wilson(0.1, 100)
	if math.Abs(lo-0.05523) > 1e-4 || math.Abs(hi-0.17437) > 1e-4 {
		t.Fatalf("Wilson(0.1, 100): %v %v", lo, hi)
	}

	lo, hi = Wilson(0, 50)
	if lo != 0 || hi <= 0 || hi >= 0.1 {
		t.Fatalf("Wilson(0, 50): %v %v", lo, hi)
	}

	if lo, hi = Wilson(1, 50); hi != 1 || lo >= 1 {
		t.Fatalf("Wilson(1, 50): %v %v", lo, hi)
	}
}

func TestSummary(t *testing.T) {
	a := New(2, 1)
	truth := [][]byte{{0, 0}}
	for i := 0; i < 100; i++ {
		calls := [][]byte{{0, 0}}
		if i < 10 {
			calls[0][1] = 2
		}

		a.Add(calls, truth)
	}

	s := a.Summary(1)
	if s[0].Errors != 0 || !math.IsInf(s[0].Phred, 1) || !math.IsInf(s[0].Upper, 1) {
		t.Fatalf("error free cycle: %+v", s[0])
	}

	if s[1].Errors != 10 || math.Abs(s[1].Phred-10) > 1e-12 {
		t.Fatalf("cycle with 10%% errors: %+v", s[1])
	}

	if !(s[1].Lower < s[1].Phred && s[1].Phred < s[1].Upper) {
		t.Fatalf("phred bounds not ordered: %+v", s[1])
	}

	var b bytes.Buffer
	a.Report(&b)
	if !strings.Contains(b.String(), "  2:      10  10.00 (") {
		t.Fatalf("Report:\n%s", b.String())
	}
}

func TestNoReads(t *testing.T) {
	a := New(3, 2)
	for _, c := range a.Summary(2) {
		if !math.IsNaN(c.Rate) || !math.IsNaN(c.Phred) {
			t.Fatalf("rate defined without reads: %+v", c)
		}
	}

	var b bytes.Buffer
	a.Report(&b)
	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	if len(lines) != 5 || !strings.Contains(lines[4], "NA") {
		t.Fatalf("Report:\n%s", b.String())
	}
}
