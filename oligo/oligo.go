// The oligo package defines the nucleotide sequences that are fed to the
// simulator.
package oligo

import (
	"fmt"
)

// Nucleotide codes. They are also the channel indices of the
// intensities and likelihoods.
const (
	A = 0
	C = 1
	G = 2
	T = 3

	NtNum = 4
)

var ntNames = "ACGT"

type Sequence struct {
	Name	string

	// nt codes, one byte per nt
	Nts	[]byte
}

// Converts an numeric value of a nucleotide (nt) to its string value
func Nt2String(nt int) string {
	if nt < 0 || nt >= len(ntNames) {
		return "?"
	}

	return string(ntNames[nt])
}

// Converts a character to the nt value, -1 if it isn't a nt
func Char2Nt(c byte) int {
	switch c {
	default:
		return -1
	case 'A', 'a':
		return A
	case 'C', 'c':
		return C
	case 'G', 'g':
		return G
	case 'T', 't':
		return T
	}
}

// Converts string value of a nt to its numeric value
func String2Nt(nt string) int {
	if len(nt) != 1 {
		return -1
	}

	return Char2Nt(nt[0])
}

func Complement(nt byte) byte {
	return T - nt
}

// Creates a sequence from its string representation.
// Returns an error if the string contains anything but A, C, G and T.
func FromString(name, s string) (*Sequence, error) {
	return FromBytes(name, []byte(s))
}

func FromBytes(name string, s []byte) (*Sequence, error) {
	nts := make([]byte, len(s))
	for i, c := range s {
		nt := Char2Nt(c)
		if nt < 0 {
			return nil, fmt.Errorf("sequence %s: invalid nucleotide '%c' at %d", name, c, i+1)
		}

		nts[i] = byte(nt)
	}

	return &Sequence{name, nts}, nil
}

// for when we know that there can't be error
func FromString1(name, s string) *Sequence {
	seq, err := FromString(name, s)
	if err != nil {
		panic(err)
	}

	return seq
}

func (s *Sequence) Len() int {
	return len(s.Nts)
}

func (s *Sequence) String() string {
	b := make([]byte, len(s.Nts))
	for i, nt := range s.Nts {
		b[i] = ntNames[nt]
	}

	return string(b)
}

// Returns the reverse complement of the sequence
func (s *Sequence) RevComp() *Sequence {
	n := len(s.Nts)
	rc := make([]byte, n)
	for i, nt := range s.Nts {
		rc[n-1-i] = Complement(nt)
	}

	return &Sequence{s.Name, rc}
}
