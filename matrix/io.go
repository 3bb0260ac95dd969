package matrix

// Text format: a line with the number of rows and columns, then every
// element on its own line in column-major order.
import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"gonum.org/v1/gonum/mat"
)

// Writes the matrix in the text format
func (m *Matrix) Print(w io.Writer) (err error) {
	buf := make([]byte, 0, 32*(len(m.x)+1))
	buf = strconv.AppendInt(buf, int64(m.nrow), 10)
	buf = append(buf, ' ')
	buf = strconv.AppendInt(buf, int64(m.ncol), 10)
	buf = append(buf, '\n')
	for _, v := range m.x {
		buf = strconv.AppendFloat(buf, v, 'g', -1, 64)
		buf = append(buf, '\n')
	}

	_, err = w.Write(buf)
	return
}

// Reads a matrix in the text format
func Read(r io.Reader) (*Matrix, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	var dims [2]int
	for i := range dims {
		if !sc.Scan() {
			return nil, fmt.Errorf("matrix header: %w", scanErr(sc))
		}

		n, err := strconv.Atoi(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("matrix header: %v", err)
		}

		dims[i] = n
	}

	return readElements(sc, dims[0], dims[1])
}

// Reads nrow*ncol whitespace separated elements in column-major order
func ReadElements(r io.Reader, nrow, ncol int) (*Matrix, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	return readElements(sc, nrow, ncol)
}

func readElements(sc *bufio.Scanner, nrow, ncol int) (*Matrix, error) {
	m, err := New(nrow, ncol)
	if err != nil {
		return nil, err
	}

	for i := range m.x {
		if !sc.Scan() {
			return nil, fmt.Errorf("too few elements, expecting %d but only found %d: %w", len(m.x), i, scanErr(sc))
		}

		m.x[i], err = strconv.ParseFloat(sc.Text(), 64)
		if err != nil {
			return nil, err
		}
	}

	return m, nil
}

func scanErr(sc *bufio.Scanner) error {
	if err := sc.Err(); err != nil {
		return err
	}

	return io.ErrUnexpectedEOF
}

// Prints at most mrow rows and mcol columns of the matrix in a human
// readable form.
func (m *Matrix) Show(w io.Writer, mrow, mcol int) {
	maxrow := min(mrow, m.nrow)
	maxcol := min(mcol, m.ncol)
	for row := 0; row < maxrow; row++ {
		fmt.Fprintf(w, "%d:", row+1)
		for col := 0; col < maxcol; col++ {
			fmt.Fprintf(w, " %#8.2f", m.x[col*m.nrow+row])
		}

		if maxcol < m.ncol {
			fmt.Fprintf(w, "\t... (%d others)", m.ncol-maxcol)
		}
		fmt.Fprintln(w)
	}

	if maxrow < m.nrow {
		fmt.Fprintf(w, "... (%d others)\n", m.nrow-maxrow)
	}
}

// Returns a gonum copy of the matrix
func (m *Matrix) Dense() *mat.Dense {
	if m.nrow == 0 || m.ncol == 0 {
		return &mat.Dense{}
	}

	d := mat.NewDense(m.nrow, m.ncol, nil)
	for col := 0; col < m.ncol; col++ {
		for row := 0; row < m.nrow; row++ {
			d.Set(row, col, m.x[col*m.nrow+row])
		}
	}

	return d
}

// Creates a matrix from any gonum matrix
func FromDense(a mat.Matrix) *Matrix {
	nrow, ncol := a.Dims()
	m := New1(nrow, ncol)
	for col := 0; col < ncol; col++ {
		for row := 0; row < nrow; row++ {
			m.x[col*nrow+row] = a.At(row, col)
		}
	}

	return m
}
