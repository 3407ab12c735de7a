// Package tables reads and writes plain-text numeric arrays in the layout of
// numpy's savetxt and loadtxt: one row per line, whitespace separated values,
// and '#' comment lines carrying an optional header.
package tables

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"wellflow/pkg/serrors"
)

const comment = "#"

// Write writes m row by row with an optional header.
func Write(w io.Writer, m mat.Matrix, header string) error {
	bw := bufio.NewWriter(w)
	if err := writeHeader(bw, header); err != nil {
		return err
	}

	rows, cols := m.Dims()
	buf := make([]byte, 0, 32*cols)
	for i := range rows {
		buf = buf[:0]
		for j := range cols {
			if j > 0 {
				buf = append(buf, ' ')
			}
			buf = strconv.AppendFloat(buf, m.At(i, j), 'e', 18, 64)
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return fmt.Errorf("could not write row %d: %w", i, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("could not flush table: %w", err)
	}

	return nil
}

// WriteVector writes v with one value per line.
func WriteVector(w io.Writer, v []float64, header string) error {
	if len(v) == 0 {
		return serrors.With(serrors.ErrInvalidArgument, "cannot write an empty vector")
	}

	return Write(w, mat.NewDense(len(v), 1, v), header)
}

func writeHeader(w *bufio.Writer, header string) error {
	if header == "" {
		return nil
	}
	for _, line := range strings.Split(header, "\n") {
		if _, err := fmt.Fprintf(w, "%s %s\n", comment, line); err != nil {
			return fmt.Errorf("could not write header: %w", err)
		}
	}

	return nil
}

// Table is a parsed text array together with its header lines.
type Table struct {
	// Header holds the comment lines without the leading '#'.
	Header []string
	// Data holds the values. A file with a single column or a single row is
	// still two dimensional here; use Vector to flatten it.
	Data *mat.Dense
}

// Vector flattens a single-row or single-column table.
func (t *Table) Vector() ([]float64, error) {
	rows, cols := t.Data.Dims()
	switch {
	case cols == 1:
		return mat.Col(nil, 0, t.Data), nil
	case rows == 1:
		return mat.Row(nil, 0, t.Data), nil
	default:
		return nil, serrors.With(serrors.ErrInvalidArgument, "table of shape %dx%d is not a vector", rows, cols)
	}
}

// Read parses a text array. Blank lines are skipped, every data line must
// have the same number of values.
func Read(r io.Reader) (*Table, error) {
	var (
		header []string
		data   []float64
		cols   int
		rows   int
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(text, comment); ok {
			header = append(header, strings.TrimSpace(rest))

			continue
		}
		if i := strings.Index(text, comment); i >= 0 {
			text = text[:i]
		}

		fields := strings.Fields(text)
		if rows == 0 {
			cols = len(fields)
		} else if len(fields) != cols {
			return nil, serrors.With(serrors.ErrInvalidArgument,
				"line %d has %d values, expected %d", line, len(fields), cols)
		}
		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, serrors.Wrap(serrors.ErrInvalidArgument, err, "line %d: invalid value %q", line, f)
			}
			data = append(data, v)
		}
		rows++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("could not scan table: %w", err)
	}
	if rows == 0 {
		return nil, serrors.With(serrors.ErrInvalidArgument, "table has no data")
	}

	return &Table{Header: header, Data: mat.NewDense(rows, cols, data)}, nil
}

// Load reads the text array stored at path.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open table: %w", err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}

	return t, nil
}

// LoadVector reads a single-row or single-column text array.
func LoadVector(path string) ([]float64, error) {
	t, err := Load(path)
	if err != nil {
		return nil, err
	}
	v, err := t.Vector()
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}

	return v, nil
}

// Save writes m to path, replacing an existing file.
func Save(path string, m mat.Matrix, header string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create table: %w", err)
	}
	if err := Write(f, m, header); err != nil {
		_ = f.Close()

		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("could not close table: %w", err)
	}

	return nil
}

// SaveVector writes v to path with one value per line.
func SaveVector(path string, v []float64, header string) error {
	if len(v) == 0 {
		return serrors.With(serrors.ErrInvalidArgument, "cannot write an empty vector")
	}

	return Save(path, mat.NewDense(len(v), 1, v), header)
}
