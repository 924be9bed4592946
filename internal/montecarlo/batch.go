package montecarlo

import (
	"fmt"

	"github.com/mkravets/sdeconv/internal/sde"
)

// Batch holds the terminal augmented states of N independent samples:
// one column of length Dim per sample. Not mutated after creation.
type Batch struct {
	Dim  int
	cols [][]float64
}

func NewBatch(dim, n int) *Batch {
	cols := make([][]float64, n)
	for j := range cols {
		cols[j] = make([]float64, dim)
	}
	return &Batch{Dim: dim, cols: cols}
}

// FromColumns wraps existing columns, validating the (dim, n) shape.
// A shape mismatch is an explicit error, never a reshape.
func FromColumns(dim, n int, cols [][]float64) (*Batch, error) {
	if len(cols) != n {
		return nil, fmt.Errorf("%w: batch has %d columns, expected %d", sde.ErrDimensionMismatch, len(cols), n)
	}
	for j, c := range cols {
		if len(c) != dim {
			return nil, fmt.Errorf("%w: column %d has %d rows, expected %d", sde.ErrDimensionMismatch, j, len(c), dim)
		}
	}
	return &Batch{Dim: dim, cols: cols}, nil
}

func (b *Batch) N() int               { return len(b.cols) }
func (b *Batch) Col(j int) []float64  { return b.cols[j] }
func (b *Batch) Columns() [][]float64 { return b.cols }

func (b *Batch) Clone() *Batch {
	c := NewBatch(b.Dim, b.N())
	for j, col := range b.cols {
		copy(c.cols[j], col)
	}
	return c
}

// Split views the batch as its original-process block (first d rows) and
// its linearized-process block (last d rows).
func (b *Batch) Split(d int) (yCols, zCols [][]float64, err error) {
	if 2*d != b.Dim {
		return nil, nil, fmt.Errorf("%w: augmented dimension %d is not 2×%d", sde.ErrDimensionMismatch, b.Dim, d)
	}
	yCols = make([][]float64, b.N())
	zCols = make([][]float64, b.N())
	for j, c := range b.cols {
		yCols[j] = c[:d]
		zCols[j] = c[d:]
	}
	return yCols, zCols, nil
}
