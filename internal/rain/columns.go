package rain

import (
	"errors"
	"fmt"
)

var (
	ErrIndexOutOfBounds = errors.New("column index out of bounds")
	ErrNegativeRow      = errors.New("row must not be negative")
)

// Columns holds the fall position (row index) of every column.
// It is not safe for concurrent use; Engine serializes access.
type Columns struct {
	rows []int
}

func NewColumns(n int) *Columns {
	c := &Columns{}
	c.Resize(n)
	return c
}

func (c *Columns) Len() int { return len(c.rows) }

// Resize grows by appending columns at row 0 or shrinks by dropping
// trailing columns. Surviving rows are untouched. Negative n means 0.
func (c *Columns) Resize(n int) {
	if n < 0 {
		n = 0
	}
	switch {
	case n == len(c.rows):
		return
	case n < len(c.rows):
		c.rows = c.rows[:n]
	default:
		for len(c.rows) < n {
			c.rows = append(c.rows, 0)
		}
	}
}

func (c *Columns) Get(i int) (int, error) {
	if i < 0 || i >= len(c.rows) {
		return 0, fmt.Errorf("get %d of %d: %w", i, len(c.rows), ErrIndexOutOfBounds)
	}
	return c.rows[i], nil
}

func (c *Columns) Set(i, row int) error {
	if i < 0 || i >= len(c.rows) {
		return fmt.Errorf("set %d of %d: %w", i, len(c.rows), ErrIndexOutOfBounds)
	}
	if row < 0 {
		return fmt.Errorf("set %d to %d: %w", i, row, ErrNegativeRow)
	}
	c.rows[i] = row
	return nil
}

// Reset moves every column back to row 0.
func (c *Columns) Reset() {
	clear(c.rows)
}

// Rows returns a copy of the current positions.
func (c *Columns) Rows() []int {
	out := make([]int, len(c.rows))
	copy(out, c.rows)
	return out
}
