package source

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyLineTable is returned for a line table without entries.
	ErrEmptyLineTable = errors.New("line table is empty")
	// ErrUnsortedLineTable is returned when line starts do not begin at 0
	// or are not strictly increasing.
	ErrUnsortedLineTable = errors.New("line table is not strictly increasing from 0")
)

// LineIndex maps byte offsets to 0-based line numbers.
type LineIndex struct {
	starts []uint32
}

// NewLineIndex validates starts and wraps it. The slice is not copied.
func NewLineIndex(starts []uint32) (LineIndex, error) {
	if len(starts) == 0 {
		return LineIndex{}, ErrEmptyLineTable
	}
	if starts[0] != 0 {
		return LineIndex{}, fmt.Errorf("%w: first entry is %d", ErrUnsortedLineTable, starts[0])
	}
	for i := 1; i < len(starts); i++ {
		if starts[i] <= starts[i-1] {
			return LineIndex{}, fmt.Errorf("%w: entry %d (%d) after %d", ErrUnsortedLineTable, i, starts[i], starts[i-1])
		}
	}
	return LineIndex{starts: starts}, nil
}

// Lines returns the validated line index of the file.
func (f *File) Lines() (LineIndex, error) {
	return NewLineIndex(f.LineStarts)
}

// LineOf returns the greatest line i such that starts[i] <= off.
// Offsets past the end of the file map to the last line.
func (li LineIndex) LineOf(off uint32) int {
	return lineOf(li.starts, off)
}

// Count returns the number of lines.
func (li LineIndex) Count() int {
	return len(li.starts)
}

// Start returns the offset of the first byte of line.
func (li LineIndex) Start(line int) uint32 {
	return li.starts[line]
}

func lineOf(starts []uint32, off uint32) int {
	lo, hi := 0, len(starts)-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		if starts[mid] <= off {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return hi
}
