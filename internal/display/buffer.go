package display

import "fmt"

// frame is a rows x cols character grid with a cursor. Not safe for
// concurrent use.
type frame struct {
	cols, rows int
	cells      [][]byte
	col, row   int
}

func newFrame(cols, rows int) *frame {
	f := &frame{cols: cols, rows: rows, cells: make([][]byte, rows)}
	for i := range f.cells {
		f.cells[i] = make([]byte, cols)
	}
	f.clear()
	return f
}

func (f *frame) clear() {
	for _, row := range f.cells {
		for i := range row {
			row[i] = ' '
		}
	}
	f.col, f.row = 0, 0
}

func (f *frame) setCursor(col, row int) error {
	if col < 0 || col >= f.cols || row < 0 || row >= f.rows {
		return fmt.Errorf("cursor (%d,%d) outside %dx%d display", col, row, f.cols, f.rows)
	}
	f.col, f.row = col, row
	return nil
}

func (f *frame) print(text string) {
	for i := 0; i < len(text) && f.col < f.cols; i++ {
		f.cells[f.row][f.col] = text[i]
		f.col++
	}
}

// lines returns every row with trailing blanks kept.
func (f *frame) lines() []string {
	out := make([]string, f.rows)
	for i, row := range f.cells {
		out[i] = string(row)
	}
	return out
}
