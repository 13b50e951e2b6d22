package display

import (
	"fmt"
	"io"
	"strings"
)

// Console renders the display as a boxed text frame on a writer, one frame
// per Flush. It stands in for an LCD on hosts without one.
type Console struct {
	w     io.Writer
	frame *frame
}

// NewConsole creates a cols x rows Console writing to w.
func NewConsole(w io.Writer, cols, rows int) *Console {
	return &Console{w: w, frame: newFrame(cols, rows)}
}

// Init blanks the frame.
func (c *Console) Init() error {
	c.frame.clear()
	return nil
}

// Clear blanks the frame and homes the cursor.
func (c *Console) Clear() error {
	c.frame.clear()
	return nil
}

// SetCursor moves the cursor.
func (c *Console) SetCursor(col, row int) error {
	return c.frame.setCursor(col, row)
}

// Print writes text at the cursor.
func (c *Console) Print(text string) error {
	c.frame.print(text)
	return nil
}

// Flush writes the current frame.
func (c *Console) Flush() error {
	border := "+" + strings.Repeat("-", c.frame.cols) + "+\n"

	var b strings.Builder
	b.WriteString(border)
	for _, line := range c.frame.lines() {
		b.WriteString("|" + line + "|\n")
	}
	b.WriteString(border)

	if _, err := io.WriteString(c.w, b.String()); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}
