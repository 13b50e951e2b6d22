package display

import "strconv"

// FakeDisplay is a test double that records operations and keeps the
// visible contents.
type FakeDisplay struct {
	*frame

	// Ops records every call, e.g. "clear", "cursor 0,1", "print ...".
	Ops []string

	// Initialized tracks if Init was called.
	Initialized bool

	// Err, if set, is returned by every operation.
	Err error
}

// NewFakeDisplay creates a blank cols x rows FakeDisplay.
func NewFakeDisplay(cols, rows int) *FakeDisplay {
	return &FakeDisplay{frame: newFrame(cols, rows)}
}

// Init marks the display as initialized.
func (f *FakeDisplay) Init() error {
	if f.Err != nil {
		return f.Err
	}
	f.Initialized = true
	f.Ops = append(f.Ops, "init")
	return nil
}

// Clear blanks the display and homes the cursor.
func (f *FakeDisplay) Clear() error {
	if f.Err != nil {
		return f.Err
	}
	f.clear()
	f.Ops = append(f.Ops, "clear")
	return nil
}

// SetCursor moves the cursor.
func (f *FakeDisplay) SetCursor(col, row int) error {
	if f.Err != nil {
		return f.Err
	}
	if err := f.setCursor(col, row); err != nil {
		return err
	}
	f.Ops = append(f.Ops, "cursor "+strconv.Itoa(col)+","+strconv.Itoa(row))
	return nil
}

// Print writes text at the cursor.
func (f *FakeDisplay) Print(text string) error {
	if f.Err != nil {
		return f.Err
	}
	f.print(text)
	f.Ops = append(f.Ops, "print "+text)
	return nil
}

// Lines returns the visible rows.
func (f *FakeDisplay) Lines() []string {
	return f.lines()
}
