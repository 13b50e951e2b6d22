package display

import (
	"errors"
	"strings"
	"testing"

	"github.com/sweeney/temp-indicator/internal/logic"
)

func TestPresenterInit(t *testing.T) {
	d := NewFakeDisplay(16, 2)
	p := NewPresenter(d, Label)

	if err := p.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if !d.Initialized {
		t.Error("display should be initialized")
	}
}

func TestPresenterShowZero(t *testing.T) {
	d := NewFakeDisplay(16, 2)
	p := NewPresenter(d, Label)

	if err := p.Show(logic.NewReading(0)); err != nil {
		t.Fatalf("Show: %v", err)
	}

	lines := d.Lines()
	if got := strings.TrimRight(lines[0], " "); got != "Temperatures:" {
		t.Errorf("line 0: got %q", got)
	}
	if got := strings.TrimRight(lines[1], " "); got != "0.00C   32.00F" {
		t.Errorf("line 1: got %q", got)
	}
}

func TestPresenterOperationOrder(t *testing.T) {
	d := NewFakeDisplay(20, 2)
	p := NewPresenter(d, Label)

	p.Show(logic.NewReading(1023))

	want := []string{
		"clear",
		"cursor 0,0",
		"print Temperatures: ",
		"cursor 0,1",
		"print 500.00C   932.00F",
	}
	if len(d.Ops) != len(want) {
		t.Fatalf("expected %d ops, got %d: %v", len(want), len(d.Ops), d.Ops)
	}
	for i := range want {
		if d.Ops[i] != want[i] {
			t.Errorf("op %d: got %q, want %q", i, d.Ops[i], want[i])
		}
	}
}

func TestPresenterClearsPreviousContent(t *testing.T) {
	d := NewFakeDisplay(20, 2)
	p := NewPresenter(d, Label)

	p.Show(logic.NewReading(1023))
	p.Show(logic.NewReading(0))

	if got := strings.TrimRight(d.Lines()[1], " "); got != "0.00C   32.00F" {
		t.Errorf("line 1: got %q, stale content not cleared", got)
	}
}

func TestPresenterTruncatesToWidth(t *testing.T) {
	d := NewFakeDisplay(16, 2)
	p := NewPresenter(d, Label)

	p.Show(logic.NewReading(1023))
	if got := d.Lines()[1]; got != "500.00C   932.00" {
		t.Errorf("line 1: got %q", got)
	}
}

func TestPresenterError(t *testing.T) {
	d := NewFakeDisplay(16, 2)
	d.Err = errors.New("bus fault")
	p := NewPresenter(d, Label)

	if err := p.Show(logic.NewReading(0)); err == nil {
		t.Error("expected error from display")
	}
	if err := p.Init(); err == nil {
		t.Error("expected error from Init")
	}
}

func TestFakeDisplayCursorBounds(t *testing.T) {
	d := NewFakeDisplay(16, 2)
	if err := d.SetCursor(0, 2); err == nil {
		t.Error("expected error for row 2")
	}
	if err := d.SetCursor(16, 0); err == nil {
		t.Error("expected error for column 16")
	}
}

func TestConsoleFlush(t *testing.T) {
	var b strings.Builder
	c := NewConsole(&b, 16, 2)
	p := NewPresenter(c, Label)

	if err := p.Show(logic.NewReading(0)); err != nil {
		t.Fatalf("Show: %v", err)
	}

	want := "+----------------+\n" +
		"|Temperatures:   |\n" +
		"|0.00C   32.00F  |\n" +
		"+----------------+\n"
	if b.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", b.String(), want)
	}
}
