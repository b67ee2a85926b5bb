package view

import (
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/linkdrop/internal/client/models"
	"github.com/dmitrijs2005/linkdrop/internal/client/staging"
)

// Terminal is a line-oriented View.
type Terminal struct {
	mu  sync.Mutex
	out io.Writer

	rows          []staging.Row
	submitVisible bool
	submitEnabled bool
	percent       int
	processing    bool
	dots          int
	notices       []models.Notice
	highlight     bool

	// a progress or processing line is open and needs a newline
	lineOpen bool
}

func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{out: out, submitEnabled: true}
}

func (t *Terminal) RenderList(rows []staging.Row, submitVisible bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.rows = rows
	t.submitVisible = submitVisible
	t.closeLine()
	fmt.Fprintln(t.out, FormatList(rows, submitVisible))
}

func (t *Terminal) SetSubmitEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.submitEnabled = enabled
}

func (t *Terminal) SetProgress(percent int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.percent = percent
	if t.submitEnabled {
		// reset after settlement, nothing to draw
		return
	}
	fmt.Fprint(t.out, "\r"+ProgressBar(percent))
	t.lineOpen = true
}

func (t *Terminal) SetProcessing(active bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.processing = active
	t.closeLine()
	if active {
		t.dots = 0
		fmt.Fprint(t.out, ProcessingLine(0))
		t.lineOpen = true
	}
}

func (t *Terminal) SetDots(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.dots = n
	if !t.processing {
		return
	}
	fmt.Fprint(t.out, "\r"+ProcessingLine(n))
	t.lineOpen = true
}

func (t *Terminal) ShowNotices(notices []models.Notice) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.notices = notices
	t.closeLine()
	t.writeNotices()
}

// SetHighlight marks the drop zone as active.
func (t *Terminal) SetHighlight(on bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.highlight == on {
		return
	}
	t.highlight = on
	t.closeLine()
	if on {
		fmt.Fprintln(t.out, ">>> Drop zone active: drag files here, empty line to finish")
	} else {
		fmt.Fprintln(t.out, "<<< Drop zone closed")
	}
}

// PrintList writes the last rendered list again.
func (t *Terminal) PrintList() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closeLine()
	fmt.Fprintln(t.out, FormatList(t.rows, t.submitVisible))
}

// PrintNotices writes the notices on display again.
func (t *Terminal) PrintNotices() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closeLine()
	if len(t.notices) == 0 {
		fmt.Fprintln(t.out, "No notices.")
		return
	}
	t.writeNotices()
}

// Highlighted reports the drop zone state.
func (t *Terminal) Highlighted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.highlight
}

func (t *Terminal) writeNotices() {
	for _, n := range t.notices {
		fmt.Fprintln(t.out, FormatNotice(n))
	}
}

func (t *Terminal) closeLine() {
	if t.lineOpen {
		fmt.Fprintln(t.out)
		t.lineOpen = false
	}
}
