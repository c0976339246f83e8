package client

import (
	"fmt"
	"io"
	"sync"
	"time"

	"goimpute/models"
)

// MessageLevel classifies a flash message.
type MessageLevel string

const (
	LevelError   MessageLevel = "error"
	LevelSuccess MessageLevel = "success"
)

// flashTTL is how long a message stays visible before auto-expiring.
const flashTTL = 5 * time.Second

// Flash is a dismissible, auto-expiring user message.
type Flash struct {
	Level     MessageLevel
	Text      string
	ExpiresAt time.Time
}

// NewFlash stamps a message with its expiry.
func NewFlash(level MessageLevel, text string, now time.Time) Flash {
	return Flash{Level: level, Text: text, ExpiresAt: now.Add(flashTTL)}
}

// Active reports whether the message should still be shown.
func (f Flash) Active(now time.Time) bool {
	return f.Text != "" && now.Before(f.ExpiresAt)
}

// View is what the controller renders into. Implementations decide how to
// present each affordance; the controller never touches output directly.
type View interface {
	// ShowMessage surfaces a flash message; it replaces any previous one.
	ShowMessage(level MessageLevel, text string)
	// SetLoading toggles the in-flight indicator.
	SetLoading(loading bool)
	// SetProcessEnabled toggles the process affordance.
	SetProcessEnabled(enabled bool)
	// ShowFileInfo renders the upload summary.
	ShowFileInfo(info models.FileInfo)
	// ShowStats renders the four summary cards.
	ShowStats(stats models.Stats)
	// ShowPreview renders the preview table.
	ShowPreview(table string)
	// Reset returns the view to its initial empty state.
	Reset()
}

// ConsoleView renders controller output as plain text. It also retains the
// current flash so callers can poll message state.
type ConsoleView struct {
	mu             sync.Mutex
	out            io.Writer
	flash          Flash
	processEnabled bool
	loading        bool
	now            func() time.Time
}

// NewConsoleView creates a console view writing to out.
func NewConsoleView(out io.Writer) *ConsoleView {
	return &ConsoleView{out: out, now: time.Now}
}

func (v *ConsoleView) ShowMessage(level MessageLevel, text string) {
	v.mu.Lock()
	v.flash = NewFlash(level, text, v.now())
	v.mu.Unlock()

	prefix := "OK"
	if level == LevelError {
		prefix = "ERROR"
	}
	fmt.Fprintf(v.out, "[%s] %s\n", prefix, text)
}

func (v *ConsoleView) SetLoading(loading bool) {
	v.mu.Lock()
	v.loading = loading
	v.mu.Unlock()
}

func (v *ConsoleView) SetProcessEnabled(enabled bool) {
	v.mu.Lock()
	v.processEnabled = enabled
	v.mu.Unlock()
}

func (v *ConsoleView) ShowFileInfo(info models.FileInfo) {
	fmt.Fprintf(v.out, "%s: %d rows, %d columns, %.1f KB\n",
		info.OriginalFilename, info.Rows, info.Columns, float64(info.FileSize)/1024)
}

func (v *ConsoleView) ShowStats(stats models.Stats) {
	fmt.Fprintf(v.out, "Total rows:        %d\n", stats.TotalRows)
	fmt.Fprintf(v.out, "Numeric columns:   %d\n", stats.NumericColumns)
	fmt.Fprintf(v.out, "Values imputed:    %d\n", stats.TotalImputations)
	fmt.Fprintf(v.out, "Missing data rate: %.2f%%\n", stats.MissingDataRate)
}

func (v *ConsoleView) ShowPreview(table string) {
	fmt.Fprintln(v.out, table)
}

func (v *ConsoleView) Reset() {
	v.mu.Lock()
	v.flash = Flash{}
	v.processEnabled = false
	v.loading = false
	v.mu.Unlock()
}

// CurrentFlash returns the active flash message, if any.
func (v *ConsoleView) CurrentFlash() (Flash, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.flash.Active(v.now()) {
		return Flash{}, false
	}
	return v.flash, true
}

// ProcessEnabled reports the state of the process affordance.
func (v *ConsoleView) ProcessEnabled() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.processEnabled
}

// Loading reports whether the in-flight indicator is shown.
func (v *ConsoleView) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}
