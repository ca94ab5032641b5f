// Package progress renders the single-line progress bar shown while
// repositories are processed.
package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

const barWidth = 40

// Tracker interface defines methods for tracking operation progress
type Tracker interface {
	Start(operation string, total int)
	Tick()
	Complete()
}

// ConsoleTracker implements Tracker for console output
type ConsoleTracker struct {
	mu        sync.Mutex
	out       io.Writer
	operation string
	total     int
	current   int
	startTime time.Time
	started   bool
}

// NewConsoleTracker creates a new console-based progress tracker writing to out.
func NewConsoleTracker(out io.Writer) *ConsoleTracker {
	return &ConsoleTracker{out: out}
}

// Start begins tracking a new operation of total steps and draws an empty bar.
func (t *ConsoleTracker) Start(operation string, total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.operation = operation
	t.total = total
	t.current = 0
	t.startTime = time.Now()
	t.started = true
	t.render()
}

// Tick advances the bar by one step. Ticks past the total are ignored.
func (t *ConsoleTracker) Tick() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.started || t.current >= t.total {
		return
	}
	t.current++
	t.render()
}

// Complete marks the current operation as completed
func (t *ConsoleTracker) Complete() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.started {
		return
	}
	fmt.Fprintf(t.out, "\nCompleted: %s (took %v)\n", t.operation, time.Since(t.startTime).Round(time.Millisecond))
	t.started = false
}

func (t *ConsoleTracker) render() {
	fmt.Fprintf(t.out, "\r%s [%s] %3d%%", t.operation, Bar(t.current, t.total, barWidth), Percent(t.current, t.total))
}

// Percent returns current/total as a whole percentage. An empty total is complete.
func Percent(current, total int) int {
	if total <= 0 {
		return 100
	}
	return current * 100 / total
}

// Bar draws a fixed-width bar with '=' for completed and ' ' for remaining cells.
func Bar(current, total, width int) string {
	filled := width
	if total > 0 {
		filled = current * width / total
	}
	return strings.Repeat("=", filled) + strings.Repeat(" ", width-filled)
}

// NopTracker discards all progress. It is used when verbose logging replaces the bar.
type NopTracker struct{}

func (NopTracker) Start(string, int) {}
func (NopTracker) Tick()             {}
func (NopTracker) Complete()         {}
