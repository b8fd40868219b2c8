package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// ProgressReporter reports how many files of a batch have been checked.
type ProgressReporter interface {
	Start(total int)
	Increment()
	Finish()
}

// SimpleProgress draws a single-line bar, redrawn in place.
type SimpleProgress struct {
	mu      sync.Mutex
	total   int
	current int
	started time.Time
	writer  io.Writer
}

// NewProgressReporter creates a progress bar that writes to w, or to
// os.Stderr if w is nil.
func NewProgressReporter(w io.Writer) *SimpleProgress {
	if w == nil {
		w = os.Stderr
	}
	return &SimpleProgress{writer: w}
}

// Start resets the bar for total files.
func (p *SimpleProgress) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total = total
	p.current = 0
	p.started = time.Now()
	p.render()
}

// Increment records one more checked file. It is safe to call from the
// checker's workers.
func (p *SimpleProgress) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.current < p.total {
		p.current++
	}
	p.render()
}

// Finish completes the bar and ends the line.
func (p *SimpleProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.total == 0 {
		return
	}
	p.current = p.total
	p.render()
	fmt.Fprintln(p.writer)
}

// Current returns the number of files recorded so far.
func (p *SimpleProgress) Current() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func (p *SimpleProgress) render() {
	if p.total == 0 {
		return
	}

	const barWidth = 30
	percent := float64(p.current) / float64(p.total) * 100
	filled := p.current * barWidth / p.total
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	rate := 0.0
	if elapsed := time.Since(p.started).Seconds(); elapsed > 0 {
		rate = float64(p.current) / elapsed
	}

	fmt.Fprintf(p.writer, "\rChecking: [%s] %.0f%% (%d/%d) %.1f files/s",
		bar, percent, p.current, p.total, rate)
}
