// Package progress provides ProgressSink implementations for the confirm
// engine: live counters and a terminal progress bar.
package progress

import (
	"fmt"
	"io"
	"sync/atomic"

	"github.com/schollz/progressbar/v3"
)

// Counters tracks hashing progress with atomic counters.
// All fields are atomic so they can be written from worker goroutines and
// read from anywhere without locks.
type Counters struct {
	// PhasesStarted counts BeginPhase calls.
	PhasesStarted atomic.Int64

	// JobsTotal accumulates the announced job totals across phases.
	JobsTotal atomic.Int64

	// JobsDone counts finished hash jobs across phases.
	JobsDone atomic.Int64
}

// BeginPhase implements confirm.ProgressSink.
func (c *Counters) BeginPhase(_ string, total int) {
	c.PhasesStarted.Add(1)
	c.JobsTotal.Add(int64(total))
}

// JobDone implements confirm.ProgressSink.
func (c *Counters) JobDone() {
	c.JobsDone.Add(1)
}

// EndPhase implements confirm.ProgressSink.
func (c *Counters) EndPhase() {}

// Bar renders one terminal progress bar per hashing phase.
//
// JobDone may be called from many worker goroutines; progressbar's Add is
// internally synchronized. The bar itself is swapped only between phases,
// and the engine guarantees all JobDone calls for a phase happen before
// EndPhase.
type Bar struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

// NewBar creates a progress bar renderer writing to out (typically stderr,
// keeping stdout clean for report output).
func NewBar(out io.Writer) *Bar {
	return &Bar{out: out}
}

// BeginPhase implements confirm.ProgressSink.
func (b *Bar) BeginPhase(name string, total int) {
	b.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(b.out),
		progressbar.OptionSetDescription(fmt.Sprintf("hashing %s", name)),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(0),
	)
}

// JobDone implements confirm.ProgressSink.
func (b *Bar) JobDone() {
	_ = b.bar.Add(1)
}

// EndPhase implements confirm.ProgressSink.
func (b *Bar) EndPhase() {
	_ = b.bar.Finish()
	fmt.Fprintln(b.out)
}
