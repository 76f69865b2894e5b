package core

import "time"

const (
	// MinTPS and MaxTPS bound the autoplay rate front ends may request.
	MinTPS = 1
	MaxTPS = 60
)

// FixedStep paces simulation steps at a steady ticks-per-second rate while
// the caller polls it from a faster render loop.
type FixedStep struct {
	tps         int
	step        time.Duration
	accumulator time.Duration
	last        time.Time
	now         func() time.Time
}

// NewFixedStep constructs a FixedStep controller targeting the given TPS.
func NewFixedStep(tps int) *FixedStep {
	fs := &FixedStep{now: time.Now}
	fs.SetTPS(tps)
	fs.accumulator = fs.step
	return fs
}

// SetTPS changes the tick rate, clamped to [MinTPS, MaxTPS].
func (f *FixedStep) SetTPS(tps int) {
	if tps < MinTPS {
		tps = MinTPS
	}
	if tps > MaxTPS {
		tps = MaxTPS
	}
	f.tps = tps
	f.step = time.Second / time.Duration(tps)
}

// TPS returns the current tick rate.
func (f *FixedStep) TPS() int { return f.tps }

// Restart drops accumulated time so the next step happens one full interval
// from now. Used when autoplay resumes after a pause.
func (f *FixedStep) Restart() {
	f.accumulator = 0
	f.last = time.Time{}
}

// ShouldStep reports whether the simulation should advance by one tick.
func (f *FixedStep) ShouldStep() bool {
	now := f.now()
	if f.last.IsZero() {
		f.last = now
	}
	delta := now.Sub(f.last)
	f.last = now
	f.accumulator += delta
	if f.accumulator >= f.step {
		f.accumulator -= f.step
		// Long stalls (window drag, suspended terminal) must not queue a burst.
		if f.accumulator > f.step {
			f.accumulator = 0
		}
		return true
	}
	return false
}
