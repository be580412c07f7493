package loop

import "time"

// Pacer spaces loop iterations a fixed interval apart. A late iteration
// resets the deadline to now instead of running extra iterations to catch up.
type Pacer struct {
	interval time.Duration
	deadline time.Time
	late     uint64

	now   func() time.Time
	sleep func(time.Duration)
}

// NewPacer creates a pacer whose first deadline is one interval from now.
func NewPacer(interval time.Duration) *Pacer {
	return newPacer(interval, time.Now, time.Sleep)
}

func newPacer(interval time.Duration, now func() time.Time, sleep func(time.Duration)) *Pacer {
	return &Pacer{
		interval: interval,
		deadline: now(),
		now:      now,
		sleep:    sleep,
	}
}

// Wait advances the deadline by one interval and sleeps until it. It
// reports whether the deadline had already passed.
func (p *Pacer) Wait() (late bool) {
	p.deadline = p.deadline.Add(p.interval)
	now := p.now()
	if wait := p.deadline.Sub(now); wait > 0 {
		p.sleep(wait)
		return false
	}
	p.deadline = now
	p.late++
	return true
}

// Late returns how many deadlines were missed.
func (p *Pacer) Late() uint64 { return p.late }

// Interval returns the target iteration spacing.
func (p *Pacer) Interval() time.Duration { return p.interval }
