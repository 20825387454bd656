package timer

// Countdown counts from a total down to zero and finishes exactly once.
type Countdown struct {
	state
	total    int
	medium   int
	low      int
	finished bool
}

// NewCountdown creates a countdown of total seconds. Medium and low are the
// thresholds at or below which ticks report LevelMedium and LevelLow.
func NewCountdown(total, medium, low int) *Countdown {
	return &Countdown{
		state:  state{value: total},
		total:  total,
		medium: medium,
		low:    low,
	}
}

// Start begins counting. Starting a running countdown does nothing, and a
// finished countdown stays finished.
func (c *Countdown) Start() {
	if c.running || c.finished {
		return
	}
	c.running = true
	c.paused = false
}

// Advance decrements the countdown by one second.
func (c *Countdown) Advance() (Tick, bool) {
	if !c.Running() || c.finished {
		return Tick{}, false
	}
	if c.value > 0 {
		c.value--
	}
	t := Tick{Value: c.value, Level: c.levelFor(c.value)}
	if c.value == 0 {
		c.finished = true
		c.running = false
		t.Finished = true
	}
	c.notify(t)
	return t, true
}

// Finished reports whether the countdown has reached zero.
func (c *Countdown) Finished() bool { return c.finished }

// Total returns the configured duration.
func (c *Countdown) Total() int { return c.total }

// Elapsed returns the number of seconds counted so far.
func (c *Countdown) Elapsed() int { return c.total - c.value }

// LowThreshold and MediumThreshold expose the presentation thresholds.
func (c *Countdown) LowThreshold() int    { return c.low }
func (c *Countdown) MediumThreshold() int { return c.medium }

func (c *Countdown) levelFor(v int) Level {
	switch {
	case v <= c.low:
		return LevelLow
	case v <= c.medium:
		return LevelMedium
	default:
		return LevelNormal
	}
}
