package timer

// Countup counts seconds from zero without bound. It never finishes.
type Countup struct {
	state
}

// NewCountup creates a stopped count-up timer at zero.
func NewCountup() *Countup {
	return &Countup{}
}

// Start begins counting. Starting a running timer does nothing.
func (c *Countup) Start() {
	if c.running {
		return
	}
	c.running = true
	c.paused = false
}

// Advance increments the timer by one second.
func (c *Countup) Advance() (Tick, bool) {
	if !c.Running() {
		return Tick{}, false
	}
	c.value++
	t := Tick{Value: c.value}
	c.notify(t)
	return t, true
}
