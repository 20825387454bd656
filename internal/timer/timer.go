// Package timer provides the clocks that drive a bingo session.
//
// Timers never run on their own. The owner advances them once per tick
// received from a Source, which keeps every state change on the owner's
// goroutine.
package timer

import "fmt"

// Level describes how close a countdown is to zero.
type Level int

const (
	LevelNormal Level = iota
	LevelMedium
	LevelLow
)

func (l Level) String() string {
	switch l {
	case LevelMedium:
		return "medium"
	case LevelLow:
		return "low"
	default:
		return "normal"
	}
}

// Tick is the result of advancing a timer by one step.
type Tick struct {
	Value    int   `json:"value"`
	Finished bool  `json:"finished"`
	Level    Level `json:"level"`
}

// Timer is a countable clock measured in whole seconds.
type Timer interface {
	Start()
	Stop()
	Pause()
	Resume()
	Running() bool
	// Time returns the current value without side effects.
	Time() int
	// Advance moves the timer one step if it is running. The bool reports
	// whether a step was taken.
	Advance() (Tick, bool)
	// SetNotifier registers the single callback invoked for every step.
	SetNotifier(fn func(Tick))
}

// FormatSeconds renders seconds as mm:ss, or hh:mm:ss past one hour.
func FormatSeconds(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// state holds what both clocks share.
type state struct {
	value    int
	running  bool
	paused   bool
	notifier func(Tick)
}

func (s *state) Running() bool { return s.running && !s.paused }

func (s *state) Time() int { return s.value }

func (s *state) Stop() {
	s.running = false
	s.paused = false
}

func (s *state) Pause() {
	if s.running {
		s.paused = true
	}
}

func (s *state) Resume() { s.paused = false }

func (s *state) SetNotifier(fn func(Tick)) { s.notifier = fn }

func (s *state) notify(t Tick) {
	if s.notifier != nil {
		s.notifier(t)
	}
}
