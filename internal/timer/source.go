package timer

import "time"

// Source delivers ticks to a session driver.
type Source interface {
	C() <-chan time.Time
	Stop()
}

// TickerSource wraps a time.Ticker.
type TickerSource struct {
	ticker *time.Ticker
}

// NewTickerSource creates a source that ticks every interval.
func NewTickerSource(interval time.Duration) *TickerSource {
	return &TickerSource{ticker: time.NewTicker(interval)}
}

func (s *TickerSource) C() <-chan time.Time { return s.ticker.C }

func (s *TickerSource) Stop() { s.ticker.Stop() }

// ManualSource ticks only when Fire is called. It is meant for tests.
type ManualSource struct {
	ch chan time.Time
}

// NewManualSource creates a manual source with room for a few queued ticks.
func NewManualSource() *ManualSource {
	return &ManualSource{ch: make(chan time.Time, 16)}
}

func (s *ManualSource) C() <-chan time.Time { return s.ch }

// Fire queues one tick.
func (s *ManualSource) Fire() {
	s.ch <- time.Now()
}

// Stop does nothing; pending ticks stay queued.
func (s *ManualSource) Stop() {}
