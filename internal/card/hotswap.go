package card

// Holder tracks the expire/recover cycle of one HOTSWAP slot.
//
// An expiring holder counts Current down from Expiration. At zero it starts
// recovering and counts down from Recovery, then expires again. A recovering
// task cannot be completed.
type Holder struct {
	Expiration int  `json:"expiration"`
	Recovery   int  `json:"recovery"`
	Current    int  `json:"current"`
	Recovering bool `json:"recovering"`
}

// NewHolder creates an expiring holder with the full expiration time left.
func NewHolder(expiration, recovery int) *Holder {
	return &Holder{
		Expiration: expiration,
		Recovery:   recovery,
		Current:    expiration,
	}
}

// Tick advances the holder by one second and reports whether it switched
// between expiring and recovering.
func (h *Holder) Tick() bool {
	h.Current--
	if h.Current > 0 {
		return false
	}
	if h.Recovering {
		h.Recovering = false
		h.Current = h.Expiration
	} else {
		h.StartRecovering()
	}
	return true
}

// StartRecovering makes the task unavailable for the recovery time.
func (h *Holder) StartRecovering() {
	h.Recovering = true
	h.Current = h.Recovery
}

// ExpirationProgress maps the remaining expiration time linearly onto 0..1,
// where 1 means about to expire. Recovering holders report 1.
func (h *Holder) ExpirationProgress() float64 {
	if h.Recovering || h.Expiration <= 0 {
		return 1
	}
	p := 1 - float64(h.Current)/float64(h.Expiration)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}
