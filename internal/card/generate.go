package card

import (
	"fmt"
	"math/rand/v2"

	"bingoreloaded/internal/task"
)

// NewRand returns the generator used for every seeded draw.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

// MixSeed derives a per-team seed so teams receive unrelated cards from the
// same game seed (splitmix64 finalizer).
func MixSeed(seed int64, index int) int64 {
	z := uint64(seed) + uint64(index+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return int64(z ^ (z >> 31))
}

// Generate draws size² distinct tasks from pool.
//
// # Determinism
//
// Generate is deterministic with respect to seed: the same pool (including
// order), seed, size and excluded kinds always produce the same tasks in the
// same order.
func Generate(pool task.Pool, seed int64, size Size, excluded ...task.Kind) ([]task.Task, error) {
	if !size.Valid() {
		return nil, fmt.Errorf("invalid card size %d", size)
	}
	candidates := pool.Without(excluded...)
	need := size.Slots()
	if len(candidates) < need {
		return nil, fmt.Errorf("%w: need %d tasks, pool has %d", ErrPoolTooSmall, need, len(candidates))
	}

	perm := NewRand(seed).Perm(len(candidates))
	tasks := make([]task.Task, need)
	for i := 0; i < need; i++ {
		tasks[i] = candidates[perm[i]]
	}
	return tasks, nil
}

// DealOptions controls how cards are handed to teams.
type DealOptions struct {
	Excluded []task.Kind
	// Distinct keeps tasks dealt to earlier teams off later cards while the
	// pool is large enough.
	Distinct     bool
	WinningScore int
	// Expiration and Recovery configure HOTSWAP holders, in seconds.
	Expiration int
	Recovery   int
}

// Deal generates one card per team. Lockout deals a single card and returns
// the same pointer for every team; the other modes generate independently
// per team from MixSeed(seed, teamIndex).
func Deal(mode Mode, pool task.Pool, seed int64, size Size, teams int, opts DealOptions) ([]*Card, error) {
	if teams < 1 {
		return nil, fmt.Errorf("cannot deal cards to %d teams", teams)
	}

	if mode.Shared() {
		tasks, err := Generate(pool, seed, size, opts.Excluded...)
		if err != nil {
			return nil, err
		}
		shared, err := New(mode, size, tasks, opts.WinningScore)
		if err != nil {
			return nil, err
		}
		cards := make([]*Card, teams)
		for i := range cards {
			cards[i] = shared.Copy()
		}
		return cards, nil
	}

	used := make(map[string]bool)
	cards := make([]*Card, teams)
	for i := 0; i < teams; i++ {
		teamSeed := MixSeed(seed, i)
		source := pool
		if opts.Distinct {
			if rest := unused(pool.Without(opts.Excluded...), used); len(rest) >= size.Slots() {
				source = rest
			}
		}
		tasks, err := Generate(source, teamSeed, size, opts.Excluded...)
		if err != nil {
			return nil, err
		}
		for _, t := range tasks {
			used[t.ID()] = true
		}
		c, err := New(mode, size, tasks, opts.WinningScore)
		if err != nil {
			return nil, err
		}
		if mode == ModeHotswap {
			c.EnableHotswap(opts.Expiration, opts.Recovery)
		}
		cards[i] = c
	}
	return cards, nil
}

func unused(pool task.Pool, used map[string]bool) task.Pool {
	out := make(task.Pool, 0, len(pool))
	for _, t := range pool {
		if !used[t.ID()] {
			out = append(out, t)
		}
	}
	return out
}
