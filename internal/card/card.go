package card

import (
	"fmt"

	"bingoreloaded/internal/task"
)

// Completion records who completed a slot and when.
type Completion struct {
	Participant string `json:"participant"`
	Team        string `json:"team"`
	Elapsed     int    `json:"elapsed"`
}

// Slot is one cell of a card.
type Slot struct {
	Task       task.Task   `json:"task"`
	Completion *Completion `json:"completion,omitempty"`
	Hotswap    *Holder     `json:"hotswap,omitempty"`
}

// Completed reports whether any team has completed the slot.
func (s *Slot) Completed() bool { return s.Completion != nil }

// CompletedBy reports whether the given team completed the slot.
func (s *Slot) CompletedBy(team string) bool {
	return s.Completion != nil && s.Completion.Team == team
}

// Result describes a successful completion.
type Result struct {
	Index      int
	Task       task.Task
	Completion Completion
	// Bingo is true when this completion gave the team its bingo.
	Bingo bool
}

// Card is a square grid of tasks.
type Card struct {
	Size         Size
	Mode         Mode
	WinningScore int
	Slots        []*Slot
}

// New builds a card from exactly size² tasks. WinningScore is only used by
// HOTSWAP cards, where -1 disables the score win.
func New(mode Mode, size Size, tasks []task.Task, winningScore int) (*Card, error) {
	if !size.Valid() {
		return nil, fmt.Errorf("invalid card size %d", size)
	}
	if len(tasks) != size.Slots() {
		return nil, fmt.Errorf("%s card needs %d tasks, got %d", size, size.Slots(), len(tasks))
	}
	c := &Card{
		Size:         size,
		Mode:         mode,
		WinningScore: winningScore,
		Slots:        make([]*Slot, len(tasks)),
	}
	for i, t := range tasks {
		c.Slots[i] = &Slot{Task: t}
	}
	return c, nil
}

// Copy returns a card for another team. Lockout cards are shared, so the
// receiver itself is returned; every other mode gets an independent clone.
func (c *Card) Copy() *Card {
	if c.Mode.Shared() {
		return c
	}
	clone := &Card{
		Size:         c.Size,
		Mode:         c.Mode,
		WinningScore: c.WinningScore,
		Slots:        make([]*Slot, len(c.Slots)),
	}
	for i, s := range c.Slots {
		slot := &Slot{Task: s.Task}
		if s.Completion != nil {
			done := *s.Completion
			slot.Completion = &done
		}
		if s.Hotswap != nil {
			h := *s.Hotswap
			slot.Hotswap = &h
		}
		clone.Slots[i] = slot
	}
	return clone
}

// EnableHotswap attaches an expire/recover holder to every slot.
func (c *Card) EnableHotswap(expiration, recovery int) {
	for _, s := range c.Slots {
		s.Hotswap = NewHolder(expiration, recovery)
	}
}

// Find returns the index of the slot holding the task with the given ID.
func (c *Card) Find(taskID string) (int, bool) {
	for i, s := range c.Slots {
		if s.Task.ID() == taskID {
			return i, true
		}
	}
	return 0, false
}

// CompleteTask marks a slot complete for a participant of a team.
func (c *Card) CompleteTask(index int, participant, team string, elapsed int) (Result, error) {
	if index < 0 || index >= len(c.Slots) {
		return Result{}, fmt.Errorf("%w: %d", ErrNoSuchSlot, index)
	}
	slot := c.Slots[index]
	if slot.Completed() {
		return Result{}, ErrAlreadyCompleted
	}
	if slot.Hotswap != nil && slot.Hotswap.Recovering {
		return Result{}, ErrTaskRecovering
	}

	before := c.HasBingo(team)
	slot.Completion = &Completion{
		Participant: participant,
		Team:        team,
		Elapsed:     elapsed,
	}
	return Result{
		Index:      index,
		Task:       slot.Task,
		Completion: *slot.Completion,
		Bingo:      !before && c.HasBingo(team),
	}, nil
}

// CompleteCount returns how many slots the team has completed.
func (c *Card) CompleteCount(team string) int {
	n := 0
	for _, s := range c.Slots {
		if s.CompletedBy(team) {
			n++
		}
	}
	return n
}

// HasBingo reports whether the team meets the win condition of the card.
func (c *Card) HasBingo(team string) bool {
	done := func(i int) bool { return c.Slots[i].CompletedBy(team) }
	switch c.Mode {
	case ModeHotswap:
		return ReachedScore(c.CompleteCount(team), c.WinningScore)
	case ModeComplete:
		return c.CompleteCount(team) == len(c.Slots)
	default:
		return HasLine(int(c.Size), done)
	}
}

// Tick advances every HOTSWAP holder on slots that are not completed and
// returns the indexes that switched state.
func (c *Card) Tick() []int {
	var changed []int
	for i, s := range c.Slots {
		if s.Hotswap == nil || s.Completed() {
			continue
		}
		if s.Hotswap.Tick() {
			changed = append(changed, i)
		}
	}
	return changed
}

// HasLine reports whether any row, column or diagonal of an n×n grid is
// fully done.
func HasLine(n int, done func(i int) bool) bool {
	diag, anti := true, true
	for i := 0; i < n; i++ {
		row, col := true, true
		for j := 0; j < n; j++ {
			row = row && done(i*n+j)
			col = col && done(j*n+i)
		}
		if row || col {
			return true
		}
		diag = diag && done(i*n+i)
		anti = anti && done(i*n+(n-1-i))
	}
	return diag || anti
}

// ReachedScore is the HOTSWAP win predicate. A threshold of -1 disables it.
func ReachedScore(count, threshold int) bool {
	if threshold < 0 {
		return false
	}
	return count >= threshold
}
