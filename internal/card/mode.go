package card

import (
	"fmt"
	"strings"
)

// Mode selects the win condition and how cards are shared between teams.
type Mode string

const (
	// ModeRegular gives every team its own card; a full line wins.
	ModeRegular Mode = "regular"
	// ModeLockout shares one card between all teams; a full line of your
	// own completions wins.
	ModeLockout Mode = "lockout"
	// ModeComplete gives every team its own card; completing every slot wins.
	ModeComplete Mode = "complete"
	// ModeHotswap gives every team its own card with expiring tasks; reaching
	// the winning score wins.
	ModeHotswap Mode = "hotswap"
)

// Modes lists every mode in menu order.
var Modes = []Mode{ModeRegular, ModeLockout, ModeComplete, ModeHotswap}

// ParseMode parses a mode name case-insensitively.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Modes {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown gamemode %q", s)
}

// Shared reports whether all teams play on the same card instance.
func (m Mode) Shared() bool { return m == ModeLockout }

// DisplayName returns the name shown in menus.
func (m Mode) DisplayName() string {
	switch m {
	case ModeLockout:
		return "Lockout"
	case ModeComplete:
		return "Complete-All"
	case ModeHotswap:
		return "Hot-Swap"
	default:
		return "Regular"
	}
}

// Size is the width of a square card.
type Size int

const (
	Size3 Size = 3
	Size5 Size = 5
)

// ParseSize accepts "3", "5", "3x3" and "5x5".
func ParseSize(s string) (Size, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "3", "3x3":
		return Size3, nil
	case "5", "5x5":
		return Size5, nil
	}
	return 0, fmt.Errorf("card size must be 3 or 5, got %q", s)
}

// Valid reports whether the size is supported.
func (s Size) Valid() bool { return s == Size3 || s == Size5 }

// Slots returns the number of tasks on a card of this size.
func (s Size) Slots() int { return int(s) * int(s) }

func (s Size) String() string { return fmt.Sprintf("%dx%d", s, s) }
