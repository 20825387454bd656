package game

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPhaseTransition = errors.New("invalid phase transition")
	ErrNoActiveSession        = errors.New("no active session")
	ErrSessionExists          = errors.New("a session already exists for that world")
	ErrUnknownParticipant     = errors.New("participant has not joined the session")
	ErrNotOnTeam              = errors.New("participant is not on a playing team")
	ErrTeamEliminated         = errors.New("team is out of the game")
	ErrEmptyPool              = errors.New("task pool is empty")
	ErrNoTeams                = errors.New("no team has any members")
	ErrTaskNotOnCard          = errors.New("task is not on the card")
)

// ErrGameNotActive is returned for completions outside of a running game. It
// is an ErrInvalidPhaseTransition.
var ErrGameNotActive = fmt.Errorf("%w: game is not active", ErrInvalidPhaseTransition)
