package game

import (
	"errors"
	"fmt"
	"testing"
)

func TestGameErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "ErrInvalidPhaseTransition has correct message",
			err:      ErrInvalidPhaseTransition,
			expected: "invalid phase transition",
		},
		{
			name:     "ErrGameNotActive has correct message",
			err:      ErrGameNotActive,
			expected: "invalid phase transition: game is not active",
		},
		{
			name:     "ErrNoActiveSession has correct message",
			err:      ErrNoActiveSession,
			expected: "no active session",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.expected {
				t.Errorf("Error message = %v, want %v", tt.err.Error(), tt.expected)
			}
		})
	}
}

func TestErrorsAreDistinct(t *testing.T) {
	errorList := []error{
		ErrInvalidPhaseTransition,
		ErrNoActiveSession,
		ErrSessionExists,
		ErrUnknownParticipant,
		ErrNotOnTeam,
		ErrTeamEliminated,
		ErrEmptyPool,
		ErrNoTeams,
		ErrTaskNotOnCard,
	}

	for i := 0; i < len(errorList); i++ {
		for j := i + 1; j < len(errorList); j++ {
			if errors.Is(errorList[i], errorList[j]) {
				t.Errorf("Error %v should not be equal to %v", errorList[i], errorList[j])
			}
		}
	}
}

func TestGameNotActiveIsPhaseError(t *testing.T) {
	if !errors.Is(ErrGameNotActive, ErrInvalidPhaseTransition) {
		t.Error("ErrGameNotActive should wrap ErrInvalidPhaseTransition")
	}

	wrapped := fmt.Errorf("complete task: %w", ErrGameNotActive)
	if !errors.Is(wrapped, ErrInvalidPhaseTransition) {
		t.Error("wrapped ErrGameNotActive should still match ErrInvalidPhaseTransition")
	}
}
