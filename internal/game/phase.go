package game

// Phase is the lifecycle state of a session
type Phase string

const (
	// PhaseLobby is the configuration state before the first game.
	PhaseLobby Phase = "lobby"
	// PhaseStarting runs the pre-game countdown after cards were dealt.
	PhaseStarting Phase = "starting"
	// PhaseActive runs the main timer and accepts task completions.
	PhaseActive Phase = "active"
	// PhaseDeathmatch breaks a tie between teams with one drawn task.
	PhaseDeathmatch Phase = "deathmatch"
	// PhaseEnded holds the final scores until the next start.
	PhaseEnded Phase = "ended"
)

// Running reports whether a game is in progress.
func (p Phase) Running() bool {
	return p == PhaseStarting || p == PhaseActive || p == PhaseDeathmatch
}

// CanStart reports whether a new game may start from this phase.
func (p Phase) CanStart() bool {
	return p == PhaseLobby || p == PhaseEnded
}

// AllowsTeamChanges reports whether participants may switch teams.
func (p Phase) AllowsTeamChanges() bool {
	return p == PhaseLobby || p == PhaseEnded
}
