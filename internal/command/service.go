// Package command is the administrative surface over bingo sessions. Every
// operation reports a Result instead of a Go error and never panics.
package command

import (
	"context"
	"errors"
	"fmt"
	"log"

	"bingoreloaded/internal/card"
	"bingoreloaded/internal/events"
	"bingoreloaded/internal/game"
	"bingoreloaded/internal/team"
)

// Result is the outcome of one command.
type Result struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason"`
}

func ok(format string, args ...interface{}) Result {
	return Result{OK: true, Reason: fmt.Sprintf(format, args...)}
}

func failed(format string, args ...interface{}) Result {
	return Result{OK: false, Reason: fmt.Sprintf(format, args...)}
}

// Registry holds the sessions, at most one per world.
type Registry interface {
	Create(id string) (*game.Session, error)
	Get(id string) (*game.Session, error)
	Destroy(id string) error
}

// PresetStore persists named settings.
type PresetStore interface {
	LoadSettings(ctx context.Context, name string) (game.Settings, error)
	SaveSettings(ctx context.Context, name string, settings game.Settings) error
}

// CardCatalog reports which task lists exist.
type CardCatalog interface {
	HasCard(name string) bool
}

// Service executes commands against the sessions of a registry.
type Service struct {
	sessions Registry
	presets  PresetStore
	cards    CardCatalog
	bus      *events.Bus
}

// NewService creates a command service. presets, cards and bus may be nil;
// preset commands then fail and card names are not checked.
func NewService(sessions Registry, presets PresetStore, cards CardCatalog, bus *events.Bus) *Service {
	return &Service{sessions: sessions, presets: presets, cards: cards, bus: bus}
}

// guard runs fn on the session of a world, turning panics into a failed
// result.
func (s *Service) guard(name, world string, fn func(*game.Session) Result) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Command %s on %s panicked: %v", name, world, r)
			res = failed("Command %s failed unexpectedly", name)
		}
	}()
	session, err := s.sessions.Get(world)
	if err != nil {
		return failed("%s", reason(err))
	}
	return fn(session)
}

func (s *Service) publish(world, eventType string, data interface{}) {
	if s.bus != nil {
		s.bus.Publish(events.Event{Type: eventType, Session: world, Data: data})
	}
}

// Create attaches a new session to a world.
func (s *Service) Create(_ context.Context, world string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Command create on %s panicked: %v", world, r)
			res = failed("Command create failed unexpectedly")
		}
	}()
	if world == "" {
		return failed("A world name is required")
	}
	if _, err := s.sessions.Create(world); err != nil {
		return failed("%s", reason(err))
	}
	return ok("Connected bingo to world %s", world)
}

// Destroy detaches and discards the session of a world.
func (s *Service) Destroy(_ context.Context, world string) Result {
	if err := s.sessions.Destroy(world); err != nil {
		return failed("%s", reason(err))
	}
	s.publish(world, events.TypeSessionDestroyed, world)
	return ok("Disconnected bingo from world %s", world)
}

// Start starts a game in a world.
func (s *Service) Start(ctx context.Context, world string) Result {
	return s.guard("start", world, func(session *game.Session) Result {
		if err := session.Start(ctx); err != nil {
			return failed("Could not start game: %s", reason(err))
		}
		return ok("The game has started")
	})
}

// End forcefully ends the running game of a world.
func (s *Service) End(ctx context.Context, world string) Result {
	return s.guard("end", world, func(session *game.Session) Result {
		if err := session.End(ctx); err != nil {
			return failed("Could not end the game: %s", reason(err))
		}
		return ok("Game forcefully ended")
	})
}

// Join adds a participant to the session of a world.
func (s *Service) Join(ctx context.Context, world, participant, name string) Result {
	return s.guard("join", world, func(session *game.Session) Result {
		if err := session.Join(ctx, participant, name); err != nil {
			return failed("%s", reason(err))
		}
		s.publish(world, events.TypeParticipantsUpdate, participant)
		return ok("%s joined", participant)
	})
}

// Leave removes a participant from the session of a world.
func (s *Service) Leave(ctx context.Context, world, participant string) Result {
	return s.guard("leave", world, func(session *game.Session) Result {
		if err := session.Leave(ctx, participant); err != nil {
			return failed("%s", reason(err))
		}
		s.publish(world, events.TypeParticipantsUpdate, participant)
		return ok("%s left", participant)
	})
}

// SetTeam moves a participant to a team. "none" removes them from every
// team and "auto" picks the smallest team with room.
func (s *Service) SetTeam(ctx context.Context, world, participant, teamID string) Result {
	return s.guard("team", world, func(session *game.Session) Result {
		joined, err := session.SetTeam(ctx, participant, teamID)
		if err != nil {
			return failed("Participant %s could not be added to team %s: %s", participant, teamID, reason(err))
		}
		s.publish(world, events.TypeParticipantsUpdate, participant)
		if teamID == team.None {
			return ok("Participant %s removed from all teams", participant)
		}
		return ok("Participant %s added to team %s", participant, joined)
	})
}

// Trigger reports that a participant achieved a task. Tasks that are not on
// the participant's card fail without changing anything.
func (s *Service) Trigger(ctx context.Context, world, participant, taskID string) Result {
	return s.guard("trigger", world, func(session *game.Session) Result {
		c, err := session.Trigger(ctx, participant, taskID)
		if err != nil {
			return failed("%s", reason(err))
		}
		return ok("%s completed %s for team %s", participant, c.Task.DisplayName(), c.Team)
	})
}

// CompleteSlot completes a card slot by index for a participant.
func (s *Service) CompleteSlot(ctx context.Context, world, participant string, slot int) Result {
	return s.guard("complete", world, func(session *game.Session) Result {
		c, err := session.CompleteTask(ctx, participant, slot)
		if err != nil {
			return failed("%s", reason(err))
		}
		return ok("%s completed %s for team %s", participant, c.Task.DisplayName(), c.Team)
	})
}

// SavePreset stores the lobby settings of a world under a name.
func (s *Service) SavePreset(ctx context.Context, world, name string) Result {
	return s.guard("preset", world, func(session *game.Session) Result {
		if s.presets == nil {
			return failed("Presets are not available")
		}
		if name == "" {
			return failed("Please enter a valid preset name")
		}
		settings, err := session.Settings(ctx)
		if err != nil {
			return failed("%s", reason(err))
		}
		if err := s.presets.SaveSettings(ctx, name, settings); err != nil {
			return failed("Could not save preset %s: %s", name, reason(err))
		}
		return ok("Saved preset %s", name)
	})
}

// LoadPreset replaces the lobby settings of a world with a saved preset.
func (s *Service) LoadPreset(ctx context.Context, world, name string) Result {
	return s.guard("preset", world, func(session *game.Session) Result {
		if s.presets == nil {
			return failed("Presets are not available")
		}
		if name == "" {
			return failed("Please enter a valid preset name")
		}
		settings, err := s.presets.LoadSettings(ctx, name)
		if err != nil {
			return failed("Could not load preset %s: %s", name, reason(err))
		}
		if _, err := session.UpdateSettings(ctx, func(b *game.SettingsBuilder) error {
			b.FromOther(settings)
			return nil
		}); err != nil {
			return failed("Could not load preset %s: %s", name, reason(err))
		}
		return ok("Loaded preset %s", name)
	})
}

// reason turns an error into a reason string for the caller.
func reason(err error) string {
	switch {
	case errors.Is(err, game.ErrNoActiveSession):
		return "Cannot perform command on a world that has no session"
	case errors.Is(err, game.ErrSessionExists):
		return "This world already has a session"
	case errors.Is(err, game.ErrGameNotActive):
		return "The game is not running"
	case errors.Is(err, game.ErrInvalidPhaseTransition):
		return "Not possible in the current phase of the game"
	case errors.Is(err, team.ErrTeamFull):
		return "The team is full"
	case errors.Is(err, team.ErrNoSuchTeam):
		return "No such team"
	case errors.Is(err, game.ErrUnknownParticipant):
		return "The participant has not joined this world"
	case errors.Is(err, game.ErrNotOnTeam):
		return "The participant is not on a playing team"
	case errors.Is(err, game.ErrTeamEliminated):
		return "The team is out of the game"
	case errors.Is(err, game.ErrNoTeams):
		return "No team has any players"
	case errors.Is(err, game.ErrEmptyPool), errors.Is(err, card.ErrPoolTooSmall):
		return "The card does not have enough tasks"
	case errors.Is(err, game.ErrTaskNotOnCard):
		return "The task does not count for this card"
	case errors.Is(err, card.ErrAlreadyCompleted):
		return "The task is already completed"
	case errors.Is(err, card.ErrTaskRecovering):
		return "The task is recovering"
	case errors.Is(err, card.ErrNoSuchSlot):
		return "No such slot on the card"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "The command timed out"
	}
	return err.Error()
}
