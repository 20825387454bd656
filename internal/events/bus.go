package events

import (
	"sync"

	"bingoreloaded/internal/game"
	"bingoreloaded/internal/task"
	"bingoreloaded/internal/timer"
)

// Event types published on the bus.
const (
	TypePhaseChanged       = "phase_changed"
	TypeStartingCountdown  = "starting_countdown"
	TypeTimerTick          = "timer_tick"
	TypeTaskCompleted      = "task_completed"
	TypeScoreChanged       = "score_changed"
	TypeBingo              = "bingo"
	TypeDeathmatchCount    = "deathmatch_countdown"
	TypeDeathmatchStarted  = "deathmatch_started"
	TypeGameEnded          = "game_ended"
	TypeSessionDestroyed   = "session_destroyed"
	TypeParticipantsUpdate = "participants_updated"
)

// Event represents a session event
type Event struct {
	Type    string
	Session string
	Data    interface{}
}

// PhaseChange is the data of a phase_changed event.
type PhaseChange struct {
	From game.Phase `json:"from"`
	To   game.Phase `json:"to"`
}

// DeathmatchStart is the data of a deathmatch_started event.
type DeathmatchStart struct {
	Task  task.Task       `json:"task"`
	Teams []game.TeamView `json:"teams"`
}

// Bus manages event subscriptions per session. It implements game.Sink so a
// session can publish its outcomes directly.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]chan Event
	buffer      int
}

// NewBus creates a bus whose subscriptions hold up to buffer events.
func NewBus(buffer int) *Bus {
	if buffer <= 0 {
		buffer = 10
	}
	return &Bus{
		subscribers: make(map[string][]chan Event),
		buffer:      buffer,
	}
}

// Subscribe subscribes to events for a session
func (b *Bus) Subscribe(session string) chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, b.buffer)
	b.subscribers[session] = append(b.subscribers[session], ch)
	return ch
}

// Unsubscribe removes a subscription and closes its channel
func (b *Bus) Unsubscribe(session string, ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subscribers[session]
	for i, sub := range subs {
		if sub == ch {
			b.subscribers[session] = append(subs[:i], subs[i+1:]...)
			close(ch)
			break
		}
	}
	if len(b.subscribers[session]) == 0 {
		delete(b.subscribers, session)
	}
}

// Subscribers returns the number of subscriptions for a session.
func (b *Bus) Subscribers(session string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[session])
}

// Publish publishes an event to all subscribers of its session. Subscribers
// whose buffer is full miss the event.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers[event.Session] {
		select {
		case ch <- event:
		default:
			// Channel full, skip
		}
	}
}

func (b *Bus) OnPhaseChanged(session string, from, to game.Phase) {
	b.Publish(Event{Type: TypePhaseChanged, Session: session, Data: PhaseChange{From: from, To: to}})
}

func (b *Bus) OnStartingCountdown(session string, remaining int) {
	b.Publish(Event{Type: TypeStartingCountdown, Session: session, Data: remaining})
}

func (b *Bus) OnTimerTick(session string, tick timer.Tick) {
	b.Publish(Event{Type: TypeTimerTick, Session: session, Data: tick})
}

func (b *Bus) OnTaskCompleted(session string, completion game.TaskCompletion) {
	b.Publish(Event{Type: TypeTaskCompleted, Session: session, Data: completion})
}

func (b *Bus) OnScoreChanged(session string, team game.TeamView) {
	b.Publish(Event{Type: TypeScoreChanged, Session: session, Data: team})
}

func (b *Bus) OnBingo(session string, team game.TeamView) {
	b.Publish(Event{Type: TypeBingo, Session: session, Data: team})
}

func (b *Bus) OnDeathmatchCountdown(session string, n int) {
	b.Publish(Event{Type: TypeDeathmatchCount, Session: session, Data: n})
}

func (b *Bus) OnDeathmatchStarted(session string, t task.Task, teams []game.TeamView) {
	b.Publish(Event{Type: TypeDeathmatchStarted, Session: session, Data: DeathmatchStart{Task: t, Teams: teams}})
}

func (b *Bus) OnGameEnded(session string, result game.GameResult) {
	b.Publish(Event{Type: TypeGameEnded, Session: session, Data: result})
}

var _ game.Sink = (*Bus)(nil)
