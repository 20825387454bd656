package game

import (
	"math/rand/v2"

	"bingoreloaded/internal/task"
	"bingoreloaded/internal/timer"
)

// TaskCompletion describes a completed card slot.
type TaskCompletion struct {
	Task        task.Task `json:"task"`
	Slot        int       `json:"slot"`
	Participant string    `json:"participant"`
	Team        string    `json:"team"`
	Elapsed     int       `json:"elapsed"`
	Bingo       bool      `json:"bingo"`
}

// GameResult is emitted once per game when it ends. Winner is nil when the
// game ended without one.
type GameResult struct {
	Winner  *TeamView  `json:"winner,omitempty"`
	Elapsed int        `json:"elapsed"`
	Teams   []TeamView `json:"teams"`
}

// Sink receives session outcomes. Calls are made from the session goroutine
// and must not block.
type Sink interface {
	OnPhaseChanged(session string, from, to Phase)
	OnStartingCountdown(session string, remaining int)
	OnTimerTick(session string, tick timer.Tick)
	OnTaskCompleted(session string, completion TaskCompletion)
	OnScoreChanged(session string, team TeamView)
	OnBingo(session string, team TeamView)
	OnDeathmatchCountdown(session string, n int)
	OnDeathmatchStarted(session string, t task.Task, teams []TeamView)
	OnGameEnded(session string, result GameResult)
}

// NopSink ignores every outcome. Embed it to implement part of Sink.
type NopSink struct{}

func (NopSink) OnPhaseChanged(string, Phase, Phase) {}
func (NopSink) OnStartingCountdown(string, int) {}
func (NopSink) OnTimerTick(string, timer.Tick) {}
func (NopSink) OnTaskCompleted(string, TaskCompletion) {}
func (NopSink) OnScoreChanged(string, TeamView) {}
func (NopSink) OnBingo(string, TeamView) {}
func (NopSink) OnDeathmatchCountdown(string, int) {}
func (NopSink) OnDeathmatchStarted(string, task.Task, []TeamView) {}
func (NopSink) OnGameEnded(string, GameResult) {}

// Sinks fans every outcome out to each sink in order.
type Sinks []Sink

func (s Sinks) OnPhaseChanged(session string, from, to Phase) {
	for _, sink := range s {
		sink.OnPhaseChanged(session, from, to)
	}
}

func (s Sinks) OnStartingCountdown(session string, remaining int) {
	for _, sink := range s {
		sink.OnStartingCountdown(session, remaining)
	}
}

func (s Sinks) OnTimerTick(session string, tick timer.Tick) {
	for _, sink := range s {
		sink.OnTimerTick(session, tick)
	}
}

func (s Sinks) OnTaskCompleted(session string, completion TaskCompletion) {
	for _, sink := range s {
		sink.OnTaskCompleted(session, completion)
	}
}

func (s Sinks) OnScoreChanged(session string, team TeamView) {
	for _, sink := range s {
		sink.OnScoreChanged(session, team)
	}
}

func (s Sinks) OnBingo(session string, team TeamView) {
	for _, sink := range s {
		sink.OnBingo(session, team)
	}
}

func (s Sinks) OnDeathmatchCountdown(session string, n int) {
	for _, sink := range s {
		sink.OnDeathmatchCountdown(session, n)
	}
}

func (s Sinks) OnDeathmatchStarted(session string, t task.Task, teams []TeamView) {
	for _, sink := range s {
		sink.OnDeathmatchStarted(session, t, teams)
	}
}

func (s Sinks) OnGameEnded(session string, result GameResult) {
	for _, sink := range s {
		sink.OnGameEnded(session, result)
	}
}

// StartInfo is handed to the host when a game starts.
type StartInfo struct {
	Session  string
	Teleport Teleport
	Kit      Kit
	Effects  Effects
	Teams    []TeamView
}

// Host performs the world-side work of a start: moving participants, filling
// inventories and applying effects. Each call runs on its own goroutine.
type Host interface {
	TeleportToStart(info StartInfo)
	IssueKit(info StartInfo)
	GiveEffects(info StartInfo)
}

// NopHost does nothing.
type NopHost struct{}

func (NopHost) TeleportToStart(StartInfo) {}
func (NopHost) IssueKit(StartInfo) {}
func (NopHost) GiveEffects(StartInfo) {}

// TaskSource provides task pools by card name.
type TaskSource interface {
	Pool(cardName string) task.Pool
	RandomTask(cardName string, rng *rand.Rand, excluded ...task.Kind) (task.Task, bool)
}
