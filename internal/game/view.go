package game

import (
	"bingoreloaded/internal/card"
	"bingoreloaded/internal/task"
	"bingoreloaded/internal/team"
)

// View is a read-only snapshot of a session, safe to share between
// goroutines.
type View struct {
	ID           string            `json:"id"`
	Phase        Phase             `json:"phase"`
	Seed         int64             `json:"seed"`
	Time         int               `json:"time"`
	TimeText     string            `json:"timeText"`
	Elapsed      int               `json:"elapsed"`
	Starting     int               `json:"starting,omitempty"`
	Participants []ParticipantView `json:"participants"`
	Teams        []TeamView        `json:"teams"`
	Deathmatch   *DeathmatchView   `json:"deathmatch,omitempty"`
	Winner       string            `json:"winner,omitempty"`

	// Settings are the lobby settings the next game will use.
	Settings Settings `json:"settings"`

	// Game holds the settings of the current or last game.
	Game *Settings `json:"game,omitempty"`
}

// ParticipantView is a joined participant and the team they are on.
type ParticipantView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Team string `json:"team,omitempty"`
}

// TeamView is a snapshot of one team.
type TeamView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Members   []string  `json:"members"`
	Score     int       `json:"score"`
	OutOfGame bool      `json:"outOfGame"`
	Card      *CardView `json:"card,omitempty"`
}

// CardView is a snapshot of a team card.
type CardView struct {
	Mode  card.Mode  `json:"mode"`
	Size  card.Size  `json:"size"`
	Slots []SlotView `json:"slots"`
}

// SlotView is one card slot as seen by presentation.
type SlotView struct {
	Task        task.Task `json:"task"`
	Name        string    `json:"name"`
	Completed   bool      `json:"completed"`
	Participant string    `json:"participant,omitempty"`
	Team        string    `json:"team,omitempty"`
	Elapsed     int       `json:"elapsed,omitempty"`
	Recovering  bool      `json:"recovering,omitempty"`
	// Progress runs from 0 to 1 as a HOTSWAP task approaches expiry.
	Progress float64 `json:"progress,omitempty"`
}

// DeathmatchView describes a tie-break in progress.
type DeathmatchView struct {
	Countdown int        `json:"countdown"`
	Task      *task.Task `json:"task,omitempty"`
	Teams     []string   `json:"teams"`
}

func teamView(m *team.Manager, t *team.Team, withCard bool) TeamView {
	v := TeamView{
		ID:        t.ID,
		Name:      t.Name,
		Color:     t.Color,
		Members:   append([]string(nil), t.Members...),
		Score:     m.CompleteCount(t),
		OutOfGame: t.OutOfGame,
	}
	if withCard && t.Card != nil {
		v.Card = cardView(t.Card)
	}
	return v
}

func cardView(c *card.Card) *CardView {
	v := &CardView{Mode: c.Mode, Size: c.Size, Slots: make([]SlotView, len(c.Slots))}
	for i, s := range c.Slots {
		sv := SlotView{Task: s.Task, Name: s.Task.DisplayName()}
		if s.Completion != nil {
			sv.Completed = true
			sv.Participant = s.Completion.Participant
			sv.Team = s.Completion.Team
			sv.Elapsed = s.Completion.Elapsed
		} else if s.Hotswap != nil {
			sv.Recovering = s.Hotswap.Recovering
			sv.Progress = s.Hotswap.ExpirationProgress()
		}
		v.Slots[i] = sv
	}
	return v
}

func teamViews(m *team.Manager, teams []*team.Team, withCard bool) []TeamView {
	out := make([]TeamView, len(teams))
	for i, t := range teams {
		out[i] = teamView(m, t, withCard)
	}
	return out
}
