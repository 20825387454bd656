package team

import (
	"bingoreloaded/internal/card"
)

// Reserved team identifiers accepted by AddMember and the command surface.
const (
	Auto = "auto"
	None = "none"
)

// Template describes a joinable team before any game has been played.
type Template struct {
	ID    string `yaml:"id" json:"id" mapstructure:"id"`
	Name  string `yaml:"name" json:"name" mapstructure:"name"`
	Color string `yaml:"color" json:"color" mapstructure:"color"`
}

// DefaultTemplates are the teams offered when none are configured.
func DefaultTemplates() []Template {
	return []Template{
		{ID: "red", Name: "Red", Color: "#e74c3c"},
		{ID: "blue", Name: "Blue", Color: "#3498db"},
		{ID: "green", Name: "Green", Color: "#2ecc71"},
		{ID: "yellow", Name: "Yellow", Color: "#f1c40f"},
	}
}

// Team is a group of participants racing on one card
type Team struct {
	ID      string
	Name    string
	Color   string
	Members []string
	Card    *card.Card

	// OutOfGame is set when the team lost a timer tie-break.
	OutOfGame bool

	order   int
	reached int // sequence number of the last score change
}

// Size returns the number of members.
func (t *Team) Size() int { return len(t.Members) }

// Has reports whether the participant is a member.
func (t *Team) Has(participant string) bool {
	return indexOf(t.Members, participant) >= 0
}

func (t *Team) remove(participant string) bool {
	i := indexOf(t.Members, participant)
	if i < 0 {
		return false
	}
	t.Members = append(t.Members[:i], t.Members[i+1:]...)
	return true
}

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return -1
}
