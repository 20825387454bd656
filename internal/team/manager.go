package team

import (
	"fmt"
)

// Manager owns the team roster of one session. It is not safe for concurrent
// use; the session actor is its only caller.
type Manager struct {
	teams   []*Team
	byID    map[string]*Team
	maxSize int

	active []*Team
	frozen bool
	seq    int
}

// NewManager creates the joinable teams from templates, in order.
func NewManager(templates []Template, maxSize int) (*Manager, error) {
	m := &Manager{
		byID:    make(map[string]*Team, len(templates)),
		maxSize: maxSize,
	}
	for _, tpl := range templates {
		if _, err := m.Create(tpl); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Create adds a new joinable team.
func (m *Manager) Create(tpl Template) (*Team, error) {
	switch tpl.ID {
	case "":
		return nil, fmt.Errorf("team id must not be empty")
	case Auto, None:
		return nil, fmt.Errorf("%w: %q", ErrReservedTeam, tpl.ID)
	}
	if _, exists := m.byID[tpl.ID]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateTeam, tpl.ID)
	}
	name := tpl.Name
	if name == "" {
		name = tpl.ID
	}
	t := &Team{
		ID:    tpl.ID,
		Name:  name,
		Color: tpl.Color,
		order: len(m.teams),
	}
	m.teams = append(m.teams, t)
	m.byID[t.ID] = t
	return t, nil
}

// SetMaxSize changes the team capacity. Teams already above it keep their
// members but accept nobody new.
func (m *Manager) SetMaxSize(n int) { m.maxSize = n }

// MaxSize returns the team capacity.
func (m *Manager) MaxSize() int { return m.maxSize }

// Team looks a team up by id.
func (m *Manager) Team(id string) (*Team, bool) {
	t, ok := m.byID[id]
	return t, ok
}

// TeamOf returns the team the participant belongs to.
func (m *Manager) TeamOf(participant string) (*Team, bool) {
	for _, t := range m.teams {
		if t.Has(participant) {
			return t, true
		}
	}
	return nil, false
}

// JoinableTeams returns every configured team in creation order, including
// empty ones.
func (m *Manager) JoinableTeams() []*Team {
	out := make([]*Team, len(m.teams))
	copy(out, m.teams)
	return out
}

// ActiveTeams returns the teams that take part in scoring. Before Freeze these
// are the teams that currently have members; afterwards the set is fixed.
func (m *Manager) ActiveTeams() []*Team {
	if m.frozen {
		out := make([]*Team, len(m.active))
		copy(out, m.active)
		return out
	}
	var out []*Team
	for _, t := range m.teams {
		if t.Size() > 0 {
			out = append(out, t)
		}
	}
	return out
}

// Participants returns every member of every team, in team order.
func (m *Manager) Participants() []string {
	var out []string
	for _, t := range m.teams {
		out = append(out, t.Members...)
	}
	return out
}

// AddMember puts the participant on a team, leaving any previous team. The
// id "auto" picks the non-full team with the fewest members, earliest created
// first. A failed move leaves the participant where they were.
func (m *Manager) AddMember(participant, teamID string) (*Team, error) {
	current, _ := m.TeamOf(participant)

	var target *Team
	if teamID == Auto {
		target = m.smallestOpen(participant)
		if target == nil {
			return nil, fmt.Errorf("%w: every team is at capacity (%d)", ErrTeamFull, m.maxSize)
		}
	} else {
		t, ok := m.byID[teamID]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrNoSuchTeam, teamID)
		}
		target = t
	}

	if target == current {
		return target, nil
	}
	if m.full(target) {
		return nil, fmt.Errorf("%w: %s has %d members", ErrTeamFull, target.ID, target.Size())
	}

	if current != nil {
		current.remove(participant)
	}
	target.Members = append(target.Members, participant)
	return target, nil
}

// RemoveMember takes the participant off their team. It reports whether the
// participant was on one.
func (m *Manager) RemoveMember(participant string) bool {
	t, ok := m.TeamOf(participant)
	if !ok {
		return false
	}
	return t.remove(participant)
}

func (m *Manager) full(t *Team) bool {
	return m.maxSize > 0 && t.Size() >= m.maxSize
}

// smallestOpen ignores the participant's own membership so that "auto" for
// someone already on a team can keep them where they are.
func (m *Manager) smallestOpen(participant string) *Team {
	var best *Team
	bestSize := 0
	for _, t := range m.teams {
		size := t.Size()
		if t.Has(participant) {
			size--
		}
		if m.maxSize > 0 && size >= m.maxSize {
			continue
		}
		if best == nil || size < bestSize {
			best, bestSize = t, size
		}
	}
	return best
}

// Freeze fixes the active team set for a game and returns it.
func (m *Manager) Freeze() []*Team {
	m.active = nil
	for _, t := range m.teams {
		if t.Size() > 0 {
			m.active = append(m.active, t)
		}
	}
	m.frozen = true
	return m.ActiveTeams()
}

// CompleteCount returns the number of tasks the team has completed on its card.
func (m *Manager) CompleteCount(t *Team) int {
	if t == nil || t.Card == nil {
		return 0
	}
	return t.Card.CompleteCount(t.ID)
}

// RecordScore notes that the team's score just changed. Leader ties are
// broken by who reached the current score first.
func (m *Manager) RecordScore(t *Team) {
	m.seq++
	t.reached = m.seq
}

// LeadingTeam returns the active team that is not out of the game with the
// highest completed count. Ties go to the team that reached that count first,
// then to creation order.
func (m *Manager) LeadingTeam() (*Team, bool) {
	var lead *Team
	leadScore := -1
	for _, t := range m.ActiveTeams() {
		if t.OutOfGame {
			continue
		}
		score := m.CompleteCount(t)
		if lead == nil || score > leadScore || (score == leadScore && earlier(t, lead)) {
			lead, leadScore = t, score
		}
	}
	return lead, lead != nil
}

func earlier(a, b *Team) bool {
	if a.reached != b.reached {
		return a.reached < b.reached
	}
	return a.order < b.order
}

// TiedForLead returns every active team still in the game whose completed
// count equals the leader's, in creation order.
func (m *Manager) TiedForLead() []*Team {
	lead, ok := m.LeadingTeam()
	if !ok {
		return nil
	}
	score := m.CompleteCount(lead)
	var tied []*Team
	for _, t := range m.ActiveTeams() {
		if !t.OutOfGame && m.CompleteCount(t) == score {
			tied = append(tied, t)
		}
	}
	return tied
}

// Reset clears per-game state: cards, scores, eliminations and the frozen
// active set. Membership is kept for a rematch.
func (m *Manager) Reset() {
	for _, t := range m.teams {
		t.Card = nil
		t.OutOfGame = false
		t.reached = 0
	}
	m.active = nil
	m.frozen = false
	m.seq = 0
}
