package team

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bingoreloaded/internal/card"
	"bingoreloaded/internal/task"
)

func newTestManager(t *testing.T, maxSize int) *Manager {
	t.Helper()
	m, err := NewManager([]Template{
		{ID: "red", Name: "Red"},
		{ID: "blue", Name: "Blue"},
		{ID: "green"},
	}, maxSize)
	require.NoError(t, err)
	return m
}

func TestNewManager_InvalidTemplates(t *testing.T) {
	_, err := NewManager([]Template{{ID: "red"}, {ID: "red"}}, 4)
	assert.ErrorIs(t, err, ErrDuplicateTeam)

	_, err = NewManager([]Template{{ID: Auto}}, 4)
	assert.ErrorIs(t, err, ErrReservedTeam)

	_, err = NewManager([]Template{{ID: ""}}, 4)
	assert.Error(t, err)
}

func TestAddMember_Exclusive(t *testing.T) {
	m := newTestManager(t, 4)

	_, err := m.AddMember("p", "blue")
	require.NoError(t, err)
	_, err = m.AddMember("p", "red")
	require.NoError(t, err)

	red, _ := m.Team("red")
	blue, _ := m.Team("blue")
	assert.Equal(t, []string{"p"}, red.Members)
	assert.Empty(t, blue.Members)

	team, ok := m.TeamOf("p")
	require.True(t, ok)
	assert.Equal(t, "red", team.ID)
}

func TestAddMember_TeamFull(t *testing.T) {
	m := newTestManager(t, 2)

	_, err := m.AddMember("a", "red")
	require.NoError(t, err)
	_, err = m.AddMember("b", "red")
	require.NoError(t, err)
	_, err = m.AddMember("c", "blue")
	require.NoError(t, err)

	_, err = m.AddMember("c", "red")
	assert.ErrorIs(t, err, ErrTeamFull)

	team, _ := m.TeamOf("c")
	assert.Equal(t, "blue", team.ID, "failed move keeps the previous team")

	_, err = m.AddMember("a", "red")
	assert.NoError(t, err, "joining your own full team is a no-op")
}

func TestAddMember_NoSuchTeam(t *testing.T) {
	m := newTestManager(t, 2)
	_, err := m.AddMember("a", "purple")
	assert.ErrorIs(t, err, ErrNoSuchTeam)
}

func TestAddMember_Auto(t *testing.T) {
	m := newTestManager(t, 2)

	got := make([]string, 0, 6)
	for i := 0; i < 6; i++ {
		team, err := m.AddMember(fmt.Sprintf("p%d", i), Auto)
		require.NoError(t, err)
		got = append(got, team.ID)
	}
	assert.Equal(t, []string{"red", "blue", "green", "red", "blue", "green"}, got)

	_, err := m.AddMember("late", Auto)
	assert.ErrorIs(t, err, ErrTeamFull)
}

func TestAddMember_AutoKeepsBalancedParticipant(t *testing.T) {
	m := newTestManager(t, 4)
	m.AddMember("a", "red")
	m.AddMember("b", "blue")

	team, err := m.AddMember("a", Auto)
	require.NoError(t, err)
	assert.Equal(t, "red", team.ID)
}

func TestRemoveMember(t *testing.T) {
	m := newTestManager(t, 4)
	assert.False(t, m.RemoveMember("ghost"))

	m.AddMember("a", "red")
	assert.True(t, m.RemoveMember("a"))
	_, ok := m.TeamOf("a")
	assert.False(t, ok)
}

func TestActiveAndJoinableTeams(t *testing.T) {
	m := newTestManager(t, 4)
	m.AddMember("a", "blue")

	assert.Len(t, m.JoinableTeams(), 3)
	active := m.ActiveTeams()
	require.Len(t, active, 1)
	assert.Equal(t, "blue", active[0].ID)

	frozen := m.Freeze()
	require.Len(t, frozen, 1)

	m.AddMember("b", "green")
	assert.Len(t, m.ActiveTeams(), 1, "active set is fixed once frozen")

	m.Reset()
	assert.Len(t, m.ActiveTeams(), 2)
	assert.Equal(t, []string{"a", "b"}, m.Participants())
}

func dealTestCards(t *testing.T, m *Manager, mode card.Mode) {
	t.Helper()
	pool := make(task.Pool, 30)
	for i := range pool {
		pool[i] = task.Task{Kind: task.KindItem, Key: fmt.Sprintf("t%d", i), Count: 1}
	}
	teams := m.Freeze()
	cards, err := card.Deal(mode, pool, 1, card.Size3, len(teams), card.DealOptions{})
	require.NoError(t, err)
	for i, tm := range teams {
		tm.Card = cards[i]
	}
}

func complete(t *testing.T, m *Manager, teamID string, slot int) {
	t.Helper()
	tm, ok := m.Team(teamID)
	require.True(t, ok)
	_, err := tm.Card.CompleteTask(slot, "x", tm.ID, 0)
	require.NoError(t, err)
	m.RecordScore(tm)
}

func TestLeadingTeam(t *testing.T) {
	m := newTestManager(t, 4)
	m.AddMember("a", "red")
	m.AddMember("b", "blue")
	m.AddMember("c", "green")
	dealTestCards(t, m, card.ModeRegular)

	lead, ok := m.LeadingTeam()
	require.True(t, ok)
	assert.Equal(t, "red", lead.ID, "no scores: creation order")

	complete(t, m, "blue", 0)
	complete(t, m, "green", 0)
	lead, _ = m.LeadingTeam()
	assert.Equal(t, "blue", lead.ID, "blue reached 1 first")

	complete(t, m, "green", 1)
	lead, _ = m.LeadingTeam()
	assert.Equal(t, "green", lead.ID)
	assert.Equal(t, 2, m.CompleteCount(lead))

	complete(t, m, "blue", 1)
	lead, _ = m.LeadingTeam()
	assert.Equal(t, "green", lead.ID, "green reached 2 before blue")

	tied := m.TiedForLead()
	require.Len(t, tied, 2)
	assert.Equal(t, "blue", tied[0].ID)
	assert.Equal(t, "green", tied[1].ID)
}

func TestLeadingTeam_SkipsOutOfGame(t *testing.T) {
	m := newTestManager(t, 4)
	m.AddMember("a", "red")
	m.AddMember("b", "blue")
	dealTestCards(t, m, card.ModeLockout)

	complete(t, m, "red", 0)
	red, _ := m.Team("red")
	red.OutOfGame = true

	lead, ok := m.LeadingTeam()
	require.True(t, ok)
	assert.Equal(t, "blue", lead.ID)
	assert.Equal(t, 0, m.CompleteCount(lead))
	assert.Equal(t, 1, m.CompleteCount(red), "lockout counts only the team's own completions")
}

func TestLeadingTeam_NoTeams(t *testing.T) {
	m := newTestManager(t, 4)
	m.Freeze()
	_, ok := m.LeadingTeam()
	assert.False(t, ok)
	assert.Nil(t, m.TiedForLead())
}

func TestReset(t *testing.T) {
	m := newTestManager(t, 4)
	m.AddMember("a", "red")
	dealTestCards(t, m, card.ModeRegular)
	red, _ := m.Team("red")
	red.OutOfGame = true

	m.Reset()
	assert.Nil(t, red.Card)
	assert.False(t, red.OutOfGame)
	assert.Equal(t, 0, m.CompleteCount(red))
	assert.Equal(t, []string{"a"}, red.Members)
}
