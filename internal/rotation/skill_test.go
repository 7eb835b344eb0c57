package rotation_test

import (
	"testing"

	"github.com/mauv0809/courtside/internal/rotation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registry(levels map[string]rotation.SkillLevel) map[string]rotation.Player {
	r := make(map[string]rotation.Player, len(levels))
	for name, l := range levels {
		r[name] = rotation.Player{SkillLevel: l}
	}
	return r
}

func TestBalanceTeams(t *testing.T) {
	r := registry(map[string]rotation.SkillLevel{
		"Pro": rotation.SkillProfessional,
		"Beg": rotation.SkillBeginner,
		"Adv": rotation.SkillAdvanced,
		"Int": rotation.SkillIntermediate,
	})
	teams := rotation.BalanceTeams([]string{"Pro", "Beg", "Adv", "Int"}, r)
	require.NotNil(t, teams)
	assert.Equal(t, []string{"Pro", "Beg"}, teams.TeamA)
	assert.Equal(t, []string{"Adv", "Int"}, teams.TeamB)
	assert.Equal(t, 2.5, teams.TeamAAvg)
	assert.Equal(t, 2.5, teams.TeamBAvg)
	assert.Equal(t, "Perfect Balance", rotation.BalanceQuality(teams.TeamAAvg, teams.TeamBAvg))

	assert.Nil(t, rotation.BalanceTeams([]string{"Pro", "Beg"}, r))
	singles := rotation.SinglesTeams([]string{"Pro", "Beg"}, r)
	require.NotNil(t, singles)
	assert.Equal(t, []string{"Pro"}, singles.TeamA)
	assert.Equal(t, 4.0, singles.TeamAAvg)
}

func TestMatchQuality(t *testing.T) {
	r := registry(map[string]rotation.SkillLevel{
		"P": rotation.SkillProfessional,
		"B": rotation.SkillBeginner,
		"I": rotation.SkillIntermediate,
	})

	assert.Equal(t, 100, rotation.MatchQuality([]string{"P"}, r))
	assert.Equal(t, 100, rotation.MatchQuality(nil, r))
	assert.Equal(t, 100, rotation.MatchQuality([]string{"I", "Unknown"}, r))
	// variance of {4,1} is 2.25
	assert.Equal(t, 32, rotation.MatchQuality([]string{"P", "B"}, r))
	// variance of {2,1} is 0.25
	assert.Equal(t, 88, rotation.MatchQuality([]string{"I", "B"}, r))

	assert.Equal(t, "Excellent Match", rotation.MatchQualityLabel(88))
	assert.Equal(t, "Unbalanced", rotation.MatchQualityLabel(32))
}

func TestSuggestOptimalOrder(t *testing.T) {
	r := registry(map[string]rotation.SkillLevel{
		"P": rotation.SkillProfessional,
		"B": rotation.SkillBeginner,
		"I": rotation.SkillIntermediate,
		"J": rotation.SkillIntermediate,
	})
	queue := []rotation.QueueEntry{
		rotation.NewPlayerEntry("P", t0),
		rotation.NewGroupEntry("g1", "First", []string{"X", "Y"}, t0),
		rotation.NewPlayerEntry("I", t0),
		rotation.NewPlayerEntry("B", t0),
		rotation.NewGroupEntry("g2", "Second", []string{"Z", "W"}, t0),
		rotation.NewPlayerEntry("J", t0),
	}
	got := rotation.SuggestOptimalOrder(queue, r)
	var names []string
	for _, e := range got {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"First", "Second", "B", "I", "J", "P"}, names)
	assert.Equal(t, "P", queue[0].Name, "input is untouched")
}

func TestOptimizeQueue(t *testing.T) {
	s := newState(t)
	join(t, s, "A", "B")
	require.NoError(t, s.SetSkillLevel("A", rotation.SkillProfessional))
	s.OptimizeQueue()
	assert.Equal(t, []string{"B", "A"}, queueNames(s))
}
