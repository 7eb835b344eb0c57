package rotation

import (
	"math"
	"sort"
)

// SkillVariance is the population variance of the players' skill values.
func SkillVariance(players []string, registry map[string]Player) float64 {
	if len(players) == 0 {
		return 0
	}
	var sum float64
	for _, p := range players {
		sum += float64(skillOf(registry, p).Value())
	}
	avg := sum / float64(len(players))
	var variance float64
	for _, p := range players {
		d := float64(skillOf(registry, p).Value()) - avg
		variance += d * d
	}
	return variance / float64(len(players))
}

// AverageSkill is the mean skill value of the players.
func AverageSkill(players []string, registry map[string]Player) float64 {
	if len(players) == 0 {
		return 0
	}
	var sum float64
	for _, p := range players {
		sum += float64(skillOf(registry, p).Value())
	}
	return sum / float64(len(players))
}

// MatchQuality scores skill homogeneity from 0 to 100 as 100*e^(-variance/2).
// Fewer than two players always score 100.
func MatchQuality(players []string, registry map[string]Player) int {
	if len(players) < 2 {
		return 100
	}
	return int(math.Round(100 * math.Exp(-SkillVariance(players, registry)/2)))
}

// MatchQualityLabel buckets a quality score for display.
func MatchQualityLabel(quality int) string {
	switch {
	case quality >= 80:
		return "Excellent Match"
	case quality >= 60:
		return "Good Match"
	case quality >= 40:
		return "Fair Match"
	default:
		return "Unbalanced"
	}
}

// SuggestOptimalOrder puts groups first in their current order, then bare
// players sorted by ascending skill (stable, so equal levels keep queue order).
func SuggestOptimalOrder(queue []QueueEntry, registry map[string]Player) []QueueEntry {
	groups := make([]QueueEntry, 0, len(queue))
	players := make([]QueueEntry, 0, len(queue))
	for _, e := range queue {
		switch e.Kind {
		case EntryGroup:
			groups = append(groups, e)
		case EntryPlayer:
			players = append(players, e)
		}
	}
	sort.SliceStable(players, func(i, j int) bool {
		return skillOf(registry, players[i].Name).Value() < skillOf(registry, players[j].Name).Value()
	})
	return append(groups, players...)
}

// BalanceTeams splits four players into highest+lowest against the middle two.
// It returns nil for any other count.
func BalanceTeams(players []string, registry map[string]Player) *Teams {
	if len(players) != 4 {
		return nil
	}
	ranked := append([]string(nil), players...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return skillOf(registry, ranked[i]).Value() > skillOf(registry, ranked[j]).Value()
	})
	teamA := []string{ranked[0], ranked[3]}
	teamB := []string{ranked[1], ranked[2]}
	return &Teams{
		TeamA:    teamA,
		TeamB:    teamB,
		TeamAAvg: AverageSkill(teamA, registry),
		TeamBAvg: AverageSkill(teamB, registry),
	}
}

// SinglesTeams puts each of two players on their own side.
func SinglesTeams(players []string, registry map[string]Player) *Teams {
	if len(players) != 2 {
		return nil
	}
	return &Teams{
		TeamA:    []string{players[0]},
		TeamB:    []string{players[1]},
		TeamAAvg: AverageSkill(players[:1], registry),
		TeamBAvg: AverageSkill(players[1:], registry),
	}
}

// BalanceQuality describes the gap between two team averages.
func BalanceQuality(teamAAvg, teamBAvg float64) string {
	diff := math.Abs(teamAAvg - teamBAvg)
	switch {
	case diff == 0:
		return "Perfect Balance"
	case diff <= 0.5:
		return "Excellent Balance"
	case diff <= 1.0:
		return "Good Balance"
	case diff <= 1.5:
		return "Fair Balance"
	default:
		return "Unbalanced"
	}
}
