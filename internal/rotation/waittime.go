package rotation

import (
	"fmt"
	"math"
	"time"
)

const (
	// DefaultGameDuration is assumed when there is no history yet.
	DefaultGameDuration = 15
	recentGames         = 10
)

// AverageGameDuration is the rounded mean duration in minutes of the most
// recent games (history is newest first).
func AverageGameDuration(history []GameRecord) int {
	if len(history) == 0 {
		return DefaultGameDuration
	}
	recent := history
	if len(recent) > recentGames {
		recent = recent[:recentGames]
	}
	total := 0
	for _, g := range recent {
		total += g.Duration
	}
	return int(math.Round(float64(total) / float64(len(recent))))
}

// EstimateWait returns the expected minutes until the entry at index gets a
// court.
func EstimateWait(index int, queue []QueueEntry, courts []Court, playersNeeded, avgDuration int, now time.Time) int {
	if index > len(queue) {
		index = len(queue)
	}
	playersAhead := 0
	for _, e := range queue[:max(index, 0)] {
		playersAhead += e.Size()
	}
	gamesAhead := ceilDiv(playersAhead, playersNeeded)

	idle := 0
	var elapsedSum float64
	for _, c := range courts {
		if !c.Active {
			idle++
			continue
		}
		elapsedSum += math.Floor(c.Elapsed(now).Minutes())
	}
	if idle > 0 {
		return int(math.Round(float64(ceilDiv(gamesAhead, idle) * avgDuration)))
	}
	if len(courts) == 0 {
		return 0
	}
	meanElapsed := elapsedSum / float64(len(courts))
	untilFree := math.Max(0, float64(avgDuration)-meanElapsed)
	rounds := ceilDiv(gamesAhead, len(courts))
	return int(math.Round(untilFree + float64(rounds*avgDuration)))
}

func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

// AverageGameDuration over this state's history.
func (s *State) AverageGameDuration() int {
	return AverageGameDuration(s.GameHistory)
}

// EstimatedWait for the queue entry at index.
func (s *State) EstimatedWait(index int, now time.Time) int {
	return EstimateWait(index, s.Queue, s.Courts, s.Settings.PlayersNeeded(), s.AverageGameDuration(), now)
}

// FormatWait renders minutes as "Up next!", "~5m", "~1h" or "~1h 20m".
func FormatWait(minutes int) string {
	if minutes <= 0 {
		return "Up next!"
	}
	if minutes < 60 {
		return fmt.Sprintf("~%dm", minutes)
	}
	h, m := minutes/60, minutes%60
	if m == 0 {
		return fmt.Sprintf("~%dh", h)
	}
	return fmt.Sprintf("~%dh %dm", h, m)
}
