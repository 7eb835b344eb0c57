package rotation

import (
	"fmt"
	"time"
)

// EndGame finishes the game on a court: it records the game, credits the
// players, sends them back to the queue according to the rotation rule and
// resets the court.
func (s *State) EndGame(courtID int, now time.Time) (GameRecord, error) {
	c, err := s.court(courtID)
	if err != nil {
		return GameRecord{}, err
	}
	if !c.Active {
		return GameRecord{}, fmt.Errorf("%w: court %d", ErrCourtNotActive, courtID)
	}

	duration := int(c.Elapsed(now) / time.Minute)
	t1, t2 := c.Team1Score, c.Team2Score
	record := GameRecord{
		CourtID:    c.ID,
		Players:    append([]string(nil), c.Players...),
		Duration:   duration,
		Timestamp:  now,
		GameMode:   s.Settings.GameMode,
		Team1Score: &t1,
		Team2Score: &t2,
	}
	history := make([]GameRecord, 0, HistoryLimit)
	history = append(history, record)
	history = append(history, s.GameHistory...)
	if len(history) > HistoryLimit {
		history = history[:HistoryLimit]
	}
	s.GameHistory = history

	for _, name := range c.Players {
		s.ensureRegistered(name)
		p := s.RegisteredPlayers[name]
		p.GamesPlayed++
		p.TotalPlayTime += duration
		s.RegisteredPlayers[name] = p
	}

	s.Queue = append(s.Queue, s.returning(c, now)...)

	c.Players = []string{}
	c.Active = false
	c.StartTime = nil
	c.TimerElapsed = 0
	c.TimerPaused = false
	c.GroupInfo = nil
	c.Team1Score = 0
	c.Team2Score = 0
	return record, nil
}

// returning builds the queue entries for a finished court's players.
//
// Under manual and allRotate everyone returns. A group that supplied the game
// comes back as one entry (if it still exists) followed by any fill-in players.
// Under losersRotate a decided game sends only the losing side back as bare
// players; a tied game falls back to everyone returning.
func (s *State) returning(c *Court, now time.Time) []QueueEntry {
	players := c.Players
	if s.Settings.RotationRule == RotationLosersRotate && c.Team1Score != c.Team2Score {
		half := len(players) / 2
		losers := players[half:]
		if c.Team2Score > c.Team1Score {
			losers = players[:half]
		}
		entries := make([]QueueEntry, 0, len(losers))
		for _, name := range losers {
			entries = append(entries, NewPlayerEntry(name, now))
		}
		return entries
	}

	var entries []QueueEntry
	rest := players
	if c.GroupInfo != nil {
		if g, _ := s.group(c.GroupInfo.ID); g != nil {
			onCourt := make(map[string]bool, len(players))
			for _, p := range players {
				onCourt[p] = true
			}
			members := make(map[string]bool, len(g.Players))
			var back, fillIns []string
			for _, p := range g.Players {
				members[p] = true
				if onCourt[p] {
					back = append(back, p)
				}
			}
			for _, p := range players {
				if !members[p] {
					fillIns = append(fillIns, p)
				}
			}
			if len(back) > 0 {
				entries = append(entries, NewGroupEntry(g.ID, g.Name, back, now))
			}
			// Fill-ins rejoin as bare entries, not as members of the group entry.
			rest = fillIns
		}
	}
	for _, name := range rest {
		entries = append(entries, NewPlayerEntry(name, now))
	}
	return entries
}
