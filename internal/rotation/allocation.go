package rotation

import (
	"fmt"
	"time"
)

// selectNext decides which queue prefix forms the next game. It never mutates.
//
// Groups are never split and never topped up past PlayersNeeded. A group at the
// head that is short takes the bare players directly behind it; a run of bare
// players that ends at a group only forms a game if the group fills it exactly.
func (s *State) selectNext() (Selection, error) {
	need := s.Settings.PlayersNeeded()
	if len(s.Queue) == 0 {
		return Selection{}, fmt.Errorf("%w: queue is empty", ErrInsufficientQueueForGame)
	}

	var sel Selection
	head := s.Queue[0]
	switch head.Kind {
	case EntryGroup:
		info := &GroupInfo{ID: head.GroupID, Name: head.Name, Members: append([]string(nil), head.Players...)}
		switch size := head.Size(); {
		case size == need:
			sel = Selection{Kind: SelectionGroup, Players: append([]string(nil), head.Players...), Consumed: 1, Group: info}
		case size > need:
			return Selection{}, fmt.Errorf("%w: group %s has %d players, game needs %d", ErrGroupSizeMismatch, head.Name, size, need)
		default:
			players := append([]string(nil), head.Players...)
			consumed := 1
			for _, e := range s.Queue[1:] {
				if len(players) == need || e.Kind != EntryPlayer {
					break
				}
				players = append(players, e.Name)
				consumed++
			}
			if len(players) < need {
				return Selection{}, fmt.Errorf("%w: group %s needs %d more", ErrInsufficientQueueForGame, head.Name, need-size)
			}
			sel = Selection{Kind: SelectionPartialGroup, Players: players, Consumed: consumed, Group: info}
		}

	case EntryPlayer:
		var players []string
		stop := -1
		for i, e := range s.Queue {
			if len(players) == need {
				break
			}
			if e.Kind != EntryPlayer {
				stop = i
				break
			}
			players = append(players, e.Name)
		}
		switch {
		case len(players) == need:
			sel = Selection{Kind: SelectionIndividuals, Players: players, Consumed: need}
		case stop >= 0 && len(players)+s.Queue[stop].Size() == need:
			g := s.Queue[stop]
			sel = Selection{Kind: SelectionMixed, Players: append(players, g.Players...), Consumed: stop + 1}
		default:
			return Selection{}, fmt.Errorf("%w: %d of %d players ready", ErrInsufficientQueueForGame, len(players), need)
		}

	default:
		panic(fmt.Sprintf("rotation: unknown queue entry kind %q", head.Kind))
	}

	if s.Settings.StrictSkillMatching {
		if _, ok := uniformSkill(sel.Players, s.RegisteredPlayers); !ok {
			return Selection{}, fmt.Errorf("%w: %v", ErrSkillMismatch, sel.Players)
		}
	}
	return sel, nil
}

// uniformSkill returns the shared level when every player has the same one.
func uniformSkill(players []string, registry map[string]Player) (SkillLevel, bool) {
	if len(players) == 0 {
		return "", false
	}
	first := skillOf(registry, players[0])
	for _, p := range players[1:] {
		if skillOf(registry, p) != first {
			return "", false
		}
	}
	return first, true
}

// chooseCourt picks the court the selection would play on, scanning in id
// order. With clearExpired the scan drops stale rentals it walks past.
func (s *State) chooseCourt(players []string, now time.Time, clearExpired bool) (*Court, error) {
	var eligible []*Court
	for i := range s.Courts {
		c := &s.Courts[i]
		if c.Active {
			continue
		}
		free := s.courtFree(c.ID, now)
		if clearExpired {
			free = s.IsCourtAvailable(c.ID, now)
		}
		if free {
			eligible = append(eligible, c)
		}
	}
	if len(eligible) == 0 {
		return nil, ErrNoEligibleCourt
	}
	if !s.Settings.EnableCourtSkillAssignment {
		return eligible[0], nil
	}
	if level, ok := uniformSkill(players, s.RegisteredPlayers); ok {
		for _, c := range eligible {
			if c.AssignedSkillLevel != nil && *c.AssignedSkillLevel == level {
				return c, nil
			}
		}
	}
	for _, c := range eligible {
		if c.AssignedSkillLevel == nil {
			return c, nil
		}
	}
	return eligible[0], nil
}

// commit puts the selection on the court and removes its prefix from the queue.
func (s *State) commit(c *Court, sel Selection, now time.Time) {
	players := append([]string(nil), sel.Players...)
	if s.Settings.AutoTeamBalancing && len(players) == 4 {
		if teams := BalanceTeams(players, s.RegisteredPlayers); teams != nil {
			players = append(append([]string{}, teams.TeamA...), teams.TeamB...)
		}
	}
	for _, p := range players {
		s.ensureRegistered(p)
	}
	start := now
	c.Players = players
	c.Active = true
	c.StartTime = &start
	c.TimerElapsed = 0
	c.TimerPaused = false
	c.Team1Score = 0
	c.Team2Score = 0
	c.GroupInfo = sel.Group
	s.Queue = append([]QueueEntry{}, s.Queue[sel.Consumed:]...)
}

// StartGame starts the next game from the queue on a specific court.
func (s *State) StartGame(courtID int, now time.Time) (Selection, error) {
	c, err := s.court(courtID)
	if err != nil {
		return Selection{}, err
	}
	if c.Active {
		return Selection{}, fmt.Errorf("%w: court %d has a game in progress", ErrCourtNotIdle, courtID)
	}
	if !s.IsCourtAvailable(courtID, now) {
		return Selection{}, fmt.Errorf("%w: court %d is rented until %s", ErrCourtUnavailable, courtID, s.CourtSchedules[courtID].UnavailableUntil.Format(time.Kitchen))
	}
	sel, err := s.selectNext()
	if err != nil {
		return Selection{}, err
	}
	s.commit(c, sel, now)
	return sel, nil
}

// StartNextGame starts the next game on the best eligible court.
func (s *State) StartNextGame(now time.Time) (int, Selection, error) {
	sel, err := s.selectNext()
	if err != nil {
		return 0, Selection{}, err
	}
	c, err := s.chooseCourt(sel.Players, now, true)
	if err != nil {
		return 0, Selection{}, err
	}
	s.commit(c, sel, now)
	return c.ID, sel, nil
}

// NextGamePreview describes the next game without changing anything.
func (s *State) NextGamePreview(now time.Time) (Preview, error) {
	sel, err := s.selectNext()
	if err != nil {
		return Preview{}, err
	}
	p := Preview{
		Selection: sel,
		Skills:    make([]SkillLevel, len(sel.Players)),
		Quality:   MatchQuality(sel.Players, s.RegisteredPlayers),
	}
	for i, name := range sel.Players {
		p.Skills[i] = s.SkillOf(name)
	}
	switch len(sel.Players) {
	case 4:
		p.Teams = BalanceTeams(sel.Players, s.RegisteredPlayers)
	case 2:
		p.Teams = SinglesTeams(sel.Players, s.RegisteredPlayers)
	}
	if c, err := s.chooseCourt(sel.Players, now, false); err == nil {
		id := c.ID
		p.CourtID = &id
	}
	return p, nil
}
