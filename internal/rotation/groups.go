package rotation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	minGroupSize = 2
	maxGroupSize = 4
)

// CreateGroup registers a named group of 2-4 players. A player may belong to
// one group at a time. Ids are UUIDv7 so they sort by creation time.
func (s *State) CreateGroup(name string, players []string) (Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Group{}, ErrInvalidName
	}
	members := make([]string, 0, len(players))
	seen := make(map[string]bool, len(players))
	for _, raw := range players {
		p := strings.TrimSpace(raw)
		if p == "" {
			return Group{}, ErrInvalidName
		}
		if seen[p] {
			return Group{}, fmt.Errorf("%w: %s listed twice", ErrDuplicatePlayer, p)
		}
		seen[p] = true
		members = append(members, p)
	}
	if len(members) < minGroupSize || len(members) > maxGroupSize {
		return Group{}, fmt.Errorf("%w: %d players, groups hold %d to %d", ErrGroupSizeMismatch, len(members), minGroupSize, maxGroupSize)
	}
	if need := s.Settings.PlayersNeeded(); len(members) > need {
		return Group{}, fmt.Errorf("%w: %d players, %s needs %d", ErrGroupSizeMismatch, len(members), s.Settings.GameMode, need)
	}
	for _, g := range s.Groups {
		for _, p := range g.Players {
			if seen[p] {
				return Group{}, fmt.Errorf("%w: %s is in %s", ErrPlayerAlreadyInGroup, p, g.Name)
			}
		}
	}

	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	g := Group{ID: id.String(), Name: name, Players: members}
	s.Groups = append(s.Groups, g)
	return g, nil
}

// DeleteGroup removes the group and its queue entry, if queued.
func (s *State) DeleteGroup(id string) error {
	g, i := s.group(id)
	if g == nil {
		return fmt.Errorf("%w: %s", ErrGroupNotFound, id)
	}
	s.Groups = append(s.Groups[:i:i], s.Groups[i+1:]...)
	q := make([]QueueEntry, 0, len(s.Queue))
	for _, e := range s.Queue {
		if e.IsGroup() && e.GroupID == id {
			continue
		}
		q = append(q, e)
	}
	s.Queue = q
	return nil
}
