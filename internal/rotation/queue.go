package rotation

import (
	"fmt"
	"strings"
	"time"
)

// JoinQueue appends a player to the tail, registering them on first sight.
func (s *State) JoinQueue(name string, now time.Time) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidName
	}
	if _, queued := s.queuedIndex(name); queued {
		return fmt.Errorf("%w: %s", ErrDuplicatePlayer, name)
	}
	if id, playing := s.playingCourt(name); playing {
		return fmt.Errorf("%w: %s is on court %d", ErrPlayerCurrentlyPlaying, name, id)
	}
	s.ensureRegistered(name)
	s.Queue = append(s.Queue, NewPlayerEntry(name, now))
	return nil
}

// RemoveAt drops the entry at index. Out of range is a no-op reported by ok=false.
func (s *State) RemoveAt(index int) (removed QueueEntry, ok bool) {
	if index < 0 || index >= len(s.Queue) {
		return QueueEntry{}, false
	}
	removed = s.Queue[index]
	s.Queue = append(s.Queue[:index:index], s.Queue[index+1:]...)
	return removed, true
}

// LeaveQueue removes the entry holding the named player. A player inside a
// group takes the whole group out.
func (s *State) LeaveQueue(name string) (QueueEntry, error) {
	i, ok := s.queuedIndex(strings.TrimSpace(name))
	if !ok {
		return QueueEntry{}, fmt.Errorf("%w: %s is not queued", ErrPlayerNotFound, name)
	}
	removed, _ := s.RemoveAt(i)
	return removed, nil
}

// Reorder moves one entry from one position to another, keeping the relative
// order of everything else.
func (s *State) Reorder(from, to int) error {
	n := len(s.Queue)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("%w: reorder %d -> %d in queue of %d", ErrInvalidArgument, from, to, n)
	}
	if from == to {
		return nil
	}
	entry := s.Queue[from]
	rest := make([]QueueEntry, 0, n)
	rest = append(rest, s.Queue[:from]...)
	rest = append(rest, s.Queue[from+1:]...)
	q := make([]QueueEntry, 0, n)
	q = append(q, rest[:to]...)
	q = append(q, entry)
	q = append(q, rest[to:]...)
	s.Queue = q
	return nil
}

// EnqueueGroup appends a registered group as one entry. Bare entries for its
// members are dropped first.
func (s *State) EnqueueGroup(id string, now time.Time) error {
	g, _ := s.group(id)
	if g == nil {
		return fmt.Errorf("%w: %s", ErrGroupNotFound, id)
	}
	for _, e := range s.Queue {
		if e.IsGroup() && e.GroupID == id {
			return fmt.Errorf("%w: %s", ErrGroupAlreadyQueued, g.Name)
		}
	}
	for _, p := range g.Players {
		if court, playing := s.playingCourt(p); playing {
			return fmt.Errorf("%w: %s is on court %d", ErrPlayerCurrentlyPlaying, p, court)
		}
	}
	members := make(map[string]bool, len(g.Players))
	for _, p := range g.Players {
		members[p] = true
	}
	q := make([]QueueEntry, 0, len(s.Queue)+1)
	for _, e := range s.Queue {
		if e.Kind == EntryPlayer && members[e.Name] {
			continue
		}
		q = append(q, e)
	}
	for _, p := range g.Players {
		s.ensureRegistered(p)
	}
	s.Queue = append(q, NewGroupEntry(g.ID, g.Name, g.Players, now))
	return nil
}

// OptimizeQueue replaces the queue with SuggestOptimalOrder.
func (s *State) OptimizeQueue() {
	s.Queue = SuggestOptimalOrder(s.Queue, s.RegisteredPlayers)
}
