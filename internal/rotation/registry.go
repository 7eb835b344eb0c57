package rotation

import (
	"fmt"
	"strings"
)

// ensureRegistered adds an unseen player with default skill. Returns true if added.
func (s *State) ensureRegistered(name string) bool {
	if _, ok := s.RegisteredPlayers[name]; ok {
		return false
	}
	s.RegisteredPlayers[name] = Player{SkillLevel: SkillIntermediate}
	return true
}

// BulkRegister registers every unseen name without queueing anyone. Names are
// trimmed and blanks ignored.
func (s *State) BulkRegister(names []string) (added, skipped int) {
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if s.ensureRegistered(name) {
			added++
		} else {
			skipped++
		}
	}
	return added, skipped
}

// SetSkillLevel changes a registered player's level.
func (s *State) SetSkillLevel(name string, level SkillLevel) error {
	if _, err := ParseSkillLevel(string(level)); err != nil {
		return err
	}
	p, ok := s.RegisteredPlayers[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, name)
	}
	p.SkillLevel = level
	s.RegisteredPlayers[name] = p
	return nil
}

// SkillOf returns the player's level, intermediate when unknown.
func (s *State) SkillOf(name string) SkillLevel {
	return skillOf(s.RegisteredPlayers, name)
}

func skillOf(registry map[string]Player, name string) SkillLevel {
	if p, ok := registry[name]; ok && p.SkillLevel != "" {
		return p.SkillLevel
	}
	return SkillIntermediate
}
