package rotation

import (
	"fmt"
	"math"
)

// UpdateSettings applies a partial update. The game mode can only change while
// every court is idle, and the court count cannot drop below an active court.
func (s *State) UpdateSettings(patch SettingsPatch) error {
	next := s.Settings
	if patch.NumCourts != nil {
		next.NumCourts = *patch.NumCourts
	}
	if patch.GameMode != nil {
		mode, err := ParseGameMode(string(*patch.GameMode))
		if err != nil {
			return err
		}
		next.GameMode = mode
	}
	if patch.GameDuration != nil {
		next.GameDuration = *patch.GameDuration
	}
	if patch.RotationRule != nil {
		rule, err := ParseRotationRule(string(*patch.RotationRule))
		if err != nil {
			return err
		}
		next.RotationRule = rule
	}
	applyBool(&next.AutoTimer, patch.AutoTimer)
	applyBool(&next.EnableNotifications, patch.EnableNotifications)
	applyBool(&next.SkillMatchingEnabled, patch.SkillMatchingEnabled)
	applyBool(&next.ShowCourtTimers, patch.ShowCourtTimers)
	applyBool(&next.EnableManualScoring, patch.EnableManualScoring)
	applyBool(&next.AutoTeamBalancing, patch.AutoTeamBalancing)
	applyBool(&next.StrictSkillMatching, patch.StrictSkillMatching)
	applyBool(&next.EnableCourtSkillAssignment, patch.EnableCourtSkillAssignment)
	applyBool(&next.EnableVoiceAnnouncements, patch.EnableVoiceAnnouncements)
	if patch.VoiceType != nil {
		next.VoiceType = *patch.VoiceType
	}
	if err := validateSettings(next); err != nil {
		return err
	}

	if next.GameMode != s.Settings.GameMode && s.ActiveCourts() > 0 {
		return fmt.Errorf("%w: game mode cannot change while games are in progress", ErrCourtNotIdle)
	}
	for _, c := range s.Courts {
		if c.Active && c.ID > next.NumCourts {
			return fmt.Errorf("%w: court %d is in use", ErrCourtNotIdle, c.ID)
		}
	}
	if next.GameMode != s.Settings.GameMode {
		need := next.PlayersNeeded()
		for _, g := range s.Groups {
			if len(g.Players) > need {
				return fmt.Errorf("%w: group %s has %d players, %s needs %d", ErrGroupSizeMismatch, g.Name, len(g.Players), next.GameMode, need)
			}
		}
	}

	s.Settings = next
	s.layoutCourts()
	return nil
}

func applyBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// ResetAll returns the facility to a fresh install with the given settings.
func (s *State) ResetAll(settings Settings) error {
	fresh, err := New(settings)
	if err != nil {
		return err
	}
	*s = *fresh
	return nil
}

// Statistics summarises the game history and registry.
func (s *State) Statistics() Statistics {
	st := Statistics{
		TotalGames:   len(s.GameHistory),
		TotalPlayers: len(s.RegisteredPlayers),
	}
	for _, g := range s.GameHistory {
		st.TotalPlayTime += g.Duration
	}
	if st.TotalGames > 0 {
		st.AverageGameTime = int(math.Round(float64(st.TotalPlayTime) / float64(st.TotalGames)))
	}
	return st
}
