package rotation

import (
	"fmt"
	"math"
	"time"
)

// RentalWarningWindow is how close to its end a rental starts to warn.
const RentalWarningWindow = 5 * time.Minute

// DefaultRenter is recorded when a rental is booked without a name.
const DefaultRenter = "Private Rental"

// UpdateScore sets one team's score on a court.
func (s *State) UpdateScore(courtID int, team Team, value int) error {
	c, err := s.court(courtID)
	if err != nil {
		return err
	}
	if value < 0 {
		return fmt.Errorf("%w: score %d", ErrInvalidArgument, value)
	}
	switch team {
	case Team1:
		c.Team1Score = value
	case Team2:
		c.Team2Score = value
	default:
		return fmt.Errorf("%w: team %d", ErrInvalidArgument, team)
	}
	return nil
}

// AssignCourtSkill restricts an idle court to one skill level; nil clears it.
func (s *State) AssignCourtSkill(courtID int, level *SkillLevel) error {
	c, err := s.court(courtID)
	if err != nil {
		return err
	}
	if c.Active {
		return fmt.Errorf("%w: court %d", ErrCourtNotIdle, courtID)
	}
	if level == nil {
		c.AssignedSkillLevel = nil
		return nil
	}
	l, err := ParseSkillLevel(string(*level))
	if err != nil {
		return err
	}
	c.AssignedSkillLevel = &l
	return nil
}

func (s *State) StartTimer(courtID int) error {
	c, err := s.court(courtID)
	if err != nil {
		return err
	}
	c.TimerPaused = false
	return nil
}

func (s *State) PauseTimer(courtID int) error {
	c, err := s.court(courtID)
	if err != nil {
		return err
	}
	c.TimerPaused = true
	return nil
}

// UpdateTimerElapsed records the displayed game clock for a court.
func (s *State) UpdateTimerElapsed(courtID int, elapsed time.Duration) error {
	c, err := s.court(courtID)
	if err != nil {
		return err
	}
	if elapsed < 0 {
		return fmt.Errorf("%w: elapsed %s", ErrInvalidArgument, elapsed)
	}
	c.TimerElapsed = elapsed
	return nil
}

func hoursToDuration(hours float64) time.Duration {
	return time.Duration(math.Round(hours * float64(time.Hour)))
}

// ScheduleCourt rents an idle court out for the given hours, replacing any
// earlier rental.
func (s *State) ScheduleCourt(courtID int, hours float64, rentedBy string, now time.Time) error {
	c, err := s.court(courtID)
	if err != nil {
		return err
	}
	if c.Active {
		return fmt.Errorf("%w: court %d has a game in progress", ErrCourtNotIdle, courtID)
	}
	if hours <= 0 || math.IsNaN(hours) || math.IsInf(hours, 0) {
		return fmt.Errorf("%w: rental hours %v", ErrInvalidArgument, hours)
	}
	if rentedBy == "" {
		rentedBy = DefaultRenter
	}
	s.CourtSchedules[courtID] = CourtSchedule{
		UnavailableUntil: now.Add(hoursToDuration(hours)),
		RentedBy:         rentedBy,
	}
	return nil
}

// IsCourtAvailable reports whether no live rental blocks the court. An expired
// rental is cleared as a side effect.
func (s *State) IsCourtAvailable(courtID int, now time.Time) bool {
	sched, ok := s.CourtSchedules[courtID]
	if !ok {
		return true
	}
	if sched.Live(now) {
		return false
	}
	delete(s.CourtSchedules, courtID)
	return true
}

// courtFree is the read-only form of IsCourtAvailable.
func (s *State) courtFree(courtID int, now time.Time) bool {
	sched, ok := s.CourtSchedules[courtID]
	return !ok || !sched.Live(now)
}

// ExtendSchedule pushes an existing rental's end back and re-arms its warning.
func (s *State) ExtendSchedule(courtID int, hours float64) error {
	sched, ok := s.CourtSchedules[courtID]
	if !ok {
		return fmt.Errorf("%w: court %d", ErrScheduleNotFound, courtID)
	}
	if hours <= 0 || math.IsNaN(hours) || math.IsInf(hours, 0) {
		return fmt.Errorf("%w: rental hours %v", ErrInvalidArgument, hours)
	}
	sched.UnavailableUntil = sched.UnavailableUntil.Add(hoursToDuration(hours))
	sched.WarningShown = false
	s.CourtSchedules[courtID] = sched
	return nil
}

// ClearSchedule drops any rental on the court.
func (s *State) ClearSchedule(courtID int) {
	delete(s.CourtSchedules, courtID)
}

func (s *State) MarkWarningShown(courtID int) {
	sched, ok := s.CourtSchedules[courtID]
	if !ok {
		return
	}
	sched.WarningShown = true
	s.CourtSchedules[courtID] = sched
}

// RentalWarnings returns rentals ending within RentalWarningWindow that have
// not warned yet, and marks them warned. Results are ordered by court id.
func (s *State) RentalWarnings(now time.Time) []RentalWarning {
	var warnings []RentalWarning
	for _, c := range s.Courts {
		sched, ok := s.CourtSchedules[c.ID]
		if !ok || sched.WarningShown {
			continue
		}
		remaining := sched.UnavailableUntil.Sub(now)
		if remaining <= 0 || remaining > RentalWarningWindow {
			continue
		}
		s.MarkWarningShown(c.ID)
		warnings = append(warnings, RentalWarning{CourtID: c.ID, RentedBy: sched.RentedBy, Remaining: remaining})
	}
	return warnings
}
