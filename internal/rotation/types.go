package rotation

import (
	"fmt"
	"strings"
	"time"
)

// SkillLevel is a player's self-declared playing level.
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
	SkillProfessional SkillLevel = "professional"
)

// SkillLevels lists every level from lowest to highest.
var SkillLevels = []SkillLevel{SkillBeginner, SkillIntermediate, SkillAdvanced, SkillProfessional}

// Value returns the numeric scale used for matching (beginner=1 .. professional=4).
// Unknown levels count as intermediate.
func (l SkillLevel) Value() int {
	switch l {
	case SkillBeginner:
		return 1
	case SkillIntermediate:
		return 2
	case SkillAdvanced:
		return 3
	case SkillProfessional:
		return 4
	}
	return 2
}

// ParseSkillLevel accepts a level name in any case.
func ParseSkillLevel(s string) (SkillLevel, error) {
	level := SkillLevel(strings.ToLower(strings.TrimSpace(s)))
	for _, l := range SkillLevels {
		if l == level {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSkillLevel, s)
}

// GameMode decides how many players a game needs.
type GameMode string

const (
	GameModeSingles GameMode = "singles"
	GameModeDoubles GameMode = "doubles"
)

// PlayersNeeded returns 2 for singles and 4 for doubles.
func (m GameMode) PlayersNeeded() int {
	if m == GameModeSingles {
		return 2
	}
	return 4
}

func ParseGameMode(s string) (GameMode, error) {
	switch mode := GameMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case GameModeSingles, GameModeDoubles:
		return mode, nil
	}
	return "", fmt.Errorf("%w: unknown game mode %q", ErrInvalidArgument, s)
}

// RotationRule is the policy for returning finished players to the queue.
type RotationRule string

const (
	RotationManual       RotationRule = "manual"
	RotationLosersRotate RotationRule = "losersRotate"
	RotationAllRotate    RotationRule = "allRotate"
)

func ParseRotationRule(s string) (RotationRule, error) {
	switch rule := RotationRule(strings.TrimSpace(s)); rule {
	case RotationManual, RotationLosersRotate, RotationAllRotate:
		return rule, nil
	}
	return "", fmt.Errorf("%w: unknown rotation rule %q", ErrInvalidArgument, s)
}

// Player holds the registry entry for one player. The name is the map key.
type Player struct {
	SkillLevel    SkillLevel `json:"skill_level" msgpack:"skill_level"`
	GamesPlayed   int        `json:"games_played" msgpack:"games_played"`
	TotalPlayTime int        `json:"total_play_time" msgpack:"total_play_time"` // minutes
}

// Group is a fixed set of 2-4 players who queue and play together.
type Group struct {
	ID      string   `json:"id" msgpack:"id"`
	Name    string   `json:"name" msgpack:"name"`
	Players []string `json:"players" msgpack:"players"`
}

// EntryKind tags a QueueEntry.
type EntryKind string

const (
	EntryPlayer EntryKind = "player"
	EntryGroup  EntryKind = "group"
)

// QueueEntry is one unit of queue occupancy: a single player or a whole group.
// Kind decides which fields are meaningful; build entries with NewPlayerEntry
// and NewGroupEntry.
type QueueEntry struct {
	Kind     EntryKind `json:"type" msgpack:"type"`
	Name     string    `json:"name" msgpack:"name"`
	GroupID  string    `json:"group_id,omitempty" msgpack:"group_id,omitempty"`
	Players  []string  `json:"players,omitempty" msgpack:"players,omitempty"`
	JoinedAt time.Time `json:"joined_at" msgpack:"joined_at"`
}

func NewPlayerEntry(name string, joinedAt time.Time) QueueEntry {
	return QueueEntry{Kind: EntryPlayer, Name: name, JoinedAt: joinedAt}
}

func NewGroupEntry(id, name string, players []string, joinedAt time.Time) QueueEntry {
	return QueueEntry{
		Kind:     EntryGroup,
		GroupID:  id,
		Name:     name,
		Players:  append([]string(nil), players...),
		JoinedAt: joinedAt,
	}
}

// Members returns the player names this entry occupies the queue with.
func (e QueueEntry) Members() []string {
	switch e.Kind {
	case EntryPlayer:
		return []string{e.Name}
	case EntryGroup:
		return e.Players
	default:
		panic(fmt.Sprintf("rotation: unknown queue entry kind %q", e.Kind))
	}
}

// Size is the number of players the entry contributes to a game.
func (e QueueEntry) Size() int {
	return len(e.Members())
}

func (e QueueEntry) IsGroup() bool { return e.Kind == EntryGroup }

// GroupInfo remembers which group supplied a court's players.
type GroupInfo struct {
	ID      string   `json:"id" msgpack:"id"`
	Name    string   `json:"name" msgpack:"name"`
	Members []string `json:"members" msgpack:"members"`
}

// Court is one playing court. An active court always holds exactly
// PlayersNeeded players and a start time.
type Court struct {
	ID                 int           `json:"id" msgpack:"id"`
	Active             bool          `json:"active" msgpack:"active"`
	Players            []string      `json:"players" msgpack:"players"`
	StartTime          *time.Time    `json:"start_time,omitempty" msgpack:"start_time,omitempty"`
	TimerElapsed       time.Duration `json:"timer_elapsed" msgpack:"timer_elapsed"`
	TimerPaused        bool          `json:"timer_paused" msgpack:"timer_paused"`
	GroupInfo          *GroupInfo    `json:"group_info,omitempty" msgpack:"group_info,omitempty"`
	Team1Score         int           `json:"team1_score" msgpack:"team1_score"`
	Team2Score         int           `json:"team2_score" msgpack:"team2_score"`
	AssignedSkillLevel *SkillLevel   `json:"assigned_skill_level,omitempty" msgpack:"assigned_skill_level,omitempty"`
}

func newCourt(id int) Court {
	return Court{ID: id, Players: []string{}}
}

// Elapsed prefers the recorded timer value and falls back to wall-clock time since start.
func (c Court) Elapsed(now time.Time) time.Duration {
	if c.TimerElapsed > 0 {
		return c.TimerElapsed
	}
	if c.StartTime == nil {
		return 0
	}
	if d := now.Sub(*c.StartTime); d > 0 {
		return d
	}
	return 0
}

// CourtSchedule is a private rental that keeps a court out of rotation.
type CourtSchedule struct {
	UnavailableUntil time.Time `json:"unavailable_until" msgpack:"unavailable_until"`
	RentedBy         string    `json:"rented_by" msgpack:"rented_by"`
	WarningShown     bool      `json:"warning_shown" msgpack:"warning_shown"`
}

// Live reports whether the rental still blocks the court at now.
func (s CourtSchedule) Live(now time.Time) bool {
	return now.Before(s.UnavailableUntil)
}

// GameRecord is an immutable entry in the game history.
type GameRecord struct {
	CourtID    int       `json:"court_id" msgpack:"court_id"`
	Players    []string  `json:"players" msgpack:"players"`
	Duration   int       `json:"duration" msgpack:"duration"` // minutes
	Timestamp  time.Time `json:"timestamp" msgpack:"timestamp"`
	GameMode   GameMode  `json:"game_mode" msgpack:"game_mode"`
	Team1Score *int      `json:"team1_score,omitempty" msgpack:"team1_score,omitempty"`
	Team2Score *int      `json:"team2_score,omitempty" msgpack:"team2_score,omitempty"`
}

// Settings is the facility-wide configuration.
type Settings struct {
	NumCourts                  int          `json:"num_courts" msgpack:"num_courts"`
	GameMode                   GameMode     `json:"game_mode" msgpack:"game_mode"`
	GameDuration               int          `json:"game_duration" msgpack:"game_duration"` // minutes
	RotationRule               RotationRule `json:"rotation_rule" msgpack:"rotation_rule"`
	AutoTimer                  bool         `json:"auto_timer" msgpack:"auto_timer"`
	EnableNotifications        bool         `json:"enable_notifications" msgpack:"enable_notifications"`
	SkillMatchingEnabled       bool         `json:"skill_matching_enabled" msgpack:"skill_matching_enabled"`
	ShowCourtTimers            bool         `json:"show_court_timers" msgpack:"show_court_timers"`
	EnableManualScoring        bool         `json:"enable_manual_scoring" msgpack:"enable_manual_scoring"`
	AutoTeamBalancing          bool         `json:"auto_team_balancing" msgpack:"auto_team_balancing"`
	StrictSkillMatching        bool         `json:"strict_skill_matching" msgpack:"strict_skill_matching"`
	EnableCourtSkillAssignment bool         `json:"enable_court_skill_assignment" msgpack:"enable_court_skill_assignment"`
	EnableVoiceAnnouncements   bool         `json:"enable_voice_announcements" msgpack:"enable_voice_announcements"`
	VoiceType                  string       `json:"voice_type" msgpack:"voice_type"`
}

// DefaultSettings mirrors a fresh install: two doubles courts, 15 minute games.
func DefaultSettings() Settings {
	return Settings{
		NumCourts:           2,
		GameMode:            GameModeDoubles,
		GameDuration:        15,
		RotationRule:        RotationManual,
		AutoTimer:           true,
		EnableNotifications: true,
		ShowCourtTimers:     true,
		VoiceType:           "female",
	}
}

// PlayersNeeded is the number of players per game for the configured mode.
func (s Settings) PlayersNeeded() int {
	return s.GameMode.PlayersNeeded()
}

// SettingsPatch is a partial settings update; nil fields are left alone.
type SettingsPatch struct {
	NumCourts                  *int          `json:"num_courts,omitempty"`
	GameMode                   *GameMode     `json:"game_mode,omitempty"`
	GameDuration               *int          `json:"game_duration,omitempty"`
	RotationRule               *RotationRule `json:"rotation_rule,omitempty"`
	AutoTimer                  *bool         `json:"auto_timer,omitempty"`
	EnableNotifications        *bool         `json:"enable_notifications,omitempty"`
	SkillMatchingEnabled       *bool         `json:"skill_matching_enabled,omitempty"`
	ShowCourtTimers            *bool         `json:"show_court_timers,omitempty"`
	EnableManualScoring        *bool         `json:"enable_manual_scoring,omitempty"`
	AutoTeamBalancing          *bool         `json:"auto_team_balancing,omitempty"`
	StrictSkillMatching        *bool         `json:"strict_skill_matching,omitempty"`
	EnableCourtSkillAssignment *bool         `json:"enable_court_skill_assignment,omitempty"`
	EnableVoiceAnnouncements   *bool         `json:"enable_voice_announcements,omitempty"`
	VoiceType                  *string       `json:"voice_type,omitempty"`
}

// Team identifies one side of a court for scoring.
type Team int

const (
	Team1 Team = 1
	Team2 Team = 2
)

// Teams is a split of a game's players into two sides.
type Teams struct {
	TeamA    []string `json:"team_a"`
	TeamB    []string `json:"team_b"`
	TeamAAvg float64  `json:"team_a_avg"`
	TeamBAvg float64  `json:"team_b_avg"`
}

// SelectionKind says how the next game's players were gathered from the queue head.
type SelectionKind string

const (
	SelectionGroup        SelectionKind = "group"
	SelectionPartialGroup SelectionKind = "partial-group"
	SelectionIndividuals  SelectionKind = "individuals"
	SelectionMixed        SelectionKind = "mixed"
)

// Selection is the set of players the queue would send to the next free court.
type Selection struct {
	Kind     SelectionKind `json:"kind"`
	Players  []string      `json:"players"`
	Consumed int           `json:"consumed"` // queue entries taken from the head
	Group    *GroupInfo    `json:"group,omitempty"`
}

// Preview is the read-only answer to "who plays next, and where".
type Preview struct {
	Selection
	Skills  []SkillLevel `json:"skills"`
	Quality int          `json:"quality"`
	Teams   *Teams       `json:"teams,omitempty"`
	CourtID *int         `json:"court_id,omitempty"`
}

// Statistics summarises the recorded game history.
type Statistics struct {
	TotalGames      int `json:"total_games"`
	TotalPlayTime   int `json:"total_play_time"`
	AverageGameTime int `json:"average_game_time"`
	TotalPlayers    int `json:"total_players"`
}

// RentalWarning flags a rental that is about to end.
type RentalWarning struct {
	CourtID   int           `json:"court_id"`
	RentedBy  string        `json:"rented_by"`
	Remaining time.Duration `json:"remaining"`
}
