package rotation

import (
	"fmt"
	"sort"
)

// HistoryLimit caps the in-memory game history.
const HistoryLimit = 50

// State is the complete facility state. It is the snapshot shape persisted by
// storage layers and is mutated only through its methods, each of which either
// applies fully or returns an error without touching anything.
//
// State is not safe for concurrent use; callers serialize access.
type State struct {
	Courts            []Court               `json:"courts" msgpack:"courts"`
	Queue             []QueueEntry          `json:"queue" msgpack:"queue"`
	RegisteredPlayers map[string]Player     `json:"registered_players" msgpack:"registered_players"`
	Groups            []Group               `json:"groups" msgpack:"groups"`
	GameHistory       []GameRecord          `json:"game_history" msgpack:"game_history"`
	Settings          Settings              `json:"settings" msgpack:"settings"`
	CourtSchedules    map[int]CourtSchedule `json:"court_schedules" msgpack:"court_schedules"`
}

// New returns an empty facility with courts laid out for settings.
func New(settings Settings) (*State, error) {
	if err := validateSettings(settings); err != nil {
		return nil, err
	}
	s := &State{Settings: settings}
	s.Normalize()
	return s, nil
}

// Normalize fills nil collections and lays out exactly Settings.NumCourts
// courts, keeping existing ones. Call it after decoding a snapshot.
func (s *State) Normalize() {
	if s.Queue == nil {
		s.Queue = []QueueEntry{}
	}
	if s.RegisteredPlayers == nil {
		s.RegisteredPlayers = map[string]Player{}
	}
	if s.Groups == nil {
		s.Groups = []Group{}
	}
	if s.GameHistory == nil {
		s.GameHistory = []GameRecord{}
	}
	if s.CourtSchedules == nil {
		s.CourtSchedules = map[int]CourtSchedule{}
	}
	for i := range s.Courts {
		if s.Courts[i].Players == nil {
			s.Courts[i].Players = []string{}
		}
	}
	s.layoutCourts()
}

// layoutCourts resizes the pool to NumCourts. Courts are kept in ascending id order.
func (s *State) layoutCourts() {
	sort.SliceStable(s.Courts, func(i, j int) bool { return s.Courts[i].ID < s.Courts[j].ID })
	n := s.Settings.NumCourts
	courts := make([]Court, 0, n)
	byID := make(map[int]Court, len(s.Courts))
	for _, c := range s.Courts {
		byID[c.ID] = c
	}
	for id := 1; id <= n; id++ {
		if c, ok := byID[id]; ok {
			courts = append(courts, c)
			continue
		}
		courts = append(courts, newCourt(id))
	}
	s.Courts = courts
	for id := range s.CourtSchedules {
		if id < 1 || id > n {
			delete(s.CourtSchedules, id)
		}
	}
}

// Clone returns a deep copy.
func (s *State) Clone() *State {
	c := &State{
		Courts:            make([]Court, len(s.Courts)),
		Queue:             make([]QueueEntry, len(s.Queue)),
		RegisteredPlayers: make(map[string]Player, len(s.RegisteredPlayers)),
		Groups:            make([]Group, len(s.Groups)),
		GameHistory:       make([]GameRecord, len(s.GameHistory)),
		Settings:          s.Settings,
		CourtSchedules:    make(map[int]CourtSchedule, len(s.CourtSchedules)),
	}
	for i, court := range s.Courts {
		court.Players = append([]string{}, court.Players...)
		if court.StartTime != nil {
			t := *court.StartTime
			court.StartTime = &t
		}
		if court.GroupInfo != nil {
			gi := *court.GroupInfo
			gi.Members = append([]string(nil), gi.Members...)
			court.GroupInfo = &gi
		}
		if court.AssignedSkillLevel != nil {
			l := *court.AssignedSkillLevel
			court.AssignedSkillLevel = &l
		}
		c.Courts[i] = court
	}
	for i, e := range s.Queue {
		e.Players = append([]string(nil), e.Players...)
		c.Queue[i] = e
	}
	for name, p := range s.RegisteredPlayers {
		c.RegisteredPlayers[name] = p
	}
	for i, g := range s.Groups {
		g.Players = append([]string(nil), g.Players...)
		c.Groups[i] = g
	}
	for i, r := range s.GameHistory {
		r.Players = append([]string(nil), r.Players...)
		r.Team1Score = copyInt(r.Team1Score)
		r.Team2Score = copyInt(r.Team2Score)
		c.GameHistory[i] = r
	}
	for id, sched := range s.CourtSchedules {
		c.CourtSchedules[id] = sched
	}
	return c
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Validate checks the cross-component invariants: queued players are unique and
// not on an active court, and every active court is full and started.
func (s *State) Validate() error {
	need := s.Settings.PlayersNeeded()
	onCourt := make(map[string]int)
	for _, c := range s.Courts {
		if !c.Active {
			continue
		}
		if len(c.Players) != need {
			return fmt.Errorf("court %d is active with %d players, want %d", c.ID, len(c.Players), need)
		}
		if c.StartTime == nil {
			return fmt.Errorf("court %d is active without a start time", c.ID)
		}
		for _, p := range c.Players {
			onCourt[p] = c.ID
		}
	}
	queued := make(map[string]bool)
	for _, e := range s.Queue {
		for _, p := range e.Members() {
			if queued[p] {
				return fmt.Errorf("player %q is queued more than once", p)
			}
			if id, ok := onCourt[p]; ok {
				return fmt.Errorf("player %q is queued while playing on court %d", p, id)
			}
			queued[p] = true
		}
	}
	return nil
}

func validateSettings(st Settings) error {
	if st.NumCourts < 1 {
		return fmt.Errorf("%w: number of courts must be at least 1", ErrInvalidArgument)
	}
	if _, err := ParseGameMode(string(st.GameMode)); err != nil {
		return err
	}
	if _, err := ParseRotationRule(string(st.RotationRule)); err != nil {
		return err
	}
	if st.GameDuration < 1 {
		return fmt.Errorf("%w: game duration must be positive", ErrInvalidArgument)
	}
	return nil
}

func (s *State) court(id int) (*Court, error) {
	for i := range s.Courts {
		if s.Courts[i].ID == id {
			return &s.Courts[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrCourtNotFound, id)
}

// Court returns a copy of the court with the given id.
func (s *State) Court(id int) (Court, error) {
	c, err := s.court(id)
	if err != nil {
		return Court{}, err
	}
	return *c, nil
}

// playingCourt returns the id of the active court the player is on, if any.
func (s *State) playingCourt(name string) (int, bool) {
	for _, c := range s.Courts {
		if !c.Active {
			continue
		}
		for _, p := range c.Players {
			if p == name {
				return c.ID, true
			}
		}
	}
	return 0, false
}

// queuedIndex returns the position of the entry holding the player, bare or in a group.
func (s *State) queuedIndex(name string) (int, bool) {
	for i, e := range s.Queue {
		for _, p := range e.Members() {
			if p == name {
				return i, true
			}
		}
	}
	return 0, false
}

func (s *State) group(id string) (*Group, int) {
	for i := range s.Groups {
		if s.Groups[i].ID == id {
			return &s.Groups[i], i
		}
	}
	return nil, -1
}

// Group returns a copy of the group with the given id.
func (s *State) Group(id string) (Group, error) {
	g, _ := s.group(id)
	if g == nil {
		return Group{}, fmt.Errorf("%w: %s", ErrGroupNotFound, id)
	}
	return *g, nil
}

// ActiveCourts counts courts with a game in progress.
func (s *State) ActiveCourts() int {
	n := 0
	for _, c := range s.Courts {
		if c.Active {
			n++
		}
	}
	return n
}

// QueuedPlayers counts players waiting, with groups counted by membership.
func (s *State) QueuedPlayers() int {
	n := 0
	for _, e := range s.Queue {
		n += e.Size()
	}
	return n
}
