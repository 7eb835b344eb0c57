package club

import (
	"time"

	"github.com/mauv0809/courtside/internal/rotation"
)

// ClubService is the single writer over the facility state. Every mutation is
// serialized, applied to the rotation engine with the service clock, persisted
// and announced on the event bus.
type ClubService interface {
	Snapshot() *rotation.State
	// Now is the service clock every mutation is stamped with.
	Now() time.Time

	JoinQueue(name string) error
	LeaveQueue(index int) bool
	LeaveQueueByName(name string) error
	ReorderQueue(from, to int) error
	OptimizeQueue() error

	CreateGroup(name string, players []string) (rotation.Group, error)
	DeleteGroup(id string) error
	EnqueueGroup(id string) error

	StartGame(courtID int) (rotation.Selection, error)
	StartNextGame() (int, rotation.Selection, error)
	EndGame(courtID int) (rotation.GameRecord, error)
	UpdateScore(courtID int, team rotation.Team, value int) error
	AssignCourtSkill(courtID int, level *rotation.SkillLevel) error
	StartTimer(courtID int) error
	PauseTimer(courtID int) error
	UpdateTimerElapsed(courtID int, elapsed time.Duration) error

	ScheduleCourt(courtID int, hours float64, rentedBy string) error
	ExtendSchedule(courtID int, hours float64) error
	ClearSchedule(courtID int) error
	IsCourtAvailable(courtID int) bool
	RentalWarnings() []rotation.RentalWarning

	SetSkillLevel(name string, level rotation.SkillLevel) error
	BulkRegister(names []string) (added, skipped int, err error)
	UpdateSettings(patch rotation.SettingsPatch) error
	ResetAll() error

	NextGamePreview() (rotation.Preview, error)
	EstimatedWait(index int) (int, error)
	Stats() (Stats, error)
	History(limit int) ([]rotation.GameRecord, error)
}
