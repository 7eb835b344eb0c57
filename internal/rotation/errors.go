package rotation

import "errors"

// Every rejected command returns one of these (possibly wrapped) and leaves the
// state untouched.
var (
	ErrDuplicatePlayer          = errors.New("player already in queue")
	ErrPlayerCurrentlyPlaying   = errors.New("player is currently playing")
	ErrCourtNotIdle             = errors.New("court is not idle")
	ErrCourtUnavailable         = errors.New("court is scheduled for rental")
	ErrGroupSizeMismatch        = errors.New("group size does not fit the game")
	ErrPlayerAlreadyInGroup     = errors.New("player already belongs to a group")
	ErrScheduleNotFound         = errors.New("court has no schedule")
	ErrInsufficientQueueForGame = errors.New("not enough players queued for a game")

	ErrCourtNotActive     = errors.New("court has no game in progress")
	ErrCourtNotFound      = errors.New("court not found")
	ErrGroupNotFound      = errors.New("group not found")
	ErrGroupAlreadyQueued = errors.New("group already in queue")
	ErrPlayerNotFound     = errors.New("player not registered")
	ErrInvalidName        = errors.New("name must not be empty")
	ErrInvalidSkillLevel  = errors.New("invalid skill level")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrNoEligibleCourt    = errors.New("no eligible court")
	ErrSkillMismatch      = errors.New("players do not share a skill level")
)

// Kind returns a stable machine-readable name for an engine error, or "" if err
// is not one of ours.
func Kind(err error) string {
	kinds := []struct {
		err  error
		name string
	}{
		{ErrDuplicatePlayer, "DuplicatePlayer"},
		{ErrPlayerCurrentlyPlaying, "PlayerCurrentlyPlaying"},
		{ErrCourtNotIdle, "CourtNotIdle"},
		{ErrCourtUnavailable, "CourtUnavailable"},
		{ErrGroupSizeMismatch, "GroupSizeMismatch"},
		{ErrPlayerAlreadyInGroup, "PlayerAlreadyInGroup"},
		{ErrScheduleNotFound, "ScheduleNotFound"},
		{ErrInsufficientQueueForGame, "InsufficientQueueForGame"},
		{ErrCourtNotActive, "CourtNotActive"},
		{ErrCourtNotFound, "CourtNotFound"},
		{ErrGroupNotFound, "GroupNotFound"},
		{ErrGroupAlreadyQueued, "GroupAlreadyQueued"},
		{ErrPlayerNotFound, "PlayerNotFound"},
		{ErrInvalidName, "InvalidName"},
		{ErrInvalidSkillLevel, "InvalidSkillLevel"},
		{ErrInvalidArgument, "InvalidArgument"},
		{ErrNoEligibleCourt, "NoEligibleCourt"},
		{ErrSkillMismatch, "SkillMismatch"},
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return ""
}
