package storage

import "github.com/mauv0809/courtside/internal/rotation"

// Store persists the facility snapshot and the long-term game archive.
type Store interface {
	// Load returns the saved snapshot, or ErrNoSnapshot on a fresh database.
	Load() (*rotation.State, error)
	Save(state *rotation.State) error
	ArchiveGame(record rotation.GameRecord) error
	RecentGames(limit int) ([]rotation.GameRecord, error)
	CountGames() (int, error)
	Clear() error
}
