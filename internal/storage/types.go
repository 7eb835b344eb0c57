package storage

import (
	"database/sql"
	"errors"
	"sync"
)

// ErrNoSnapshot is returned by Load when nothing has been saved yet.
var ErrNoSnapshot = errors.New("no saved facility state")

// store keeps the snapshot as a single msgpack row and archives every
// finished game in its own table, beyond the in-memory history cap.
type store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() int64
}
