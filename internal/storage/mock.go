package storage

import (
	"sync"

	"github.com/mauv0809/courtside/internal/rotation"
)

// MockStore is an in-memory Store for tests. It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	LoadFunc        func() (*rotation.State, error)
	SaveFunc        func(state *rotation.State) error
	ArchiveGameFunc func(record rotation.GameRecord) error

	Saved        *rotation.State
	SaveCalls    int
	ArchiveCalls []rotation.GameRecord
	ClearCalls   int
}

func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Load() (*rotation.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadFunc != nil {
		return m.LoadFunc()
	}
	if m.Saved == nil {
		return nil, ErrNoSnapshot
	}
	return m.Saved.Clone(), nil
}

func (m *MockStore) Save(state *rotation.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	if m.SaveFunc != nil {
		return m.SaveFunc(state)
	}
	m.Saved = state.Clone()
	return nil
}

func (m *MockStore) ArchiveGame(record rotation.GameRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArchiveCalls = append(m.ArchiveCalls, record)
	if m.ArchiveGameFunc != nil {
		return m.ArchiveGameFunc(record)
	}
	return nil
}

func (m *MockStore) RecentGames(limit int) ([]rotation.GameRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.ArchiveCalls)
	if limit > 0 && limit < n {
		n = limit
	}
	records := make([]rotation.GameRecord, 0, n)
	for i := len(m.ArchiveCalls) - 1; i >= 0 && len(records) < n; i-- {
		records = append(records, m.ArchiveCalls[i])
	}
	return records, nil
}

func (m *MockStore) CountGames() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ArchiveCalls), nil
}

func (m *MockStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearCalls++
	m.Saved = nil
	m.ArchiveCalls = nil
	return nil
}
