package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu              sync.Mutex
	gamesStarted    int
	gamesEnded      int
	gameDurations   []float64
	queueLength     int
	activeCourts    int
	rejected        map[string]int
	eventsPublished int
	eventsFailed    int
	startupTime     float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		gameDurations: make([]float64, 0),
		rejected:      make(map[string]int),
	}
}

func (m *Mock) IncGamesStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gamesStarted++
}

func (m *Mock) IncGamesEnded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gamesEnded++
}

func (m *Mock) ObserveGameDuration(minutes float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gameDurations = append(m.gameDurations, minutes)
}

func (m *Mock) SetQueueLength(players int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queueLength = players
}

func (m *Mock) SetActiveCourts(courts int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activeCourts = courts
}

func (m *Mock) IncRejected(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected[kind]++
}

func (m *Mock) IncEventsPublished() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventsPublished++
}

func (m *Mock) IncEventsFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventsFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// GamesStarted returns the number of times IncGamesStarted was called.
func (m *Mock) GamesStarted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gamesStarted
}

// GamesEnded returns the number of times IncGamesEnded was called.
func (m *Mock) GamesEnded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gamesEnded
}

func (m *Mock) GameDurations() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.gameDurations...)
}

func (m *Mock) QueueLength() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queueLength
}

func (m *Mock) ActiveCourts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeCourts
}

// Rejected returns how often IncRejected was called with kind.
func (m *Mock) Rejected(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rejected[kind]
}

func (m *Mock) EventsPublished() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eventsPublished
}

func (m *Mock) EventsFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eventsFailed
}

// MockStore is an in-memory MetricsStore for tests.
type MockStore struct {
	mu     sync.Mutex
	counts map[string]int

	GetAllFunc func() (map[string]int, error)
}

var _ MetricsStore = (*MockStore)(nil)

// NewMockStore creates an empty counter store.
func NewMockStore() *MockStore {
	return &MockStore{counts: make(map[string]int)}
}

func (m *MockStore) Increment(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
}

func (m *MockStore) GetAll() (map[string]int, error) {
	if m.GetAllFunc != nil {
		return m.GetAllFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int, len(m.counts))
	for k, v := range m.counts {
		out[k] = v
	}
	return out, nil
}

// Count returns the current value of key.
func (m *MockStore) Count(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[key]
}
