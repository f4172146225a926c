package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                 sync.Mutex
	playsRecorded      int
	setsCompleted      int
	gamesCompleted     int
	sessionResyncs     int
	scoringOpDurations []float64
	notifSent          int
	notifFailed        int
	startupTime        float64
}

var _ Metrics = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		scoringOpDurations: make([]float64, 0),
	}
}

func (m *Mock) IncPlaysRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playsRecorded++
}

func (m *Mock) IncSetsCompleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setsCompleted++
}

func (m *Mock) IncGamesCompleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gamesCompleted++
}

func (m *Mock) IncSessionResyncs() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionResyncs++
}

func (m *Mock) ObserveScoringOpDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scoringOpDurations = append(m.scoringOpDurations, duration)
}

func (m *Mock) IncNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifSent++
}

func (m *Mock) IncNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// PlaysRecorded returns the number of times IncPlaysRecorded was called.
func (m *Mock) PlaysRecorded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playsRecorded
}

// SetsCompleted returns the number of times IncSetsCompleted was called.
func (m *Mock) SetsCompleted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setsCompleted
}

// GamesCompleted returns the number of times IncGamesCompleted was called.
func (m *Mock) GamesCompleted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gamesCompleted
}

// SessionResyncs returns the number of times IncSessionResyncs was called.
func (m *Mock) SessionResyncs() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionResyncs
}

// NotifSent returns the number of times IncNotifSent was called.
func (m *Mock) NotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifSent
}

// NotifFailed returns the number of times IncNotifFailed was called.
func (m *Mock) NotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifFailed
}
