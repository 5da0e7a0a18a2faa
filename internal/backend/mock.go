// internal/backend/mock.go
package backend

import (
	"sync"
	"time"
)

// Mock is a test double for a backend.
type Mock struct {
	mu sync.Mutex

	state      State
	loadErr    error
	loadCalls  []LoadRequest
	playCalls  int
	pauseCalls int
	seekCalls  []time.Duration
	speedCalls []float64
	stopCalls  int
	events     chan Event
	closed     bool

	// LoadDuration is what State reports as media duration after a
	// successful Load, standing in for resolved metadata.
	LoadDuration time.Duration
}

// NewMock creates a new mock backend for testing.
func NewMock() *Mock {
	return &Mock{
		events:       make(chan Event, 64),
		LoadDuration: 5 * time.Minute,
	}
}

func (m *Mock) Load(req LoadRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadCalls = append(m.loadCalls, req)
	if m.loadErr != nil {
		return m.loadErr
	}
	m.state.Index = req.StartIndex
	m.state.Position = req.StartPosition
	m.state.Duration = m.LoadDuration
	return nil
}

func (m *Mock) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playCalls++
	m.state.Playing = true
	return nil
}

func (m *Mock) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauseCalls++
	m.state.Playing = false
	return nil
}

func (m *Mock) Seek(pos time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seekCalls = append(m.seekCalls, pos)
	m.state.Position = pos
	return nil
}

func (m *Mock) SetSpeed(multiplier float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.speedCalls = append(m.speedCalls, multiplier)
	return nil
}

func (m *Mock) SeekToChapter(index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Index = index
	m.state.Position = 0
	return nil
}

func (m *Mock) SetVoiceEnhance(_ bool) error { return nil }

func (m *Mock) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopCalls++
	m.state = State{}
	return nil
}

func (m *Mock) State() (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, nil
}

func (m *Mock) Events() <-chan Event {
	return m.events
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.events)
	}
	return nil
}

// Test helpers

// Emit injects an event as if the backend pushed it.
func (m *Mock) Emit(e Event) { m.events <- e }

func (m *Mock) SetState(s State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s
}

func (m *Mock) SetLoadError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

func (m *Mock) LoadCalls() []LoadRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]LoadRequest(nil), m.loadCalls...)
}

func (m *Mock) PlayCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playCalls
}

func (m *Mock) PauseCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pauseCalls
}

func (m *Mock) SeekCalls() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.seekCalls...)
}

func (m *Mock) SpeedCalls() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.speedCalls...)
}

func (m *Mock) StopCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopCalls
}

func (m *Mock) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
