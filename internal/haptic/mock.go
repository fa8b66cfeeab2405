package haptic

import (
	"sync"
	"time"
)

// MockActuator records every vibration command for tests.
type MockActuator struct {
	mu    sync.Mutex
	calls []time.Duration
	err   error
}

// NewMockActuator creates a recording actuator.
func NewMockActuator() *MockActuator {
	return &MockActuator{}
}

// Vibrate records the command and returns the configured error, if any.
func (m *MockActuator) Vibrate(d time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, d)
	return m.err
}

// Calls returns a copy of the recorded commands in order.
func (m *MockActuator) Calls() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.calls...)
}

// Last returns the most recent command, or -1 if none were recorded.
func (m *MockActuator) Last() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return -1
	}
	return m.calls[len(m.calls)-1]
}

// SetError makes subsequent Vibrate calls fail with err.
func (m *MockActuator) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Reset clears the recorded commands.
func (m *MockActuator) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}
