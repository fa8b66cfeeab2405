package inference

import (
	"sync"

	"gocv.io/x/gocv"

	"github.com/minsukim/jikimi/internal/decision"
)

// MockProvider is a test implementation of the Provider interface.
// It allows tests to control the classification results per call.
type MockProvider struct {
	mu     sync.Mutex
	preds  []decision.Prediction
	queue  [][]decision.Prediction
	err    error
	calls  int
	closed bool
}

// NewMockProvider creates a new MockProvider instance.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

// SetPredictions sets the predictions returned by every Classify call.
func (m *MockProvider) SetPredictions(preds []decision.Prediction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.preds = preds
}

// QueuePredictions appends a one-shot result; queued results are consumed in
// order before falling back to the fixed predictions.
func (m *MockProvider) QueuePredictions(preds []decision.Prediction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, preds)
}

// SetError sets the error that will be returned by Classify.
func (m *MockProvider) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Classify has been invoked.
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Classify returns the pre-configured predictions or error.
func (m *MockProvider) Classify(frame *gocv.Mat) ([]decision.Prediction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.queue) > 0 {
		preds := m.queue[0]
		m.queue = m.queue[1:]
		return preds, nil
	}
	return m.preds, nil
}

// Close marks the provider closed.
func (m *MockProvider) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (m *MockProvider) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// GroundPredictions returns a preset frame dominated by a ground label.
func GroundPredictions() []decision.Prediction {
	return []decision.Prediction{
		{Label: "평지", Probability: 0.97},
		{Label: "stairs", Probability: 0.02},
		{Label: "pothole", Probability: 0.01},
	}
}

// DangerPredictions returns a preset frame dominated by a danger label.
func DangerPredictions() []decision.Prediction {
	return []decision.Prediction{
		{Label: "평지", Probability: 0.03},
		{Label: "stairs", Probability: 0.95},
		{Label: "pothole", Probability: 0.02},
	}
}
