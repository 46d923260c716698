package mocks

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/latencylab/edge-placement-rl/pkg/models"
)

// MockLatencySource provides a controllable test implementation of the
// latency source the placement loop queries. Responses are closed-form
// so assertions can predict them, failures are injectable per call or
// by rate, and every query is recorded for inspection.
type MockLatencySource struct {
	mu sync.Mutex

	// Response shape, milliseconds
	baseEdgeMs   float64
	baseCloudMs  float64
	loadFactorMs float64

	// Failure injection
	failureRate float64 // probability per call
	failNext    int     // unconditional failures before recovering

	rng   *rand.Rand
	calls []Query
}

// Query records one latency request
type Query struct {
	Node   models.NodeType
	App    models.AppType
	SizeMB float64
	Load   float64
}

// NewMockLatencySource creates a mock with flat, predictable responses
func NewMockLatencySource(seed int64) *MockLatencySource {
	return &MockLatencySource{
		baseEdgeMs:   5.0,
		baseCloudMs:  25.0,
		loadFactorMs: 20.0,
		rng:          rand.New(rand.NewSource(seed)),
	}
}

// SetBases overrides the per-tier response in milliseconds
func (m *MockLatencySource) SetBases(edgeMs, cloudMs float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.baseEdgeMs = edgeMs
	m.baseCloudMs = cloudMs
}

// SetFailureRate makes a fraction of calls fail. A rate of 1.0 fails
// every call.
func (m *MockLatencySource) SetFailureRate(rate float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failureRate = rate
}

// FailNext forces the next n calls to fail regardless of rate
func (m *MockLatencySource) FailNext(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = n
}

// Latency implements models.LatencySource with a deterministic linear
// response, returning seconds
func (m *MockLatencySource) Latency(node models.NodeType, app models.AppType, taskSizeMB, nodeLoad float64) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, Query{Node: node, App: app, SizeMB: taskSizeMB, Load: nodeLoad})

	if m.failNext > 0 {
		m.failNext--
		return 0, fmt.Errorf("injected failure")
	}
	if m.failureRate > 0 && m.rng.Float64() < m.failureRate {
		return 0, fmt.Errorf("injected failure at rate %.2f", m.failureRate)
	}

	base := m.baseEdgeMs
	if node == models.CLOUD {
		base = m.baseCloudMs
	}
	return (base + m.loadFactorMs*nodeLoad) / 1000.0, nil
}

// CallCount returns how many queries the mock has served
func (m *MockLatencySource) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Calls returns a copy of the recorded queries
func (m *MockLatencySource) Calls() []Query {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]Query, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// Reset clears recorded queries and failure injection
func (m *MockLatencySource) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.failureRate = 0
	m.failNext = 0
}
