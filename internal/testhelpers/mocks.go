// Package testhelpers provides shared test doubles for the
// classification service. The mocks count invocations so tests can
// assert which pipeline stages ran.
package testhelpers

import (
	"context"
	"sync"

	"github.com/veritrust/classifier/internal/domain"
)

// MockReviewProvider implements the review inference boundary with a
// fixed response and an invocation counter.
type MockReviewProvider struct {
	mu      sync.Mutex
	calls   int
	Verdict *domain.ReviewVerdict
	Err     error
}

// ClassifyReview returns the configured verdict or error.
func (m *MockReviewProvider) ClassifyReview(_ context.Context, _ string) (*domain.ReviewVerdict, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Verdict == nil {
		return nil, nil
	}
	v := *m.Verdict
	return &v, nil
}

// Calls returns how many times ClassifyReview ran.
func (m *MockReviewProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockCounterfeitDetector implements the intake inference boundary
// with a fixed response and an invocation counter.
type MockCounterfeitDetector struct {
	mu      sync.Mutex
	calls   int
	Verdict *domain.CounterfeitVerdict
	Err     error
}

// Detect returns the configured verdict or error.
func (m *MockCounterfeitDetector) Detect(_ context.Context, _ *domain.ProductIntakeRequest) (*domain.CounterfeitVerdict, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Verdict == nil {
		return nil, nil
	}
	v := *m.Verdict
	return &v, nil
}

// Calls returns how many times Detect ran.
func (m *MockCounterfeitDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
