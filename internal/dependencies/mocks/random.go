package mocks

import (
	"sync"

	"github.com/sfines/sdd-process-example/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing
type MockRandom struct {
	mu sync.Mutex

	// IntnResults is a queue of results to return from Intn
	IntnResults []int
	intnIndex   int

	// IntRangeResults is a queue of results to return from IntRange
	IntRangeResults []int
	intRangeIndex   int
	intRangeCalls   int

	// StringResults is a queue of results to return from String
	StringResults []string
	stringIndex   int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

// Intn returns the next queued result, or 0 if none remaining
func (r *MockRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.intnIndex >= len(r.IntnResults) {
		return 0
	}
	result := r.IntnResults[r.intnIndex]
	r.intnIndex++
	return result
}

// IntRange returns the next queued result, or lo if none remaining
func (r *MockRandom) IntRange(lo, hi int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.intRangeCalls++
	if r.intRangeIndex >= len(r.IntRangeResults) {
		return lo
	}
	result := r.IntRangeResults[r.intRangeIndex]
	r.intRangeIndex++
	return result
}

// String returns the next queued result, or empty string if none remaining
func (r *MockRandom) String(length int, alphabet string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stringIndex >= len(r.StringResults) {
		return ""
	}
	result := r.StringResults[r.stringIndex]
	r.stringIndex++
	return result
}

// QueueIntn adds values to the Intn result queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.IntnResults = append(r.IntnResults, values...)
}

// QueueIntRange adds values to the IntRange result queue
func (r *MockRandom) QueueIntRange(values ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.IntRangeResults = append(r.IntRangeResults, values...)
}

// QueueString adds values to the String result queue
func (r *MockRandom) QueueString(values ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.StringResults = append(r.StringResults, values...)
}

// IntRangeCalls returns how many times IntRange has been called
func (r *MockRandom) IntRangeCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.intRangeCalls
}

// Reset clears all queued results
func (r *MockRandom) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.IntnResults = nil
	r.intnIndex = 0
	r.IntRangeResults = nil
	r.intRangeIndex = 0
	r.intRangeCalls = 0
	r.StringResults = nil
	r.stringIndex = 0
}
