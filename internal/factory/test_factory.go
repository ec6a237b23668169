package factory

import (
	"time"

	"github.com/sfines/sdd-process-example/internal/dependencies/mocks"
	"github.com/sfines/sdd-process-example/internal/services/room"
	"github.com/sfines/sdd-process-example/internal/storage/memory"
	"github.com/sfines/sdd-process-example/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	Memory     *memory.Storage
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	return NewTestAppWithConfig(room.DefaultConfig())
}

// NewTestAppWithConfig creates a test App with the given room limits
func NewTestAppWithConfig(roomCfg room.Config) *TestApp {
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	store := memory.New(mockClock)

	app := newWithDependencies(store, mockClock, mockRandom, roomCfg, []string{"*"}, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		Memory:     store,
	}
}
