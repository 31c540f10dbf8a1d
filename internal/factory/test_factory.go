package factory

import (
	"time"

	"github.com/mcoot/banker/internal/dependencies/mocks"
	"github.com/mcoot/banker/internal/events"
	"github.com/mcoot/banker/internal/model"
	"github.com/mcoot/banker/internal/storage/memory"
	"github.com/mcoot/banker/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
	MockIDs   *mocks.MockIDs
	Events    *mocks.RecordingPublisher
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// The hub is running; call Close when done.
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockIDs := mocks.NewMockIDs("id")
	recording := mocks.NewRecordingPublisher()
	logger := testutil.NopLogger()

	hub := events.NewHub(logger)
	go hub.Run()

	app, err := newWithDependencies(store, mockClock, mockIDs, hub, events.Fanout{hub, recording}, model.DefaultCurrency, logger)
	if err != nil {
		// The default currency is always valid
		panic(err)
	}

	return &TestApp{
		App:       app,
		MockClock: mockClock,
		MockIDs:   mockIDs,
		Events:    recording,
	}
}
