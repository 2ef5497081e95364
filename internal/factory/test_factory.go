package factory

import (
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/rushmax/internal/dependencies/mocks"
	"github.com/mcoot/rushmax/internal/services/lobby"
	"github.com/mcoot/rushmax/internal/services/registry"
	"github.com/mcoot/rushmax/internal/storage/memory"
	"github.com/mcoot/rushmax/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	lobbyCfg := lobby.DefaultConfig()
	lobbyCfg.PasswordCost = bcrypt.MinCost

	cfg := Config{
		QuestionsPerGame: 10,
		Registry:         registry.DefaultConfig(),
		Lobby:            lobbyCfg,
	}
	app := newWithDependencies(store, mockClock, mockRandom, cfg, &http.Client{Timeout: 5 * time.Second}, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// LoadTestQuestions fills the bank with n generated questions
func (t *TestApp) LoadTestQuestions(n int) {
	t.Questions.LoadQuestions(testutil.Questions(n))
}
