package questions

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/goccy/go-json"

	"github.com/mcoot/rushmax/internal/dependencies/random"
	"github.com/mcoot/rushmax/internal/model"
)

// Service is the in-memory question bank: loaded once, sampled per game
type Service struct {
	random random.Random
	logger *slog.Logger

	mu        sync.RWMutex
	questions []model.Question
}

// New creates an empty question bank
func New(random random.Random, logger *slog.Logger) *Service {
	return &Service{
		random: random,
		logger: logger,
	}
}

// rawQuestion accepts the loose field names found in question files
type rawQuestion struct {
	ID       any      `json:"id"`
	Question string   `json:"question"`
	Prompt   string   `json:"prompt"`
	Q        string   `json:"q"`
	Text     string   `json:"text"`
	Answer   string   `json:"answer"`
	Answers  []string `json:"answers"`
}

func (r rawQuestion) toModel(index int) model.Question {
	id := formatID(r.ID)
	if id == "" {
		id = strconv.Itoa(index)
	}

	prompt := firstNonEmpty(r.Question, r.Prompt, r.Q, r.Text, id)

	answers := r.Answers
	if len(answers) == 0 && r.Answer != "" {
		answers = []string{r.Answer}
	}

	return model.Question{ID: id, Prompt: prompt, Answers: answers}
}

// LoadFromFile loads a JSON array of questions
func (s *Service) LoadFromFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var raw []rawQuestion
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parsing question bank %s: %w", path, err)
	}

	questions := make([]model.Question, len(raw))
	for i, r := range raw {
		questions[i] = r.toModel(i)
	}
	s.LoadQuestions(questions)

	s.logger.Info("question bank loaded",
		slog.String("path", path),
		slog.Int("count", len(questions)),
	)
	return nil
}

// LoadQuestions replaces the bank (useful for testing)
func (s *Service) LoadQuestions(questions []model.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions = append([]model.Question(nil), questions...)
}

// Count returns the bank size
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.questions)
}

// Sample draws up to n questions without replacement. The draw and the returned
// order are randomised independently. Answers are included; callers sanitise.
func (s *Service) Sample(n int) []model.Question {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n = min(n, len(s.questions))
	if n <= 0 {
		return []model.Question{}
	}

	// partial Fisher-Yates over indices
	idx := make([]int, len(s.questions))
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < n; i++ {
		j := i + s.random.Intn(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
	}

	sampled := make([]model.Question, n)
	for i := 0; i < n; i++ {
		sampled[i] = s.questions[idx[i]]
	}
	random.Shuffle(s.random, len(sampled), func(i, j int) {
		sampled[i], sampled[j] = sampled[j], sampled[i]
	})
	return sampled
}

// SamplePublic draws up to n questions with answers stripped
func (s *Service) SamplePublic(n int) []model.PublicQuestion {
	sampled := s.Sample(n)
	public := make([]model.PublicQuestion, len(sampled))
	for i, q := range sampled {
		public[i] = q.Sanitize()
	}
	return public
}

// SoloQuestions returns n questions with answers for local validation; n is clipped to [1, bank size]
func (s *Service) SoloQuestions(n int) ([]model.Question, error) {
	if s.Count() == 0 {
		return nil, model.ErrNoQuestions
	}
	return s.Sample(max(1, n)), nil
}

func formatID(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return fmt.Sprint(id)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// Interface for dependency injection
type ServiceInterface interface {
	LoadFromFile(ctx context.Context, path string) error
	LoadQuestions(questions []model.Question)
	Count() int
	Sample(n int) []model.Question
	SamplePublic(n int) []model.PublicQuestion
	SoloQuestions(n int) ([]model.Question, error)
}

var _ ServiceInterface = (*Service)(nil)
