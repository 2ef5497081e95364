package testutil

import (
	"fmt"

	"github.com/mcoot/rushmax/internal/model"
)

// Questions builds n distinct questions with ids q1..qn
func Questions(n int) []model.Question {
	questions := make([]model.Question, n)
	for i := range questions {
		questions[i] = model.Question{
			ID:      fmt.Sprintf("q%d", i+1),
			Prompt:  fmt.Sprintf("Question %d?", i+1),
			Answers: []string{fmt.Sprintf("answer %d", i+1)},
		}
	}
	return questions
}
