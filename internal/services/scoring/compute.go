package scoring

import (
	"math"
	"strings"

	"github.com/mcoot/rushmax/internal/model"
)

const (
	// secondsPerQuestion is the par time used for the RTA time bonus
	secondsPerQuestion = 5.0
	// maxTimeRatio caps how much faster than par a run is rewarded
	maxTimeRatio   = 5.0
	timeBonusScale = 200
)

// NormalizeMode lowercases the mode, defaulting to solo
func NormalizeMode(mode string) string {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode == "" {
		return model.ModeSolo
	}
	return mode
}

// Compute derives the canonical score from raw telemetry. RTA runs use the
// accuracy plus time bonus formula; every other mode is scored as solo.
func Compute(sub model.ScoreSubmission) (model.ScoreBreakdown, error) {
	correct := sub.CorrectCount
	total := correct
	if sub.TotalQuestions != nil {
		total = *sub.TotalQuestions
	}
	if correct < 0 || total < 0 || sub.TimeSeconds < 0 || math.IsNaN(sub.TimeSeconds) || math.IsInf(sub.TimeSeconds, 0) {
		return model.ScoreBreakdown{}, model.ErrInvalidSubmission
	}

	b := model.ScoreBreakdown{
		Mode:    NormalizeMode(sub.Mode),
		Correct: correct,
		Total:   total,
		Wrong:   max(0, total-correct),
	}
	if total > 0 {
		b.Accuracy = float64(correct) / float64(total)
	}

	if b.Mode == model.ModeRTA {
		if total > 0 {
			b.Base = int(math.Floor(b.Accuracy * 1000))
		}
		b.ExpectedTime = secondsPerQuestion * float64(total)
		if sub.TimeSeconds > 0 {
			ratio := math.Min(b.ExpectedTime/sub.TimeSeconds, maxTimeRatio)
			b.TimeBonus = int(math.Floor(ratio * timeBonusScale))
		}
		b.Canonical = b.Base + b.TimeBonus
		return b, nil
	}

	accuracyBonus := 0
	if total > 0 {
		accuracyBonus = int(math.Floor(b.Accuracy * 50))
	}
	b.Base = correct * 100
	b.Canonical = b.Base - b.Wrong*10 + accuracyBonus
	return b, nil
}
