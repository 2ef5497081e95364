package model

import "strings"

// Rule is a named game variant controlling question count
type Rule string

const (
	RuleClassic   Rule = "classic"
	RuleSpeed     Rule = "speed"
	RuleChallenge Rule = "challenge"
)

// SpeedQuestionCount is the fixed question count for the speed rule
const SpeedQuestionCount = 5

// ParseRule normalises a rule name, defaulting to classic when empty
func ParseRule(s string) (Rule, error) {
	switch r := Rule(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return RuleClassic, nil
	case RuleClassic, RuleSpeed, RuleChallenge:
		return r, nil
	default:
		return "", ErrInvalidRule
	}
}

// ValidRules returns all rule names
func ValidRules() []Rule {
	return []Rule{RuleClassic, RuleSpeed, RuleChallenge}
}

// QuestionCount returns how many questions a game of this rule asks,
// given the configured classic count. The result is not clipped to the bank size.
func (r Rule) QuestionCount(classic int) int {
	switch r {
	case RuleSpeed:
		return SpeedQuestionCount
	case RuleChallenge:
		return max(10, classic+5)
	default:
		return classic
	}
}
