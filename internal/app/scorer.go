package app

import (
	"strings"

	"eduquiz-service/internal/domain"
)

// Score grades a submission against the quiz's answer key. Answers are keyed by
// 1-based question position; a missing answer counts as incorrect. Matching is
// case-insensitive and ignores leading/trailing whitespace. Pure function.
func Score(questions []domain.Question, answers map[int]string) int {
	score := 0
	for i, q := range questions {
		submitted, ok := answers[i+1]
		if !ok {
			continue
		}
		if answersEqual(submitted, q.Answer) {
			score++
		}
	}
	return score
}

func answersEqual(submitted, key string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(key))
}
